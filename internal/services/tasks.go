package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/models"
	"github.com/dmitrijs2005/taskboard/internal/repositories/tasks"
	"github.com/dmitrijs2005/taskboard/internal/storage"
	"github.com/dmitrijs2005/taskboard/internal/timex"
)

// TaskStore owns the task collection.
//
// Contract:
//   - CreateTask assigns the id and sets CreatedAt = UpdatedAt = now.
//   - UpdateTask merges the patch and always bumps UpdatedAt, even when the
//     patch is empty.
//   - DeleteTask removes by id without any authorization check.
//   - Lookups return copies in insertion order.
type TaskStore interface {
	CreateTask(ctx context.Context, in models.NewTask) (models.Task, error)
	UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error

	GetTaskByID(id string) (models.Task, bool)
	GetTasksByUser(accountID string) []models.Task
	FilterTasks(c models.TaskCriteria) []models.Task
	Tasks() []models.Task

	Reload(ctx context.Context) error
}

type taskStore struct {
	store storage.Store
	repo  tasks.Repository
	clock timex.Clock
	log   logging.Logger

	mu    sync.RWMutex
	tasks []models.Task
}

// NewTaskStore returns an empty store; call Reload to fill it.
func NewTaskStore(store storage.Store, repo tasks.Repository, clock timex.Clock, log logging.Logger) TaskStore {
	return &taskStore{
		store: store,
		repo:  repo,
		clock: clock,
		log:   log.With("component", "tasks"),
		tasks: []models.Task{},
	}
}

func (s *taskStore) Reload(ctx context.Context) error {
	all, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	s.mu.Lock()
	s.tasks = all
	s.mu.Unlock()
	return nil
}

func (s *taskStore) Tasks() []models.Task {
	return s.FilterTasks(models.TaskCriteria{})
}

func (s *taskStore) GetTaskByID(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return models.Task{}, false
}

func (s *taskStore) GetTasksByUser(accountID string) []models.Task {
	return s.FilterTasks(models.TaskCriteria{AssignedTo: accountID})
}

func (s *taskStore) FilterTasks(c models.TaskCriteria) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if c.Matches(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

func (s *taskStore) CreateTask(ctx context.Context, in models.NewTask) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	t := models.Task{
		ID:          common.NewID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		AssignedTo:  in.AssignedTo,
		CreatedBy:   in.CreatedBy,
		Documents:   append([]models.Document{}, in.Documents...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	next := append(slices.Clone(s.tasks), t)
	if err := s.commit(ctx, next); err != nil {
		return models.Task{}, err
	}

	s.log.Info(ctx, "task created", "task_id", t.ID, "assigned_to", t.AssignedTo)
	return t.Clone(), nil
}

func (s *taskStore) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("task %s: %w", id, common.ErrNotFound)
	}

	t := patch.Apply(s.tasks[i])
	t.UpdatedAt = s.clock.Now()

	next := slices.Clone(s.tasks)
	next[i] = t
	if err := s.commit(ctx, next); err != nil {
		return models.Task{}, err
	}

	s.log.Info(ctx, "task updated", "task_id", id)
	return t.Clone(), nil
}

func (s *taskStore) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("task %s: %w", id, common.ErrNotFound)
	}

	next := slices.Delete(slices.Clone(s.tasks), i, i+1)
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.log.Info(ctx, "task deleted", "task_id", id)
	return nil
}

// commit persists next and swaps it in. Caller holds mu.
func (s *taskStore) commit(ctx context.Context, next []models.Task) error {
	err := s.store.Atomic(ctx, func(ctx context.Context, w storage.Writer) error {
		return s.repo.Save(ctx, w, next)
	})
	if err != nil {
		s.log.Error(ctx, "failed to persist tasks", "error", err)
		return fmt.Errorf("save tasks: %w", err)
	}
	s.tasks = next
	return nil
}

func (s *taskStore) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
}
