package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/models"
	"github.com/dmitrijs2005/taskboard/internal/timex"
)

func newTask(title, assignee string, st models.Status, due string) models.NewTask {
	return models.NewTask{
		Title: title, Description: title + " details",
		Status: st, Priority: models.PriorityMedium,
		DueDate:    timex.MustParseDate(due),
		AssignedTo: assignee, CreatedBy: "creator",
	}
}

func TestCreateTask(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	in := newTask("T1", "u1", models.StatusTodo, "2099-01-01")
	in.Documents = []models.Document{{ID: "d1", Name: "a.pdf", Type: common.DocumentTypePDF}}

	got, err := e.tasks.CreateTask(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, e.clock.now, got.CreatedAt)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
	assert.Equal(t, in.Documents, got.Documents)

	stored, ok := e.tasks.GetTaskByID(got.ID)
	require.True(t, ok)
	assert.Empty(t, cmp.Diff(got, stored))

	other, err := e.tasks.CreateTask(ctx, in)
	require.NoError(t, err)
	assert.NotEqual(t, got.ID, other.ID)
}

func TestUpdateTask_EmptyPatchOnlyBumpsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	orig, err := e.tasks.CreateTask(ctx, newTask("T1", "u1", models.StatusTodo, "2099-01-01"))
	require.NoError(t, err)

	e.clock.Advance(time.Minute)
	got, err := e.tasks.UpdateTask(ctx, orig.ID, models.TaskPatch{})
	require.NoError(t, err)

	assert.True(t, got.UpdatedAt.After(orig.UpdatedAt))
	want := orig
	want.UpdatedAt = got.UpdatedAt
	assert.Empty(t, cmp.Diff(want, got))
}

func TestUpdateTask_MergesAndAppendsDocuments(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	in := newTask("T1", "u1", models.StatusTodo, "2099-01-01")
	in.Documents = []models.Document{{ID: "d1"}}
	orig, err := e.tasks.CreateTask(ctx, in)
	require.NoError(t, err)

	got, err := e.tasks.UpdateTask(ctx, orig.ID, models.TaskPatch{
		Status:          ptr(models.StatusCompleted),
		AppendDocuments: []models.Document{{ID: "d2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, "T1", got.Title)
	assert.Equal(t, []models.Document{{ID: "d1"}, {ID: "d2"}}, got.Documents)

	_, err = e.tasks.UpdateTask(ctx, "missing", models.TaskPatch{})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	a, err := e.tasks.CreateTask(ctx, newTask("A", "u1", models.StatusTodo, "2099-01-01"))
	require.NoError(t, err)
	b, err := e.tasks.CreateTask(ctx, newTask("B", "u1", models.StatusTodo, "2099-01-01"))
	require.NoError(t, err)

	require.NoError(t, e.tasks.DeleteTask(ctx, a.ID))
	_, ok := e.tasks.GetTaskByID(a.ID)
	assert.False(t, ok)

	all := e.tasks.Tasks()
	require.Len(t, all, 1)
	assert.Equal(t, b.ID, all[0].ID)

	assert.ErrorIs(t, e.tasks.DeleteTask(ctx, a.ID), common.ErrNotFound)
}

func TestFilterTasks_StatusPartitionsTheSet(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	statuses := []models.Status{
		models.StatusTodo, models.StatusCompleted, models.StatusInProgress,
		models.StatusCompleted, models.StatusTodo,
	}
	for i, st := range statuses {
		_, err := e.tasks.CreateTask(ctx, newTask(string(rune('A'+i)), "u1", st, "2099-01-01"))
		require.NoError(t, err)
	}

	seen := map[string]int{}
	total := 0
	for _, st := range models.Statuses {
		got := e.tasks.FilterTasks(models.TaskCriteria{Status: st})
		for _, task := range got {
			assert.Equal(t, st, task.Status)
			seen[task.ID]++
		}
		total += len(got)
	}
	assert.Equal(t, len(statuses), total)
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
	assert.Len(t, e.tasks.FilterTasks(models.TaskCriteria{Status: models.StatusCompleted}), 2)
}

func TestFilterTasks_DateRangeAndAssignee(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	for _, in := range []models.NewTask{
		newTask("early", "u1", models.StatusTodo, "2024-03-01"),
		newTask("mid", "u2", models.StatusTodo, "2024-03-09"),
		newTask("late", "u1", models.StatusTodo, "2024-03-10"),
	} {
		_, err := e.tasks.CreateTask(ctx, in)
		require.NoError(t, err)
	}

	got := e.tasks.FilterTasks(models.TaskCriteria{
		DueFrom: timex.MustParseDate("2024-03-09"),
		DueTo:   timex.MustParseDate("2024-03-10"),
	})
	require.Len(t, got, 2)
	assert.Equal(t, "mid", got[0].Title)
	assert.Equal(t, "late", got[1].Title)

	mine := e.tasks.GetTasksByUser("u1")
	require.Len(t, mine, 2)
	assert.Equal(t, "early", mine[0].Title)
}

func TestTaskStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	in := newTask("T", "u1", models.StatusTodo, "2099-01-01")
	in.Documents = []models.Document{{ID: "d1"}}
	created, err := e.tasks.CreateTask(ctx, in)
	require.NoError(t, err)

	got, _ := e.tasks.GetTaskByID(created.ID)
	got.Title = "mutated"
	got.Documents[0].ID = "mutated"

	again, _ := e.tasks.GetTaskByID(created.ID)
	assert.Equal(t, "T", again.Title)
	assert.Equal(t, "d1", again.Documents[0].ID)
}

func TestTaskStore_PersistFailureLeavesSnapshot(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	orig, err := e.tasks.CreateTask(ctx, newTask("T", "u1", models.StatusTodo, "2099-01-01"))
	require.NoError(t, err)

	e.store.failing.Store(true)
	_, err = e.tasks.CreateTask(ctx, newTask("U", "u1", models.StatusTodo, "2099-01-01"))
	require.ErrorIs(t, err, errDiskFull)
	_, err = e.tasks.UpdateTask(ctx, orig.ID, models.TaskPatch{Title: ptr("changed")})
	require.ErrorIs(t, err, errDiskFull)
	require.ErrorIs(t, e.tasks.DeleteTask(ctx, orig.ID), errDiskFull)

	all := e.tasks.Tasks()
	require.Len(t, all, 1)
	assert.Empty(t, cmp.Diff(orig, all[0]))
}

func TestTaskStore_ReloadReadsPersisted(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	created, err := e.tasks.CreateTask(ctx, newTask("T", "u1", models.StatusTodo, "2099-01-01"))
	require.NoError(t, err)

	fresh := newEnvWith(t, e.store, e.matcher)
	got, ok := fresh.tasks.GetTaskByID(created.ID)
	require.True(t, ok)
	assert.True(t, got.DueDate.Equal(created.DueDate))
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))
}
