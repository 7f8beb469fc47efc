// Package views computes the read-only projections every screen shows:
// task lists, dashboard metrics, analytics and due-date notifications.
//
// Nothing is cached. Each call reads the stores, applies the visibility rule
// for the signed-in account and aggregates from scratch.
package views

import (
	"slices"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/models"
	"github.com/dmitrijs2005/taskboard/internal/policy"
	"github.com/dmitrijs2005/taskboard/internal/timex"
)

type TaskSource interface {
	Tasks() []models.Task
}

type UserSource interface {
	List() []models.Account
}

type SessionSource interface {
	Current() (models.Account, bool)
}

// Options tunes the time windows of the derived views.
type Options struct {
	DueSoonWindow       time.Duration
	RecentWindow        time.Duration
	RecentActivityLimit int
}

func DefaultOptions() Options {
	return Options{
		DueSoonWindow:       3 * 24 * time.Hour,
		RecentWindow:        7 * 24 * time.Hour,
		RecentActivityLimit: 5,
	}
}

type Engine struct {
	tasks   TaskSource
	users   UserSource
	session SessionSource
	clock   timex.Clock
	opts    Options
}

func NewEngine(tasks TaskSource, users UserSource, session SessionSource, clock timex.Clock, opts Options) *Engine {
	def := DefaultOptions()
	if opts.DueSoonWindow <= 0 {
		opts.DueSoonWindow = def.DueSoonWindow
	}
	if opts.RecentWindow <= 0 {
		opts.RecentWindow = def.RecentWindow
	}
	if opts.RecentActivityLimit <= 0 {
		opts.RecentActivityLimit = def.RecentActivityLimit
	}
	return &Engine{tasks: tasks, users: users, session: session, clock: clock, opts: opts}
}

// visible returns the viewer and the tasks they may see.
func (e *Engine) visible() (models.Account, []models.Task, error) {
	viewer, ok := e.session.Current()
	if !ok {
		return models.Account{}, nil, common.ErrNotAuthenticated
	}
	return viewer, policy.VisibleTasks(viewer, e.tasks.Tasks()), nil
}

// ListQuery narrows and orders the task list.
type ListQuery struct {
	Search   string
	Criteria models.TaskCriteria
	SortKey  SortKey
	Order    Order
}

// TaskList returns the visible tasks that match q, sorted.
func (e *Engine) TaskList(q ListQuery) ([]models.Task, error) {
	_, tasks, err := e.visible()
	if err != nil {
		return nil, err
	}
	matched := make([]models.Task, 0, len(tasks))
	for _, t := range Search(tasks, q.Search) {
		if q.Criteria.Matches(t) {
			matched = append(matched, t)
		}
	}
	return SortTasks(matched, q.SortKey, q.Order), nil
}

// SystemSummary is the admin-only block of the dashboard.
type SystemSummary struct {
	Users          int
	Admins         int
	Tasks          int
	Completed      int
	CompletionRate int
}

type Dashboard struct {
	Viewer         models.Account
	Total          int
	Completed      int
	Pending        int
	Overdue        int
	CompletionRate int
	RecentActivity []models.Task
	System         *SystemSummary
}

func (e *Engine) Dashboard() (Dashboard, error) {
	viewer, tasks, err := e.visible()
	if err != nil {
		return Dashboard{}, err
	}
	now := e.clock.Now()

	d := Dashboard{
		Viewer:         viewer,
		Total:          len(tasks),
		Overdue:        len(Overdue(tasks, now)),
		CompletionRate: CompletionRate(tasks),
	}
	for _, t := range tasks {
		if t.IsCompleted() {
			d.Completed++
		}
	}
	d.Pending = d.Total - d.Completed

	recent := slices.Clone(tasks)
	slices.SortStableFunc(recent, func(a, b models.Task) int { return b.UpdatedAt.Compare(a.UpdatedAt) })
	if len(recent) > e.opts.RecentActivityLimit {
		recent = recent[:e.opts.RecentActivityLimit]
	}
	d.RecentActivity = recent

	if viewer.IsAdmin() {
		all := e.tasks.Tasks()
		sum := &SystemSummary{Tasks: len(all), CompletionRate: CompletionRate(all)}
		for _, u := range e.users.List() {
			sum.Users++
			if u.IsAdmin() {
				sum.Admins++
			}
		}
		for _, t := range all {
			if t.IsCompleted() {
				sum.Completed++
			}
		}
		d.System = sum
	}
	return d, nil
}

type StatusCount struct {
	Status  models.Status
	Count   int
	Percent int
}

type PriorityCount struct {
	Priority models.Priority
	Count    int
	Percent  int
}

type AssigneeStats struct {
	Account        models.Account
	Tasks          int
	Completed      int
	CompletionRate int
}

type Analytics struct {
	Total          int
	Completed      int
	Overdue        int
	CompletionRate int
	ByStatus       []StatusCount
	ByPriority     []PriorityCount
	// RecentlyCreated counts visible tasks created within the recent window.
	RecentlyCreated int
	// PerAssignee has one row per directory account, for admins only.
	PerAssignee []AssigneeStats
}

func (e *Engine) Analytics() (Analytics, error) {
	viewer, tasks, err := e.visible()
	if err != nil {
		return Analytics{}, err
	}
	now := e.clock.Now()
	since := now.Add(-e.opts.RecentWindow)

	byStatus := map[models.Status]int{}
	byPriority := map[models.Priority]int{}
	a := Analytics{Total: len(tasks)}
	for _, t := range tasks {
		byStatus[t.Status]++
		byPriority[t.Priority]++
		if IsOverdue(t, now) {
			a.Overdue++
		}
		if !t.CreatedAt.Before(since) {
			a.RecentlyCreated++
		}
	}
	a.Completed = byStatus[models.StatusCompleted]
	a.CompletionRate = Percent(a.Completed, a.Total)

	for _, s := range models.Statuses {
		a.ByStatus = append(a.ByStatus, StatusCount{Status: s, Count: byStatus[s], Percent: Percent(byStatus[s], a.Total)})
	}
	for _, p := range slices.Backward(models.Priorities) {
		a.ByPriority = append(a.ByPriority, PriorityCount{Priority: p, Count: byPriority[p], Percent: Percent(byPriority[p], a.Total)})
	}

	if viewer.IsAdmin() {
		all := e.tasks.Tasks()
		for _, u := range e.users.List() {
			row := AssigneeStats{Account: u}
			for _, t := range all {
				if t.AssignedTo != u.ID {
					continue
				}
				row.Tasks++
				if t.IsCompleted() {
					row.Completed++
				}
			}
			row.CompletionRate = Percent(row.Completed, row.Tasks)
			a.PerAssignee = append(a.PerAssignee, row)
		}
	}
	return a, nil
}

type Notifications struct {
	Overdue []models.Task
	DueSoon []models.Task
	Today   timex.Date
}

func (n Notifications) Total() int { return len(n.Overdue) + len(n.DueSoon) }

func (e *Engine) Notifications() (Notifications, error) {
	_, tasks, err := e.visible()
	if err != nil {
		return Notifications{}, err
	}
	today := timex.Today(e.clock)
	now := e.clock.Now()
	return Notifications{
		Overdue: SortTasks(Overdue(tasks, now), SortByDueDate, Asc),
		DueSoon: SortTasks(DueSoon(tasks, now, e.opts.DueSoonWindow), SortByDueDate, Asc),
		Today:   today,
	}, nil
}
