package models

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/timex"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in ordinal order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusCompleted}

func (s Status) Valid() bool { return s.Rank() > 0 }

// Rank orders statuses todo < in-progress < completed. Unknown values rank 0.
func (s Status) Rank() int {
	switch s {
	case StatusTodo:
		return 1
	case StatusInProgress:
		return 2
	case StatusCompleted:
		return 3
	default:
		return 0
	}
}

func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

// Priority determines how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority in ordinal order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool { return p.Rank() > 0 }

// Rank orders priorities low < medium < high. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	default:
		return 0
	}
}

func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

// Document describes an attached file. Only metadata is kept, never content.
type Document struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// Task is a unit of work assigned to one account. AssignedTo and CreatedBy
// are weak references: the accounts they name may no longer exist.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     timex.Date `json:"dueDate"`
	AssignedTo  string     `json:"assignedTo"`
	CreatedBy   string     `json:"createdBy"`
	Documents   []Document `json:"documents"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (t Task) IsCompleted() bool { return t.Status == StatusCompleted }

// Clone returns a copy that shares no slices with t.
func (t Task) Clone() Task {
	t.Documents = append([]Document{}, t.Documents...)
	return t
}

// NewTask is the input of task creation: everything but id and timestamps.
type NewTask struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
	DueDate     timex.Date
	AssignedTo  string
	CreatedBy   string
	Documents   []Document
}

// TaskPatch is a partial task update. A nil field keeps the prior value.
// Documents can only be appended.
type TaskPatch struct {
	Title           *string
	Description     *string
	Status          *Status
	Priority        *Priority
	DueDate         *timex.Date
	AssignedTo      *string
	AppendDocuments []Document
}

// Apply merges p into t. It does not touch UpdatedAt; the store does.
func (p TaskPatch) Apply(t Task) Task {
	t = t.Clone()
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	t.Documents = append(t.Documents, p.AppendDocuments...)
	return t
}
