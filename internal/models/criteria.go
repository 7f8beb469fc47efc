package models

import "github.com/dmitrijs2005/taskboard/internal/timex"

// TaskCriteria selects tasks. Every non-zero field must match; zero fields
// impose no constraint. Due date bounds are inclusive.
type TaskCriteria struct {
	Status     Status
	Priority   Priority
	AssignedTo string
	DueFrom    timex.Date
	DueTo      timex.Date
}

func (c TaskCriteria) Matches(t Task) bool {
	if c.Status != "" && t.Status != c.Status {
		return false
	}
	if c.Priority != "" && t.Priority != c.Priority {
		return false
	}
	if c.AssignedTo != "" && t.AssignedTo != c.AssignedTo {
		return false
	}
	if !c.DueFrom.IsZero() && t.DueDate.Before(c.DueFrom) {
		return false
	}
	if !c.DueTo.IsZero() && t.DueDate.After(c.DueTo) {
		return false
	}
	return true
}
