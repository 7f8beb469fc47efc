package views

import (
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/models"
	"github.com/dmitrijs2005/taskboard/internal/timex"
)

// A due date is a calendar day in the location of the clock. A task stays on
// time through the whole of its due day, so "today" is the date of now and
// comparisons are made between dates only.

// IsOverdue reports an open task whose due day is before today. A task
// without a due date is never overdue.
func IsOverdue(t models.Task, now time.Time) bool {
	return !t.IsCompleted() && !t.DueDate.IsZero() && t.DueDate.Before(timex.DateOf(now))
}

// IsDueSoon reports an open task due between today and the day now+window
// falls on, both inclusive. It never overlaps IsOverdue.
func IsDueSoon(t models.Task, now time.Time, window time.Duration) bool {
	if t.IsCompleted() || t.DueDate.IsZero() {
		return false
	}
	today := timex.DateOf(now)
	limit := timex.DateOf(now.Add(window))
	return !t.DueDate.Before(today) && !t.DueDate.After(limit)
}

func Overdue(tasks []models.Task, now time.Time) []models.Task {
	out := []models.Task{}
	for _, t := range tasks {
		if IsOverdue(t, now) {
			out = append(out, t)
		}
	}
	return out
}

func DueSoon(tasks []models.Task, now time.Time, window time.Duration) []models.Task {
	out := []models.Task{}
	for _, t := range tasks {
		if IsDueSoon(t, now, window) {
			out = append(out, t)
		}
	}
	return out
}

// Percent is round(100*part/total), half away from zero, and 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

// CompletionRate is the share of completed tasks as a whole percentage.
func CompletionRate(tasks []models.Task) int {
	done := 0
	for _, t := range tasks {
		if t.IsCompleted() {
			done++
		}
	}
	return Percent(done, len(tasks))
}

// RelativeDay describes due relative to today: "Today", "Tomorrow",
// "Yesterday", "In N days" or "N days ago".
func RelativeDay(due, today timex.Date) string {
	days := today.DaysUntil(due)
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days < 0:
		return fmt.Sprintf("%d days ago", -days)
	default:
		return fmt.Sprintf("In %d days", days)
	}
}
