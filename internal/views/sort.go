package views

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrijs2005/taskboard/internal/models"
)

// SortKey selects the field tasks are ordered by.
type SortKey string

const (
	SortByCreatedAt SortKey = "createdAt"
	SortByTitle     SortKey = "title"
	SortByDueDate   SortKey = "dueDate"
	SortByPriority  SortKey = "priority"
	SortByStatus    SortKey = "status"
)

// ParseSortKey maps user input to a key. Unknown input yields SortByCreatedAt.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.TrimSpace(s)); k {
	case SortByTitle, SortByDueDate, SortByPriority, SortByStatus:
		return k
	default:
		return SortByCreatedAt
	}
}

// Order is the single direction toggle applied to whichever key is active.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

func ParseOrder(s string) Order {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

var folder = cases.Lower(language.Und)

func fold(s string) string { return folder.String(s) }

// SortTasks returns a sorted copy of tasks. The sort is stable: tasks that
// compare equal keep their relative order in both directions.
func SortTasks(tasks []models.Task, key SortKey, order Order) []models.Task {
	out := slices.Clone(tasks)
	cmp := comparator(key)
	if order == Desc {
		slices.SortStableFunc(out, func(a, b models.Task) int { return cmp(b, a) })
	} else {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

func comparator(key SortKey) func(a, b models.Task) int {
	switch key {
	case SortByTitle:
		return func(a, b models.Task) int { return strings.Compare(fold(a.Title), fold(b.Title)) }
	case SortByDueDate:
		return func(a, b models.Task) int { return a.DueDate.Compare(b.DueDate) }
	case SortByPriority:
		return func(a, b models.Task) int { return a.Priority.Rank() - b.Priority.Rank() }
	case SortByStatus:
		return func(a, b models.Task) int { return a.Status.Rank() - b.Status.Rank() }
	default:
		return func(a, b models.Task) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}

// Search keeps tasks whose title or description contains term, ignoring case.
// An empty term keeps everything.
func Search(tasks []models.Task, term string) []models.Task {
	term = strings.TrimSpace(term)
	if term == "" {
		return slices.Clone(tasks)
	}
	needle := fold(term)
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(fold(t.Title), needle) || strings.Contains(fold(t.Description), needle) {
			out = append(out, t)
		}
	}
	return out
}
