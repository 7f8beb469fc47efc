package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/models"
	"github.com/dmitrijs2005/taskboard/internal/timex"
	"github.com/dmitrijs2005/taskboard/internal/views"
)

// shortIDLen is how many trailing id characters are shown and accepted.
// The leading characters of a UUIDv7 encode its creation time and repeat
// across ids created close together.
const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[len(id)-shortIDLen:]
}

func describeError(err error) string {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, common.ErrDuplicateEmail):
		return "an account with this email already exists"
	case errors.Is(err, common.ErrNotAuthenticated):
		return "please login first"
	case errors.Is(err, common.ErrForbidden):
		return "you are not allowed to do that"
	default:
		return err.Error()
	}
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// accountLabel names an account by id, tolerating ids whose account is gone.
func accountLabel(users []models.Account, id string) string {
	for _, u := range users {
		if u.ID == id {
			return u.Name
		}
	}
	if id == "" {
		return "-"
	}
	return "unknown (" + shortID(id) + ")"
}

func printTasks(w io.Writer, tasks []models.Task, users []models.Account, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tPRIORITY\tDUE\tASSIGNEE\t")
	for _, t := range tasks {
		due := t.DueDate.String()
		if views.IsOverdue(t, now) {
			due += " (overdue)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			shortID(t.ID), t.Title, t.Status, t.Priority, due, accountLabel(users, t.AssignedTo))
	}
	_ = tw.Flush()
}

func printTask(w io.Writer, t models.Task, users []models.Account, now time.Time) {
	fmt.Fprintf(w, "%s  [%s]\n", t.Title, shortID(t.ID))
	fmt.Fprintf(w, "  Status:    %s\n", t.Status)
	fmt.Fprintf(w, "  Priority:  %s\n", t.Priority)
	fmt.Fprintf(w, "  Due:       %s (%s)\n", t.DueDate, views.RelativeDay(t.DueDate, timex.DateOf(now)))
	fmt.Fprintf(w, "  Assignee:  %s\n", accountLabel(users, t.AssignedTo))
	fmt.Fprintf(w, "  Creator:   %s\n", accountLabel(users, t.CreatedBy))
	fmt.Fprintf(w, "  Created:   %s\n", t.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "  Updated:   %s\n", t.UpdatedAt.Format("2006-01-02 15:04"))
	if desc := strings.TrimSpace(t.Description); desc != "" {
		fmt.Fprintln(w, "  Description:")
		for _, line := range strings.Split(desc, "\n") {
			fmt.Fprintln(w, "    "+line)
		}
	}
	if len(t.Documents) > 0 {
		fmt.Fprintln(w, "  Documents:")
		for _, d := range t.Documents {
			fmt.Fprintf(w, "    %s (%s, %s)\n", d.Name, d.Type, humanSize(d.Size))
		}
	}
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
