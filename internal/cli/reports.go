package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/models"
	"github.com/dmitrijs2005/taskboard/internal/storage"
	"github.com/dmitrijs2005/taskboard/internal/views"
)

func (a *App) Dashboard(_ context.Context, _ []string) error {
	d, err := a.views.Dashboard()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Hello, %s\n\n", d.Viewer.Name)
	tw := newTable(a.out)
	fmt.Fprintf(tw, "Total tasks\t%d\t\n", d.Total)
	fmt.Fprintf(tw, "Completed\t%d\t\n", d.Completed)
	fmt.Fprintf(tw, "Pending\t%d\t\n", d.Pending)
	fmt.Fprintf(tw, "Overdue\t%d\t\n", d.Overdue)
	fmt.Fprintf(tw, "Completion rate\t%d%%\t\n", d.CompletionRate)
	if err := tw.Flush(); err != nil {
		return err
	}

	if s := d.System; s != nil {
		fmt.Fprintln(a.out, "\nSystem")
		tw = newTable(a.out)
		fmt.Fprintf(tw, "Users\t%d (%d admin)\t\n", s.Users, s.Admins)
		fmt.Fprintf(tw, "Tasks\t%d\t\n", s.Tasks)
		fmt.Fprintf(tw, "Completed\t%d\t\n", s.Completed)
		fmt.Fprintf(tw, "Completion rate\t%d%%\t\n", s.CompletionRate)
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.out, "\nRecent activity")
	printTasks(a.out, d.RecentActivity, a.users.List(), a.clock.Now())
	return nil
}

func (a *App) Analytics(_ context.Context, _ []string) error {
	an, err := a.views.Analytics()
	if err != nil {
		return err
	}

	tw := newTable(a.out)
	fmt.Fprintf(tw, "Total tasks\t%d\t\n", an.Total)
	fmt.Fprintf(tw, "Completed\t%d\t\n", an.Completed)
	fmt.Fprintf(tw, "Overdue\t%d\t\n", an.Overdue)
	fmt.Fprintf(tw, "Completion rate\t%d%%\t\n", an.CompletionRate)
	fmt.Fprintf(tw, "Created in the last %s\t%d\t\n", days(a.config.RecentWindow.Hours()), an.RecentlyCreated)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "\nBy status")
	tw = newTable(a.out)
	for _, s := range an.ByStatus {
		fmt.Fprintf(tw, "%s\t%d\t%s\t\n", s.Status, s.Count, bar(s.Percent))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "\nBy priority")
	tw = newTable(a.out)
	for _, p := range an.ByPriority {
		fmt.Fprintf(tw, "%s\t%d\t%s\t\n", p.Priority, p.Count, bar(p.Percent))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(an.PerAssignee) > 0 {
		fmt.Fprintln(a.out, "\nBy assignee")
		tw = newTable(a.out)
		fmt.Fprintln(tw, "NAME\tTASKS\tCOMPLETED\tRATE\t")
		for _, r := range an.PerAssignee {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d%%\t\n", r.Account.Name, r.Tasks, r.Completed, r.CompletionRate)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) Notifications(_ context.Context, _ []string) error {
	n, err := a.views.Notifications()
	if err != nil {
		return err
	}
	if n.Total() == 0 {
		fmt.Fprintln(a.out, "Nothing needs your attention")
		return nil
	}
	printGroup(a.out, "Overdue", n.Overdue, n)
	printGroup(a.out, "Due soon", n.DueSoon, n)
	return nil
}

func printGroup(w io.Writer, title string, tasks []models.Task, n views.Notifications) {
	if len(tasks) == 0 {
		return
	}
	fmt.Fprintf(w, "%s (%d)\n", title, len(tasks))
	for _, t := range tasks {
		fmt.Fprintf(w, "  %s  %s  %s\n", shortID(t.ID), t.Title, views.RelativeDay(t.DueDate, n.Today))
	}
}

// Theme shows or sets the dark mode preference.
//
//	theme [dark|light]
func (a *App) Theme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		on, err := a.prefs.DarkMode(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Theme: %s\n", themeName(on))
		return nil
	}

	var on bool
	switch strings.ToLower(args[0]) {
	case "dark", "on":
		on = true
	case "light", "off":
	default:
		return fmt.Errorf("%w: usage: theme [dark|light]", common.ErrValidation)
	}

	err := a.store.Atomic(ctx, func(ctx context.Context, w storage.Writer) error {
		return a.prefs.SetDarkMode(ctx, w, on)
	})
	if err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	fmt.Fprintf(a.out, "Theme: %s\n", themeName(on))
	return nil
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

func bar(percent int) string {
	return fmt.Sprintf("%-20s %3d%%", strings.Repeat("#", percent/5), percent)
}

func days(hours float64) string {
	n := int(hours / 24)
	if n == 1 {
		return "day"
	}
	return fmt.Sprintf("%d days", n)
}
