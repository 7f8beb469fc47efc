package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/filex"
	"github.com/dmitrijs2005/taskboard/internal/models"
	"github.com/dmitrijs2005/taskboard/internal/policy"
	"github.com/dmitrijs2005/taskboard/internal/timex"
	"github.com/dmitrijs2005/taskboard/internal/views"
)

func (a *App) viewer() (models.Account, error) {
	acct, ok := a.session.Current()
	if !ok {
		return models.Account{}, common.ErrNotAuthenticated
	}
	return acct, nil
}

// resolveTask finds a task the viewer can see by full id or by the short id
// shown in listings. Tasks the viewer cannot see are reported as not found.
func (a *App) resolveTask(viewer models.Account, ref string) (models.Task, error) {
	if ref == "" {
		return models.Task{}, fmt.Errorf("%w: task id required", common.ErrValidation)
	}
	var found []models.Task
	for _, t := range policy.VisibleTasks(viewer, a.tasks.Tasks()) {
		if t.ID == ref {
			return t, nil
		}
		if len(ref) >= 4 && strings.HasSuffix(t.ID, ref) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return models.Task{}, fmt.Errorf("task %s: %w", ref, common.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return models.Task{}, fmt.Errorf("task id %s is ambiguous, use more characters", ref)
	}
}

// resolveAccount finds a directory account by email, full id or short id.
func (a *App) resolveAccount(ref string) (models.Account, error) {
	for _, u := range a.users.List() {
		if u.Email == ref || u.ID == ref || (len(ref) >= 4 && strings.HasSuffix(u.ID, ref)) {
			return u, nil
		}
	}
	return models.Account{}, fmt.Errorf("user %s: %w", ref, common.ErrNotFound)
}

func parseStatus(s string) (models.Status, error) {
	st, ok := models.ParseStatus(s)
	if !ok {
		return "", fmt.Errorf("%w: status must be one of todo, in-progress, completed", common.ErrValidation)
	}
	return st, nil
}

func parsePriority(s string) (models.Priority, error) {
	p, ok := models.ParsePriority(s)
	if !ok {
		return "", fmt.Errorf("%w: priority must be one of low, medium, high", common.ErrValidation)
	}
	return p, nil
}

func parseDate(s string) (timex.Date, error) {
	d, err := timex.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return timex.Date{}, fmt.Errorf("%w: due date must look like 2024-03-31", common.ErrValidation)
	}
	return d, nil
}

// readDocuments describes the files at paths as attachments.
func readDocuments(paths []string) ([]models.Document, error) {
	docs := make([]models.Document, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		fi, err := filex.Inspect(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, models.Document{ID: common.NewID(), Name: fi.Name, Size: fi.Size, Type: fi.Type})
	}
	return docs, nil
}

// ListTasks prints the visible tasks.
//
//	tasks [-status s] [-priority p] [-assignee email] [-from date] [-to date]
//	      [-sort title|dueDate|priority|status|createdAt] [-desc] [search words]
func (a *App) ListTasks(_ context.Context, args []string) error {
	var (
		status, priority, assignee, from, to, sortKey string
		desc                                          bool
	)
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.StringVar(&status, "status", "", "only tasks with this status")
	fs.StringVar(&priority, "priority", "", "only tasks with this priority")
	fs.StringVar(&assignee, "assignee", "", "only tasks assigned to this email")
	fs.StringVar(&from, "from", "", "due on or after this date")
	fs.StringVar(&to, "to", "", "due on or before this date")
	fs.StringVar(&sortKey, "sort", "", "sort key")
	fs.BoolVar(&desc, "desc", false, "sort descending")
	if err := fs.Parse(args); err != nil {
		return err
	}

	q := views.ListQuery{Search: strings.Join(fs.Args(), " "), SortKey: views.ParseSortKey(sortKey), Order: views.Asc}
	if desc {
		q.Order = views.Desc
	}

	var err error
	if status != "" {
		if q.Criteria.Status, err = parseStatus(status); err != nil {
			return err
		}
	}
	if priority != "" {
		if q.Criteria.Priority, err = parsePriority(priority); err != nil {
			return err
		}
	}
	if assignee != "" {
		u, err := a.resolveAccount(assignee)
		if err != nil {
			return err
		}
		q.Criteria.AssignedTo = u.ID
	}
	if from != "" {
		if q.Criteria.DueFrom, err = parseDate(from); err != nil {
			return err
		}
	}
	if to != "" {
		if q.Criteria.DueTo, err = parseDate(to); err != nil {
			return err
		}
	}

	list, err := a.views.TaskList(q)
	if err != nil {
		return err
	}
	printTasks(a.out, list, a.users.List(), a.clock.Now())
	return nil
}

func (a *App) ShowTask(_ context.Context, args []string) error {
	viewer, err := a.viewer()
	if err != nil {
		return err
	}
	t, err := a.resolveTask(viewer, firstArg(args))
	if err != nil {
		return err
	}
	printTask(a.out, t, a.users.List(), a.clock.Now())
	return nil
}

// AddTask walks through the task form. Title, description, due date and
// assignee are required; attachments must be PDFs.
func (a *App) AddTask(ctx context.Context, _ []string) error {
	viewer, err := a.viewer()
	if err != nil {
		return err
	}

	in := models.NewTask{CreatedBy: viewer.ID, Status: models.StatusTodo, Priority: models.PriorityMedium}

	if in.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if in.Description, err = getMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}

	due, err := getSimpleText(a.reader, "Due date (YYYY-MM-DD)", a.out)
	if err != nil {
		return err
	}
	if due != "" {
		if in.DueDate, err = parseDate(due); err != nil {
			return err
		}
	}

	if v, changed, err := a.askDefault("Priority (low, medium, high)", string(in.Priority)); err != nil {
		return err
	} else if changed {
		if in.Priority, err = parsePriority(v); err != nil {
			return err
		}
	}

	if v, changed, err := a.askDefault("Status (todo, in-progress, completed)", string(in.Status)); err != nil {
		return err
	} else if changed {
		if in.Status, err = parseStatus(v); err != nil {
			return err
		}
	}

	v, _, err := a.askDefault("Assignee email", viewer.Email)
	if err != nil {
		return err
	}
	assignee, err := a.resolveAccount(v)
	if err != nil {
		return err
	}
	in.AssignedTo = assignee.ID

	paths, err := getSimpleText(a.reader, "PDF attachments (comma-separated paths, empty for none)", a.out)
	if err != nil {
		return err
	}
	if in.Documents, err = readDocuments(strings.Split(paths, ",")); err != nil {
		return err
	}

	if err := policy.ValidateTask(in); err != nil {
		return err
	}
	if err := policy.CheckAttachments(nil, in.Documents); err != nil {
		return err
	}

	t, err := a.tasks.CreateTask(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created task %s\n", shortID(t.ID))
	return nil
}

// EditTask lets the creator or an admin change any field. Empty answers keep
// the current value.
func (a *App) EditTask(ctx context.Context, args []string) error {
	viewer, err := a.viewer()
	if err != nil {
		return err
	}
	t, err := a.resolveTask(viewer, firstArg(args))
	if err != nil {
		return err
	}
	if !policy.CanEdit(viewer, t) {
		return common.ErrForbidden
	}

	var patch models.TaskPatch

	if v, changed, err := a.askDefault("Title", t.Title); err != nil {
		return err
	} else if changed {
		patch.Title = &v
	}
	if v, changed, err := a.askDefault("Description", t.Description); err != nil {
		return err
	} else if changed {
		patch.Description = &v
	}
	if v, changed, err := a.askDefault("Due date", t.DueDate.String()); err != nil {
		return err
	} else if changed {
		d, err := parseDate(v)
		if err != nil {
			return err
		}
		patch.DueDate = &d
	}
	if v, changed, err := a.askDefault("Priority", string(t.Priority)); err != nil {
		return err
	} else if changed {
		p, err := parsePriority(v)
		if err != nil {
			return err
		}
		patch.Priority = &p
	}
	if v, changed, err := a.askDefault("Status", string(t.Status)); err != nil {
		return err
	} else if changed {
		s, err := parseStatus(v)
		if err != nil {
			return err
		}
		patch.Status = &s
	}

	current := ""
	if u, ok := a.users.GetUserByID(t.AssignedTo); ok {
		current = u.Email
	}
	if v, changed, err := a.askDefault("Assignee email", current); err != nil {
		return err
	} else if changed {
		u, err := a.resolveAccount(v)
		if err != nil {
			return err
		}
		patch.AssignedTo = &u.ID
	}

	if err := policy.ValidatePatch(patch); err != nil {
		return err
	}
	if _, err := a.tasks.UpdateTask(ctx, t.ID, patch); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated task %s\n", shortID(t.ID))
	return nil
}

// SetStatus moves a task along; the assignee may do this too.
//
//	status <id> <todo|in-progress|completed>
func (a *App) SetStatus(ctx context.Context, args []string) error {
	viewer, err := a.viewer()
	if err != nil {
		return err
	}
	t, err := a.resolveTask(viewer, firstArg(args))
	if err != nil {
		return err
	}
	if !policy.CanChangeStatus(viewer, t) {
		return common.ErrForbidden
	}

	raw := ""
	if len(args) > 1 {
		raw = args[1]
	} else if raw, err = getSimpleText(a.reader, "New status (todo, in-progress, completed)", a.out); err != nil {
		return err
	}
	st, err := parseStatus(raw)
	if err != nil {
		return err
	}

	if _, err := a.tasks.UpdateTask(ctx, t.ID, models.TaskPatch{Status: &st}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Task %s is now %s\n", shortID(t.ID), st)
	return nil
}

// AttachDocuments adds PDF files to a task.
//
//	attach <id> <path> [path...]
func (a *App) AttachDocuments(ctx context.Context, args []string) error {
	viewer, err := a.viewer()
	if err != nil {
		return err
	}
	t, err := a.resolveTask(viewer, firstArg(args))
	if err != nil {
		return err
	}
	if !policy.CanEdit(viewer, t) {
		return common.ErrForbidden
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: usage: attach <id> <file.pdf> [file.pdf...]", common.ErrValidation)
	}

	docs, err := readDocuments(args[1:])
	if err != nil {
		return err
	}
	if err := policy.CheckAttachments(t.Documents, docs); err != nil {
		return err
	}

	updated, err := a.tasks.UpdateTask(ctx, t.ID, models.TaskPatch{AppendDocuments: docs})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Task %s now has %d document(s)\n", shortID(t.ID), len(updated.Documents))
	return nil
}

// DeleteTask removes a task after confirmation. Only its creator or an admin
// may delete it.
func (a *App) DeleteTask(ctx context.Context, args []string) error {
	viewer, err := a.viewer()
	if err != nil {
		return err
	}
	t, err := a.resolveTask(viewer, firstArg(args))
	if err != nil {
		return err
	}
	if !policy.CanDelete(viewer, t) {
		return common.ErrForbidden
	}

	ok, err := a.confirm(fmt.Sprintf("Delete %q?", t.Title))
	if err != nil || !ok {
		return err
	}
	if err := a.tasks.DeleteTask(ctx, t.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted task %s\n", shortID(t.ID))
	return nil
}

func (a *App) confirm(question string) (bool, error) {
	v, err := getSimpleText(a.reader, question+" (y/N)", a.out)
	if err != nil {
		return false, err
	}
	v = strings.ToLower(v)
	return v == "y" || v == "yes", nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
