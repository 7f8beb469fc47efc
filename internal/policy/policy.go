// Package policy holds the role-based rules every view and command shares:
// which tasks an account may see and change, what makes a task valid, and
// which attachments are accepted.
package policy

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/models"
)

// Visible reports whether viewer may see task. Admins see everything; other
// accounts see only what is assigned to them.
func Visible(viewer models.Account, task models.Task) bool {
	return viewer.IsAdmin() || task.AssignedTo == viewer.ID
}

// VisibleTasks filters tasks through Visible, keeping order.
func VisibleTasks(viewer models.Account, tasks []models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if Visible(viewer, t) {
			out = append(out, t)
		}
	}
	return out
}

func CanEdit(viewer models.Account, task models.Task) bool {
	return viewer.IsAdmin() || task.CreatedBy == viewer.ID
}

func CanDelete(viewer models.Account, task models.Task) bool {
	return CanEdit(viewer, task)
}

// CanChangeStatus also lets the assignee move their own task along.
func CanChangeStatus(viewer models.Account, task models.Task) bool {
	return CanEdit(viewer, task) || task.AssignedTo == viewer.ID
}

// CanManageUsers gates the user directory commands.
func CanManageUsers(viewer models.Account) bool {
	return viewer.IsAdmin()
}

// ValidateTask checks the fields a new task must carry.
func ValidateTask(t models.NewTask) error {
	var missing []string
	if strings.TrimSpace(t.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(t.Description) == "" {
		missing = append(missing, "description")
	}
	if t.DueDate.IsZero() {
		missing = append(missing, "due date")
	}
	if t.AssignedTo == "" {
		missing = append(missing, "assignee")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", common.ErrValidation, strings.Join(missing, ", "))
	}
	if t.Status != "" && !t.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", common.ErrValidation, t.Status)
	}
	if t.Priority != "" && !t.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", common.ErrValidation, t.Priority)
	}
	return nil
}

// ValidatePatch checks the fields a patch sets. Nil fields are not checked.
func ValidatePatch(p models.TaskPatch) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title required", common.ErrValidation)
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return fmt.Errorf("%w: description required", common.ErrValidation)
	}
	if p.DueDate != nil && p.DueDate.IsZero() {
		return fmt.Errorf("%w: due date required", common.ErrValidation)
	}
	if p.AssignedTo != nil && *p.AssignedTo == "" {
		return fmt.Errorf("%w: assignee required", common.ErrValidation)
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", common.ErrValidation, *p.Status)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", common.ErrValidation, *p.Priority)
	}
	return nil
}

// CheckAttachments accepts incoming documents only if each is a PDF and the
// task ends up with at most common.MaxDocumentsPerTask documents.
func CheckAttachments(existing, incoming []models.Document) error {
	for _, d := range incoming {
		if d.Type != common.DocumentTypePDF {
			return fmt.Errorf("%w: %s is %q, only PDF files are allowed", common.ErrAttachmentPolicy, d.Name, d.Type)
		}
	}
	if n := len(existing) + len(incoming); n > common.MaxDocumentsPerTask {
		return fmt.Errorf("%w: %d documents, at most %d per task", common.ErrAttachmentPolicy, n, common.MaxDocumentsPerTask)
	}
	return nil
}
