package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/models"
	"github.com/dmitrijs2005/taskboard/internal/policy"
)

func (a *App) requireAdmin() (models.Account, error) {
	viewer, err := a.viewer()
	if err != nil {
		return models.Account{}, err
	}
	if !policy.CanManageUsers(viewer) {
		return models.Account{}, common.ErrForbidden
	}
	return viewer, nil
}

func parseRole(s string) (models.Role, error) {
	r, ok := models.ParseRole(s)
	if !ok {
		return "", fmt.Errorf("%w: role must be admin or user", common.ErrValidation)
	}
	return r, nil
}

func (a *App) ListUsers(_ context.Context, _ []string) error {
	if _, err := a.requireAdmin(); err != nil {
		return err
	}

	users := a.users.List()
	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users found")
		return nil
	}
	tw := newTable(a.out)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\t")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", shortID(u.ID), u.Name, u.Email, u.Role)
	}
	return tw.Flush()
}

func (a *App) AddUser(ctx context.Context, _ []string) error {
	if _, err := a.requireAdmin(); err != nil {
		return err
	}

	var in models.NewAccount
	var err error
	if in.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if in.Name, err = getSimpleText(a.reader, "Name", a.out); err != nil {
		return err
	}
	if in.Email == "" || in.Name == "" {
		return fmt.Errorf("%w: email and name are required", common.ErrValidation)
	}
	v, _, err := a.askDefault("Role (admin, user)", string(models.RoleUser))
	if err != nil {
		return err
	}
	if in.Role, err = parseRole(v); err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	if len(password) == 0 {
		return fmt.Errorf("%w: password is required", common.ErrValidation)
	}
	in.Password = string(password)

	acct, err := a.users.CreateUser(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created user %s (%s)\n", acct.Email, shortID(acct.ID))
	return nil
}

// EditUser changes name, email or role. The signed-in account keeps its
// session copy until refresh.
func (a *App) EditUser(ctx context.Context, args []string) error {
	if _, err := a.requireAdmin(); err != nil {
		return err
	}
	u, err := a.resolveAccount(firstArg(args))
	if err != nil {
		return err
	}

	var patch models.AccountPatch
	if v, changed, err := a.askDefault("Name", u.Name); err != nil {
		return err
	} else if changed {
		patch.Name = &v
	}
	if v, changed, err := a.askDefault("Email", u.Email); err != nil {
		return err
	} else if changed {
		patch.Email = &v
	}
	if v, changed, err := a.askDefault("Role (admin, user)", string(u.Role)); err != nil {
		return err
	} else if changed {
		r, err := parseRole(v)
		if err != nil {
			return err
		}
		patch.Role = &r
	}

	if _, err := a.users.UpdateUser(ctx, u.ID, patch); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated user %s\n", shortID(u.ID))
	return nil
}

// DeleteUser removes an account. Tasks assigned to or created by it stay
// and show the account as unknown.
func (a *App) DeleteUser(ctx context.Context, args []string) error {
	viewer, err := a.requireAdmin()
	if err != nil {
		return err
	}
	u, err := a.resolveAccount(firstArg(args))
	if err != nil {
		return err
	}
	if u.ID == viewer.ID {
		return fmt.Errorf("%w: you cannot delete your own account", common.ErrValidation)
	}

	ok, err := a.confirm(fmt.Sprintf("Delete user %s?", u.Email))
	if err != nil || !ok {
		return err
	}
	if err := a.users.DeleteUser(ctx, u.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted user %s\n", u.Email)
	return nil
}
