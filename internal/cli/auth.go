package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskboard/internal/common"
)

// Register prompts for email, name and password, creates the account and
// signs it in. The first account ever registered becomes the administrator.
func (a *App) Register(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	if email == "" || name == "" {
		return fmt.Errorf("%w: email and name are required", common.ErrValidation)
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	if len(password) == 0 {
		return fmt.Errorf("%w: password is required", common.ErrValidation)
	}

	acct, err := a.session.Register(ctx, email, string(password), name)
	if err != nil {
		return err
	}
	if err := a.users.Reload(ctx); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s! You are registered as %s.\n", acct.Name, acct.Role)
	return nil
}

// Login prompts for credentials and replaces the current session on success.
// A failed attempt leaves the current session as it was.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	acct, err := a.session.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", acct.Name, acct.Role)
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(_ context.Context, _ []string) error {
	acct, ok := a.session.Current()
	if !ok {
		return common.ErrNotAuthenticated
	}
	fmt.Fprintf(a.out, "%s <%s>\n  role: %s\n  id:   %s\n", acct.Name, acct.Email, acct.Role, acct.ID)
	return nil
}

// Refresh re-reads everything from storage, including the signed-in
// account, which the session otherwise keeps as it was at login.
func (a *App) Refresh(ctx context.Context, _ []string) error {
	if err := a.users.Reload(ctx); err != nil {
		return err
	}
	if err := a.tasks.Reload(ctx); err != nil {
		return err
	}
	if err := a.session.Refresh(ctx); err != nil {
		return err
	}
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Your account no longer exists; you have been logged out")
		return nil
	}
	fmt.Fprintln(a.out, "Refreshed")
	return nil
}
