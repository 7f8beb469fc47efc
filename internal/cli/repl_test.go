package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	admin    bool

	calls []string
	args  [][]string
	err   error
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) isAdmin() bool    { return f.admin }

func (f *fakeExec) record(name string) func(context.Context, []string) error {
	return func(_ context.Context, args []string) error {
		f.calls = append(f.calls, name)
		f.args = append(f.args, args)
		return f.err
	}
}

func (f *fakeExec) Register(ctx context.Context, args []string) error {
	return f.record("register")(ctx, args)
}
func (f *fakeExec) Login(ctx context.Context, args []string) error {
	f.loggedIn = true
	return f.record("login")(ctx, args)
}
func (f *fakeExec) Logout(ctx context.Context, args []string) error {
	f.loggedIn = false
	return f.record("logout")(ctx, args)
}
func (f *fakeExec) WhoAmI(ctx context.Context, args []string) error {
	return f.record("whoami")(ctx, args)
}
func (f *fakeExec) Refresh(ctx context.Context, args []string) error {
	return f.record("refresh")(ctx, args)
}
func (f *fakeExec) ListTasks(ctx context.Context, args []string) error {
	return f.record("tasks")(ctx, args)
}
func (f *fakeExec) ShowTask(ctx context.Context, args []string) error {
	return f.record("show")(ctx, args)
}
func (f *fakeExec) AddTask(ctx context.Context, args []string) error {
	return f.record("add")(ctx, args)
}
func (f *fakeExec) EditTask(ctx context.Context, args []string) error {
	return f.record("edit")(ctx, args)
}
func (f *fakeExec) SetStatus(ctx context.Context, args []string) error {
	return f.record("status")(ctx, args)
}
func (f *fakeExec) AttachDocuments(ctx context.Context, args []string) error {
	return f.record("attach")(ctx, args)
}
func (f *fakeExec) DeleteTask(ctx context.Context, args []string) error {
	return f.record("delete")(ctx, args)
}
func (f *fakeExec) ListUsers(ctx context.Context, args []string) error {
	return f.record("users")(ctx, args)
}
func (f *fakeExec) AddUser(ctx context.Context, args []string) error {
	return f.record("adduser")(ctx, args)
}
func (f *fakeExec) EditUser(ctx context.Context, args []string) error {
	return f.record("edituser")(ctx, args)
}
func (f *fakeExec) DeleteUser(ctx context.Context, args []string) error {
	return f.record("deluser")(ctx, args)
}
func (f *fakeExec) Dashboard(ctx context.Context, args []string) error {
	return f.record("dashboard")(ctx, args)
}
func (f *fakeExec) Analytics(ctx context.Context, args []string) error {
	return f.record("analytics")(ctx, args)
}
func (f *fakeExec) Notifications(ctx context.Context, args []string) error {
	return f.record("notify")(ctx, args)
}
func (f *fakeExec) Theme(ctx context.Context, args []string) error {
	return f.record("theme")(ctx, args)
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func script(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, script(
		"help",
		"tasks",
		"login",
		"help",
		"ls -status todo report",
		"show abcd1234",
		"status abcd1234 completed",
		"rm abcd1234",
		"notify",
		"foobar",
		"exit",
	))

	require.Equal(t, []string{"login", "tasks", "show", "status", "delete", "notify"}, exec.calls)
	require.Equal(t, []string{"-status", "todo", "report"}, exec.args[1])
	require.Equal(t, []string{"abcd1234", "completed"}, exec.args[3])

	require.Contains(t, *out, helpGuest)
	require.Contains(t, *out, helpUser)
	require.Contains(t, *out, "Please login first")
	require.Contains(t, *out, "Unknown command: foobar")
	require.Contains(t, *out, "Bye!")
}

func TestRunREPL_GuestCommandsWithoutSession(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, script("register", "theme dark", "quit"))

	require.Equal(t, []string{"register", "theme"}, exec.calls)
	require.False(t, exec.loggedIn)
}

func TestRunREPL_AdminHelp(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{loggedIn: true, admin: true}
	runREPL(context.Background(), exec, func() string { return "" }, script("help", "users", "exit"))

	require.Contains(t, *out, helpAdmin)
	require.Equal(t, []string{"users"}, exec.calls)
}

func TestRunREPL_ErrorsAreReportedAndLoopContinues(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{loggedIn: true, err: common.ErrForbidden}
	runREPL(context.Background(), exec, func() string { return "" }, script("rm 1234", "edit 1234", "exit"))

	require.Equal(t, []string{"delete", "edit"}, exec.calls)
	require.Contains(t, *out, "Error: you are not allowed to do that")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{loggedIn: true, err: errors.New("boom")}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("whoami")))

	require.Equal(t, []string{"whoami"}, exec.calls)
}
