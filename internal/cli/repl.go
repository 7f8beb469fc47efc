package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context, args []string) error
	Refresh(ctx context.Context, args []string) error

	ListTasks(ctx context.Context, args []string) error
	ShowTask(ctx context.Context, args []string) error
	AddTask(ctx context.Context, args []string) error
	EditTask(ctx context.Context, args []string) error
	SetStatus(ctx context.Context, args []string) error
	AttachDocuments(ctx context.Context, args []string) error
	DeleteTask(ctx context.Context, args []string) error

	ListUsers(ctx context.Context, args []string) error
	AddUser(ctx context.Context, args []string) error
	EditUser(ctx context.Context, args []string) error
	DeleteUser(ctx context.Context, args []string) error

	Dashboard(ctx context.Context, args []string) error
	Analytics(ctx context.Context, args []string) error
	Notifications(ctx context.Context, args []string) error
	Theme(ctx context.Context, args []string) error
}

const (
	helpGuest = "Available commands: register, login, theme, exit"
	helpUser  = "Available commands: (ls) tasks, show, add, edit, status, attach, (rm) delete, " +
		"dashboard, analytics, notify, whoami, refresh, theme, logout, exit"
	helpAdmin = helpUser + "\nAdmin commands: users, adduser, edituser, deluser"
)

// runREPL starts a simple read–eval–print loop for the taskboard CLI.
//
// It reads a line from reader, parses the first token as the command and
// passes the remaining tokens to the matching method on a. The loop exits on
// EOF or when the user types "exit" or "quit".
//
// Errors returned by handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("tb %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var handler func(context.Context, []string) error
		guest := false

		switch cmd {
		case "help":
			switch {
			case a.isAdmin():
				printlnFn(helpAdmin)
			case a.isLoggedIn():
				printlnFn(helpUser)
			default:
				printlnFn(helpGuest)
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "register":
			handler, guest = a.Register, true
		case "login":
			handler, guest = a.Login, true
		case "theme":
			handler, guest = a.Theme, true

		case "logout":
			handler = a.Logout
		case "whoami":
			handler = a.WhoAmI
		case "refresh":
			handler = a.Refresh
		case "ls", "tasks":
			handler = a.ListTasks
		case "show":
			handler = a.ShowTask
		case "add":
			handler = a.AddTask
		case "edit":
			handler = a.EditTask
		case "status":
			handler = a.SetStatus
		case "attach":
			handler = a.AttachDocuments
		case "rm", "delete":
			handler = a.DeleteTask
		case "users":
			handler = a.ListUsers
		case "adduser":
			handler = a.AddUser
		case "edituser":
			handler = a.EditUser
		case "deluser":
			handler = a.DeleteUser
		case "dashboard":
			handler = a.Dashboard
		case "analytics":
			handler = a.Analytics
		case "notify", "notifications":
			handler = a.Notifications

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if !guest && !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}
		if err := handler(ctx, args); err != nil {
			printlnFn("Error:", describeError(err))
		}
	}
}
