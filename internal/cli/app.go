package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/auth"
	"github.com/dmitrijs2005/taskboard/internal/config"
	"github.com/dmitrijs2005/taskboard/internal/cryptox"
	"github.com/dmitrijs2005/taskboard/internal/filex"
	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/repositories/accounts"
	"github.com/dmitrijs2005/taskboard/internal/repositories/preferences"
	"github.com/dmitrijs2005/taskboard/internal/repositories/session"
	"github.com/dmitrijs2005/taskboard/internal/repositories/tasks"
	"github.com/dmitrijs2005/taskboard/internal/services"
	"github.com/dmitrijs2005/taskboard/internal/storage"
	"github.com/dmitrijs2005/taskboard/internal/timex"
	"github.com/dmitrijs2005/taskboard/internal/views"
)

// MemoryDataSource selects a throwaway in-memory store.
const MemoryDataSource = ":memory:"

type App struct {
	config *config.Config
	log    logging.Logger
	clock  timex.Clock

	store   storage.Store
	session services.SessionService
	users   services.UserDirectory
	tasks   services.TaskStore
	prefs   preferences.Repository
	views   *views.Engine

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the configured storage and restores any persisted session.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	st, err := openStore(ctx, c.DataSource, log)
	if err != nil {
		return nil, err
	}

	app, err := newApp(ctx, c, st, log, timex.SystemClock{}, os.Stdin, os.Stdout)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return app, nil
}

func openStore(ctx context.Context, dsn string, log logging.Logger) (storage.Store, error) {
	if dsn == MemoryDataSource {
		return storage.NewMemory(), nil
	}
	if !strings.HasPrefix(dsn, "file:") {
		if err := filex.EnsureParentDir(dsn); err != nil {
			return nil, err
		}
	}
	st, err := storage.OpenSQLite(ctx, dsn, log)
	if err != nil {
		return nil, fmt.Errorf("error initializing storage: %w", err)
	}
	return st, nil
}

func newApp(ctx context.Context, c *config.Config, st storage.Store, log logging.Logger, clock timex.Clock, in io.Reader, out io.Writer) (*App, error) {
	matcher, err := cryptox.NewSecretMatcher(c.CredentialMode)
	if err != nil {
		return nil, err
	}
	tokens := auth.NewTokenIssuer([]byte(c.SessionSecret), clock.Now)
	accountsRepo := accounts.NewKVRepository(st)

	a := &App{
		config:  c,
		log:     log,
		clock:   clock,
		store:   st,
		session: services.NewSessionService(st, accountsRepo, session.NewKVRepository(st), matcher, tokens, log),
		users:   services.NewUserDirectory(st, accountsRepo, matcher, log),
		tasks:   services.NewTaskStore(st, tasks.NewKVRepository(st), clock, log),
		prefs:   preferences.NewKVRepository(st),
		reader:  bufio.NewReader(in),
		out:     out,
	}
	a.views = views.NewEngine(a.tasks, a.users, a.session, clock, views.Options{
		DueSoonWindow:       c.DueSoonWindow,
		RecentWindow:        c.RecentWindow,
		RecentActivityLimit: c.RecentActivityLimit,
	})

	if err := a.users.Reload(ctx); err != nil {
		return nil, err
	}
	if err := a.tasks.Reload(ctx); err != nil {
		return nil, err
	}
	if err := a.session.Hydrate(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// Run shows the greeting and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to taskboard (type 'help' for commands)")
	if a.isLoggedIn() {
		if n, err := a.views.Notifications(); err == nil && n.Total() > 0 {
			fmt.Fprintf(a.out, "You have %d overdue and %d due-soon tasks (type 'notify')\n", len(n.Overdue), len(n.DueSoon))
		}
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() error {
	return a.store.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) isAdmin() bool {
	return a.session.IsAdmin()
}

func (a *App) getStatus() string {
	acct, ok := a.session.Current()
	if !ok {
		return ""
	}
	return fmt.Sprintf("(%s %s)", acct.Email, acct.Role)
}
