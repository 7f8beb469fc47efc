package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskboard/internal/auth"
	"github.com/dmitrijs2005/taskboard/internal/cryptox"
	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/repositories/accounts"
	"github.com/dmitrijs2005/taskboard/internal/repositories/session"
	"github.com/dmitrijs2005/taskboard/internal/repositories/tasks"
	"github.com/dmitrijs2005/taskboard/internal/storage"
	"github.com/dmitrijs2005/taskboard/internal/timex"
)

var errDiskFull = errors.New("disk full")

// flakyStore fails every Atomic call while failing is set.
type flakyStore struct {
	*storage.MemoryStore
	failing atomic.Bool
}

func (f *flakyStore) Atomic(ctx context.Context, fn func(ctx context.Context, w storage.Writer) error) error {
	if f.failing.Load() {
		return errDiskFull
	}
	return f.MemoryStore.Atomic(ctx, fn)
}

// manualClock advances only when told to.
type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time           { return c.now }
func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type env struct {
	store    *flakyStore
	clock    *manualClock
	tokens   *auth.TokenIssuer
	session  SessionService
	users    UserDirectory
	tasks    TaskStore
	matcher  cryptox.SecretMatcher
	accounts *accounts.KVRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWith(t, &flakyStore{MemoryStore: storage.NewMemory()}, cryptox.Plaintext{})
}

func newEnvWith(t *testing.T, st *flakyStore, matcher cryptox.SecretMatcher) *env {
	t.Helper()
	clock := &manualClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	tokens := auth.NewTokenIssuer([]byte("test-secret"), clock.Now)
	acctRepo := accounts.NewKVRepository(st)
	log := logging.Nop()

	e := &env{
		store:    st,
		clock:    clock,
		tokens:   tokens,
		matcher:  matcher,
		accounts: acctRepo,
		session:  NewSessionService(st, acctRepo, session.NewKVRepository(st), matcher, tokens, log),
		users:    NewUserDirectory(st, acctRepo, matcher, log),
		tasks:    NewTaskStore(st, tasks.NewKVRepository(st), clock, log),
	}
	require.NoError(t, e.users.Reload(context.Background()))
	require.NoError(t, e.tasks.Reload(context.Background()))
	return e
}

var _ timex.Clock = (*manualClock)(nil)
