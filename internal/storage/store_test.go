package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskboard/internal/logging"
)

func memoryDSN() string {
	return "file:" + uuid.NewString() + "?mode=memory&cache=shared"
}

func openSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), memoryDSN(), logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// backends runs the same contract against every Store implementation.
func backends(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	return map[string]func(t *testing.T) Store{
		"sqlite": func(t *testing.T) Store { return openSQLite(t) },
		"memory": func(t *testing.T) Store { return NewMemory() },
	}
}

func TestStore_Contract(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("get absent returns nil nil", func(t *testing.T) {
				s := open(t)
				v, err := s.Get(ctx, KeyTasks)
				require.NoError(t, err)
				require.Nil(t, v)
			})

			t.Run("set then get", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.Set(ctx, KeyTasks, []byte(`[]`)))
				v, err := s.Get(ctx, KeyTasks)
				require.NoError(t, err)
				require.Equal(t, []byte(`[]`), v)
			})

			t.Run("set overwrites", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.Set(ctx, KeyDarkMode, []byte("false")))
				require.NoError(t, s.Set(ctx, KeyDarkMode, []byte("true")))
				v, err := s.Get(ctx, KeyDarkMode)
				require.NoError(t, err)
				require.Equal(t, []byte("true"), v)
			})

			t.Run("delete is idempotent", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.Set(ctx, KeyToken, []byte("tok")))
				require.NoError(t, s.Delete(ctx, KeyToken))
				require.NoError(t, s.Delete(ctx, KeyToken))
				v, err := s.Get(ctx, KeyToken)
				require.NoError(t, err)
				require.Nil(t, v)
			})

			t.Run("list and clear", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.Set(ctx, KeyUsers, []byte(`[]`)))
				require.NoError(t, s.Set(ctx, KeyTasks, []byte(`[{}]`)))

				m, err := s.List(ctx)
				require.NoError(t, err)
				assert.Len(t, m, 2)
				assert.Equal(t, []byte(`[{}]`), m[KeyTasks])

				require.NoError(t, s.Clear(ctx))
				m, err = s.List(ctx)
				require.NoError(t, err)
				assert.Empty(t, m)
			})

			t.Run("atomic commits every write", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.Set(ctx, KeyToken, []byte("old")))

				err := s.Atomic(ctx, func(ctx context.Context, w Writer) error {
					if err := w.Set(ctx, KeyUser, []byte(`{"id":"1"}`)); err != nil {
						return err
					}
					return w.Delete(ctx, KeyToken)
				})
				require.NoError(t, err)

				v, err := s.Get(ctx, KeyUser)
				require.NoError(t, err)
				assert.Equal(t, []byte(`{"id":"1"}`), v)
				v, err = s.Get(ctx, KeyToken)
				require.NoError(t, err)
				assert.Nil(t, v)
			})

			t.Run("atomic discards everything on error", func(t *testing.T) {
				s := open(t)
				require.NoError(t, s.Set(ctx, KeyUsers, []byte(`["keep"]`)))
				boom := errors.New("boom")

				err := s.Atomic(ctx, func(ctx context.Context, w Writer) error {
					require.NoError(t, w.Set(ctx, KeyUsers, []byte(`["lost"]`)))
					require.NoError(t, w.Set(ctx, KeyToken, []byte("lost")))
					return boom
				})
				require.ErrorIs(t, err, boom)

				v, err := s.Get(ctx, KeyUsers)
				require.NoError(t, err)
				assert.Equal(t, []byte(`["keep"]`), v)
				v, err = s.Get(ctx, KeyToken)
				require.NoError(t, err)
				assert.Nil(t, v)
			})
		})
	}
}

func TestOpenSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/taskboard.db"

	s, err := OpenSQLite(ctx, path, logging.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyTasks, []byte(`[1]`)))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	v, err := s.Get(ctx, KeyTasks)
	require.NoError(t, err)
	require.Equal(t, []byte(`[1]`), v)
}

func TestSQLiteStore_ErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)
	require.NoError(t, s.Close())

	_, err := s.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get local_storage[k]")

	err = s.Set(ctx, "k", []byte("v"))
	require.ErrorContains(t, err, "failed to set local_storage[k]")

	err = s.Delete(ctx, "k")
	require.ErrorContains(t, err, "failed to delete local_storage[k]")

	err = s.Clear(ctx)
	require.ErrorContains(t, err, "failed to clear local_storage")

	_, err = s.List(ctx)
	require.ErrorContains(t, err, "failed to list local_storage")

	err = s.Atomic(ctx, func(ctx context.Context, w Writer) error { return nil })
	require.ErrorContains(t, err, "begin tx")
}

func TestRunMigrations_Idempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", memoryDSN())
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(ctx, db, logging.Nop()))
	require.NoError(t, RunMigrations(ctx, db, logging.Nop()))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM local_storage`).Scan(&n))
	require.Equal(t, 0, n)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	in := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", in))
	in[0] = 'X'

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), v)

	v[0] = 'Y'
	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), again)
}
