// Package preferences keeps UI preferences that outlive a session.
package preferences

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/taskboard/internal/storage"
)

type Repository interface {
	DarkMode(ctx context.Context) (bool, error)
	SetDarkMode(ctx context.Context, w storage.Writer, on bool) error
}

type KVRepository struct {
	r storage.Reader
}

func NewKVRepository(r storage.Reader) *KVRepository {
	return &KVRepository{r: r}
}

// DarkMode reports false when the key is absent or unreadable as a bool.
func (r *KVRepository) DarkMode(ctx context.Context) (bool, error) {
	b, err := r.r.Get(ctx, storage.KeyDarkMode)
	if err != nil || b == nil {
		return false, err
	}
	on, err := strconv.ParseBool(string(b))
	if err != nil {
		return false, nil
	}
	return on, nil
}

func (r *KVRepository) SetDarkMode(ctx context.Context, w storage.Writer, on bool) error {
	return w.Set(ctx, storage.KeyDarkMode, []byte(strconv.FormatBool(on)))
}
