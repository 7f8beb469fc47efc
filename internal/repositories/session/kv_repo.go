// Package session persists the signed-in marker: the token under "token" and
// a secret-free copy of the account under "user".
package session

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskboard/internal/models"
	"github.com/dmitrijs2005/taskboard/internal/storage"
)

type KVRepository struct {
	r storage.Reader
}

func NewKVRepository(r storage.Reader) *KVRepository {
	return &KVRepository{r: r}
}

// Load returns whatever is persisted. Either part may be missing; the caller
// decides whether a half-present session counts.
func (r *KVRepository) Load(ctx context.Context) (string, *models.Account, error) {
	tok, err := r.r.Get(ctx, storage.KeyToken)
	if err != nil {
		return "", nil, err
	}

	var acct models.Account
	ok, err := storage.GetJSON(ctx, r.r, storage.KeyUser, &acct)
	if err != nil {
		return string(tok), nil, err
	}
	if !ok {
		return string(tok), nil, nil
	}
	return string(tok), &acct, nil
}

func (r *KVRepository) Save(ctx context.Context, w storage.Writer, token string, account models.Account) error {
	if err := w.Set(ctx, storage.KeyToken, []byte(token)); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return storage.SetJSON(ctx, w, storage.KeyUser, account)
}

func (r *KVRepository) Clear(ctx context.Context, w storage.Writer) error {
	if err := w.Delete(ctx, storage.KeyToken); err != nil {
		return err
	}
	return w.Delete(ctx, storage.KeyUser)
}
