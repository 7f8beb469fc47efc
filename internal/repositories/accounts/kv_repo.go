// Package accounts persists the account list, secrets included, under the
// "users" key.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/taskboard/internal/models"
	"github.com/dmitrijs2005/taskboard/internal/storage"
)

type KVRepository struct {
	r storage.Reader
}

func NewKVRepository(r storage.Reader) *KVRepository {
	return &KVRepository{r: r}
}

// Load returns the persisted accounts, or an empty list when none were saved.
func (r *KVRepository) Load(ctx context.Context) ([]models.StoredAccount, error) {
	var out []models.StoredAccount
	if _, err := storage.GetJSON(ctx, r.r, storage.KeyUsers, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.StoredAccount{}
	}
	return out, nil
}

// Save replaces the whole list through w, which may be a transaction.
func (r *KVRepository) Save(ctx context.Context, w storage.Writer, accounts []models.StoredAccount) error {
	if accounts == nil {
		accounts = []models.StoredAccount{}
	}
	return storage.SetJSON(ctx, w, storage.KeyUsers, accounts)
}
