package accounts

import (
	"context"

	"github.com/dmitrijs2005/taskboard/internal/models"
	"github.com/dmitrijs2005/taskboard/internal/storage"
)

type Repository interface {
	Load(ctx context.Context) ([]models.StoredAccount, error)
	Save(ctx context.Context, w storage.Writer, accounts []models.StoredAccount) error
}
