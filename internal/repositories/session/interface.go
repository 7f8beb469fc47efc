package session

import (
	"context"

	"github.com/dmitrijs2005/taskboard/internal/models"
	"github.com/dmitrijs2005/taskboard/internal/storage"
)

type Repository interface {
	Load(ctx context.Context) (token string, account *models.Account, err error)
	Save(ctx context.Context, w storage.Writer, token string, account models.Account) error
	Clear(ctx context.Context, w storage.Writer) error
}
