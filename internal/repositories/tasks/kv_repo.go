// Package tasks persists the task list under the "tasks" key.
package tasks

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

func (r *KVRepository) Load(ctx context.Context) ([]models.Task, error) {
	var out []models.Task
	if _, err := storage.GetJSON(ctx, r.r, storage.KeyTasks, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Task{}
	}
	for i := range out {
		if out[i].Documents == nil {
			out[i].Documents = []models.Document{}
		}
	}
	return out, nil
}

func (r *KVRepository) Save(ctx context.Context, w storage.Writer, tasks []models.Task) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	return storage.SetJSON(ctx, w, storage.KeyTasks, tasks)
}
