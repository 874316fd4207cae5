// Package tasks declares the owner-scoped repository contract for tasks and
// provides its PostgreSQL implementation. Every read and write takes the
// owner's ID and never touches rows of other owners.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskmanager/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	List(ctx context.Context, ownerID string, q models.TaskQuery) ([]*models.Task, error)
	Get(ctx context.Context, ownerID, id string) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, ownerID, id string) (*models.Task, error)
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}
