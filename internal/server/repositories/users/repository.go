// Package users declares the server-side repository contract for user
// accounts and provides its PostgreSQL implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/taskmanager/internal/server/models"
)

// Repository persists user accounts.
type Repository interface {
	// Create inserts user and fills its ID and timestamps. A duplicate email
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByID returns the user or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail looks the user up case-insensitively or returns common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Update overwrites name, email, password hash and age.
	Update(ctx context.Context, user *models.User) error

	// Delete removes the user row.
	Delete(ctx context.Context, id string) error
}
