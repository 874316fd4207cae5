// Package avatars declares where processed avatar images live. It provides
// a PostgreSQL implementation that keeps them in the users table and an
// S3 implementation for object storage.
package avatars

import (
	"context"
)

// Repository stores one PNG avatar per user.
type Repository interface {
	// Put stores data as userID's avatar, replacing any previous one.
	Put(ctx context.Context, userID string, data []byte) error

	// Get returns userID's avatar or common.ErrorNotFound when the user or
	// the avatar does not exist.
	Get(ctx context.Context, userID string) ([]byte, error)

	// Delete removes userID's avatar. Removing a missing avatar is not an error.
	Delete(ctx context.Context, userID string) error
}
