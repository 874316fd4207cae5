// Package tokens declares the server-side repository contract for the set of
// session tokens each user currently holds.
package tokens

import (
	"context"
)

// Repository stores issued session tokens per user.
type Repository interface {
	// Create appends token to userID's token set.
	Create(ctx context.Context, userID string, token string) error

	// Exists reports whether token is still in userID's token set.
	Exists(ctx context.Context, userID string, token string) (bool, error)

	// Delete removes token from userID's set. Deleting a token that is not
	// there is not an error.
	Delete(ctx context.Context, userID string, token string) error

	// DeleteAll empties userID's token set and returns how many were removed.
	DeleteAll(ctx context.Context, userID string) (int64, error)
}
