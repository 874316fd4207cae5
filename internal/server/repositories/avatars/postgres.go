package avatars

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskmanager/internal/common"
	"github.com/dmitrijs2005/taskmanager/internal/dbx"
)

// PostgresRepository keeps avatars in users.avatar over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Put writes data into the user's row. Exactly one row must be affected.
func (r *PostgresRepository) Put(ctx context.Context, userID string, data []byte) error {
	query := `UPDATE users SET avatar = $2, updated_at = now() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, userID, data)
	if err != nil {
		return fmt.Errorf("failed to store avatar: %w", err)
	}
	return dbx.ExpectAffected(result)
}

// Get reads the avatar bytes. A NULL avatar is reported as not found.
func (r *PostgresRepository) Get(ctx context.Context, userID string) ([]byte, error) {
	query := `SELECT avatar FROM users WHERE id = $1`

	var data []byte
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select avatar: %w", err)
	}
	if len(data) == 0 {
		return nil, common.ErrorNotFound
	}
	return data, nil
}

// Delete sets the avatar to NULL.
func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	query := `UPDATE users SET avatar = NULL, updated_at = now() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear avatar: %w", err)
	}
	return nil
}
