package tokens

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskmanager/internal/dbx"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new token for userID.
func (r *PostgresRepository) Create(ctx context.Context, userID string, token string) error {
	query := `
		INSERT INTO auth_tokens (user_id, token)
		VALUES ($1, $2)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, token); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

// Exists checks token membership in userID's set.
func (r *PostgresRepository) Exists(ctx context.Context, userID string, token string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM auth_tokens WHERE user_id = $1 AND token = $2)
	`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, userID, token).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

// Delete removes one token of userID.
func (r *PostgresRepository) Delete(ctx context.Context, userID string, token string) error {
	query := `
		DELETE FROM auth_tokens
		WHERE user_id = $1 AND token = $2
	`
	if _, err := r.db.ExecContext(ctx, query, userID, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteAll removes every token of userID.
func (r *PostgresRepository) DeleteAll(ctx context.Context, userID string) (int64, error) {
	query := `
		DELETE FROM auth_tokens
		WHERE user_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
