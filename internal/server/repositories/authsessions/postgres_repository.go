package authsessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kairo-health/kairo-server/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, token string, userID string, expiresAt time.Time, clientInfo string) error {

	query :=
		`INSERT INTO auth_sessions (token, user_id, expires_at, client_info)
         VALUES ($1, $2, $3, $4)
		 `

	_, err := r.db.ExecContext(ctx, query, token, userID, expiresAt, clientInfo)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// IsActive checks expiry explicitly rather than trusting the purge to have
// removed stale rows already.
func (r *PostgresRepository) IsActive(ctx context.Context, token string) (bool, error) {
	query :=
		`SELECT expires_at FROM auth_sessions
		 WHERE token = $1
		 `

	var expiresAt time.Time
	err := r.db.QueryRowContext(ctx, query, token).Scan(&expiresAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}

	return time.Now().Before(expiresAt), nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) PurgeExpired(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE expires_at <= now()`)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
