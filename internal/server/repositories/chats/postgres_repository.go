package chats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kairo-health/kairo-server/internal/common"
	"github.com/kairo-health/kairo-server/internal/dbx"
	"github.com/kairo-health/kairo-server/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateSession(ctx context.Context, session *models.ChatSession) error {

	query :=
		`INSERT INTO chat_sessions (id, user_id)
         VALUES ($1, $2)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, session.ID, session.UserID).
		Scan(&session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// GetSession filters by owner in the query itself so an existence probe with
// someone else's session id scans zero rows.
func (r *PostgresRepository) GetSession(ctx context.Context, sessionID, userID string) (*models.ChatSession, error) {
	query :=
		`SELECT id, user_id, created_at, updated_at FROM chat_sessions
		 WHERE id = $1 AND user_id = $2
		 `

	session := &models.ChatSession{}
	err := r.db.QueryRowContext(ctx, query, sessionID, userID).
		Scan(&session.ID, &session.UserID, &session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

func (r *PostgresRepository) ListMessages(ctx context.Context, sessionID string) ([]*models.ChatMessage, error) {
	query :=
		`SELECT id, session_id, role, content, created_at FROM chat_messages
		 WHERE session_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var messages []*models.ChatMessage
	for rows.Next() {
		m := &models.ChatMessage{}
		if err := rows.Scan(&m.Seq, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return messages, nil
}

func (r *PostgresRepository) AppendMessage(ctx context.Context, msg *models.ChatMessage) error {
	query :=
		`INSERT INTO chat_messages (session_id, role, content)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, msg.SessionID, msg.Role, msg.Content).
		Scan(&msg.Seq, &msg.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) TouchSession(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE chat_sessions SET updated_at = now() WHERE id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
