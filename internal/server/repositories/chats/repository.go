// Package chats is the conversation store: session rows plus an append-only
// message log replayed in insertion order.
package chats

import (
	"context"

	"github.com/kairo-health/kairo-server/internal/server/models"
)

type Repository interface {
	// CreateSession persists a new empty session owned by session.UserID.
	CreateSession(ctx context.Context, session *models.ChatSession) error

	// GetSession loads a session by id and owner. A session owned by
	// someone else is reported exactly like a missing one:
	// common.ErrNotFound.
	GetSession(ctx context.Context, sessionID, userID string) (*models.ChatSession, error)

	// ListMessages returns the session's messages in append order.
	ListMessages(ctx context.Context, sessionID string) ([]*models.ChatMessage, error)

	// AppendMessage adds one immutable message to the end of the log.
	AppendMessage(ctx context.Context, msg *models.ChatMessage) error

	// TouchSession bumps the session's updated_at.
	TouchSession(ctx context.Context, sessionID string) error
}
