package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/kairo-health/kairo-server/internal/common"
	"github.com/kairo-health/kairo-server/internal/dbx"
	"github.com/kairo-health/kairo-server/internal/server/models"
	"github.com/kairo-health/kairo-server/internal/server/repositories/repomanager"
	"github.com/kairo-health/kairo-server/internal/server/responder"
)

// ChatService is the turn-taking core. It creates sessions, replays stored
// history into the responder's shape, and appends both sides of a successful
// exchange. Turns on the same session are serialized so one turn's context
// is never built from a partial view of another's in-flight append.
type ChatService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	responder   responder.Responder

	// sessionLocks maps session id -> *sync.Mutex. Entries are tiny and
	// the session space is bounded by real users, so they are not evicted.
	sessionLocks sync.Map
}

func NewChatService(db *sql.DB, m repomanager.RepositoryManager, r responder.Responder) *ChatService {
	return &ChatService{
		db:          db,
		repomanager: m,
		responder:   r,
	}
}

func (s *ChatService) lockSession(sessionID string) *sync.Mutex {
	v, _ := s.sessionLocks.LoadOrStore(sessionID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// CreateSession persists a new empty conversation owned by userID. This is
// the only creation path; sending a message never creates a session.
func (s *ChatService) CreateSession(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", common.ErrValidation
	}

	if _, err := s.repomanager.Users(s.db).GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("loading user: %w", err)
	}

	session := &models.ChatSession{
		ID:     uuid.NewString(),
		UserID: userID,
	}

	if err := s.repomanager.Chats(s.db).CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("creating chat session: %w", err)
	}

	return session.ID, nil
}

// SendTurn runs one exchange: load history, call the responder, and on
// success append the user message followed by the assistant reply in a
// single transaction. On responder failure nothing is appended — the stored
// history never contains fabricated assistant text.
func (s *ChatService) SendTurn(ctx context.Context, sessionID, userID, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" || userID == "" || sessionID == "" {
		return "", common.ErrValidation
	}

	mu := s.lockSession(sessionID)
	mu.Lock()
	defer mu.Unlock()

	repo := s.repomanager.Chats(s.db)

	// Ownership is part of the lookup: a foreign session reads as missing.
	session, err := repo.GetSession(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("loading chat session: %w", err)
	}

	messages, err := repo.ListMessages(ctx, session.ID)
	if err != nil {
		return "", fmt.Errorf("loading history: %w", err)
	}

	history := responder.ProjectHistory(messages)

	reply, err := s.responder.Generate(ctx, history, text)
	if err != nil {
		if errors.Is(err, common.ErrNotConfigured) || errors.Is(err, common.ErrProviderUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", common.ErrProviderUnavailable, err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		txRepo := s.repomanager.Chats(tx)

		userMsg := &models.ChatMessage{SessionID: session.ID, Role: models.RoleUser, Content: text}
		if err := txRepo.AppendMessage(ctx, userMsg); err != nil {
			return err
		}

		assistantMsg := &models.ChatMessage{SessionID: session.ID, Role: models.RoleAssistant, Content: reply}
		if err := txRepo.AppendMessage(ctx, assistantMsg); err != nil {
			return err
		}

		return txRepo.TouchSession(ctx, session.ID)
	})
	if err != nil {
		return "", fmt.Errorf("recording turn: %w", err)
	}

	return reply, nil
}
