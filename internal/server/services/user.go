// Package services contains server-side business logic. This file implements
// UserService: registration, credential verification, and issuing bearer
// tokens backed by ledger entries.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kairo-health/kairo-server/internal/common"
	"github.com/kairo-health/kairo-server/internal/server/auth"
	"github.com/kairo-health/kairo-server/internal/server/config"
	"github.com/kairo-health/kairo-server/internal/server/models"
	"github.com/kairo-health/kairo-server/internal/server/repositories/authsessions"
	"github.com/kairo-health/kairo-server/internal/server/repositories/repomanager"
)

// UserService provides authentication-related operations:
// - Register: create accounts with a hashed secret
// - Login: verify credentials, mint a token, record the ledger entry
// - IsTokenActive / PurgeExpiredSessions: ledger checks for the auth gate
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	sessions      authsessions.Repository
	jwtSecret     []byte
	tokenValidity time.Duration
}

// NewUserService constructs a UserService. The sessions repository is passed
// separately from the manager because the ledger backend is selected at
// startup (Postgres or Redis).
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, sessions authsessions.Repository, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		sessions:      sessions,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
	}
}

// Register creates a new account. The raw password is hashed with bcrypt and
// discarded; it is never stored or returned.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" || password == "" {
		return nil, common.ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{Name: name, Email: email, PasswordHash: string(hash)}

	repo := s.repomanager.Users(s.db)
	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrEmailExists) {
			return nil, common.ErrEmailExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and, on success, returns a signed token
// plus the account. An unknown email and a wrong password produce the same
// common.ErrInvalidCredentials so responses cannot be used to probe for
// registered emails.
func (s *UserService) Login(ctx context.Context, email, password, clientInfo string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, common.ErrValidation
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", nil, common.ErrInvalidCredentials
		}
		return "", nil, common.ErrInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", nil, common.ErrInternal
	}

	expiresAt := time.Now().Add(s.tokenValidity)
	if err := s.sessions.Create(ctx, token, user.ID, expiresAt, clientInfo); err != nil {
		return "", nil, common.ErrInternal
	}

	return token, user, nil
}

// IsTokenActive reports whether the ledger still has a live entry for token.
func (s *UserService) IsTokenActive(ctx context.Context, token string) (bool, error) {
	return s.sessions.IsActive(ctx, token)
}

// PurgeExpiredSessions sweeps expired ledger entries. Called periodically by
// the app; safe to call at any time.
func (s *UserService) PurgeExpiredSessions(ctx context.Context) error {
	return s.sessions.PurgeExpired(ctx)
}
