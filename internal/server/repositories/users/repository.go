// Package users is the credential store: durable account records with a
// hashed secret.
package users

import (
	"context"

	"github.com/kairo-health/kairo-server/internal/server/models"
)

type Repository interface {
	// Create inserts a new account. A duplicate email (case-insensitive)
	// yields common.ErrEmailExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks an account up by case-normalized email. Absence
	// yields common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks an account up by id. Absence yields common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
