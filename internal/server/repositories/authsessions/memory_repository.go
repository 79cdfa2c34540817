package authsessions

import (
	"context"
	"sync"
	"time"

	"github.com/kairo-health/kairo-server/internal/server/models"
)

// MemoryRepository is a map-backed ledger used in tests and as a reference
// for the backend contract: IsActive is an explicit expiry comparison, with
// purge only a hygiene pass.
type MemoryRepository struct {
	mu      sync.Mutex
	entries map[string]*models.AuthSession
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[string]*models.AuthSession)}
}

func (r *MemoryRepository) Create(ctx context.Context, token string, userID string, expiresAt time.Time, clientInfo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[token] = &models.AuthSession{
		Token:      token,
		UserID:     userID,
		ExpiresAt:  expiresAt,
		ClientInfo: clientInfo,
		CreatedAt:  time.Now(),
	}
	return nil
}

func (r *MemoryRepository) IsActive(ctx context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[token]
	if !ok {
		return false, nil
	}
	return time.Now().Before(entry.ExpiresAt), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, token)
	return nil
}

func (r *MemoryRepository) PurgeExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for token, entry := range r.entries {
		if !now.Before(entry.ExpiresAt) {
			delete(r.entries, token)
		}
	}
	return nil
}

// Len reports the number of stored entries, expired or not.
func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
