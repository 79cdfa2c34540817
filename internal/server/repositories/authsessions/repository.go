// Package authsessions is the session ledger: one durable entry per issued
// token, checked by the auth gate and purged once expired.
//
// Validity is always decided by comparing the recorded expiry against the
// clock at call time. Backends may additionally lean on store-level TTLs
// for hygiene, but IsActive never depends on a background sweep having run.
package authsessions

import (
	"context"
	"time"
)

type Repository interface {
	// Create records the ledger entry for a freshly issued token.
	// One entry per token; token is the key.
	Create(ctx context.Context, token string, userID string, expiresAt time.Time, clientInfo string) error

	// IsActive reports whether an entry exists for token and its expiry
	// has not passed.
	IsActive(ctx context.Context, token string) (bool, error)

	// Delete removes the entry for token, ending the session server-side.
	// Reserved for explicit revocation (logout); no endpoint exposes it yet.
	Delete(ctx context.Context, token string) error

	// PurgeExpired removes entries past their expiry. Idempotent.
	PurgeExpired(ctx context.Context) error
}
