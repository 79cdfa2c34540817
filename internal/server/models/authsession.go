package models

import "time"

// AuthSession is the server-side ledger entry for one issued token. Its
// lifetime is bounded by ExpiresAt regardless of the token's own signature
// validity, which is what makes server-side revocation possible.
type AuthSession struct {
	Token      string
	UserID     string
	ExpiresAt  time.Time
	ClientInfo string
	CreatedAt  time.Time
}
