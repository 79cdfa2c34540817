package models

import "time"

// Message roles as stored. The responder-facing role names differ; see the
// responder package's projection.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatSession is one named conversation owned by a single user. Messages are
// kept in their own table; the session row carries ownership and timestamps.
type ChatSession struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChatMessage is a single immutable history entry. Seq is assigned by the
// store on append and defines replay order.
type ChatMessage struct {
	Seq       int64
	SessionID string
	Role      string
	Content   string
	CreatedAt time.Time
}
