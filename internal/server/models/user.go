// Package models contains the server-side domain records persisted by the
// repositories.
package models

import "time"

// User is a registered account. PasswordHash never leaves the server: it is
// excluded from every outward-facing response shape.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
