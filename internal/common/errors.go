// Package common defines the sentinel errors shared by all server layers.
// Callers should use errors.Is to match these values; the HTTP layer maps
// them to status codes in one place.
package common

import "errors"

var (
	// Caller input errors.
	ErrValidation  = errors.New("validation error")
	ErrEmailExists = errors.New("email already registered")

	// Auth errors. ErrInvalidCredentials deliberately covers both an
	// unknown email and a wrong password so responses cannot be used to
	// enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("authentication required")
	ErrInvalidToken       = errors.New("invalid or expired token")

	// Resource errors. Ownership failures are reported as ErrNotFound so a
	// foreign session is indistinguishable from a missing one.
	ErrNotFound = errors.New("not found")

	// Responder errors. ErrNotConfigured is permanent (no provider
	// credential at startup); ErrProviderUnavailable is transient.
	ErrNotConfigured       = errors.New("ai service not configured")
	ErrProviderUnavailable = errors.New("ai service unavailable")

	ErrInternal = errors.New("internal error")
)

// ProviderFallbackMessage is the safe, user-presentable text returned with
// ErrProviderUnavailable and ErrNotConfigured. It is shown to the caller but
// never stored as conversation history.
const ProviderFallbackMessage = "I'm sorry, the AI service is currently unavailable. Please try again later."
