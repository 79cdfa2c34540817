// Package responder wraps the external text-generation capability. The
// provider is stateless: it only knows what is replayed to it on each call,
// so history order is load-bearing.
package responder

import (
	"context"

	"github.com/kairo-health/kairo-server/internal/server/models"
)

// Wire-level turn roles expected by the provider.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one history entry in the provider's expected shape.
type Turn struct {
	Role string
	Text string
}

// Responder generates the assistant's reply to newText given the prior
// conversation. Implementations return common.ErrProviderUnavailable for
// transient provider failures and common.ErrNotConfigured when no provider
// credential was configured at startup.
type Responder interface {
	Generate(ctx context.Context, history []Turn, newText string) (string, error)
}

// ProjectHistory maps stored messages onto provider turns, preserving order
// exactly and translating the stored "assistant" role to the provider's
// "model" role. Pure function; no side effects.
func ProjectHistory(messages []*models.ChatMessage) []Turn {
	turns := make([]Turn, 0, len(messages))
	for _, m := range messages {
		role := RoleUser
		if m.Role == models.RoleAssistant {
			role = RoleModel
		}
		turns = append(turns, Turn{Role: role, Text: m.Content})
	}
	return turns
}
