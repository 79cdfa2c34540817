package responder

import (
	"context"

	"github.com/kairo-health/kairo-server/internal/common"
)

// UnavailableResponder is selected at startup when no provider credential is
// configured. Every call fails fast with the permanent ErrNotConfigured
// instead of attempting and failing per call.
type UnavailableResponder struct{}

func NewUnavailableResponder() *UnavailableResponder {
	return &UnavailableResponder{}
}

func (r *UnavailableResponder) Generate(ctx context.Context, history []Turn, newText string) (string, error) {
	return "", common.ErrNotConfigured
}
