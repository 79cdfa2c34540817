package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/kairo-health/kairo-server/internal/common"
	"github.com/kairo-health/kairo-server/internal/server/auth"
)

type contextKey string

const userIDContextKey contextKey = "userID"

// userIDFromContext returns the authenticated user id stored by requireAuth.
func userIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDContextKey).(string)
	return id, ok
}

// requireAuth gates a handler behind bearer authentication. The token must
// carry a valid signature and the session ledger must still list it; a token
// whose ledger entry was revoked or expired is rejected even if the signature
// verifies.
func (s *HTTPServer) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		header := r.Header.Get("Authorization")
		if header == "" {
			s.writeError(ctx, w, common.ErrMissingCredentials)
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.writeError(ctx, w, common.ErrMissingCredentials)
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			s.writeError(ctx, w, common.ErrInvalidToken)
			return
		}

		active, err := s.users.IsTokenActive(ctx, token)
		if err != nil {
			s.writeError(ctx, w, err)
			return
		}
		if !active {
			s.writeError(ctx, w, common.ErrInvalidToken)
			return
		}

		next(w, r.WithContext(context.WithValue(ctx, userIDContextKey, userID)))
	}
}
