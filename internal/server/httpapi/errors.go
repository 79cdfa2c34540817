package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kairo-health/kairo-server/internal/common"
)

type errorResponse struct {
	Message string `json:"message"`
}

// writeError maps a domain error to an HTTP status and a JSON body. Unknown
// errors are logged and masked as a generic 500 so internals never leak to
// the caller.
func (s *HTTPServer) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var status int
	var message string

	switch {
	case errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, common.ErrEmailExists):
		status = http.StatusConflict
		message = "User already exists with this email"
	case errors.Is(err, common.ErrMissingCredentials):
		status = http.StatusUnauthorized
		message = "Authorization token required"
	case errors.Is(err, common.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = "Invalid credentials"
	case errors.Is(err, common.ErrInvalidToken):
		status = http.StatusUnauthorized
		message = "Invalid or expired token"
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
		message = "Not found"
	case errors.Is(err, common.ErrProviderUnavailable), errors.Is(err, common.ErrNotConfigured):
		status = http.StatusServiceUnavailable
		message = common.ProviderFallbackMessage
	default:
		s.logger.Error(ctx, "Unhandled error", "error", err)
		status = http.StatusInternalServerError
		message = "Internal server error"
	}

	writeJSON(w, status, errorResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
