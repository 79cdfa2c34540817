// Package httpapi exposes the server's REST surface and the bearer-token
// auth gate in front of it.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kairo-health/kairo-server/internal/logging"
	"github.com/kairo-health/kairo-server/internal/server/models"
)

// UserProvider is the slice of the user service the HTTP layer needs.
type UserProvider interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password, clientInfo string) (string, *models.User, error)
	IsTokenActive(ctx context.Context, token string) (bool, error)
}

// ChatProvider is the slice of the chat service the HTTP layer needs.
type ChatProvider interface {
	CreateSession(ctx context.Context, userID string) (string, error)
	SendTurn(ctx context.Context, sessionID, userID, text string) (string, error)
}

// WellbeingProvider is the slice of the wellbeing service the HTTP layer needs.
type WellbeingProvider interface {
	LogMood(ctx context.Context, userID string, score int, note string) (*models.MoodEntry, error)
	ListMoods(ctx context.Context, userID string) ([]*models.MoodEntry, error)
	LogActivity(ctx context.Context, userID, activityType, name string, durationMinutes int, description string) (*models.ActivityEntry, error)
	ListActivities(ctx context.Context, userID string) ([]*models.ActivityEntry, error)
}

type HTTPServer struct {
	address   string
	logger    logging.Logger
	users     UserProvider
	chats     ChatProvider
	wellbeing WellbeingProvider
	jwtSecret []byte
	startedAt time.Time
}

func NewHTTPServer(a string, l logging.Logger, us UserProvider, cs ChatProvider, ws WellbeingProvider, secretKey string) (*HTTPServer, error) {
	if secretKey == "" {
		return nil, errors.New("no JWT secret configured")
	}
	return &HTTPServer{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		chats:     cs,
		wellbeing: ws,
		jwtSecret: []byte(secretKey),
		startedAt: time.Now(),
	}, nil
}

// Handler builds the route table. Split from Run so tests can drive the mux
// through httptest without binding a socket.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	mux.HandleFunc("POST /api/chat/session", s.requireAuth(s.handleCreateSession))
	mux.HandleFunc("POST /api/chat/{sessionId}/message", s.requireAuth(s.handleSendMessage))

	mux.HandleFunc("POST /api/moods", s.requireAuth(s.handleLogMood))
	mux.HandleFunc("GET /api/moods", s.requireAuth(s.handleListMoods))
	mux.HandleFunc("POST /api/activities", s.requireAuth(s.handleLogActivity))
	mux.HandleFunc("GET /api/activities", s.requireAuth(s.handleListActivities))

	mux.HandleFunc("GET /api/health", s.handleHealth)

	return mux
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
