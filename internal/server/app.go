// Package server initializes and runs the backend: it loads configuration,
// connects to storage, chooses the session ledger and responder backends,
// and starts the HTTP server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sethvargo/go-retry"

	"github.com/kairo-health/kairo-server/internal/logging"
	"github.com/kairo-health/kairo-server/internal/server/config"
	"github.com/kairo-health/kairo-server/internal/server/httpapi"
	"github.com/kairo-health/kairo-server/internal/server/repositories/authsessions"
	"github.com/kairo-health/kairo-server/internal/server/repositories/repomanager"
	"github.com/kairo-health/kairo-server/internal/server/responder"
	"github.com/kairo-health/kairo-server/internal/server/services"
)

type App struct {
	config           *config.Config
	logger           logging.Logger
	db               *sql.DB
	userService      *services.UserService
	chatService      *services.ChatService
	wellbeingService *services.WellbeingService
}

func NewApp(ctx context.Context) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.LoadConfig()

	if cfg.SecretKey == "" {
		return nil, errors.New("no JWT secret configured, refusing to start")
	}

	db, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	manager := repomanager.NewPostgresRepositoryManager()

	if err := manager.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	sessions, err := selectSessionLedger(ctx, cfg, manager, db, logger)
	if err != nil {
		return nil, err
	}

	resp := selectResponder(ctx, cfg, logger)

	us := services.NewUserService(db, manager, sessions, cfg)
	cs := services.NewChatService(db, manager, resp)
	ws := services.NewWellbeingService(db, manager)

	return &App{
		config:           cfg,
		logger:           logger,
		db:               db,
		userService:      us,
		chatService:      cs,
		wellbeingService: ws,
	}, nil
}

// openDB opens the pool and pings it with a bounded backoff so a server
// started alongside its database does not lose the race.
func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		return retry.RetryableError(db.PingContext(ctx))
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// selectSessionLedger picks the ledger backend: Redis when an address is
// configured, the relational store otherwise.
func selectSessionLedger(ctx context.Context, cfg *config.Config, manager repomanager.RepositoryManager, db *sql.DB, logger logging.Logger) (authsessions.Repository, error) {
	if cfg.RedisAddr != "" {
		r, err := authsessions.NewRedisRepository(cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		logger.Info(ctx, "Session ledger backend: redis", "address", cfg.RedisAddr)
		return r, nil
	}
	logger.Info(ctx, "Session ledger backend: postgres")
	return manager.AuthSessions(db), nil
}

// selectResponder returns the Gemini responder when a key is configured.
// Without one the server still runs: every turn answers with the fallback.
func selectResponder(ctx context.Context, cfg *config.Config, logger logging.Logger) responder.Responder {
	if cfg.GeminiAPIKey == "" {
		logger.Warn(ctx, "No Gemini API key configured, chat responses are disabled")
		return responder.NewUnavailableResponder()
	}

	r, err := responder.NewGeminiResponder(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Error(ctx, "Gemini client init failed, chat responses are disabled", "error", err)
		return responder.NewUnavailableResponder()
	}

	logger.Info(ctx, "Responder backend: gemini", "model", cfg.GeminiModel)
	return r
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger,
		app.userService, app.chatService, app.wellbeingService, app.config.SecretKey)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// startSessionPurger sweeps expired ledger entries on a fixed interval until
// the context is cancelled.
func (app *App) startSessionPurger(ctx context.Context) {
	ticker := time.NewTicker(app.config.SessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := app.userService.PurgeExpiredSessions(ctx); err != nil {
				app.logger.Error(ctx, "Session purge failed", "error", err)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startSessionPurger(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "DB close failed", "error", err)
	}
}
