package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/campus-events/internal/application"
	"github.com/example/campus-events/internal/availability"
	"github.com/example/campus-events/internal/backend"
	"github.com/example/campus-events/internal/cache"
	"github.com/example/campus-events/internal/config"
	httptransport "github.com/example/campus-events/internal/http"
	"github.com/example/campus-events/internal/logging"
	"github.com/example/campus-events/internal/persistence"
	"github.com/example/campus-events/internal/persistence/sqlite"
	"github.com/example/campus-events/internal/session"
)

// sealedSessionKeys are encrypted before they reach the session database.
var sealedSessionKeys = []string{session.KeyToken, session.KeyEmail}

func main() {
	logger := logging.New(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(".env"); err != nil {
		logger.Error("failed to read .env file", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(ctx, sqlite.DefaultConfig(cfg.SessionDSN), cfg.SessionSecret, sqlite.DefaultKeyParams, sealedSessionKeys...)
	if err != nil {
		logger.Error("failed to open session storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close session storage", "error", cerr)
		}
	}()

	catalogStore, closeCatalog := newCatalogStore(ctx, cfg, logger)
	defer func() {
		if cerr := closeCatalog(); cerr != nil {
			logger.Error("failed to close catalog cache", "error", cerr)
		}
	}()

	credential := session.NewCredential()
	guard := session.NewGuard(newSessionStoreAdapter(storage.Sessions()), credential, time.Now, logger)
	if guard.Restore(ctx) {
		logger.Info("restored stored session")
	}

	client, err := newBackendClient(cfg, credential, guard, logger)
	if err != nil {
		logger.Error("failed to configure backend client", "error", err)
		os.Exit(1)
	}
	router := newHandler(cfg, client, guard, catalogStore, time.Now, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("dashboard gateway listening", "addr", server.Addr, "backend", cfg.BackendURL)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// newBackendClient builds the backend client. A 401 on any request other
// than a login attempt drops the stored session and the installed header.
func newBackendClient(cfg config.Config, credential *session.Credential, guard *session.Guard, logger *slog.Logger) (*backend.Client, error) {
	return backend.New(backend.Options{
		BaseURL:    cfg.BackendURL,
		Timeout:    cfg.RequestTimeout,
		Credential: credential,
		Logger:     logger,
		OnUnauthorized: func(ctx context.Context) {
			if err := guard.ClearSession(ctx); err != nil {
				logger.ErrorContext(ctx, "failed to clear session after 401", "error", err)
			}
		},
	})
}

// newHandler wires the services and the router over client.
func newHandler(cfg config.Config, client *backend.Client, guard *session.Guard, catalogStore cache.Store, now func() time.Time, logger *slog.Logger) http.Handler {
	leads := application.LeadTimes{
		Create: availability.LeadTime(cfg.CreateLeadDays),
		Update: availability.LeadTime(cfg.UpdateLeadDays),
	}
	catalog := cache.NewCatalog(catalogStore, "eventdesk")

	schedulingService := application.NewSchedulingServiceWithLogger(client, client, client, catalog, leads, now, logger)
	authService := application.NewAuthServiceWithLogger(client, guard, logger)
	ticketService := application.NewTicketServiceWithLogger(client, client, logger)
	feedbackService := application.NewFeedbackServiceWithLogger(client, logger)
	directoryService := application.NewDirectoryServiceWithLogger(client, logger)

	return httptransport.NewRouter(httptransport.RouterConfig{
		Auth:      httptransport.NewAuthHandler(authService, logger),
		Events:    httptransport.NewEventHandler(schedulingService, now, logger),
		Catalog:   httptransport.NewCatalogHandler(schedulingService, logger),
		Tickets:   httptransport.NewTicketHandler(ticketService, logger),
		Feedback:  httptransport.NewFeedbackHandler(feedbackService, logger),
		Directory: httptransport.NewDirectoryHandler(directoryService, logger),
		Gate:      guard,
		Policy:    session.DefaultRoutePolicy(),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})
}

// newCatalogStore prefers the shared Redis cache and falls back to process
// memory when Redis is not configured or not reachable.
func newCatalogStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (cache.Store, func() error) {
	memory := func() (cache.Store, func() error) {
		return cache.NewMemory(cfg.CatalogTTL, 0), func() error { return nil }
	}
	if !cfg.RedisEnabled() {
		return memory()
	}

	redis := cache.NewRedis(cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, cfg.CatalogTTL)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := redis.Ping(pingCtx); err != nil {
		logger.Warn("redis unavailable, using in-memory catalog cache", "addr", cfg.RedisAddr, "error", err)
		_ = redis.Close()
		return memory()
	}
	return redis, redis.Close
}

type sessionStoreAdapter struct {
	repo persistence.SessionRepository
}

func newSessionStoreAdapter(repo persistence.SessionRepository) *sessionStoreAdapter {
	return &sessionStoreAdapter{repo: repo}
}

// Load returns the stored session. Fields sealed under a previous secret
// cannot be read again, so they are dropped and the session starts empty.
func (a *sessionStoreAdapter) Load(ctx context.Context) (session.Session, error) {
	fields, err := a.repo.LoadSessionFields(ctx)
	if errors.Is(err, persistence.ErrSealed) {
		if derr := a.repo.DeleteSessionFields(ctx); derr != nil {
			return session.Session{}, derr
		}
		return session.Session{}, nil
	}
	if err != nil {
		return session.Session{}, err
	}
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		values[field.Key] = field.Value
	}
	return session.FromFields(values), nil
}

func (a *sessionStoreAdapter) Save(ctx context.Context, s session.Session) error {
	values := s.Fields()
	fields := make([]persistence.SessionField, 0, len(session.Keys))
	for _, key := range session.Keys {
		fields = append(fields, persistence.SessionField{Key: key, Value: values[key]})
	}
	return a.repo.ReplaceSessionFields(ctx, fields)
}

func (a *sessionStoreAdapter) Clear(ctx context.Context) error {
	return a.repo.DeleteSessionFields(ctx)
}

var _ session.Store = (*sessionStoreAdapter)(nil)
