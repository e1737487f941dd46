// Package server эталонный облачный сервер записей: chi роутер, JWT авторизация,
// upsert по id и выборка по updated_at поверх sqlite или postgres.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/iudanet/fitsync/internal/config"
	"github.com/iudanet/fitsync/internal/server/handlers"
	"github.com/iudanet/fitsync/internal/server/jwt"
	"github.com/iudanet/fitsync/internal/server/middleware"
	"github.com/iudanet/fitsync/internal/server/storage"
	"github.com/iudanet/fitsync/internal/server/storage/postgres"
	"github.com/iudanet/fitsync/internal/server/storage/sqlite"
)

// DefaultTokenTTL время жизни токенов, выпущенных без явного TTL
const DefaultTokenTTL = 24 * time.Hour

const healthPath = "/api/v1/health"

// Server HTTP сервер записей
type Server struct {
	logger          *slog.Logger
	storage         storage.RecordStorage
	limiter         *middleware.RateLimiter
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// OpenStorage открывает хранилище по cfg.Driver
func OpenStorage(ctx context.Context, cfg *config.Server, logger *slog.Logger) (storage.RecordStorage, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.New(ctx, cfg.DSN)
	case "postgres":
		return postgres.New(ctx, cfg.DSN, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// New собирает сервер поверх открытого хранилища
func New(cfg *config.Server, store storage.RecordStorage, logger *slog.Logger) *Server {
	tokens := jwt.NewService(cfg.JWTSecret, DefaultTokenTTL)
	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, 10*time.Minute, logger)

	return &Server{
		logger:          logger,
		storage:         store,
		limiter:         limiter,
		shutdownTimeout: cfg.ShutdownTimeout,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewRouter(logger, store, tokens, limiter, cfg.MaxBatch, cfg.MaxPageSize),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       time.Minute,
			WriteTimeout:      time.Minute,
		},
	}
}

// NewRouter маршруты API:
//
//	GET  /api/v1/health
//	POST /api/v1/tables/{table}/upsert
//	GET  /api/v1/tables/{table}/records
func NewRouter(
	logger *slog.Logger,
	store storage.RecordStorage,
	tokens middleware.TokenValidator,
	limiter *middleware.RateLimiter,
	maxBatch, maxPageSize int,
) http.Handler {
	health := handlers.NewHealthHandler(logger, store)
	records := handlers.NewRecordsHandler(logger, store, maxBatch, maxPageSize)

	r := chi.NewRouter()
	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(middleware.LoggingMiddleware(logger, healthPath))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, logger, http.StatusNotFound, "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, logger, http.StatusMethodNotAllowed, "")
	})

	r.Get(healthPath, health.Health)

	r.Route("/api/v1/tables/{table}", func(r chi.Router) {
		r.Use(limiter.Middleware(middleware.KeyByIP))
		r.Use(middleware.AuthMiddleware(logger, tokens))
		r.Use(limiter.Middleware(middleware.KeyByUser))

		r.Post("/upsert", records.Upsert)
		r.Get("/records", records.Query)
	})

	return r
}

// Run слушает cfg.Addr до отмены ctx
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve обслуживает ln до отмены ctx, затем корректно завершает активные запросы
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.limiter.Stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Server started", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	s.logger.Info("Server stopped")
	return err
}
