// Package server exposes the related-people feed over HTTP.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/christianvuerings/nakamura/config"
	"github.com/christianvuerings/nakamura/connections"
	"github.com/christianvuerings/nakamura/directory"
	"github.com/christianvuerings/nakamura/profile"
	"github.com/christianvuerings/nakamura/related"
	"github.com/christianvuerings/nakamura/search"
)

// Server wires the feed assembler and its collaborators behind HTTP
// handlers. One Server serves many concurrent requests; all per-request
// state is run-scoped inside the assembler.
type Server struct {
	cfg         *config.Config
	assembler   *related.Assembler
	connections *connections.Store
	search      *search.Store
	limiter     *rate.Limiter
	logger      *zap.SugaredLogger

	httpServer *http.Server
}

// New creates a Server over an opened, migrated database.
func New(cfg *config.Config, db *sql.DB, logger *zap.SugaredLogger) *Server {
	dirStore := directory.NewStore(db, logger.Named("directory"))
	assembler := related.New(dirStore, profile.NewFormatter(), cfg.Feed.MinimumResults, logger)

	return &Server{
		cfg:         cfg,
		assembler:   assembler,
		connections: connections.NewStore(db, logger.Named("connections")),
		search:      search.NewStore(db, logger.Named("search")),
		limiter:     rate.NewLimiter(rate.Limit(cfg.Server.RequestsPerSecond), cfg.Server.Burst),
		logger:      logger,
	}
}

// Routes returns the HTTP handler with all routes registered.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/related", s.rateLimit(s.HandleRelatedFeed))
	mux.HandleFunc("/api/health", s.HandleHealth)
	return mux
}

// Start runs the HTTP server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("Server listening", "address", addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// rateLimit rejects requests beyond the configured feed rate with 429.
func (s *Server) rateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next(w, r)
	}
}

// HandleHealth reports server liveness.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
