package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"schoolpulse/exportd/pkg/config"
	"schoolpulse/exportd/pkg/export"
	"schoolpulse/exportd/pkg/security/auth"
	"schoolpulse/exportd/pkg/server/handlers"
	"schoolpulse/exportd/pkg/server/middleware"
	"schoolpulse/exportd/pkg/storage"
	"schoolpulse/exportd/pkg/telemetry/health"
	"schoolpulse/exportd/pkg/telemetry/metrics"
)

// Server is the HTTP server for the export service.
type Server struct {
	config       *config.Config
	db           *storage.Database
	checker      *health.Checker
	collector    *metrics.Collector
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates the export server. collector may be nil when metrics
// are disabled.
func NewServer(cfg *config.Config, db *storage.Database, checker *health.Checker, collector *metrics.Collector) *Server {
	return &Server{
		config:       cfg,
		db:           db,
		checker:      checker,
		collector:    collector,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        handler,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting export server",
			"address", s.config.Server.ListenAddress,
			"driver", s.db.Driver(),
			"api_key_required", s.config.Auth.RequireAPIKey,
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("export server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	builder := export.NewBuilder(s.config.Database.Schema, s.config.Database.RefSchema)

	var em *metrics.ExportMetrics
	if s.collector != nil {
		em = s.collector.Export
	}

	var exportHandler http.Handler = handlers.NewExportHandler(s.db, builder, s.config.Export, em)
	if s.config.Auth.RequireAPIKey {
		validator := auth.NewValidator(s.config.Auth.APIKey)
		authMW := auth.NewMiddleware(validator, []auth.KeySource{
			{Type: "header", Name: s.config.Auth.HeaderName},
			{Type: "query", Name: s.config.Auth.QueryParam},
		})
		exportHandler = authMW.Handle(exportHandler)
	}

	mux.Handle("/export", exportHandler)
	mux.Handle("/health", handlers.NewHealthHandler())
	mux.Handle("/ready", handlers.NewReadyHandler(s.checker))

	if s.collector != nil && s.config.Telemetry.Metrics.Enabled {
		mux.Handle(s.config.Telemetry.Metrics.Path, s.collector.Handler())
	}

	// Middleware chain, innermost first
	var handler http.Handler = mux
	handler = middleware.TimeoutMiddleware(s.config.Server.WriteTimeout)(handler)
	handler = middleware.CORSMiddleware(s.config.Server.CORS)(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

// Handler returns the configured HTTP handler. Used by tests to exercise
// the full chain without a listener.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
