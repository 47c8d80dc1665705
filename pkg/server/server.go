package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"lightning-jet/jet/pkg/config"
	"lightning-jet/jet/pkg/telemetry/health"
	"lightning-jet/jet/pkg/telemetry/metrics"
	"lightning-jet/jet/pkg/telemetry/tracing"
)

// Options selects what the ops server exposes. Nil components are skipped.
type Options struct {
	// Metrics is served at MetricsConfig.Path when metrics are enabled.
	Metrics       *metrics.Collector
	MetricsConfig config.MetricsConfig

	// Health serves liveness, readiness and version endpoints.
	Health       *health.Checker
	HealthConfig config.HealthConfig
	Version      health.VersionInfo

	// Tracer wraps every request in a server span.
	Tracer *tracing.Tracer
}

// Server is the ops HTTP server started by "jet serve".
type Server struct {
	config       *config.ServerConfig
	options      Options
	httpServer   *http.Server
	logger       *slog.Logger
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
	addr         net.Addr
}

// NewServer creates an ops server.
func NewServer(cfg *config.ServerConfig, opts Options) *Server {
	return &Server{
		config:  cfg,
		options: opts,
		logger:  slog.Default().With("component", "server"),
	}
}

// Start listens on ListenAddress and serves until ctx is canceled, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.ListenAddress, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled. ln is closed on return. When
// TLS is enabled the listener is wrapped and certificates are reloaded from
// disk for the lifetime of ctx.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		ln.Close()
		return fmt.Errorf("server is already running")
	}
	if s.config.TLS.Enabled {
		reloader := newCertReloader(s.config.TLS, s.logger)
		if err := reloader.start(ctx); err != nil {
			s.mu.Unlock()
			ln.Close()
			return fmt.Errorf("tls: %w", err)
		}
		ln = tls.NewListener(ln, tlsConfig(s.config.TLS, reloader))
	}
	s.isRunning = true
	s.addr = ln.Addr()
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting ops server", "address", ln.Addr().String(), "tls", s.config.TLS.Enabled)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	}
}

// Shutdown gracefully shuts down the server, waiting at most
// ShutdownTimeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running := s.isRunning
		s.mu.RUnlock()
		if !running {
			return
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx := ctx
		if s.config.ShutdownTimeout > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
			defer cancel()
		}

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("ops server stopped")
	})

	return shutdownErr
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	if s.options.Metrics != nil && s.options.MetricsConfig.Enabled {
		path := s.options.MetricsConfig.Path
		if path == "" {
			path = config.DefaultMetricsPath
		}
		mux.Handle(path, s.options.Metrics.Handler())
	}

	if s.options.Health != nil {
		s.options.Health.Register(mux, s.options.HealthConfig, s.options.Version)
	}

	var handler http.Handler = mux

	if s.options.Tracer != nil {
		handler = s.options.Tracer.HTTPMiddleware(handler)
	}

	handler = RequestIDMiddleware(handler)
	handler = LoggingMiddleware(handler)

	// Recovery middleware (outermost)
	handler = RecoveryMiddleware(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the address the server listens on, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}
