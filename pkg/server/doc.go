// Package server provides the ops HTTP server started by "jet serve".
//
// The server exposes the Prometheus metrics endpoint and the liveness,
// readiness and version endpoints. It serves no event data; recording and
// listing go through the recorder package.
//
// # Basic Usage
//
//	srv := server.NewServer(&cfg.Server, server.Options{
//	    Metrics:       collector,
//	    MetricsConfig: cfg.Telemetry.Metrics,
//	    Health:        checker,
//	    HealthConfig:  cfg.Telemetry.Health,
//	    Version:       health.VersionInfo{Version: version},
//	    Tracer:        tracer,
//	})
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks until ctx is canceled and then shuts down gracefully within
// ServerConfig.ShutdownTimeout.
//
// # TLS
//
// With server.tls.enabled the listener is wrapped in TLS. The key pair is
// read from cert_file and key_file and polled every reload_interval; a
// rotated pair is picked up without a restart, and a pair that fails to load
// leaves the previous one in service.
//
// # Middleware
//
// Requests pass through, from the outside in:
//   - RecoveryMiddleware: converts panics into 500 responses
//   - LoggingMiddleware: logs method, path, status and latency
//   - RequestIDMiddleware: assigns or propagates X-Request-ID
//   - Tracer.HTTPMiddleware: starts a server span, when a tracer is set
package server
