// Package telemetry groups the observability packages used by jet.
//
// # Components
//
//   - logging: log/slog setup with a runtime-adjustable level
//   - metrics: Prometheus collector for event log reads, writes and archives
//   - tracing: OpenTelemetry spans around recorder operations and ops requests
//   - health: liveness, readiness and version endpoints
//
// # Usage
//
//	cfg := config.GetConfig()
//
//	logger, err := logging.New(logging.Config{
//	    Level:  cfg.Telemetry.Logging.Level,
//	    Format: cfg.Telemetry.Logging.Format,
//	})
//	if err != nil {
//	    return err
//	}
//	logger.SetDefault()
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(ctx)
//
// The collector and tracer are handed to the recorder; the ops server
// exposes the collector's registry and the health checker.
package telemetry
