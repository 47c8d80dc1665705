// Package tracing provides OpenTelemetry tracing for jet.
//
// Every event log operation runs in a span (eventlog.record_failed_htlc,
// eventlog.list_rebalances, eventlog.archive, ...) carrying jet.* attributes
// such as jet.table, jet.window_ms and jet.rows. Spans are exported over
// OTLP/gRPC.
//
// # Sampling
//
// Three strategies are supported, each wrapped in a parent-based sampler:
//   - always: record every trace
//   - never: record nothing
//   - ratio: record a fraction of traces by trace ID
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, tracing.WithServiceVersion(version))
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, tracing.SpanListFailedHtlcs)
//	tracing.SetWindowAttributes(span, "failed_htlc", 24*time.Hour)
//	defer span.End()
//
// A disabled or nil Tracer returns non-recording spans.
package tracing
