package logging

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Context keys for common log fields.
type contextKey string

const (
	// OperationKey is the context key for the event log operation name.
	OperationKey contextKey = "operation"

	// TableKey is the context key for the table an operation touches.
	TableKey contextKey = "table"

	// RunIDKey is the context key for archive run identifiers.
	RunIDKey contextKey = "run_id"
)

// WithOperation adds an operation name to the context.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, OperationKey, operation)
}

// GetOperation retrieves the operation name from the context.
func GetOperation(ctx context.Context) string {
	if op, ok := ctx.Value(OperationKey).(string); ok {
		return op
	}
	return ""
}

// WithTable adds a table name to the context.
func WithTable(ctx context.Context, table string) context.Context {
	return context.WithValue(ctx, TableKey, table)
}

// GetTable retrieves the table name from the context.
func GetTable(ctx context.Context) string {
	if table, ok := ctx.Value(TableKey).(string); ok {
		return table
	}
	return ""
}

// WithRunID adds an archive run identifier to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the archive run identifier from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// contextAttrs collects the fields set in ctx, plus trace and span ids when
// ctx carries a valid span.
func contextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr

	if op := GetOperation(ctx); op != "" {
		attrs = append(attrs, slog.String("operation", op))
	}
	if table := GetTable(ctx); table != "" {
		attrs = append(attrs, slog.String("table", table))
	}
	if runID := GetRunID(ctx); runID != "" {
		attrs = append(attrs, slog.String("run_id", runID))
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		attrs = append(attrs,
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	return attrs
}
