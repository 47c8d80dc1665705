package tracing

import (
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span names for event log operations.
const (
	SpanRecordFailedHtlc   = "eventlog.record_failed_htlc"
	SpanRecordRebalance    = "eventlog.record_rebalance"
	SpanListFailedHtlcs    = "eventlog.list_failed_htlcs"
	SpanListRebalances     = "eventlog.list_rebalances"
	SpanExport             = "eventlog.export"
	SpanArchiveRun         = "eventlog.archive"
	SpanArchiveTable       = "eventlog.archive.table"
	SpanRefreshRecordCount = "eventlog.refresh_counts"
)

// Attribute keys for jet spans.
const (
	AttrTable    = "jet.table"
	AttrWindowMs = "jet.window_ms"
	AttrRows     = "jet.rows"
	AttrStatus   = "jet.status"

	AttrFromChan = "jet.from_chan"
	AttrToChan   = "jet.to_chan"
	AttrAmount   = "jet.amount"
	AttrSats     = "jet.sats"

	AttrRunID  = "jet.run_id"
	AttrFormat = "jet.format"
	AttrFile   = "jet.file"

	AttrErrorMessage = "error.message"
)

// SetWindowAttributes records the table and the look-back window of a list
// call. A non-positive window means the whole table.
func SetWindowAttributes(span trace.Span, table string, window time.Duration) {
	span.SetAttributes(
		attribute.String(AttrTable, table),
		attribute.Int64(AttrWindowMs, window.Milliseconds()),
	)
}

// SetRowsAttribute records how many rows an operation produced.
func SetRowsAttribute(span trace.Span, rows int) {
	span.SetAttributes(attribute.Int(AttrRows, rows))
}

// SetHtlcAttributes records the channels and amount of a failed HTLC.
func SetHtlcAttributes(span trace.Span, fromChan, toChan uint64, sats int64) {
	span.SetAttributes(
		attribute.String(AttrTable, "failed_htlc"),
		attribute.String(AttrFromChan, formatChan(fromChan)),
		attribute.String(AttrToChan, formatChan(toChan)),
		attribute.Int64(AttrSats, sats),
	)
}

// SetRebalanceAttributes records the route, amount and outcome of a
// rebalance attempt.
func SetRebalanceAttributes(span trace.Span, from, to string, amount int64, status int) {
	span.SetAttributes(
		attribute.String(AttrTable, "rebalance_history"),
		attribute.String(AttrFromChan, from),
		attribute.String(AttrToChan, to),
		attribute.Int64(AttrAmount, amount),
		attribute.Int(AttrStatus, status),
	)
}

// SetArchiveAttributes records the run id and format of an archive run.
func SetArchiveAttributes(span trace.Span, runID, format string) {
	span.SetAttributes(
		attribute.String(AttrRunID, runID),
		attribute.String(AttrFormat, format),
	)
}

// AttributeBuilder accumulates span attributes for use at span start.
//
//	opts := tracing.NewAttributeBuilder().
//		WithTable("failed_htlc").
//		WithRows(12).
//		Build()
type AttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewAttributeBuilder creates an empty builder.
func NewAttributeBuilder() *AttributeBuilder {
	return &AttributeBuilder{attrs: make([]attribute.KeyValue, 0, 4)}
}

// WithTable adds the table attribute.
func (ab *AttributeBuilder) WithTable(table string) *AttributeBuilder {
	ab.attrs = append(ab.attrs, attribute.String(AttrTable, table))
	return ab
}

// WithRows adds the row count attribute.
func (ab *AttributeBuilder) WithRows(rows int) *AttributeBuilder {
	ab.attrs = append(ab.attrs, attribute.Int(AttrRows, rows))
	return ab
}

// WithFile adds the output file attribute.
func (ab *AttributeBuilder) WithFile(path string) *AttributeBuilder {
	ab.attrs = append(ab.attrs, attribute.String(AttrFile, path))
	return ab
}

// WithFormat adds the export format attribute.
func (ab *AttributeBuilder) WithFormat(format string) *AttributeBuilder {
	ab.attrs = append(ab.attrs, attribute.String(AttrFormat, format))
	return ab
}

// Build returns the attributes as a span start option.
func (ab *AttributeBuilder) Build() trace.SpanStartOption {
	return trace.WithAttributes(ab.attrs...)
}

// Apply sets the attributes on an existing span.
func (ab *AttributeBuilder) Apply(span trace.Span) {
	span.SetAttributes(ab.attrs...)
}

// Attributes returns the accumulated attributes.
func (ab *AttributeBuilder) Attributes() []attribute.KeyValue {
	return ab.attrs
}

// formatChan renders a short channel id as a decimal string. Channel ids
// use the full uint64 range, which int64 attributes cannot carry.
func formatChan(id uint64) string {
	return strconv.FormatUint(id, 10)
}
