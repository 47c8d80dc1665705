package export

import (
	"context"
	"fmt"
	"io"

	"lightning-jet/jet/pkg/eventlog"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Exporter writes event log records to a writer in one format.
type Exporter interface {
	// ExportFailedHtlcs writes failed HTLC records.
	ExportFailedHtlcs(ctx context.Context, records []*eventlog.FailedHtlcRecord, w io.Writer) error

	// ExportRebalances writes rebalance records.
	ExportRebalances(ctx context.Context, records []*eventlog.RebalanceRecord, w io.Writer) error

	// Format returns the format name ("json", "csv").
	Format() string

	// Extension returns the file extension without the dot.
	Extension() string
}

// Options tunes the exporters returned by New.
type Options struct {
	// Pretty indents JSON output.
	Pretty bool

	// IncludeHeader writes a header row in CSV output.
	IncludeHeader bool
}

// New returns the exporter for format.
func New(format string, opts Options) (Exporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONExporter(opts.Pretty), nil
	case FormatCSV:
		return NewCSVExporter(opts.IncludeHeader), nil
	default:
		return nil, eventlog.NewExportError(format, 0, fmt.Errorf("unsupported format %q (valid: json, csv)", format))
	}
}

// Formats lists the supported format names.
func Formats() []string {
	return []string{FormatJSON, FormatCSV}
}
