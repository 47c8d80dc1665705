package export

import (
	"context"
	"encoding/json"
	"io"

	"lightning-jet/jet/pkg/eventlog"
)

// JSONExporter writes records as a JSON array, "[]" when there are none.
type JSONExporter struct {
	// Pretty enables indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// ExportFailedHtlcs implements Exporter.
func (e *JSONExporter) ExportFailedHtlcs(ctx context.Context, records []*eventlog.FailedHtlcRecord, w io.Writer) error {
	return writeJSON(ctx, e.Pretty, records, w)
}

// ExportRebalances implements Exporter.
func (e *JSONExporter) ExportRebalances(ctx context.Context, records []*eventlog.RebalanceRecord, w io.Writer) error {
	return writeJSON(ctx, e.Pretty, records, w)
}

// Format implements Exporter.
func (e *JSONExporter) Format() string { return FormatJSON }

// Extension implements Exporter.
func (e *JSONExporter) Extension() string { return "json" }

func writeJSON[T any](ctx context.Context, pretty bool, records []T, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return eventlog.NewExportError(FormatJSON, len(records), err)
	}
	if records == nil {
		records = []T{}
	}

	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return eventlog.NewExportError(FormatJSON, len(records), err)
	}

	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return eventlog.NewExportError(FormatJSON, len(records), err)
	}
	return nil
}
