package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"lightning-jet/jet/pkg/eventlog"
)

// Header rows mirror the table columns.
var (
	failedHtlcHeader = []string{"date", "from_chan", "to_chan", "sats", "extra"}
	rebalanceHeader  = []string{"id", "date", "from_node", "to_node", "amount", "rebalanced", "status", "extra"}
)

// flushEvery is how many rows are buffered between flushes.
const flushEvery = 100

// CSVExporter writes one row per record.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

// ExportFailedHtlcs implements Exporter.
func (e *CSVExporter) ExportFailedHtlcs(ctx context.Context, records []*eventlog.FailedHtlcRecord, w io.Writer) error {
	return writeCSV(ctx, e.header(failedHtlcHeader), records, failedHtlcRow, w)
}

// ExportRebalances implements Exporter.
func (e *CSVExporter) ExportRebalances(ctx context.Context, records []*eventlog.RebalanceRecord, w io.Writer) error {
	return writeCSV(ctx, e.header(rebalanceHeader), records, rebalanceRow, w)
}

// Format implements Exporter.
func (e *CSVExporter) Format() string { return FormatCSV }

// Extension implements Exporter.
func (e *CSVExporter) Extension() string { return "csv" }

func (e *CSVExporter) header(columns []string) []string {
	if !e.IncludeHeader {
		return nil
	}
	return columns
}

func writeCSV[T any](ctx context.Context, header []string, records []T, toRow func(T) []string, w io.Writer) error {
	writer := csv.NewWriter(w)

	if header != nil {
		if err := writer.Write(header); err != nil {
			return eventlog.NewExportError(FormatCSV, len(records), err)
		}
	}

	for i, record := range records {
		if err := writer.Write(toRow(record)); err != nil {
			return eventlog.NewExportError(FormatCSV, len(records), err)
		}

		if (i+1)%flushEvery == 0 {
			if err := ctx.Err(); err != nil {
				return eventlog.NewExportError(FormatCSV, len(records), err)
			}
			writer.Flush()
			if err := writer.Error(); err != nil {
				return eventlog.NewExportError(FormatCSV, len(records), err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return eventlog.NewExportError(FormatCSV, len(records), err)
	}
	return nil
}

func failedHtlcRow(r *eventlog.FailedHtlcRecord) []string {
	return []string{
		strconv.FormatInt(r.Date, 10),
		r.FromChan,
		r.ToChan,
		strconv.FormatInt(r.Sats, 10),
		r.Extra,
	}
}

func rebalanceRow(r *eventlog.RebalanceRecord) []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		strconv.FormatInt(r.Date, 10),
		r.From,
		r.To,
		strconv.FormatInt(r.Amount, 10),
		strconv.FormatInt(r.Rebalanced, 10),
		strconv.Itoa(r.Status),
		r.Extra,
	}
}
