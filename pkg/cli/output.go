package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"lightning-jet/jet/pkg/eventlog"
	"lightning-jet/jet/pkg/eventlog/export"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is an aligned table (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
	// FormatCSV is CSV output.
	FormatCSV OutputFormat = "csv"
)

// ParseOutputFormat validates a --format flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", NewConfigError("format", fmt.Sprintf("unknown output format %q (valid: text, json, csv)", s))
	}
}

// Tabular is data that renders as a table.
type Tabular interface {
	Header() []string
	Rows() [][]string
}

// Formatter formats command output.
type Formatter interface {
	FormatTo(w io.Writer, data any) error
}

// TextFormatter prints Tabular data as an aligned table and anything else
// with %v.
type TextFormatter struct{}

// FormatTo writes data to writer in text format.
func (f *TextFormatter) FormatTo(w io.Writer, data any) error {
	table, ok := data.(Tabular)
	if !ok {
		_, err := fmt.Fprintf(w, "%v\n", data)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(table.Header(), "\t")))
	for _, row := range table.Rows() {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatTo writes data to writer in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// CSVFormatter formats Tabular data as CSV with a header row.
type CSVFormatter struct{}

// FormatTo writes data to writer in CSV format.
func (f *CSVFormatter) FormatTo(w io.Writer, data any) error {
	table, ok := data.(Tabular)
	if !ok {
		return fmt.Errorf("csv output not supported for %T", data)
	}

	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(table.Header()); err != nil {
		return err
	}
	if err := csvWriter.WriteAll(table.Rows()); err != nil {
		return err
	}
	return csvWriter.Error()
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatCSV:
		return &CSVFormatter{}
	default:
		return &TextFormatter{}
	}
}

// PrintFailedHtlcs writes records in format. JSON and CSV use the same
// layout as exports.
func PrintFailedHtlcs(ctx context.Context, w io.Writer, format OutputFormat, records []*eventlog.FailedHtlcRecord) error {
	if format == FormatText || format == "" {
		return (&TextFormatter{}).FormatTo(w, FailedHtlcTable(records))
	}
	exporter, err := export.New(string(format), export.Options{Pretty: true, IncludeHeader: true})
	if err != nil {
		return err
	}
	return exporter.ExportFailedHtlcs(ctx, records, w)
}

// PrintRebalances writes records in format. JSON and CSV use the same
// layout as exports.
func PrintRebalances(ctx context.Context, w io.Writer, format OutputFormat, records []*eventlog.RebalanceRecord) error {
	if format == FormatText || format == "" {
		return (&TextFormatter{}).FormatTo(w, RebalanceTable(records))
	}
	exporter, err := export.New(string(format), export.Options{Pretty: true, IncludeHeader: true})
	if err != nil {
		return err
	}
	return exporter.ExportRebalances(ctx, records, w)
}

// FailedHtlcTable renders failed HTLCs for the text table.
type FailedHtlcTable []*eventlog.FailedHtlcRecord

func (t FailedHtlcTable) Header() []string {
	return []string{"time", "from_chan", "to_chan", "sats"}
}

func (t FailedHtlcTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, []string{
			formatDate(r.Date),
			r.FromChan,
			r.ToChan,
			strconv.FormatInt(r.Sats, 10),
		})
	}
	return rows
}

// RebalanceTable renders rebalance attempts for the text table.
type RebalanceTable []*eventlog.RebalanceRecord

func (t RebalanceTable) Header() []string {
	return []string{"id", "time", "from", "to", "amount", "rebalanced", "status", "error"}
}

func (t RebalanceTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		status := "failed"
		if r.Succeeded() {
			status = "ok"
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			formatDate(r.Date),
			r.From,
			r.To,
			strconv.FormatInt(r.Amount, 10),
			strconv.FormatInt(r.Rebalanced, 10),
			status,
			r.Extra,
		})
	}
	return rows
}

func formatDate(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05")
}
