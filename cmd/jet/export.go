package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lightning-jet/jet/pkg/cli"
	"lightning-jet/jet/pkg/eventlog"
	"lightning-jet/jet/pkg/eventlog/export"
	"lightning-jet/jet/pkg/eventlog/query"
)

var exportFlags struct {
	table  string
	format string
	window time.Duration
	where  string
	limit  int
	output string
	pretty bool
	header bool
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a table as JSON or CSV",
	Long: `Export the failed HTLC or rebalance table as JSON or CSV.

Examples:
  # Full rebalance history as CSV
  jet export --table rebalances --format csv -o rebalances.csv

  # Failed forwards of the last week as JSON on stdout
  jet export --table htlcs --window 168h`,
	RunE: exportTable,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFlags.table, "table", "", "table: htlcs, rebalances (required)")
	exportCmd.Flags().StringVar(&exportFlags.format, "format", export.FormatJSON, "export format: json, csv")
	exportCmd.Flags().DurationVar(&exportFlags.window, "window", 0, "only records newer than now minus window (0 = all)")
	exportCmd.Flags().StringVar(&exportFlags.where, "where", "", "filter expression")
	exportCmd.Flags().IntVar(&exportFlags.limit, "limit", 0, "at most this many records, oldest first (0 = all)")
	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().BoolVar(&exportFlags.pretty, "pretty", true, "indent JSON output")
	exportCmd.Flags().BoolVar(&exportFlags.header, "header", true, "write a CSV header row")
}

// parseTable accepts the short command names and the table names.
func parseTable(name string) (eventlog.Table, error) {
	switch name {
	case "htlcs", string(eventlog.TableFailedHtlc):
		return eventlog.TableFailedHtlc, nil
	case "rebalances", string(eventlog.TableRebalanceHistory):
		return eventlog.TableRebalanceHistory, nil
	default:
		return "", cli.NewConfigError("table", fmt.Sprintf("unknown table %q (valid: htlcs, rebalances)", name))
	}
}

func exportTable(cmd *cobra.Command, args []string) error {
	table, err := parseTable(exportFlags.table)
	if err != nil {
		return err
	}
	if exportFlags.window < 0 {
		return cli.NewConfigError("window", "must not be negative")
	}
	var after *time.Time
	if exportFlags.window > 0 {
		cutoff := time.Now().Add(-exportFlags.window)
		after = &cutoff
	}
	q, err := listQuery(table, after, exportFlags.limit, exportFlags.where)
	if err != nil {
		return err
	}

	exporter, err := export.New(exportFlags.format, export.Options{
		Pretty:        exportFlags.pretty,
		IncludeHeader: exportFlags.header,
	})
	if err != nil {
		return cli.NewConfigError("format", err.Error())
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	defer a.Close(ctx)

	out, closeOut, err := openOutput(cmd, exportFlags.output)
	if err != nil {
		return err
	}

	var count int
	switch table {
	case eventlog.TableFailedHtlc:
		filter, ferr := query.CompileHtlcFilter(exportFlags.where)
		if ferr != nil {
			closeOut()
			return cli.NewConfigError("where", ferr.Error())
		}
		records, lerr := a.recorder.QueryFailedHtlcs(ctx, q)
		if lerr != nil {
			closeOut()
			return cli.NewCommandError("export", lerr)
		}
		records = query.Take(query.Apply(records, filter), exportFlags.limit)
		count = len(records)
		err = exporter.ExportFailedHtlcs(ctx, records, out)
	case eventlog.TableRebalanceHistory:
		filter, ferr := query.CompileRebalanceFilter(exportFlags.where)
		if ferr != nil {
			closeOut()
			return cli.NewConfigError("where", ferr.Error())
		}
		records, lerr := a.recorder.QueryRebalances(ctx, q)
		if lerr != nil {
			closeOut()
			return cli.NewCommandError("export", lerr)
		}
		records = query.Take(query.Apply(records, filter), exportFlags.limit)
		count = len(records)
		err = exporter.ExportRebalances(ctx, records, out)
	}
	if err != nil {
		closeOut()
		return cli.NewCommandError("export", err)
	}
	if err := closeOut(); err != nil {
		return err
	}

	if exportFlags.output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d %s record(s) to %s\n", count, table, exportFlags.output)
	}
	return nil
}
