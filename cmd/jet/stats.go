package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"lightning-jet/jet/pkg/cli"
	"lightning-jet/jet/pkg/eventlog"
)

var statsFlags struct {
	format string
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show record counts per table",
	RunE:  showStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsFlags.format, "format", "text", "output format: text, json, csv")
}

// tableStats is the record count of one table.
type tableStats struct {
	Table   eventlog.Table `json:"table"`
	Records int64          `json:"records"`
}

type statsTable []tableStats

func (s statsTable) Header() []string { return []string{"table", "records"} }

func (s statsTable) Rows() [][]string {
	rows := make([][]string, 0, len(s))
	for _, st := range s {
		rows = append(rows, []string{string(st.Table), strconv.FormatInt(st.Records, 10)})
	}
	return rows
}

func showStats(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(statsFlags.format)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	defer a.Close(ctx)

	counts, err := a.recorder.Counts(ctx)
	if err != nil {
		return cli.NewCommandError("stats", err)
	}

	stats := make(statsTable, 0, len(counts))
	for _, table := range eventlog.Tables() {
		stats = append(stats, tableStats{Table: table, Records: counts[table]})
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), stats)
}
