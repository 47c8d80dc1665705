package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lightning-jet/jet/pkg/cli"
	"lightning-jet/jet/pkg/eventlog"
	"lightning-jet/jet/pkg/eventlog/query"
)

var rebalancesFlags struct {
	secs       int64
	where      string
	limit      int
	format     string
	output     string
	from       string
	to         string
	amount     int64
	rebalanced int64
	errorText  string
}

var rebalancesCmd = &cobra.Command{
	Use:   "rebalances",
	Short: "Record and list rebalance attempts",
	Long: `Record and list rebalance attempts.

Subcommands:
  list    - List rebalance attempts, optionally limited to recent seconds
  record  - Record a successful or failed attempt`,
}

var rebalancesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rebalance attempts",
	Long: `List rebalance attempts in the order they were recorded.

Filter expressions can use the fields id, date, from, to, amount, rebalanced,
status, extra and succeeded.

Examples:
  # Everything
  jet rebalances list

  # Last hour
  jet rebalances list --secs 3600

  # Failed attempts with no route
  jet rebalances list --where '!succeeded && extra contains "no route"'`,
	RunE: listRebalances,
}

var rebalancesRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a rebalance attempt",
	Long: `Record a rebalance attempt.

A successful attempt takes --rebalanced, the amount actually moved (default:
the full amount). A failed attempt takes --error with the failure detail.

Examples:
  jet rebalances record --from A --to B --amount 100000 --rebalanced 100000
  jet rebalances record --from A --to B --amount 100000 --error "no route"`,
	RunE: recordRebalance,
}

func init() {
	rootCmd.AddCommand(rebalancesCmd)
	rebalancesCmd.AddCommand(rebalancesListCmd, rebalancesRecordCmd)

	rebalancesListCmd.Flags().Int64Var(&rebalancesFlags.secs, "secs", 0, "only records newer than this many seconds (0 = all)")
	rebalancesListCmd.Flags().StringVar(&rebalancesFlags.where, "where", "", "filter expression")
	rebalancesListCmd.Flags().IntVar(&rebalancesFlags.limit, "limit", 0, "at most this many records, oldest first (0 = all)")
	rebalancesListCmd.Flags().StringVar(&rebalancesFlags.format, "format", "text", "output format: text, json, csv")
	rebalancesListCmd.Flags().StringVarP(&rebalancesFlags.output, "output", "o", "", "output file (default: stdout)")

	rebalancesRecordCmd.Flags().StringVar(&rebalancesFlags.from, "from", "", "source node")
	rebalancesRecordCmd.Flags().StringVar(&rebalancesFlags.to, "to", "", "destination node")
	rebalancesRecordCmd.Flags().Int64Var(&rebalancesFlags.amount, "amount", 0, "requested amount in sats")
	rebalancesRecordCmd.Flags().Int64Var(&rebalancesFlags.rebalanced, "rebalanced", -1, "amount moved on success (default: --amount)")
	rebalancesRecordCmd.Flags().StringVar(&rebalancesFlags.errorText, "error", "", "failure detail; records a failed attempt")
}

func listRebalances(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(rebalancesFlags.format)
	if err != nil {
		return err
	}
	filter, err := query.CompileRebalanceFilter(rebalancesFlags.where)
	if err != nil {
		return cli.NewConfigError("where", err.Error())
	}
	after := query.SecondsWindow(time.Now(), rebalancesFlags.secs)
	q, err := listQuery(eventlog.TableRebalanceHistory, after, rebalancesFlags.limit, rebalancesFlags.where)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	defer a.Close(ctx)

	records, err := a.recorder.QueryRebalances(ctx, q)
	if err != nil {
		return cli.NewCommandError("rebalances list", err)
	}
	records = query.Take(query.Apply(records, filter), rebalancesFlags.limit)

	out, closeOut, err := openOutput(cmd, rebalancesFlags.output)
	if err != nil {
		return err
	}
	if err := cli.PrintRebalances(ctx, out, format, records); err != nil {
		closeOut()
		return cli.NewCommandError("rebalances list", err)
	}
	return closeOut()
}

func recordRebalance(cmd *cobra.Command, args []string) error {
	f := rebalancesFlags
	if f.from == "" {
		return cli.NewConfigError("from", "source node is required")
	}
	if f.to == "" {
		return cli.NewConfigError("to", "destination node is required")
	}
	if f.amount < 0 {
		return cli.NewConfigError("amount", "must not be negative")
	}
	if f.errorText != "" && f.rebalanced >= 0 {
		return cli.NewConfigError("rebalanced", "cannot be combined with --error")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	defer a.Close(ctx)

	if f.errorText != "" {
		if err := a.recorder.RecordRebalanceFailure(ctx, f.from, f.to, f.amount, f.errorText); err != nil {
			return cli.NewCommandError("rebalances record", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded failed rebalance %s -> %s (%d sats)\n", f.from, f.to, f.amount)
		return nil
	}

	rebalanced := f.rebalanced
	if rebalanced < 0 {
		rebalanced = f.amount
	}
	if err := a.recorder.RecordRebalanceSuccess(ctx, f.from, f.to, f.amount, rebalanced); err != nil {
		return cli.NewCommandError("rebalances record", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded rebalance %s -> %s (%d/%d sats)\n", f.from, f.to, rebalanced, f.amount)
	return nil
}
