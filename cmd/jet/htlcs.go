package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lightning-jet/jet/pkg/cli"
	"lightning-jet/jet/pkg/eventlog"
	"lightning-jet/jet/pkg/eventlog/query"
)

var htlcsFlags struct {
	days   float64
	where  string
	limit  int
	format string
	output string
	file   string
}

var htlcsCmd = &cobra.Command{
	Use:   "htlcs",
	Short: "Record and list failed HTLC forwards",
	Long: `Record and list failed HTLC forwards.

Subcommands:
  list    - List failed forwards, optionally limited to recent days
  record  - Record link-fail events from lnd's HTLC event stream`,
}

var htlcsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List failed HTLC forwards",
	Long: `List failed HTLC forwards in the order they were recorded.

Filter expressions can use the fields date, from_chan, to_chan, sats and extra.

Examples:
  # Everything
  jet htlcs list

  # Last 12 hours
  jet htlcs list --days 0.5

  # The first 100 records
  jet htlcs list --limit 100

  # Large failures out of one channel, as JSON
  jet htlcs list --where 'sats > 100000 && from_chan == "780000000000000001"' --format json`,
	RunE: listHtlcs,
}

var htlcsRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record failed HTLC events",
	Long: `Record link-fail events as failed HTLC forwards.

The input is one JSON HTLC event, a JSON array of events, or one event per
line, as produced by "lncli subscribehtlcevents" style tooling. 64-bit fields
are strings. Events are read from --file or stdin.

Examples:
  jet htlcs record --file event.json
  cat events.jsonl | jet htlcs record`,
	RunE: recordHtlcs,
}

func init() {
	rootCmd.AddCommand(htlcsCmd)
	htlcsCmd.AddCommand(htlcsListCmd, htlcsRecordCmd)

	htlcsListCmd.Flags().Float64Var(&htlcsFlags.days, "days", 0, "only records newer than this many days (0 = all)")
	htlcsListCmd.Flags().StringVar(&htlcsFlags.where, "where", "", "filter expression")
	htlcsListCmd.Flags().IntVar(&htlcsFlags.limit, "limit", 0, "at most this many records, oldest first (0 = all)")
	htlcsListCmd.Flags().StringVar(&htlcsFlags.format, "format", "text", "output format: text, json, csv")
	htlcsListCmd.Flags().StringVarP(&htlcsFlags.output, "output", "o", "", "output file (default: stdout)")

	htlcsRecordCmd.Flags().StringVarP(&htlcsFlags.file, "file", "f", "", "event file (default: stdin)")
}

func listHtlcs(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(htlcsFlags.format)
	if err != nil {
		return err
	}
	filter, err := query.CompileHtlcFilter(htlcsFlags.where)
	if err != nil {
		return cli.NewConfigError("where", err.Error())
	}
	after, err := query.DaysWindow(time.Now(), htlcsFlags.days)
	if err != nil {
		return cli.NewConfigError("days", err.Error())
	}
	q, err := listQuery(eventlog.TableFailedHtlc, after, htlcsFlags.limit, htlcsFlags.where)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	defer a.Close(ctx)

	records, err := a.recorder.QueryFailedHtlcs(ctx, q)
	if err != nil {
		return cli.NewCommandError("htlcs list", err)
	}
	records = query.Take(query.Apply(records, filter), htlcsFlags.limit)

	out, closeOut, err := openOutput(cmd, htlcsFlags.output)
	if err != nil {
		return err
	}
	if err := cli.PrintFailedHtlcs(ctx, out, format, records); err != nil {
		closeOut()
		return cli.NewCommandError("htlcs list", err)
	}
	return closeOut()
}

func recordHtlcs(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if htlcsFlags.file != "" {
		f, err := os.Open(htlcsFlags.file)
		if err != nil {
			return fmt.Errorf("failed to open event file: %w", err)
		}
		defer f.Close()
		in = f
	}

	events, err := readHtlcEvents(in)
	if err != nil {
		return cli.NewCommandError("htlcs record", err)
	}
	if len(events) == 0 {
		return cli.NewCommandError("htlcs record", fmt.Errorf("%w: no events in input", eventlog.ErrInvalidEvent))
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	defer a.Close(ctx)

	var progress cli.ProgressReporter
	if len(events) > 1 {
		progress = cli.NewProgressReporter(cmd.ErrOrStderr(), "Recording")
		progress.Start(int64(len(events)))
	}

	for i, event := range events {
		if err := a.recorder.RecordFailedHtlc(ctx, event); err != nil {
			if progress != nil {
				progress.Error(err)
			}
			return cli.NewCommandError("htlcs record", fmt.Errorf("event %d: %w", i+1, err))
		}
		if progress != nil {
			progress.Update(int64(i + 1))
		}
	}
	if progress != nil {
		progress.Finish()
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d failed HTLC(s)\n", len(events))
	return nil
}

// readHtlcEvents decodes a JSON array of events or a stream of JSON
// objects.
func readHtlcEvents(r io.Reader) ([]*eventlog.HtlcEvent, error) {
	br := bufio.NewReader(r)

	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(br)

	if first == '[' {
		var raw []json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %v", eventlog.ErrInvalidEvent, err)
		}
		return parseHtlcEvents(raw)
	}

	var raw []json.RawMessage
	for {
		var msg json.RawMessage
		err := decoder.Decode(&msg)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", eventlog.ErrInvalidEvent, err)
		}
		raw = append(raw, msg)
	}
	return parseHtlcEvents(raw)
}

func parseHtlcEvents(raw []json.RawMessage) ([]*eventlog.HtlcEvent, error) {
	events := make([]*eventlog.HtlcEvent, 0, len(raw))
	for i, msg := range raw {
		event, err := eventlog.ParseHtlcEvent(msg)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
		events = append(events, event)
	}
	return events, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if !bytes.ContainsRune([]byte(" \t\r\n"), rune(b)) {
			return b, br.UnreadByte()
		}
	}
}
