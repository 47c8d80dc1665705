/*
Package cli provides command-line helpers for the jet command.

Output Formatting:

Commands print records as an aligned table, JSON or CSV:

	format, err := cli.ParseOutputFormat(flagFormat)
	if err != nil {
		return err
	}
	return cli.PrintRebalances(ctx, os.Stdout, format, records)

JSON and CSV output uses the same layout as "jet export". Other results
implement Tabular and go through NewFormatter.

Progress Reporting:

Batch imports report progress on stderr:

	progress := cli.NewProgressReporter(os.Stderr, "Recording")
	progress.Start(int64(len(events)))
	for i, event := range events {
		// record event
		progress.Update(int64(i + 1))
	}
	progress.Finish()

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

Errors:

ExitCode maps a command error to the process exit code; ConfigError
exits with 2.
*/
package cli
