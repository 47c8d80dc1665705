// Package eventlog records routing-node events into a local SQLite file and
// reads them back for reporting.
//
// Two append-only streams are kept:
//
//   - failed HTLC forwards (table failed_htlc)
//   - rebalance attempts, successful or not (table rebalance_history)
//
// # Layers
//
//  1. Recorder - converts caller input into records and writes them synchronously
//  2. Storage Backend - persists records (SQLite or in-memory)
//  3. Query helpers - time windows and display filters
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
//	    Path:          "data/jet.db",
//	    MigrateLegacy: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	rec := recorder.New(store, recorder.DefaultConfig())
//
//	if err := rec.RecordRebalanceSuccess(ctx, "03ab...", "02cd...", 100000, 100000); err != nil {
//	    log.Printf("rebalance not recorded: %v", err)
//	}
//
//	// Rebalances from the last hour
//	records, err := rec.ListRebalances(ctx, 3600)
//
//	// Same read without blocking the caller
//	rec.ListRebalancesAsync(ctx, 3600, func(res recorder.RebalanceResult) {
//	    if res.Err != nil {
//	        return
//	    }
//	    render(res.Records)
//	})
//
// # Time Windows
//
// A window of zero or less disables filtering. Positive windows select rows
// whose date is strictly greater than now minus the window.
//
// # Errors
//
// Storage failures wrap one of ErrStoreOpenFailed, ErrStoreWriteFailed or
// ErrStoreReadFailed and can be matched with errors.Is. An empty result is
// an empty slice with a nil error.
package eventlog
