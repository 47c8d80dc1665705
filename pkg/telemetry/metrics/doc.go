// Package metrics provides Prometheus metrics for the jet event log.
//
// # Metrics
//
// All names are prefixed with the configured namespace and subsystem
// (default "jet_eventlog_"):
//
//   - writes_total{table,status}: inserts into failed_htlc and rebalance_history
//   - reads_total{table,status}: list calls
//   - operation_duration_seconds{operation}: store latency per operation
//   - rows_returned{table}: rows returned by successful list calls
//   - records{table}: current row count, refreshed by "jet serve"
//   - archive_runs_total{status}, archive_run_duration_seconds and
//     archive_last_success_timestamp_seconds: scheduled archive runs
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordWrite("failed_htlc", metrics.StatusSuccess, 800*time.Microsecond)
//
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// Every recording method is a no-op when metrics are disabled or the
// collector is nil.
package metrics
