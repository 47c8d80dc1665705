package metrics

import (
	"time"

	"lightning-jet/jet/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Collector records Prometheus metrics for the event log: writes and reads
// per table, operation latency, table sizes and archive runs.
//
// A nil *Collector is valid and records nothing, so components can be
// constructed without metrics in tests and one-shot CLI commands.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	store   *StoreMetrics
	archive *ArchiveMetrics
}

// NewCollector creates a collector and registers its metrics with registry.
// If registry is nil a fresh registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "jet",
//		Subsystem: "eventlog",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}
	if len(cfg.RowBuckets) == 0 {
		cfg.RowBuckets = append([]float64(nil), config.DefaultRowBuckets...)
	}

	return &Collector{
		config:   cfg,
		registry: registry,
		store:    NewStoreMetrics(cfg, registry),
		archive:  NewArchiveMetrics(cfg, registry),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordWrite records one insert into table.
//
// Parameters:
//   - table: table name ("failed_htlc", "rebalance_history")
//   - status: StatusSuccess or StatusError
//   - duration: time spent in the store
func (c *Collector) RecordWrite(table, status string, duration time.Duration) {
	if !c.enabled() {
		return
	}

	c.store.RecordWrite(table, status, duration)
}

// RecordRead records one list call against table. rows is ignored when
// status is not StatusSuccess.
func (c *Collector) RecordRead(table, status string, duration time.Duration, rows int) {
	if !c.enabled() {
		return
	}

	c.store.RecordRead(table, status, duration, rows)
}

// SetRecordCount sets the current row count of table.
func (c *Collector) SetRecordCount(table string, count int64) {
	if !c.enabled() {
		return
	}

	c.store.SetRecordCount(table, count)
}

// RecordArchiveRun records a finished archive run. A successful run also
// moves the last-success timestamp to finishedAt.
func (c *Collector) RecordArchiveRun(status string, duration time.Duration, finishedAt time.Time) {
	if !c.enabled() {
		return
	}

	c.archive.RecordRun(status, duration, finishedAt)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}
