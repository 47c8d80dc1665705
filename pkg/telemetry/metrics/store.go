package metrics

import (
	"time"

	"lightning-jet/jet/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics tracks event store reads and writes.
type StoreMetrics struct {
	writesTotal       *prometheus.CounterVec
	readsTotal        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	rowsReturned      *prometheus.HistogramVec
	records           *prometheus.GaugeVec
}

// NewStoreMetrics creates and registers store metrics.
func NewStoreMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *StoreMetrics {
	m := &StoreMetrics{
		writesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "writes_total",
				Help:      "Total number of records written, by table and status",
			},
			[]string{"table", "status"},
		),
		readsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "reads_total",
				Help:      "Total number of list calls, by table and status",
			},
			[]string{"table", "status"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "operation_duration_seconds",
				Help:      "Store operation duration in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"operation"},
		),
		rowsReturned: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rows_returned",
				Help:      "Number of rows returned by list calls",
				Buckets:   cfg.RowBuckets,
			},
			[]string{"table"},
		),
		records: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "records",
				Help:      "Current number of rows per table",
			},
			[]string{"table"},
		),
	}

	registry.MustRegister(
		m.writesTotal,
		m.readsTotal,
		m.operationDuration,
		m.rowsReturned,
		m.records,
	)

	return m
}

// RecordWrite records an insert.
func (m *StoreMetrics) RecordWrite(table, status string, duration time.Duration) {
	m.writesTotal.WithLabelValues(table, status).Inc()
	m.operationDuration.WithLabelValues("insert_" + table).Observe(duration.Seconds())
}

// RecordRead records a list call.
func (m *StoreMetrics) RecordRead(table, status string, duration time.Duration, rows int) {
	m.readsTotal.WithLabelValues(table, status).Inc()
	m.operationDuration.WithLabelValues("select_" + table).Observe(duration.Seconds())
	if status == StatusSuccess {
		m.rowsReturned.WithLabelValues(table).Observe(float64(rows))
	}
}

// SetRecordCount sets the row count gauge for a table.
func (m *StoreMetrics) SetRecordCount(table string, count int64) {
	m.records.WithLabelValues(table).Set(float64(count))
}
