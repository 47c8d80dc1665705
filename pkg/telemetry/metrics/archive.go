package metrics

import (
	"time"

	"lightning-jet/jet/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ArchiveMetrics tracks scheduled archive runs.
type ArchiveMetrics struct {
	runsTotal   *prometheus.CounterVec
	runDuration prometheus.Histogram
	lastSuccess prometheus.Gauge
}

// NewArchiveMetrics creates and registers archive metrics.
func NewArchiveMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ArchiveMetrics {
	m := &ArchiveMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "archive_runs_total",
				Help:      "Total number of archive runs, by status",
			},
			[]string{"status"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "archive_run_duration_seconds",
				Help:      "Archive run duration in seconds",
				Buckets:   cfg.DurationBuckets,
			},
		),
		lastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "archive_last_success_timestamp_seconds",
				Help:      "Unix time of the last successful archive run",
			},
		),
	}

	registry.MustRegister(m.runsTotal, m.runDuration, m.lastSuccess)

	return m
}

// RecordRun records a finished archive run.
func (m *ArchiveMetrics) RecordRun(status string, duration time.Duration, finishedAt time.Time) {
	m.runsTotal.WithLabelValues(status).Inc()
	m.runDuration.Observe(duration.Seconds())
	if status == StatusSuccess {
		m.lastSuccess.Set(float64(finishedAt.Unix()))
	}
}
