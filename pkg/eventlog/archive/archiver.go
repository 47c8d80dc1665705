package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"lightning-jet/jet/pkg/config"
	"lightning-jet/jet/pkg/eventlog"
	"lightning-jet/jet/pkg/eventlog/export"
	"lightning-jet/jet/pkg/eventlog/query"
	"lightning-jet/jet/pkg/telemetry/logging"
	"lightning-jet/jet/pkg/telemetry/metrics"
	"lightning-jet/jet/pkg/telemetry/tracing"
)

// Config contains configuration for archive snapshots.
type Config struct {
	// Path is the directory archive files are written to.
	// Default: "data/archives"
	Path string

	// Format is the archive file format ("json" or "csv").
	// Default: "json"
	Format string

	// Window limits each snapshot to records newer than now minus Window.
	// Zero archives every record.
	Window time.Duration

	// Tables lists the tables to archive.
	// Default: all tables
	Tables []eventlog.Table

	// HtlcFilter and RebalanceFilter are optional filter expressions.
	HtlcFilter      string
	RebalanceFilter string

	// JSONPretty indents JSON archives.
	JSONPretty bool

	// CSVIncludeHeader writes a header row in CSV archives.
	CSVIncludeHeader bool
}

// DefaultConfig returns the default archive configuration.
func DefaultConfig() *Config {
	return &Config{
		Path:             "data/archives",
		Format:           export.FormatJSON,
		Tables:           eventlog.Tables(),
		JSONPretty:       true,
		CSVIncludeHeader: true,
	}
}

// FromConfig converts the archive section of the application config.
func FromConfig(cfg config.ArchiveConfig) *Config {
	c := &Config{
		Path:             cfg.Path,
		Format:           cfg.Format,
		Window:           cfg.Window,
		HtlcFilter:       cfg.HtlcFilter,
		RebalanceFilter:  cfg.RebalanceFilter,
		JSONPretty:       cfg.JSONPretty,
		CSVIncludeHeader: cfg.CSVIncludeHeader,
	}
	for _, table := range cfg.Tables {
		c.Tables = append(c.Tables, eventlog.Table(table))
	}
	return c
}

// File describes one archive file written by a run.
type File struct {
	Table   eventlog.Table `json:"table"`
	Path    string         `json:"path"`
	Records int            `json:"records"`
}

// Run describes a completed archive run.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Files      []File    `json:"files"`
}

// Archiver writes point-in-time snapshots of the event log tables. Tables
// are only read; nothing is ever deleted.
type Archiver struct {
	storage  eventlog.Storage
	config   *Config
	exporter export.Exporter

	htlcFilter      query.Filter[*eventlog.FailedHtlcRecord]
	rebalanceFilter query.Filter[*eventlog.RebalanceRecord]

	metrics *metrics.Collector
	tracer  *tracing.Tracer
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	lastRun *Run
	lastErr error
}

// Option configures an Archiver.
type Option func(*Archiver)

// WithMetrics records archive runs and table sizes on collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(a *Archiver) { a.metrics = collector }
}

// WithTracer creates a span per run.
func WithTracer(tracer *tracing.Tracer) Option {
	return func(a *Archiver) { a.tracer = tracer }
}

// WithClock replaces time.Now for windows and file names.
func WithClock(now func() time.Time) Option {
	return func(a *Archiver) { a.now = now }
}

// NewArchiver validates config and creates an archiver over storage.
func NewArchiver(storage eventlog.Storage, config *Config, opts ...Option) (*Archiver, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if len(config.Tables) == 0 {
		config.Tables = eventlog.Tables()
	}
	for _, table := range config.Tables {
		if !table.Valid() {
			return nil, eventlog.NewArchiveError("", table, fmt.Errorf("unknown table %q", table))
		}
	}

	exporter, err := export.New(config.Format, export.Options{
		Pretty:        config.JSONPretty,
		IncludeHeader: config.CSVIncludeHeader,
	})
	if err != nil {
		return nil, err
	}

	htlcFilter, err := query.CompileHtlcFilter(config.HtlcFilter)
	if err != nil {
		return nil, err
	}
	rebalanceFilter, err := query.CompileRebalanceFilter(config.RebalanceFilter)
	if err != nil {
		return nil, err
	}

	a := &Archiver{
		storage:         storage,
		config:          config,
		exporter:        exporter,
		htlcFilter:      htlcFilter,
		rebalanceFilter: rebalanceFilter,
		tracer:          tracing.Noop(),
		logger:          slog.Default().With("component", "eventlog.archive"),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Archive writes one file per configured table and returns the run. On
// failure the files already written are kept and the error is an
// *eventlog.ArchiveError carrying the run id.
func (a *Archiver) Archive(ctx context.Context) (run *Run, err error) {
	run = &Run{
		ID:        uuid.NewString(),
		StartedAt: a.now(),
	}

	ctx, span := a.tracer.Start(ctx, tracing.SpanArchiveRun)
	tracing.SetArchiveAttributes(span, run.ID, a.exporter.Format())
	ctx = logging.WithOperation(ctx, "archive")
	ctx = logging.WithRunID(ctx, run.ID)

	defer func() {
		run.FinishedAt = a.now()
		a.finish(ctx, run, err)
		tracing.End(span, err)
	}()

	a.logger.InfoContext(ctx, "starting archive run",
		"path", a.config.Path,
		"format", a.exporter.Format(),
		"window", a.config.Window,
	)

	if err := os.MkdirAll(a.config.Path, 0o755); err != nil {
		return run, eventlog.NewArchiveError(run.ID, "", fmt.Errorf("create archive directory: %w", err))
	}

	var after *time.Time
	if a.config.Window > 0 {
		cutoff := run.StartedAt.Add(-a.config.Window)
		after = &cutoff
	}

	for _, table := range a.config.Tables {
		file, err := a.archiveTable(ctx, run, table, &eventlog.Query{After: after})
		if err != nil {
			return run, eventlog.NewArchiveError(run.ID, table, err)
		}
		run.Files = append(run.Files, file)
	}

	return run, nil
}

// LastRun returns the most recent successful run, or nil.
func (a *Archiver) LastRun() *Run {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastRun
}

// LastError returns the error of the most recent run, or nil when it
// succeeded or no run has happened.
func (a *Archiver) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

func (a *Archiver) archiveTable(ctx context.Context, run *Run, table eventlog.Table, q *eventlog.Query) (File, error) {
	ctx, span := a.tracer.Start(ctx, tracing.SpanArchiveTable)
	defer span.End()
	ctx = logging.WithTable(ctx, string(table))

	path := filepath.Join(a.config.Path, FileName(table, run.StartedAt, run.ID, a.exporter.Extension()))

	var count int
	var err error
	switch table {
	case eventlog.TableFailedHtlc:
		count, err = snapshot(ctx, path, func(ctx context.Context) ([]*eventlog.FailedHtlcRecord, error) {
			return a.storage.QueryFailedHtlcs(ctx, q)
		}, a.htlcFilter, a.exporter.ExportFailedHtlcs)
	case eventlog.TableRebalanceHistory:
		count, err = snapshot(ctx, path, func(ctx context.Context) ([]*eventlog.RebalanceRecord, error) {
			return a.storage.QueryRebalances(ctx, q)
		}, a.rebalanceFilter, a.exporter.ExportRebalances)
	}
	if err != nil {
		tracing.SetError(span, err)
		return File{}, err
	}

	tracing.NewAttributeBuilder().
		WithTable(string(table)).
		WithRows(count).
		WithFile(path).
		Apply(span)

	if total, err := a.storage.Count(ctx, table); err == nil {
		a.metrics.SetRecordCount(string(table), total)
	} else {
		a.logger.WarnContext(ctx, "failed to refresh record count", "error", err)
	}

	a.logger.InfoContext(ctx, "table archived", "file", path, "records", count)
	return File{Table: table, Path: path, Records: count}, nil
}

func (a *Archiver) finish(ctx context.Context, run *Run, err error) {
	duration := run.FinishedAt.Sub(run.StartedAt)

	a.mu.Lock()
	a.lastErr = err
	if err == nil {
		a.lastRun = run
	}
	a.mu.Unlock()

	if err != nil {
		a.metrics.RecordArchiveRun(metrics.StatusError, duration, run.FinishedAt)
		a.logger.ErrorContext(ctx, "archive run failed", "error", err)
		return
	}

	a.metrics.RecordArchiveRun(metrics.StatusSuccess, duration, run.FinishedAt)
	a.logger.InfoContext(ctx, "archive run completed",
		"files", len(run.Files),
		"duration_ms", duration.Milliseconds(),
	)
}

// snapshot reads, filters and exports one table to path. The file is
// written under a temporary name and renamed into place once complete.
func snapshot[T any](
	ctx context.Context,
	path string,
	read func(context.Context) ([]T, error),
	filter query.Filter[T],
	write func(context.Context, []T, io.Writer) error,
) (int, error) {
	records, err := read(ctx)
	if err != nil {
		return 0, err
	}
	records = query.Apply(records, filter)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".archive-*")
	if err != nil {
		return 0, fmt.Errorf("create archive file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(ctx, records, tmp); err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close archive file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("rename archive file: %w", err)
	}

	return len(records), nil
}

// FileName returns "<table>-<YYYYMMDD-HHMMSS>-<run8>.<ext>", where run8 is
// the first eight characters of the run id and the time is UTC.
func FileName(table eventlog.Table, at time.Time, runID, ext string) string {
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s-%s-%s.%s", table, at.UTC().Format("20060102-150405"), short, ext)
}
