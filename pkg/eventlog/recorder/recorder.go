package recorder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"lightning-jet/jet/pkg/eventlog"
	"lightning-jet/jet/pkg/eventlog/query"
	"lightning-jet/jet/pkg/telemetry/logging"
	"lightning-jet/jet/pkg/telemetry/metrics"
	"lightning-jet/jet/pkg/telemetry/tracing"
)

// Config contains configuration for the recorder.
type Config struct {
	// WriteTimeout bounds a single insert. Zero means no timeout.
	// Default: 5 seconds
	WriteTimeout time.Duration

	// QueryTimeout bounds a single list call. Zero means no timeout.
	// Default: 30 seconds
	QueryTimeout time.Duration
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		WriteTimeout: 5 * time.Second,
		QueryTimeout: 30 * time.Second,
	}
}

// Result is delivered to the callback of an asynchronous list call. Err is
// non-nil only when the read failed; an empty Records with a nil Err means
// no rows matched.
type Result[T any] struct {
	Records []T
	Err     error
}

// HtlcResult is the outcome of ListFailedHtlcsAsync.
type HtlcResult = Result[*eventlog.FailedHtlcRecord]

// RebalanceResult is the outcome of ListRebalancesAsync.
type RebalanceResult = Result[*eventlog.RebalanceRecord]

// Recorder records failed HTLC forwards and rebalance attempts into an
// event store and lists them back. Writes are synchronous: a call returns
// once its row is durable, so one caller's writes keep their order.
type Recorder struct {
	storage eventlog.Storage
	config  *Config
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	logger  *slog.Logger
	now     func() time.Time

	// pending tracks asynchronous reads still running. New reads are only
	// added under mu while closed is false.
	pending sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

// ErrClosed is reported to callbacks of asynchronous reads started after
// Close.
var ErrClosed = errors.New("recorder closed")

// Option configures a Recorder.
type Option func(*Recorder)

// WithMetrics records write and read metrics on collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(r *Recorder) { r.metrics = collector }
}

// WithTracer creates a span per operation.
func WithTracer(tracer *tracing.Tracer) Option {
	return func(r *Recorder) { r.tracer = tracer }
}

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) { r.logger = logger }
}

// WithClock replaces time.Now for record dates and window cutoffs.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// NewRecorder creates a recorder over storage. The recorder does not own
// the store; the caller closes it after Close returns.
func NewRecorder(storage eventlog.Storage, config *Config, opts ...Option) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}

	r := &Recorder{
		storage: storage,
		config:  config,
		tracer:  tracing.Noop(),
		logger:  slog.Default().With("component", "eventlog.recorder"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RecordFailedHtlc stores a forward that failed on the outgoing link. The
// date is the event timestamp rounded to milliseconds, the amount is the
// incoming amount rounded to sats and the whole event is kept as JSON in
// Extra. Events without link failure info are rejected with
// eventlog.ErrInvalidEvent.
func (r *Recorder) RecordFailedHtlc(ctx context.Context, event *eventlog.HtlcEvent) (err error) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanRecordFailedHtlc)
	defer func() { tracing.End(span, err) }()
	ctx = r.opContext(ctx, "record_failed_htlc", eventlog.TableFailedHtlc)

	record, err := event.ToFailedHtlc()
	if err != nil {
		r.logger.WarnContext(ctx, "rejected htlc event", "error", err)
		return err
	}
	tracing.SetHtlcAttributes(span, event.IncomingChannelID, event.OutgoingChannelID, record.Sats)

	err = r.write(ctx, eventlog.TableFailedHtlc, func(ctx context.Context) error {
		return r.storage.InsertFailedHtlc(ctx, record)
	})
	if err != nil {
		return err
	}

	r.logger.DebugContext(ctx, "failed htlc recorded",
		"from_chan", record.FromChan,
		"to_chan", record.ToChan,
		"sats", record.Sats,
	)
	return nil
}

// RecordRebalanceSuccess stores a rebalance that moved rebalanced out of
// the requested amount.
func (r *Recorder) RecordRebalanceSuccess(ctx context.Context, from, to string, amount, rebalanced int64) error {
	return r.recordRebalance(ctx, &eventlog.RebalanceRecord{
		From:       from,
		To:         to,
		Amount:     amount,
		Rebalanced: rebalanced,
		Status:     eventlog.StatusSuccess,
	})
}

// RecordRebalanceFailure stores a failed rebalance. errorInfo is kept in
// Extra; Status is StatusFailure and Rebalanced is zero.
func (r *Recorder) RecordRebalanceFailure(ctx context.Context, from, to string, amount int64, errorInfo string) error {
	return r.recordRebalance(ctx, &eventlog.RebalanceRecord{
		From:   from,
		To:     to,
		Amount: amount,
		Status: eventlog.StatusFailure,
		Extra:  errorInfo,
	})
}

func (r *Recorder) recordRebalance(ctx context.Context, record *eventlog.RebalanceRecord) (err error) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanRecordRebalance)
	defer func() { tracing.End(span, err) }()
	ctx = r.opContext(ctx, "record_rebalance", eventlog.TableRebalanceHistory)

	record.Date = r.now().UnixMilli()
	tracing.SetRebalanceAttributes(span, record.From, record.To, record.Amount, record.Status)

	err = r.write(ctx, eventlog.TableRebalanceHistory, func(ctx context.Context) error {
		return r.storage.InsertRebalance(ctx, record)
	})
	if err != nil {
		return err
	}

	r.logger.DebugContext(ctx, "rebalance recorded",
		"id", record.ID,
		"from", record.From,
		"to", record.To,
		"amount", record.Amount,
		"status", record.Status,
	)
	return nil
}

// ListFailedHtlcs returns failed HTLCs in write order. When maxAgeDays is
// positive only records newer than now minus maxAgeDays are returned; zero
// or negative returns every record. No match is an empty slice.
func (r *Recorder) ListFailedHtlcs(ctx context.Context, maxAgeDays float64) (records []*eventlog.FailedHtlcRecord, err error) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanListFailedHtlcs)
	defer func() { tracing.End(span, err) }()

	after, err := query.DaysWindow(r.now(), maxAgeDays)
	if err != nil {
		return nil, err
	}
	return r.queryFailedHtlcs(ctx, span, &eventlog.Query{After: after})
}

// QueryFailedHtlcs returns failed HTLCs matching q in write order. q is
// checked with query.Validate before it reaches the store.
func (r *Recorder) QueryFailedHtlcs(ctx context.Context, q *eventlog.Query) (records []*eventlog.FailedHtlcRecord, err error) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanListFailedHtlcs)
	defer func() { tracing.End(span, err) }()

	return r.queryFailedHtlcs(ctx, span, q)
}

func (r *Recorder) queryFailedHtlcs(ctx context.Context, span trace.Span, q *eventlog.Query) ([]*eventlog.FailedHtlcRecord, error) {
	table := eventlog.TableFailedHtlc
	if err := query.Validate(table, q); err != nil {
		return nil, err
	}
	ctx = r.opContext(ctx, "list_failed_htlcs", table)
	tracing.SetWindowAttributes(span, string(table), r.window(q))

	records, err := read(ctx, r, table, func(ctx context.Context) ([]*eventlog.FailedHtlcRecord, error) {
		return r.storage.QueryFailedHtlcs(ctx, q)
	})
	tracing.SetRowsAttribute(span, len(records))
	return records, err
}

// ListRebalances returns rebalance records in write order, each with its
// store-assigned ID. When maxAgeSecs is positive only records newer than now
// minus maxAgeSecs seconds are returned.
func (r *Recorder) ListRebalances(ctx context.Context, maxAgeSecs int64) (records []*eventlog.RebalanceRecord, err error) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanListRebalances)
	defer func() { tracing.End(span, err) }()

	return r.queryRebalances(ctx, span, &eventlog.Query{After: query.SecondsWindow(r.now(), maxAgeSecs)})
}

// QueryRebalances returns rebalance records matching q in write order.
func (r *Recorder) QueryRebalances(ctx context.Context, q *eventlog.Query) (records []*eventlog.RebalanceRecord, err error) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanListRebalances)
	defer func() { tracing.End(span, err) }()

	return r.queryRebalances(ctx, span, q)
}

func (r *Recorder) queryRebalances(ctx context.Context, span trace.Span, q *eventlog.Query) ([]*eventlog.RebalanceRecord, error) {
	table := eventlog.TableRebalanceHistory
	if err := query.Validate(table, q); err != nil {
		return nil, err
	}
	ctx = r.opContext(ctx, "list_rebalances", table)
	tracing.SetWindowAttributes(span, string(table), r.window(q))

	records, err := read(ctx, r, table, func(ctx context.Context) ([]*eventlog.RebalanceRecord, error) {
		return r.storage.QueryRebalances(ctx, q)
	})
	tracing.SetRowsAttribute(span, len(records))
	return records, err
}

// window is the span of time q reaches back from now, or zero when
// unbounded.
func (r *Recorder) window(q *eventlog.Query) time.Duration {
	if q == nil || q.After == nil {
		return 0
	}
	return r.now().Sub(*q.After)
}

// ListFailedHtlcsAsync runs ListFailedHtlcs on its own goroutine and calls
// callback exactly once with the outcome.
// After Close the callback receives ErrClosed.
func (r *Recorder) ListFailedHtlcsAsync(ctx context.Context, maxAgeDays float64, callback func(HtlcResult)) {
	started := r.goAsync(func() {
		records, err := r.ListFailedHtlcs(ctx, maxAgeDays)
		callback(HtlcResult{Records: records, Err: err})
	})
	if !started {
		callback(HtlcResult{Err: ErrClosed})
	}
}

// ListRebalancesAsync runs ListRebalances on its own goroutine and calls
// callback exactly once with the outcome.
// After Close the callback receives ErrClosed.
func (r *Recorder) ListRebalancesAsync(ctx context.Context, maxAgeSecs int64, callback func(RebalanceResult)) {
	started := r.goAsync(func() {
		records, err := r.ListRebalances(ctx, maxAgeSecs)
		callback(RebalanceResult{Records: records, Err: err})
	})
	if !started {
		callback(RebalanceResult{Err: ErrClosed})
	}
}

// Counts returns the number of rows per table and refreshes the records
// gauge.
func (r *Recorder) Counts(ctx context.Context) (counts map[eventlog.Table]int64, err error) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanRefreshRecordCount)
	defer func() { tracing.End(span, err) }()

	ctx, cancel := withTimeout(ctx, r.config.QueryTimeout)
	defer cancel()

	counts = make(map[eventlog.Table]int64, len(eventlog.Tables()))
	for _, table := range eventlog.Tables() {
		n, err := r.storage.Count(ctx, table)
		if err != nil {
			return nil, err
		}
		counts[table] = n
		r.metrics.SetRecordCount(string(table), n)
	}
	return counts, nil
}

// Close refuses new asynchronous reads and waits for those in flight. It
// does not close the store.
func (r *Recorder) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.pending.Wait()
	return nil
}

// goAsync runs fn on a tracked goroutine. It reports false, without running
// fn, once the recorder is closed.
func (r *Recorder) goAsync(fn func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	r.pending.Add(1)
	go func() {
		defer r.pending.Done()
		fn()
	}()
	return true
}

func (r *Recorder) opContext(ctx context.Context, operation string, table eventlog.Table) context.Context {
	ctx = logging.WithOperation(ctx, operation)
	return logging.WithTable(ctx, string(table))
}

// write runs insert under the write timeout and records its outcome.
func (r *Recorder) write(ctx context.Context, table eventlog.Table, insert func(context.Context) error) error {
	ctx, cancel := withTimeout(ctx, r.config.WriteTimeout)
	defer cancel()

	start := time.Now()
	err := insert(ctx)
	duration := time.Since(start)

	if err != nil {
		r.metrics.RecordWrite(string(table), metrics.StatusError, duration)
		r.logger.ErrorContext(ctx, "event store write failed", "error", err)
		return err
	}

	r.metrics.RecordWrite(string(table), metrics.StatusSuccess, duration)
	if r.config.WriteTimeout > 0 && duration > r.config.WriteTimeout/2 {
		r.logger.WarnContext(ctx, "slow event store write",
			"duration_ms", duration.Milliseconds(),
			"threshold_ms", (r.config.WriteTimeout / 2).Milliseconds(),
		)
	}
	return nil
}

// read runs selectFn under the query timeout and records its outcome.
func read[T any](ctx context.Context, r *Recorder, table eventlog.Table, selectFn func(context.Context) ([]T, error)) ([]T, error) {
	ctx, cancel := withTimeout(ctx, r.config.QueryTimeout)
	defer cancel()

	start := time.Now()
	records, err := selectFn(ctx)
	duration := time.Since(start)

	if err != nil {
		r.metrics.RecordRead(string(table), metrics.StatusError, duration, 0)
		r.logger.ErrorContext(ctx, "event store read failed", "error", err)
		return nil, err
	}
	if records == nil {
		records = []T{}
	}

	r.metrics.RecordRead(string(table), metrics.StatusSuccess, duration, len(records))
	r.logger.DebugContext(ctx, "listed records", "rows", len(records), "duration_ms", duration.Milliseconds())
	return records, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
