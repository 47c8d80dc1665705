package eventlog

import (
	"context"
	"time"
)

// Table names a persisted event stream.
type Table string

const (
	// TableFailedHtlc holds failed HTLC forwards.
	TableFailedHtlc Table = "failed_htlc"

	// TableRebalanceHistory holds rebalance attempts.
	TableRebalanceHistory Table = "rebalance_history"
)

// Tables lists every table in creation order.
func Tables() []Table {
	return []Table{TableRebalanceHistory, TableFailedHtlc}
}

// Valid reports whether t is a known table.
func (t Table) Valid() bool {
	return t == TableFailedHtlc || t == TableRebalanceHistory
}

// Rebalance outcome flags stored in rebalance_history.status.
const (
	StatusFailure = 0
	StatusSuccess = 1
)

// FailedHtlcRecord is one failed forward as stored in failed_htlc.
// Records are immutable once written.
type FailedHtlcRecord struct {
	Date     int64  `json:"date"`            // ms since epoch
	FromChan string `json:"from_chan"`       // incoming channel id
	ToChan   string `json:"to_chan"`         // outgoing channel id
	Sats     int64  `json:"sats"`            // incoming amount, sats
	Extra    string `json:"extra,omitempty"` // serialized source event
}

// Time returns the record date as a time.Time.
func (r *FailedHtlcRecord) Time() time.Time {
	return time.UnixMilli(r.Date)
}

// RebalanceRecord is one rebalance attempt as stored in rebalance_history.
type RebalanceRecord struct {
	ID         int64  `json:"row"`             // store-assigned rowid
	Date       int64  `json:"date"`            // ms since epoch
	From       string `json:"from"`            // source node
	To         string `json:"to"`              // destination node
	Amount     int64  `json:"amount"`          // requested amount
	Rebalanced int64  `json:"rebalanced"`      // amount actually moved
	Status     int    `json:"status"`          // StatusSuccess or StatusFailure
	Extra      string `json:"extra,omitempty"` // error detail on failures
}

// Succeeded reports whether the attempt was recorded as a success.
func (r *RebalanceRecord) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Time returns the record date as a time.Time.
func (r *RebalanceRecord) Time() time.Time {
	return time.UnixMilli(r.Date)
}

// Query selects records from one table.
type Query struct {
	// After keeps only rows with date strictly greater than this instant.
	// Nil means no lower bound.
	After *time.Time

	// Limit caps the number of rows returned, keeping the oldest. Zero means no limit.
	Limit int
}

// AfterMillis returns the lower bound in ms since epoch, and whether it is set.
func (q *Query) AfterMillis() (int64, bool) {
	if q == nil || q.After == nil {
		return 0, false
	}
	return q.After.UnixMilli(), true
}

// Storage is the persistence contract for the event log.
// Implementations must keep both tables append-only.
type Storage interface {
	// InsertFailedHtlc appends one failed forward.
	InsertFailedHtlc(ctx context.Context, record *FailedHtlcRecord) error

	// InsertRebalance appends one rebalance attempt and sets record.ID.
	InsertRebalance(ctx context.Context, record *RebalanceRecord) error

	// QueryFailedHtlcs returns matching rows in insertion order.
	QueryFailedHtlcs(ctx context.Context, query *Query) ([]*FailedHtlcRecord, error)

	// QueryRebalances returns matching rows in insertion order.
	QueryRebalances(ctx context.Context, query *Query) ([]*RebalanceRecord, error)

	// Count returns the number of rows in a table.
	Count(ctx context.Context, table Table) (int64, error)

	// Ping checks that the backend is usable.
	Ping(ctx context.Context) error

	// Close releases the backend. Further calls fail with ErrStoreClosed.
	Close() error
}
