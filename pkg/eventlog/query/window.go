package query

import (
	"fmt"
	"math"
	"time"

	"lightning-jet/jet/pkg/eventlog"
)

const (
	msPerDay    = 86_400_000
	msPerSecond = 1000

	// MaxLimit is the maximum number of records that can be returned in a single query.
	MaxLimit = 1_000_000
)

// maxDays keeps days*msPerDay inside int64.
var maxDays = float64(math.MaxInt64/msPerDay) - 1

// ValidateDays rejects day windows that cannot be turned into a cutoff.
func ValidateDays(days float64) error {
	if math.IsNaN(days) || math.IsInf(days, 0) {
		return fmt.Errorf("window must be a finite number of days, got %v", days)
	}
	if days > maxDays {
		return fmt.Errorf("window must be at most %.0f days, got %v", maxDays, days)
	}
	return nil
}

// DaysWindow returns the cutoff for a last-N-days window, or nil when days
// is zero or negative. The window is rounded to the nearest millisecond.
func DaysWindow(now time.Time, days float64) (*time.Time, error) {
	if err := ValidateDays(days); err != nil {
		return nil, eventlog.NewQueryError(eventlog.TableFailedHtlc, err)
	}
	if days <= 0 {
		return nil, nil
	}
	cutoff := time.UnixMilli(now.UnixMilli() - int64(math.Round(days*msPerDay)))
	return &cutoff, nil
}

// SecondsWindow returns the cutoff for a last-N-seconds window, or nil when
// secs is zero or negative. A window reaching back to the epoch or beyond
// is also nil, since it bounds nothing.
func SecondsWindow(now time.Time, secs int64) *time.Time {
	if secs <= 0 || secs >= now.UnixMilli()/msPerSecond {
		return nil
	}
	cutoff := time.UnixMilli(now.UnixMilli() - secs*msPerSecond)
	return &cutoff
}

// Validate checks a query before it reaches a backend.
func Validate(table eventlog.Table, q *eventlog.Query) error {
	if !table.Valid() {
		return eventlog.NewQueryError(table, fmt.Errorf("unknown table %q", table))
	}
	if q == nil {
		return nil
	}
	if q.Limit < 0 {
		return eventlog.NewQueryError(table, fmt.Errorf("limit must be >= 0, got %d", q.Limit))
	}
	if q.Limit > MaxLimit {
		return eventlog.NewQueryError(table, fmt.Errorf("limit must be <= %d, got %d", MaxLimit, q.Limit))
	}
	return nil
}
