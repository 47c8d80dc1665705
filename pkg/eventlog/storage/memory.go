package storage

import (
	"context"
	"fmt"
	"sync"

	"lightning-jet/jet/pkg/eventlog"
)

// BackendMemory names the in-memory backend.
const BackendMemory = "memory"

// MemoryStorage implements eventlog.Storage with ordered in-memory slices.
// Rebalance ids start at 1, as SQLite rowids do. Intended for tests and
// throwaway runs.
type MemoryStorage struct {
	htlcs      []eventlog.FailedHtlcRecord
	rebalances []eventlog.RebalanceRecord
	nextID     int64
	closed     bool
	mu         sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{nextID: 1}
}

// InsertFailedHtlc appends one failed forward.
func (s *MemoryStorage) InsertFailedHtlc(ctx context.Context, record *eventlog.FailedHtlcRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return eventlog.NewWriteError(BackendMemory, "insert_failed_htlc", eventlog.ErrStoreClosed)
	}
	if err := ctx.Err(); err != nil {
		return eventlog.NewWriteError(BackendMemory, "insert_failed_htlc", err)
	}

	s.htlcs = append(s.htlcs, *record)
	return nil
}

// InsertRebalance appends one rebalance attempt and sets record.ID.
func (s *MemoryStorage) InsertRebalance(ctx context.Context, record *eventlog.RebalanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return eventlog.NewWriteError(BackendMemory, "insert_rebalance", eventlog.ErrStoreClosed)
	}
	if err := ctx.Err(); err != nil {
		return eventlog.NewWriteError(BackendMemory, "insert_rebalance", err)
	}

	record.ID = s.nextID
	s.nextID++
	s.rebalances = append(s.rebalances, *record)
	return nil
}

// QueryFailedHtlcs returns matching failed forwards in insertion order.
func (s *MemoryStorage) QueryFailedHtlcs(ctx context.Context, query *eventlog.Query) ([]*eventlog.FailedHtlcRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, eventlog.NewReadError(BackendMemory, "query_failed_htlcs", eventlog.ErrStoreClosed)
	}

	after, bounded := query.AfterMillis()
	results := []*eventlog.FailedHtlcRecord{}
	for i := range s.htlcs {
		if bounded && s.htlcs[i].Date <= after {
			continue
		}
		recordCopy := s.htlcs[i]
		results = append(results, &recordCopy)
		if query != nil && query.Limit > 0 && len(results) == query.Limit {
			break
		}
	}
	return results, nil
}

// QueryRebalances returns matching rebalance attempts in insertion order.
func (s *MemoryStorage) QueryRebalances(ctx context.Context, query *eventlog.Query) ([]*eventlog.RebalanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, eventlog.NewReadError(BackendMemory, "query_rebalances", eventlog.ErrStoreClosed)
	}

	after, bounded := query.AfterMillis()
	results := []*eventlog.RebalanceRecord{}
	for i := range s.rebalances {
		if bounded && s.rebalances[i].Date <= after {
			continue
		}
		recordCopy := s.rebalances[i]
		results = append(results, &recordCopy)
		if query != nil && query.Limit > 0 && len(results) == query.Limit {
			break
		}
	}
	return results, nil
}

// Count returns the number of rows in a table.
func (s *MemoryStorage) Count(ctx context.Context, table eventlog.Table) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, eventlog.NewReadError(BackendMemory, "count", eventlog.ErrStoreClosed)
	}

	switch table {
	case eventlog.TableFailedHtlc:
		return int64(len(s.htlcs)), nil
	case eventlog.TableRebalanceHistory:
		return int64(len(s.rebalances)), nil
	default:
		return 0, eventlog.NewQueryError(table, fmt.Errorf("unknown table %q", table))
	}
}

// Ping reports whether the store is still open.
func (s *MemoryStorage) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return eventlog.NewReadError(BackendMemory, "ping", eventlog.ErrStoreClosed)
	}
	return nil
}

// Close marks the store closed and drops its contents.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.htlcs = nil
	s.rebalances = nil
	return nil
}
