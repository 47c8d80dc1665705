package eventlog

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreOpenFailed is wrapped by errors raised while opening or migrating the store.
	ErrStoreOpenFailed = errors.New("event store open failed")

	// ErrStoreWriteFailed is wrapped by every failed insert.
	ErrStoreWriteFailed = errors.New("event store write failed")

	// ErrStoreReadFailed is wrapped by every failed query.
	ErrStoreReadFailed = errors.New("event store read failed")

	// ErrStoreClosed is returned by operations on a closed store.
	ErrStoreClosed = errors.New("event store closed")

	// ErrInvalidEvent is returned when caller input cannot be turned into a record.
	ErrInvalidEvent = errors.New("invalid event")
)

// StorageError represents an error from the storage backend.
type StorageError struct {
	Backend   string // Storage backend type ("sqlite", "memory")
	Operation string // Operation that failed ("insert_rebalance", "migrate_legacy", ...)
	Kind      error  // One of the ErrStore* sentinels
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *StorageError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, kind, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Kind:      kind,
		Cause:     cause,
	}
}

// NewOpenError creates a StorageError of kind ErrStoreOpenFailed.
func NewOpenError(backend, operation string, cause error) *StorageError {
	return NewStorageError(backend, operation, ErrStoreOpenFailed, cause)
}

// NewWriteError creates a StorageError of kind ErrStoreWriteFailed.
func NewWriteError(backend, operation string, cause error) *StorageError {
	return NewStorageError(backend, operation, ErrStoreWriteFailed, cause)
}

// NewReadError creates a StorageError of kind ErrStoreReadFailed.
func NewReadError(backend, operation string, cause error) *StorageError {
	return NewStorageError(backend, operation, ErrStoreReadFailed, cause)
}

// QueryError represents an invalid window or filter.
type QueryError struct {
	Table Table // Table being queried
	Cause error // Underlying error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("query error [table=%s]: %v", e.Table, e.Cause)
	}
	return fmt.Sprintf("query error: %v", e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *QueryError) Unwrap() error {
	return e.Cause
}

// NewQueryError creates a new QueryError.
func NewQueryError(table Table, cause error) *QueryError {
	return &QueryError{
		Table: table,
		Cause: cause,
	}
}

// ArchiveError represents a failed archive run.
type ArchiveError struct {
	RunID string // Archive run identifier
	Table Table  // Table being archived, if known
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *ArchiveError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("archive error [run_id=%s, table=%s]: %v", e.RunID, e.Table, e.Cause)
	}
	return fmt.Sprintf("archive error [run_id=%s]: %v", e.RunID, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ArchiveError) Unwrap() error {
	return e.Cause
}

// NewArchiveError creates a new ArchiveError.
func NewArchiveError(runID string, table Table, cause error) *ArchiveError {
	return &ArchiveError{
		RunID: runID,
		Table: table,
		Cause: cause,
	}
}

// ExportError represents an error during record export.
type ExportError struct {
	Format      string // Export format ("json", "csv")
	RecordCount int    // Number of records being exported
	Cause       error  // Underlying error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, record_count=%d]: %v", e.Format, e.RecordCount, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError.
func NewExportError(format string, recordCount int, cause error) *ExportError {
	return &ExportError{
		Format:      format,
		RecordCount: recordCount,
		Cause:       cause,
	}
}
