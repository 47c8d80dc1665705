package eventlog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageError_Is(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := NewWriteError("sqlite", "insert_failed_htlc", cause)

	assert.ErrorIs(t, err, ErrStoreWriteFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrStoreReadFailed)
	assert.Equal(t, "storage error [backend=sqlite, operation=insert_failed_htlc]: disk I/O error", err.Error())
}

func TestStorageError_As(t *testing.T) {
	var err error = NewReadError("memory", "query_rebalances", ErrStoreClosed)

	var se *StorageError
	if assert.ErrorAs(t, err, &se) {
		assert.Equal(t, "memory", se.Backend)
		assert.Equal(t, "query_rebalances", se.Operation)
	}
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestQueryError(t *testing.T) {
	err := NewQueryError(TableFailedHtlc, errors.New("window is NaN"))
	assert.Equal(t, "query error [table=failed_htlc]: window is NaN", err.Error())
}
