package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightning-jet/jet/pkg/config"
	"lightning-jet/jet/pkg/eventlog"
)

func TestOpen(t *testing.T) {
	cfg := config.Default().Store
	cfg.Path = filepath.Join(t.TempDir(), "data", "jet.db")
	cfg.MigrateLegacy = false

	s, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	assert.IsType(t, &SQLiteStorage{}, s)

	cfg.Backend = BackendMemory
	m, err := Open(cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, m)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(config.StoreConfig{Backend: "postgres"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, eventlog.ErrStoreOpenFailed))
}
