package storage

import (
	"fmt"

	"lightning-jet/jet/pkg/config"
	"lightning-jet/jet/pkg/eventlog"
)

// Open creates the backend selected by cfg.Backend.
func Open(cfg config.StoreConfig) (eventlog.Storage, error) {
	switch cfg.Backend {
	case BackendSQLite, "":
		return NewSQLiteStorage(&SQLiteConfig{
			Path:          cfg.Path,
			Driver:        cfg.Driver,
			LegacyPath:    cfg.LegacyPath,
			MigrateLegacy: cfg.MigrateLegacy,
			MaxOpenConns:  cfg.MaxOpenConns,
			MaxIdleConns:  cfg.MaxIdleConns,
			WALMode:       cfg.WALMode,
			BusyTimeout:   cfg.BusyTimeout,
		})
	case BackendMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, eventlog.NewOpenError(cfg.Backend, "open",
			fmt.Errorf("unknown storage backend %q", cfg.Backend))
	}
}
