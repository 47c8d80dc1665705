// Package storage provides storage backends for the event log.
//
// # Storage Backends
//
//   - SQLite: the on-disk store, through either github.com/mattn/go-sqlite3
//     (driver "sqlite3", cgo) or modernc.org/sqlite (driver "sqlite", pure Go)
//   - Memory: ordered in-memory storage for testing
//
// # SQLite Backend
//
// One *sqlx.DB is owned by the backend from NewSQLiteStorage until Close.
// The pool defaults to a single connection since SQLite allows one writer.
// On open the backend:
//
//  1. moves a legacy lnd_optimize.db into place when the store file is missing
//  2. enables WAL mode when configured
//  3. creates failed_htlc, rebalance_history and their date indexes
//
// Every statement binds its values; nothing is formatted into SQL text.
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
//	    Path:          "data/jet.db",
//	    Driver:        storage.DriverModernc,
//	    MigrateLegacy: true,
//	    WALMode:       true,
//	})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
package storage
