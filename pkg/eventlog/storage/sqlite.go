package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"lightning-jet/jet/pkg/eventlog"
)

// BackendSQLite names the SQLite backend.
const BackendSQLite = "sqlite"

// Supported database/sql driver names.
const (
	DriverMattn   = "sqlite3" // github.com/mattn/go-sqlite3, cgo
	DriverModernc = "sqlite"  // modernc.org/sqlite, pure Go
)

func init() {
	// Older sqlx releases do not know the modernc driver name.
	sqlx.BindDriver(DriverModernc, sqlx.QUESTION)
}

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// Driver selects the database/sql driver: "sqlite3" or "sqlite".
	// Default: "sqlite3"
	Driver string

	// LegacyPath is checked when Path does not exist. Empty derives it
	// from Path with DefaultLegacyPath.
	LegacyPath string

	// MigrateLegacy enables moving LegacyPath into place on open.
	// Default: true
	MigrateLegacy bool

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 1
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 1
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:          "data/jet.db",
		Driver:        DriverMattn,
		MigrateLegacy: true,
		MaxOpenConns:  1,
		MaxIdleConns:  1,
		WALMode:       true,
		BusyTimeout:   5 * time.Second,
	}
}

// SQLiteStorage implements eventlog.Storage on a single owned connection pool.
type SQLiteStorage struct {
	db     *sqlx.DB
	config *SQLiteConfig
	closed atomic.Bool
	logger *slog.Logger
}

type failedHtlcRow struct {
	Date     int64          `db:"date"`
	FromChan string         `db:"from_chan"`
	ToChan   string         `db:"to_chan"`
	Sats     int64          `db:"sats"`
	Extra    sql.NullString `db:"extra"`
}

type rebalanceRow struct {
	ID         int64          `db:"id"`
	Date       int64          `db:"date"`
	FromNode   string         `db:"from_node"`
	ToNode     string         `db:"to_node"`
	Amount     int64          `db:"amount"`
	Rebalanced sql.NullInt64  `db:"rebalanced"`
	Status     sql.NullInt64  `db:"status"`
	Extra      sql.NullString `db:"extra"`
}

// NewSQLiteStorage opens the store, migrating a legacy file into place
// first if configured, and ensures the schema exists. No other operation
// can run before it returns.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Path == "" {
		return nil, eventlog.NewOpenError(BackendSQLite, "open", errors.New("database path is empty"))
	}
	if config.Driver == "" {
		config.Driver = DriverMattn
	}
	if config.MaxOpenConns <= 0 {
		config.MaxOpenConns = 1
	}

	logger := slog.Default().With("component", "eventlog.storage.sqlite")

	if config.MigrateLegacy {
		legacyPath := config.LegacyPath
		if legacyPath == "" {
			legacyPath = DefaultLegacyPath(config.Path)
		}
		moved, err := MigrateLegacy(config.Path, legacyPath)
		if err != nil {
			return nil, eventlog.NewOpenError(BackendSQLite, "migrate_legacy", err)
		}
		if moved {
			logger.Info("migrated legacy store", "from", legacyPath, "to", config.Path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
		return nil, eventlog.NewOpenError(BackendSQLite, "create_dir", err)
	}

	db, err := sqlx.Connect(config.Driver, dsn(config))
	if err != nil {
		return nil, eventlog.NewOpenError(BackendSQLite, "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"path", config.Path,
		"driver", config.Driver,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// dsn builds a data source name that sets the busy timeout on every
// connection the pool opens. The two drivers spell pragmas differently.
func dsn(config *SQLiteConfig) string {
	ms := config.BusyTimeout.Milliseconds()
	if config.Driver == DriverModernc {
		return fmt.Sprintf("%s?_pragma=busy_timeout(%d)", config.Path, ms)
	}
	return fmt.Sprintf("%s?_busy_timeout=%d", config.Path, ms)
}

// initialize enables WAL mode and creates the schema.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return eventlog.NewOpenError(BackendSQLite, "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return eventlog.NewOpenError(BackendSQLite, "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return eventlog.NewOpenError(BackendSQLite, "insert_schema_version", err)
	}

	var version int
	if err := s.db.Get(&version, GetSchemaVersion); err != nil {
		return eventlog.NewOpenError(BackendSQLite, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return eventlog.NewOpenError(BackendSQLite, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// InsertFailedHtlc appends one failed forward.
func (s *SQLiteStorage) InsertFailedHtlc(ctx context.Context, record *eventlog.FailedHtlcRecord) error {
	if s.closed.Load() {
		return eventlog.NewWriteError(BackendSQLite, "insert_failed_htlc", eventlog.ErrStoreClosed)
	}

	row := failedHtlcRow{
		Date:     record.Date,
		FromChan: record.FromChan,
		ToChan:   record.ToChan,
		Sats:     record.Sats,
		Extra:    nullString(record.Extra),
	}
	if _, err := s.db.NamedExecContext(ctx, insertFailedHtlc, row); err != nil {
		return eventlog.NewWriteError(BackendSQLite, "insert_failed_htlc", err)
	}
	return nil
}

// InsertRebalance appends one rebalance attempt and sets record.ID.
func (s *SQLiteStorage) InsertRebalance(ctx context.Context, record *eventlog.RebalanceRecord) error {
	if s.closed.Load() {
		return eventlog.NewWriteError(BackendSQLite, "insert_rebalance", eventlog.ErrStoreClosed)
	}

	row := rebalanceRow{
		Date:       record.Date,
		FromNode:   record.From,
		ToNode:     record.To,
		Amount:     record.Amount,
		Rebalanced: sql.NullInt64{Int64: record.Rebalanced, Valid: true},
		Status:     sql.NullInt64{Int64: int64(record.Status), Valid: true},
		Extra:      nullString(record.Extra),
	}
	res, err := s.db.NamedExecContext(ctx, insertRebalance, row)
	if err != nil {
		return eventlog.NewWriteError(BackendSQLite, "insert_rebalance", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return eventlog.NewWriteError(BackendSQLite, "insert_rebalance", err)
	}
	record.ID = id
	return nil
}

// QueryFailedHtlcs returns matching failed forwards in insertion order.
func (s *SQLiteStorage) QueryFailedHtlcs(ctx context.Context, query *eventlog.Query) ([]*eventlog.FailedHtlcRecord, error) {
	if s.closed.Load() {
		return nil, eventlog.NewReadError(BackendSQLite, "query_failed_htlcs", eventlog.ErrStoreClosed)
	}

	sqlQuery, args := buildSelect(selectFailedHtlcs, query)

	var rows []failedHtlcRow
	if err := s.db.SelectContext(ctx, &rows, sqlQuery, args...); err != nil {
		return nil, eventlog.NewReadError(BackendSQLite, "query_failed_htlcs", err)
	}

	records := make([]*eventlog.FailedHtlcRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &eventlog.FailedHtlcRecord{
			Date:     row.Date,
			FromChan: row.FromChan,
			ToChan:   row.ToChan,
			Sats:     row.Sats,
			Extra:    row.Extra.String,
		})
	}
	return records, nil
}

// QueryRebalances returns matching rebalance attempts in insertion order.
func (s *SQLiteStorage) QueryRebalances(ctx context.Context, query *eventlog.Query) ([]*eventlog.RebalanceRecord, error) {
	if s.closed.Load() {
		return nil, eventlog.NewReadError(BackendSQLite, "query_rebalances", eventlog.ErrStoreClosed)
	}

	sqlQuery, args := buildSelect(selectRebalances, query)

	var rows []rebalanceRow
	if err := s.db.SelectContext(ctx, &rows, sqlQuery, args...); err != nil {
		return nil, eventlog.NewReadError(BackendSQLite, "query_rebalances", err)
	}

	records := make([]*eventlog.RebalanceRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &eventlog.RebalanceRecord{
			ID:         row.ID,
			Date:       row.Date,
			From:       row.FromNode,
			To:         row.ToNode,
			Amount:     row.Amount,
			Rebalanced: row.Rebalanced.Int64,
			Status:     int(row.Status.Int64),
			Extra:      row.Extra.String,
		})
	}
	return records, nil
}

// buildSelect appends the window and limit clauses to a base select.
// Values are always bound, never formatted into the statement.
func buildSelect(base string, query *eventlog.Query) (string, []interface{}) {
	sqlQuery := base
	var args []interface{}

	if after, ok := query.AfterMillis(); ok {
		sqlQuery += " WHERE date > ?"
		args = append(args, after)
	}

	sqlQuery += " ORDER BY rowid"

	if query != nil && query.Limit > 0 {
		sqlQuery += " LIMIT ?"
		args = append(args, query.Limit)
	}

	return sqlQuery, args
}

// Count returns the number of rows in a table.
func (s *SQLiteStorage) Count(ctx context.Context, table eventlog.Table) (int64, error) {
	if s.closed.Load() {
		return 0, eventlog.NewReadError(BackendSQLite, "count", eventlog.ErrStoreClosed)
	}
	if !table.Valid() {
		return 0, eventlog.NewQueryError(table, fmt.Errorf("unknown table %q", table))
	}

	// table is one of two constants, checked above.
	var count int64
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM "+string(table)); err != nil {
		return 0, eventlog.NewReadError(BackendSQLite, "count", err)
	}
	return count, nil
}

// Ping checks that the database is reachable.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if s.closed.Load() {
		return eventlog.NewReadError(BackendSQLite, "ping", eventlog.ErrStoreClosed)
	}
	if err := s.db.PingContext(ctx); err != nil {
		return eventlog.NewReadError(BackendSQLite, "ping", err)
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.config.Path
}

// Close releases the connection pool. It is safe to call more than once.
func (s *SQLiteStorage) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return eventlog.NewStorageError(BackendSQLite, "close", nil, err)
	}

	s.logger.Info("SQLite storage closed")
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
