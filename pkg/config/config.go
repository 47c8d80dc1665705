package config

import "time"

// Config is the root configuration structure for jet.
// It contains all configuration sections for the event store, the recorder,
// scheduled archives, the ops HTTP server and telemetry.
type Config struct {
	// Store contains event store configuration including backend and driver
	// selection, the database path and legacy file migration.
	Store StoreConfig `yaml:"store" envPrefix:"STORE_"`

	// Recorder contains per-operation timeouts for the recorder.
	Recorder RecorderConfig `yaml:"recorder" envPrefix:"RECORDER_"`

	// Archive contains scheduled snapshot export configuration.
	Archive ArchiveConfig `yaml:"archive" envPrefix:"ARCHIVE_"`

	// Server contains configuration for the ops HTTP server started by
	// "jet serve" (metrics and health endpoints).
	Server ServerConfig `yaml:"server" envPrefix:"SERVER_"`

	// Watch contains configuration file hot-reload settings.
	Watch WatchConfig `yaml:"watch" envPrefix:"WATCH_"`

	// Telemetry contains configuration for observability including logging,
	// metrics, distributed tracing and health checks.
	Telemetry TelemetryConfig `yaml:"telemetry" envPrefix:"TELEMETRY_"`
}

// StoreConfig contains event store configuration.
type StoreConfig struct {
	// Backend selects the storage backend.
	// Options: "sqlite", "memory"
	// Default: "sqlite"
	Backend string `yaml:"backend" env:"BACKEND"`

	// Driver selects the database/sql driver for the sqlite backend.
	// Options: "sqlite3" (mattn, cgo), "sqlite" (modernc, pure Go)
	// Default: "sqlite3"
	Driver string `yaml:"driver" env:"DRIVER"`

	// Path is the database file path.
	// Default: "data/jet.db"
	Path string `yaml:"path" env:"PATH"`

	// LegacyPath is the store file left by older installs. Empty derives
	// "<dir(path)>/../lnd_optimize.db".
	LegacyPath string `yaml:"legacy_path" env:"LEGACY_PATH"`

	// MigrateLegacy moves LegacyPath into place when Path does not exist.
	// Default: true
	MigrateLegacy bool `yaml:"migrate_legacy" env:"MIGRATE_LEGACY"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 1
	MaxOpenConns int `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 1
	MaxIdleConns int `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`

	// WALMode enables Write-Ahead Logging mode.
	// Default: true
	WALMode bool `yaml:"wal_mode" env:"WAL_MODE"`

	// BusyTimeout is how long to wait for a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout" env:"BUSY_TIMEOUT"`
}

// RecorderConfig contains recorder configuration.
type RecorderConfig struct {
	// WriteTimeout bounds a single insert. Zero means no timeout.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`

	// QueryTimeout bounds a single list call. Zero means no timeout.
	// Default: 30s
	QueryTimeout time.Duration `yaml:"query_timeout" env:"QUERY_TIMEOUT"`
}

// ArchiveConfig contains scheduled archive configuration. Archives are
// snapshots; the tables themselves are never pruned.
type ArchiveConfig struct {
	// Enabled controls whether "jet serve" schedules archive runs.
	// Default: false
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// Schedule is a standard five-field cron expression.
	// Default: "0 3 * * *" (daily at 3 AM)
	Schedule string `yaml:"schedule" env:"SCHEDULE"`

	// Path is the directory archives are written to.
	// Default: "data/archives"
	Path string `yaml:"path" env:"PATH"`

	// Format is the archive file format.
	// Options: "json", "csv"
	// Default: "json"
	Format string `yaml:"format" env:"FORMAT"`

	// Window limits each archive to records newer than now minus Window.
	// Zero archives everything.
	// Default: 0
	Window time.Duration `yaml:"window" env:"WINDOW"`

	// Tables lists the tables to archive.
	// Default: ["failed_htlc", "rebalance_history"]
	Tables []string `yaml:"tables" env:"TABLES" envSeparator:","`

	// HtlcFilter is an optional filter expression applied to failed HTLCs.
	HtlcFilter string `yaml:"htlc_filter" env:"HTLC_FILTER"`

	// RebalanceFilter is an optional filter expression applied to rebalances.
	RebalanceFilter string `yaml:"rebalance_filter" env:"REBALANCE_FILTER"`

	// JSONPretty indents JSON archives.
	// Default: true
	JSONPretty bool `yaml:"json_pretty" env:"JSON_PRETTY"`

	// CSVIncludeHeader writes a header row in CSV archives.
	// Default: true
	CSVIncludeHeader bool `yaml:"csv_include_header" env:"CSV_INCLUDE_HEADER"`
}

// ServerConfig contains configuration for the ops HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:9477"
	ListenAddress string `yaml:"listen_address" env:"LISTEN_ADDRESS"`

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 10s
	ReadTimeout time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`

	// WriteTimeout is the maximum duration for writing a response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`

	// IdleTimeout is the maximum keep-alive idle time.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`

	// TLS serves the ops endpoints over HTTPS.
	TLS ServerTLSConfig `yaml:"tls" envPrefix:"TLS_"`
}

// ServerTLSConfig contains ops server TLS settings.
type ServerTLSConfig struct {
	// Enabled serves HTTPS instead of plain HTTP.
	// Default: false
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// CertFile and KeyFile are PEM files. Both are required when enabled.
	CertFile string `yaml:"cert_file" env:"CERT_FILE"`
	KeyFile  string `yaml:"key_file" env:"KEY_FILE"`

	// MinVersion is "1.2" or "1.3".
	// Default: "1.3"
	MinVersion string `yaml:"min_version" env:"MIN_VERSION"`

	// ReloadInterval is how often the certificate files are checked for
	// changes. Zero disables reloading.
	// Default: 5m
	ReloadInterval time.Duration `yaml:"reload_interval" env:"RELOAD_INTERVAL"`
}

// WatchConfig contains configuration file watch settings.
type WatchConfig struct {
	// Enabled reloads the configuration file when it changes.
	// Default: false
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// Debounce coalesces bursts of file events.
	// Default: 100ms
	Debounce time.Duration `yaml:"debounce" env:"DEBOUNCE"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging" envPrefix:"LOGGING_"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics" envPrefix:"METRICS_"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing" envPrefix:"TRACING_"`

	// Health contains health check configuration.
	Health HealthConfig `yaml:"health" envPrefix:"HEALTH_"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level" env:"LEVEL"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "text"
	Format string `yaml:"format" env:"FORMAT"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source" env:"ADD_SOURCE"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path" env:"PATH"`

	// Namespace is the metric name prefix.
	// Default: "jet"
	Namespace string `yaml:"namespace" env:"NAMESPACE"`

	// Subsystem is the metric subsystem name.
	// Default: "eventlog"
	Subsystem string `yaml:"subsystem" env:"SUBSYSTEM"`

	// DurationBuckets defines histogram buckets for operation duration (seconds).
	// Default: [0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5]
	DurationBuckets []float64 `yaml:"duration_buckets" env:"DURATION_BUCKETS" envSeparator:","`

	// RowBuckets defines histogram buckets for rows returned by list calls.
	// Default: [0, 1, 10, 100, 1000, 10000, 100000]
	RowBuckets []float64 `yaml:"row_buckets" env:"ROW_BUCKETS" envSeparator:","`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler" env:"SAMPLER"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio" env:"SAMPLE_RATIO"`

	// Exporter determines the trace exporter to use.
	// Options: "otlp"
	// Default: "otlp"
	Exporter string `yaml:"exporter" env:"EXPORTER"`

	// Endpoint is the OTLP collector endpoint, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint" env:"ENDPOINT"`

	// ServiceName is the service name in traces.
	// Default: "jet"
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp" envPrefix:"OTLP_"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the OTLP connection.
	// Default: true
	Insecure bool `yaml:"insecure" env:"INSECURE"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// HealthConfig contains health check endpoint configuration.
type HealthConfig struct {
	// Enabled controls whether health check endpoints are served.
	// Default: true
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// LivenessPath is the path for the liveness probe endpoint.
	// Default: "/health"
	LivenessPath string `yaml:"liveness_path" env:"LIVENESS_PATH"`

	// ReadinessPath is the path for the readiness probe endpoint.
	// Default: "/ready"
	ReadinessPath string `yaml:"readiness_path" env:"READINESS_PATH"`

	// VersionPath is the path for the version information endpoint.
	// Default: "/version"
	VersionPath string `yaml:"version_path" env:"VERSION_PATH"`

	// CheckTimeout is the timeout for individual component health checks.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout" env:"CHECK_TIMEOUT"`
}
