package config

import "time"

// Default values for configuration fields.
const (
	// Store defaults
	DefaultStoreBackend       = "sqlite"
	DefaultStoreDriver        = "sqlite3"
	DefaultStorePath          = "data/jet.db"
	DefaultStoreMigrateLegacy = true
	DefaultStoreMaxOpenConns  = 1
	DefaultStoreMaxIdleConns  = 1
	DefaultStoreWALMode       = true
	DefaultStoreBusyTimeout   = 5 * time.Second

	// Recorder defaults
	DefaultRecorderWriteTimeout = 5 * time.Second
	DefaultRecorderQueryTimeout = 30 * time.Second

	// Archive defaults
	DefaultArchiveEnabled          = false
	DefaultArchiveSchedule         = "0 3 * * *"
	DefaultArchivePath             = "data/archives"
	DefaultArchiveFormat           = "json"
	DefaultArchiveJSONPretty       = true
	DefaultArchiveCSVIncludeHeader = true

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:9477"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultTLSMinVersion   = "1.3"
	DefaultTLSReload       = 5 * time.Minute

	// Watch defaults
	DefaultWatchDebounce = 100 * time.Millisecond

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "text"
	DefaultMetricsEnabled     = true
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "jet"
	DefaultMetricsSubsystem   = "eventlog"
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 0.1
	DefaultTracingExporter    = "otlp"
	DefaultTracingService     = "jet"
	DefaultOTLPInsecure       = true
	DefaultOTLPTimeout        = 10 * time.Second
	DefaultHealthEnabled      = true
	DefaultLivenessPath       = "/health"
	DefaultReadinessPath      = "/ready"
	DefaultVersionPath        = "/version"
	DefaultHealthCheckTimeout = 5 * time.Second
)

// DefaultArchiveTables are archived when archive.tables is empty.
var DefaultArchiveTables = []string{"failed_htlc", "rebalance_history"}

// DefaultDurationBuckets are the operation duration histogram buckets (seconds).
var DefaultDurationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// DefaultRowBuckets are the rows-returned histogram buckets.
var DefaultRowBuckets = []float64{0, 1, 10, 100, 1000, 10000, 100000}

// Default returns a fully populated configuration. Loading starts from this
// value so that boolean defaults survive keys the YAML file leaves out, as
// does the TLS reload interval, where zero means disabled.
func Default() *Config {
	cfg := &Config{
		Store: StoreConfig{
			MigrateLegacy: DefaultStoreMigrateLegacy,
			WALMode:       DefaultStoreWALMode,
		},
		Archive: ArchiveConfig{
			Enabled:          DefaultArchiveEnabled,
			JSONPretty:       DefaultArchiveJSONPretty,
			CSVIncludeHeader: DefaultArchiveCSVIncludeHeader,
		},
		Server: ServerConfig{
			TLS: ServerTLSConfig{ReloadInterval: DefaultTLSReload},
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
			Tracing: TracingConfig{OTLP: OTLPConfig{Insecure: DefaultOTLPInsecure}},
			Health:  HealthConfig{Enabled: DefaultHealthEnabled},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
// Booleans are left alone; their defaults come from Default.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Store defaults
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = DefaultStoreBackend
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DefaultStoreDriver
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}
	if cfg.Store.MaxOpenConns == 0 {
		cfg.Store.MaxOpenConns = DefaultStoreMaxOpenConns
	}
	if cfg.Store.MaxIdleConns == 0 {
		cfg.Store.MaxIdleConns = DefaultStoreMaxIdleConns
	}
	if cfg.Store.BusyTimeout == 0 {
		cfg.Store.BusyTimeout = DefaultStoreBusyTimeout
	}

	// Recorder defaults
	if cfg.Recorder.WriteTimeout == 0 {
		cfg.Recorder.WriteTimeout = DefaultRecorderWriteTimeout
	}
	if cfg.Recorder.QueryTimeout == 0 {
		cfg.Recorder.QueryTimeout = DefaultRecorderQueryTimeout
	}

	// Archive defaults
	if cfg.Archive.Schedule == "" {
		cfg.Archive.Schedule = DefaultArchiveSchedule
	}
	if cfg.Archive.Path == "" {
		cfg.Archive.Path = DefaultArchivePath
	}
	if cfg.Archive.Format == "" {
		cfg.Archive.Format = DefaultArchiveFormat
	}
	if len(cfg.Archive.Tables) == 0 {
		cfg.Archive.Tables = append([]string(nil), DefaultArchiveTables...)
	}

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.TLS.MinVersion == "" {
		cfg.Server.TLS.MinVersion = DefaultTLSMinVersion
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}

	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Metrics.DurationBuckets) == 0 {
		cfg.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
	if len(cfg.Metrics.RowBuckets) == 0 {
		cfg.Metrics.RowBuckets = append([]float64(nil), DefaultRowBuckets...)
	}

	if cfg.Tracing.Sampler == "" {
		cfg.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Tracing.Exporter == "" {
		cfg.Tracing.Exporter = DefaultTracingExporter
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingService
	}
	if cfg.Tracing.OTLP.Timeout == 0 {
		cfg.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}

	if cfg.Health.LivenessPath == "" {
		cfg.Health.LivenessPath = DefaultLivenessPath
	}
	if cfg.Health.ReadinessPath == "" {
		cfg.Health.ReadinessPath = DefaultReadinessPath
	}
	if cfg.Health.VersionPath == "" {
		cfg.Health.VersionPath = DefaultVersionPath
	}
	if cfg.Health.CheckTimeout == 0 {
		cfg.Health.CheckTimeout = DefaultHealthCheckTimeout
	}
}
