package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lightning-jet/jet/pkg/cli"
	"lightning-jet/jet/pkg/config"
	"lightning-jet/jet/pkg/eventlog"
	"lightning-jet/jet/pkg/eventlog/query"
	"lightning-jet/jet/pkg/eventlog/recorder"
	"lightning-jet/jet/pkg/eventlog/storage"
	"lightning-jet/jet/pkg/telemetry/logging"
	"lightning-jet/jet/pkg/telemetry/metrics"
	"lightning-jet/jet/pkg/telemetry/tracing"
)

// app holds the components shared by every command that touches the store.
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	store     eventlog.Storage
	collector *metrics.Collector
	tracer    *tracing.Tracer
	recorder  *recorder.Recorder
}

// loadConfig loads cfgFile with environment overrides. A missing file at the
// default path falls back to defaults and the environment.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == defaultConfigFile {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, cli.NewConfigError("config", err.Error())
	}
	config.SetConfig(cfg)
	return cfg, nil
}

// setupLogging installs the default logger. --verbose forces debug level.
func setupLogging(cfg *config.Config, w io.Writer) (*logging.Logger, error) {
	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:     level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		Writer:    w,
	})
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	logger.SetDefault()
	return logger, nil
}

// newApp loads configuration and opens the store, telemetry and recorder.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := setupLogging(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, tracing.WithServiceVersion(Version))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	store, err := storage.Open(cfg.Store)
	if err != nil {
		_ = tracer.Shutdown(context.Background())
		return nil, err
	}

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	rec := recorder.NewRecorder(store, &recorder.Config{
		WriteTimeout: cfg.Recorder.WriteTimeout,
		QueryTimeout: cfg.Recorder.QueryTimeout,
	},
		recorder.WithMetrics(collector),
		recorder.WithTracer(tracer),
	)

	slog.Debug("event store opened",
		"backend", cfg.Store.Backend,
		"path", cfg.Store.Path,
	)

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		collector: collector,
		tracer:    tracer,
		recorder:  rec,
	}, nil
}

// Close waits for the recorder, closes the store and flushes traces.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	if err := a.recorder.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close event store: %w", err))
	}
	if err := a.tracer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown tracer: %w", err))
	}
	return errors.Join(errs...)
}

// openOutput returns stdout when path is empty, otherwise a created file.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// listQuery checks a --limit flag and builds the store query for a list.
// With a --where filter the limit is applied after filtering.
func listQuery(table eventlog.Table, after *time.Time, limit int, where string) (*eventlog.Query, error) {
	if err := query.Validate(table, &eventlog.Query{Limit: limit}); err != nil {
		return nil, cli.NewConfigError("limit", err.Error())
	}
	return &eventlog.Query{After: after, Limit: query.StoreLimit(limit, where != "")}, nil
}
