package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"lightning-jet/jet/pkg/cli"
	"lightning-jet/jet/pkg/config"
	"lightning-jet/jet/pkg/eventlog/archive"
	"lightning-jet/jet/pkg/server"
	"lightning-jet/jet/pkg/telemetry/health"
)

var serveFlags struct {
	listen string
	dryRun bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve metrics and health endpoints and run scheduled archives",
	Long: `Start the ops server.

The server exposes Prometheus metrics and liveness, readiness and version
endpoints. When archive.enabled is set, archive snapshots are written on
archive.schedule. With watch.enabled the config file is reloaded on change;
the log level and the archive schedule take effect without a restart.

Examples:
  # Start with default config
  jet serve

  # Override listen address
  jet serve --listen 0.0.0.0:9477

  # Validate config without starting
  jet serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listen, "listen", "l", "", "override listen address")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	cfg := a.cfg
	if serveFlags.listen != "" {
		cfg.Server.ListenAddress = serveFlags.listen
	}

	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
	checker.RegisterCheck("eventlog", health.StoreCheck(a.store))

	var archiver *archive.Archiver
	if cfg.Archive.Enabled {
		archiver, err = archive.NewArchiver(a.store, archive.FromConfig(cfg.Archive),
			archive.WithMetrics(a.collector),
			archive.WithTracer(a.tracer),
		)
		if err != nil {
			return cli.NewConfigError("archive", err.Error())
		}
		checker.RegisterCheck("archive", health.JobCheck("archive", archiver.LastError))
	}

	if serveFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	var scheduler *archive.Scheduler
	if archiver != nil {
		scheduler = archive.NewScheduler(archiver, cfg.Archive.Schedule)
		if err := scheduler.Start(ctx); err != nil {
			return cli.NewConfigError("archive.schedule", err.Error())
		}
		defer scheduler.Stop()
	}

	if _, err := a.recorder.Counts(ctx); err != nil {
		slog.Warn("failed to read initial record counts", "error", err)
	}

	if cfg.Watch.Enabled {
		watcher, err := startWatcher(ctx, a, scheduler)
		if err != nil {
			slog.Warn("config watcher not started", "error", err)
		} else {
			defer watcher.Stop()
		}
	}

	slog.Info("jet ops server starting",
		"version", Version,
		"listen_address", cfg.Server.ListenAddress,
		"store", cfg.Store.Path,
		"archive_enabled", cfg.Archive.Enabled,
	)

	srv := server.NewServer(&cfg.Server, server.Options{
		Metrics:       a.collector,
		MetricsConfig: cfg.Telemetry.Metrics,
		Health:        checker,
		HealthConfig:  cfg.Telemetry.Health,
		Version:       versionInfo(),
		Tracer:        a.tracer,
	})
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	return nil
}

// startWatcher reloads the config file on change and applies the settings
// that can change at runtime.
func startWatcher(ctx context.Context, a *app, scheduler *archive.Scheduler) (*config.Watcher, error) {
	if _, err := os.Stat(cfgFile); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config file %s does not exist", cfgFile)
	}

	watcher, err := config.NewWatcher(cfgFile, a.cfg.Watch.Debounce)
	if err != nil {
		return nil, err
	}

	go func() {
		err := watcher.Watch(ctx, func(cfg *config.Config) {
			applyReload(a, scheduler, cfg)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("config watcher stopped", "error", err)
		}
	}()

	return watcher, nil
}

// applyReload applies a reloaded configuration to the running process.
func applyReload(a *app, scheduler *archive.Scheduler, cfg *config.Config) {
	if !verbose {
		if err := a.logger.SetLevel(cfg.Telemetry.Logging.Level); err != nil {
			slog.Warn("invalid log level in reloaded config", "error", err)
		}
	}

	if scheduler != nil {
		if err := scheduler.Reschedule(cfg.Archive.Schedule); err != nil {
			slog.Warn("archive schedule not changed", "error", err)
		}
	}

	slog.Info("configuration reloaded",
		"log_level", cfg.Telemetry.Logging.Level,
		"archive_schedule", cfg.Archive.Schedule,
	)
}
