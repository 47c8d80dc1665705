// Package logging configures structured logging on top of log/slog.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//	if err != nil {
//	    return err
//	}
//	logger.SetDefault()
//
//	// Components derive their own loggers from the default.
//	log := slog.Default().With("component", "eventlog.recorder")
//
// Records logged with a context pick up the operation, table and run_id
// fields stored by WithOperation, WithTable and WithRunID, and the trace and
// span ids of an active OpenTelemetry span.
//
// The level is held in a slog.LevelVar, so SetLevel takes effect on every
// derived logger, which is how a configuration reload changes verbosity.
package logging
