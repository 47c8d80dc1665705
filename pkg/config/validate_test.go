package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidate_Defaults(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("default configuration should be valid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, "store.backend"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "pgx" }, "store.driver"},
		{"empty path", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"zero connections", func(c *Config) { c.Store.MaxOpenConns = 0 }, "store.max_open_conns"},
		{"negative write timeout", func(c *Config) { c.Recorder.WriteTimeout = -time.Second }, "recorder.write_timeout"},
		{"bad archive format", func(c *Config) { c.Archive.Format = "xml" }, "archive.format"},
		{"bad archive table", func(c *Config) { c.Archive.Tables = []string{"channels"} }, "archive.tables"},
		{"bad schedule", func(c *Config) {
			c.Archive.Enabled = true
			c.Archive.Schedule = "every day"
		}, "archive.schedule"},
		{"bad listen address", func(c *Config) { c.Server.ListenAddress = "localhost" }, "server.listen_address"},
		{"tls without cert", func(c *Config) { c.Server.TLS.Enabled = true }, "server.tls.cert_file"},
		{"bad tls version", func(c *Config) { c.Server.TLS.MinVersion = "1.1" }, "server.tls.min_version"},
		{"bad log level", func(c *Config) { c.Telemetry.Logging.Level = "trace" }, "telemetry.logging.level"},
		{"bad log format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }, "telemetry.logging.format"},
		{"tracing without endpoint", func(c *Config) { c.Telemetry.Tracing.Enabled = true }, "telemetry.tracing.endpoint"},
		{"bad sample ratio", func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 }, "telemetry.tracing.sample_ratio"},
		{"bad health path", func(c *Config) { c.Telemetry.Health.ReadinessPath = "ready" }, "telemetry.health.readiness_path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}

			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error for field %q, got %v", tt.wantField, err)
			}
		})
	}
}

func TestValidate_MemoryBackendIgnoresPath(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = "memory"
	cfg.Store.Path = ""
	if err := Validate(cfg); err != nil {
		t.Errorf("memory backend should not need a path: %v", err)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := ValidationError{Errors: []FieldError{
		{Field: "store.path", Message: "required"},
		{Field: "archive.format", Message: "invalid"},
	}}

	msg := err.Error()
	if !strings.Contains(msg, "2 errors") {
		t.Errorf("expected error count in message, got %q", msg)
	}
	if !strings.Contains(msg, "store.path: required") {
		t.Errorf("expected field error in message, got %q", msg)
	}
}
