// Package config provides configuration management for jet.
//
// Configuration is read from a YAML file (gopkg.in/yaml.v3) and overridden
// from the environment (github.com/caarlos0/env/v11).
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("jet.yaml")                 // file only
//	cfg, err := config.LoadConfigWithEnvOverrides("jet.yaml") // file + env
//	cfg, err := config.LoadConfigWithEnvOverrides("")         // defaults + env
//
// # Environment Variable Overrides
//
// Variables are named JET_SECTION_FIELD:
//
//   - JET_STORE_PATH overrides store.path
//   - JET_STORE_DRIVER overrides store.driver
//   - JET_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//   - JET_ARCHIVE_TABLES takes a comma-separated list
//
// # Configuration Precedence
//
//  1. Default values (Default, defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Hot Reload
//
// Watcher reloads the file on change, replaces the global configuration and
// passes the new value to a callback. Invalid files are logged and skipped.
//
// # Example Configuration
//
//	store:
//	  driver: "sqlite3"
//	  path: "data/jet.db"
//	  migrate_legacy: true
//
//	archive:
//	  enabled: true
//	  schedule: "0 3 * * *"
//	  format: "json"
//	  window: "720h"
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "text"
package config
