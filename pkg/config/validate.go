package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for errors. It is called by LoadConfig
// after defaults and environment overrides are applied.
func Validate(cfg *Config) error {
	if err := validateServer(&cfg.Server); err != nil {
		return err
	}
	if err := validateDatabase(&cfg.Database); err != nil {
		return err
	}
	if err := validateAuth(&cfg.Auth); err != nil {
		return err
	}
	if err := validateTelemetry(&cfg.Telemetry); err != nil {
		return err
	}
	return nil
}

func validateServer(cfg *ServerConfig) error {
	if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		return fmt.Errorf("server.listen_address %q is not a valid host:port: %w", cfg.ListenAddress, err)
	}
	if cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 || cfg.IdleTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	return nil
}

func validateDatabase(cfg *DatabaseConfig) error {
	switch cfg.Driver {
	case "mysql":
		if cfg.Schema == "" {
			return fmt.Errorf("database.schema is required for the mysql driver")
		}
		if cfg.RefSchema == "" {
			return fmt.Errorf("database.ref_schema is required for the mysql driver")
		}
		// Schema names are interpolated into the base query text, so they
		// must be bare identifiers even though they come from trusted
		// configuration.
		for _, name := range []string{cfg.Schema, cfg.RefSchema} {
			if !isIdentifier(name) {
				return fmt.Errorf("database schema name %q is not a bare identifier", name)
			}
		}
		if cfg.Port <= 0 || cfg.Port > 65535 {
			return fmt.Errorf("database.port %d is out of range", cfg.Port)
		}
	case "sqlite":
		if cfg.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("database.driver %q is not supported (expected mysql or sqlite)", cfg.Driver)
	}
	return nil
}

func validateAuth(cfg *AuthConfig) error {
	if cfg.RequireAPIKey && cfg.APIKey == "" {
		return fmt.Errorf("auth.api_key is required when auth.require_api_key is true")
	}
	return nil
}

func validateTelemetry(cfg *TelemetryConfig) error {
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("telemetry.logging.level %q is not valid", cfg.Logging.Level)
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format %q is not valid", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("telemetry.metrics.path %q must start with /", cfg.Metrics.Path)
	}

	if cfg.Readiness.PingSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Readiness.PingSchedule); err != nil {
			return fmt.Errorf("telemetry.readiness.ping_schedule %q is not a valid cron expression: %w",
				cfg.Readiness.PingSchedule, err)
		}
	}

	return nil
}

// isIdentifier reports whether s is a bare SQL identifier: letters, digits,
// and underscores, not starting with a digit.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
