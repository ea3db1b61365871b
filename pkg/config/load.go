package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path,
// applies default values, and validates the result. Environment variables
// are not consulted; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Variables follow the naming convention
// SCHOOLPULSE_SECTION_FIELD (e.g. SCHOOLPULSE_DATABASE_HOST) and always take
// precedence over file values.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies SCHOOLPULSE_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("SCHOOLPULSE_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("SCHOOLPULSE_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("SCHOOLPULSE_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	// Database overrides
	if val := os.Getenv("SCHOOLPULSE_DATABASE_DRIVER"); val != "" {
		cfg.Database.Driver = val
	}
	if val := os.Getenv("SCHOOLPULSE_DATABASE_HOST"); val != "" {
		cfg.Database.Host = val
	}
	if val := os.Getenv("SCHOOLPULSE_DATABASE_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Database.Port = i
		}
	}
	if val := os.Getenv("SCHOOLPULSE_DATABASE_USER"); val != "" {
		cfg.Database.User = val
	}
	if val := os.Getenv("SCHOOLPULSE_DATABASE_PASSWORD"); val != "" {
		cfg.Database.Password = val
	}
	if val := os.Getenv("SCHOOLPULSE_DATABASE_SCHEMA"); val != "" {
		cfg.Database.Schema = val
	}
	if val := os.Getenv("SCHOOLPULSE_DATABASE_REF_SCHEMA"); val != "" {
		cfg.Database.RefSchema = val
	}
	if val := os.Getenv("SCHOOLPULSE_DATABASE_PATH"); val != "" {
		cfg.Database.Path = val
	}

	// Auth overrides
	if val := os.Getenv("SCHOOLPULSE_AUTH_REQUIRE_API_KEY"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Auth.RequireAPIKey = b
		}
	}
	if val := os.Getenv("SCHOOLPULSE_AUTH_API_KEY"); val != "" {
		cfg.Auth.APIKey = val
	}
	if val := os.Getenv("SCHOOLPULSE_AUTH_HEADER_NAME"); val != "" {
		cfg.Auth.HeaderName = val
	}

	// Export overrides
	if val := os.Getenv("SCHOOLPULSE_EXPORT_FILENAME"); val != "" {
		cfg.Export.Filename = val
	}

	// Telemetry overrides
	if val := os.Getenv("SCHOOLPULSE_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("SCHOOLPULSE_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("SCHOOLPULSE_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("SCHOOLPULSE_TELEMETRY_READINESS_PING_SCHEDULE"); val != "" {
		cfg.Telemetry.Readiness.PingSchedule = val
	}
}
