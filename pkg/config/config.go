package config

import "time"

// Config is the root configuration structure for SchoolPulse Exportd.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and CORS.
	Server ServerConfig `yaml:"server"`

	// Database contains connection settings for the attendance database.
	Database DatabaseConfig `yaml:"database"`

	// Auth contains the optional static API key settings for /export.
	Auth AuthConfig `yaml:"auth"`

	// Export contains response settings for the export endpoint.
	Export ExportConfig `yaml:"export"`

	// Telemetry contains logging, metrics, and readiness-probe settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response
	// writes. Exports are fully materialized before writing, so this also
	// bounds query execution.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration. BI tools
	// fetch exports from browser contexts, so CORS defaults to allow-all.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS configuration for the export endpoint.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins lists allowed origins; ["*"] allows all.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedHeaders lists allowed request headers.
	// Default: ["Content-Type", "X-API-Key", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age"`
}

// DatabaseConfig contains connection settings for the attendance database.
type DatabaseConfig struct {
	// Driver selects the backend: "mysql" (production) or "sqlite"
	// (development and tests).
	// Default: "mysql"
	Driver string `yaml:"driver"`

	// Host is the MySQL server host.
	// Default: "127.0.0.1"
	Host string `yaml:"host"`

	// Port is the MySQL server port.
	// Default: 3306
	Port int `yaml:"port"`

	// User authenticates against MySQL.
	User string `yaml:"user"`

	// Password authenticates against MySQL.
	Password string `yaml:"password"`

	// Schema is the core (transactional) schema holding registration and
	// attendance tables.
	Schema string `yaml:"schema"`

	// RefSchema is the reference schema holding district, block, cluster,
	// and management lookups.
	RefSchema string `yaml:"ref_schema"`

	// Path is the SQLite database file when Driver is "sqlite".
	Path string `yaml:"path"`

	// MaxOpenConns is the connection pool ceiling.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the idle connection ceiling.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// ConnMaxLifetime bounds pooled connection reuse.
	// Default: 5m
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`

	// ConnectTimeout bounds the MySQL dial.
	// Default: 10s
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// AuthConfig contains the optional static API key check for /export.
type AuthConfig struct {
	// RequireAPIKey enables the API key check. When false the endpoint is
	// open and APIKey is ignored.
	// Default: false
	RequireAPIKey bool `yaml:"require_api_key"`

	// APIKey is the expected key value. Required when RequireAPIKey is
	// true.
	APIKey string `yaml:"api_key"`

	// HeaderName is the request header carrying the key.
	// Default: "X-API-Key"
	HeaderName string `yaml:"header_name"`

	// QueryParam is the fallback query parameter carrying the key, for BI
	// tools that cannot set headers.
	// Default: "apikey"
	QueryParam string `yaml:"query_param"`
}

// ExportConfig contains response settings for the export endpoint.
type ExportConfig struct {
	// Filename is the attachment filename for CSV downloads.
	// Default: "export.csv"
	Filename string `yaml:"filename"`

	// PrettyJSON enables indented JSON output.
	// Default: false
	PrettyJSON bool `yaml:"pretty_json"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging configures the structured logger.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`

	// Readiness configures the scheduled database ping behind /ready.
	Readiness ReadinessConfig `yaml:"readiness"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	// Enabled controls whether /metrics is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the metrics endpoint path.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes all metric names.
	// Default: "schoolpulse"
	Namespace string `yaml:"namespace"`

	// Subsystem further prefixes metric names.
	// Default: "export"
	Subsystem string `yaml:"subsystem"`
}

// ReadinessConfig configures the scheduled database reachability check.
type ReadinessConfig struct {
	// PingSchedule is a cron expression for the background database ping.
	// Empty disables scheduling; /ready then pings on demand.
	// Default: "@every 30s"
	PingSchedule string `yaml:"ping_schedule"`

	// PingTimeout bounds each ping.
	// Default: 5s
	PingTimeout time.Duration `yaml:"ping_timeout"`
}
