package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"schoolpulse/exportd/pkg/export"
)

// Supported driver names.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config contains configuration for the database connection.
type Config struct {
	// Driver selects the backend: "mysql" or "sqlite".
	Driver string

	// Host and Port locate the MySQL server.
	Host string
	Port int

	// User and Password authenticate against MySQL.
	User     string
	Password string

	// Database is the core (transactional) schema the connection opens
	// against. Queries may also reference RefDatabase, the reference
	// lookup schema.
	Database    string
	RefDatabase string

	// Path is the SQLite database file (or file: URI) when Driver is
	// "sqlite".
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// ConnMaxLifetime bounds how long a pooled connection may be reused.
	// Default: 5 minutes
	ConnMaxLifetime time.Duration

	// ConnectTimeout bounds the MySQL dial.
	// Default: 10 seconds
	ConnectTimeout time.Duration
}

// DefaultConfig returns the default database configuration.
func DefaultConfig() *Config {
	return &Config{
		Driver:          DriverMySQL,
		Host:            "127.0.0.1",
		Port:            3306,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnectTimeout:  10 * time.Second,
	}
}

// Database wraps the sql.DB pool for the export dataset.
type Database struct {
	db     *sql.DB
	config *Config
	logger *slog.Logger
}

// Open creates the connection pool for the configured backend. It does not
// dial eagerly; use Ping to verify reachability.
func Open(cfg *Config) (*Database, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	logger := slog.Default().With("component", "storage")

	var (
		db  *sql.DB
		err error
	)

	switch cfg.Driver {
	case DriverMySQL:
		db, err = sql.Open("mysql", mysqlDSN(cfg))
	case DriverSQLite:
		db, err = sql.Open("sqlite", cfg.Path)
	default:
		return nil, NewStorageError(cfg.Driver, "open", fmt.Errorf("unsupported driver %q", cfg.Driver))
	}
	if err != nil {
		return nil, NewStorageError(cfg.Driver, "open", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	logger.Info("database pool opened",
		"driver", cfg.Driver,
		"max_open_conns", cfg.MaxOpenConns,
	)

	return &Database{
		db:     db,
		config: cfg,
		logger: logger,
	}, nil
}

// mysqlDSN builds the MySQL DSN from configuration using the driver's own
// config type, so credentials and parameters are escaped correctly.
func mysqlDSN(cfg *Config) string {
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.DBName = cfg.Database
	mc.Timeout = cfg.ConnectTimeout
	mc.ParseTime = true
	return mc.FormatDSN()
}

// QueryRowSet executes the query with bound arguments and materializes all
// matching rows. The rows handle is closed before returning, on success and
// on every error path, so no connection outlives the request.
func (d *Database) QueryRowSet(ctx context.Context, query string, args ...any) (*export.RowSet, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, NewStorageError(d.config.Driver, "query", err)
	}
	defer rows.Close()

	rs, err := export.ReadRows(rows)
	if err != nil {
		return nil, NewStorageError(d.config.Driver, "scan", err)
	}
	return rs, nil
}

// Ping verifies the database is reachable.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return NewStorageError(d.config.Driver, "ping", err)
	}
	return nil
}

// Exec runs a statement without returning rows. Used by tests and tooling;
// the export path itself is read-only.
func (d *Database) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := d.db.ExecContext(ctx, query, args...); err != nil {
		return NewStorageError(d.config.Driver, "exec", err)
	}
	return nil
}

// Stats exposes pool statistics, letting tests assert that no connection
// leaked after a request.
func (d *Database) Stats() sql.DBStats {
	return d.db.Stats()
}

// Driver returns the configured driver name.
func (d *Database) Driver() string {
	return d.config.Driver
}

// Close releases the connection pool.
func (d *Database) Close() error {
	d.logger.Info("database pool closed", "driver", d.config.Driver)
	return d.db.Close()
}
