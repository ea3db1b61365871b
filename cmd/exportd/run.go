package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"schoolpulse/exportd/pkg/config"
	"schoolpulse/exportd/pkg/server"
	"schoolpulse/exportd/pkg/storage"
	"schoolpulse/exportd/pkg/telemetry/health"
	"schoolpulse/exportd/pkg/telemetry/logging"
	"schoolpulse/exportd/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the export server",
	Long: `Start the export server with the specified configuration.

Examples:
  # Start with default config
  exportd run

  # Start with custom config
  exportd run --config /etc/schoolpulse/exportd.yaml

  # Override listen address
  exportd run --listen 0.0.0.0:8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flag overrides win over file and environment
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if _, err := logging.Setup(cfg.Telemetry.Logging); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	db, err := storage.Open(&storage.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Schema,
		RefDatabase:     cfg.Database.RefSchema,
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnectTimeout:  cfg.Database.ConnectTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	checker := health.NewChecker(db, cfg.Telemetry.Readiness)
	if err := checker.Start(ctx); err != nil {
		return fmt.Errorf("failed to start readiness checker: %w", err)
	}
	defer checker.Stop()

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics)
	}

	slog.Info("configuration loaded",
		"config_file", cfgFile,
		"driver", cfg.Database.Driver,
		"api_key_required", cfg.Auth.RequireAPIKey,
	)

	srv := server.NewServer(cfg, db, checker, collector)
	return srv.Start(ctx)
}
