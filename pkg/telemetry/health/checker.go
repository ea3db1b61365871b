// Package health tracks database reachability for the readiness probe.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"schoolpulse/exportd/pkg/config"
	"schoolpulse/exportd/pkg/storage"
)

// Status is the result of the most recent database ping.
type Status struct {
	Healthy   bool
	CheckedAt time.Time
	Err       error
}

// Checker pings the database on a cron schedule and caches the result for
// the /ready endpoint, so readiness probes do not hammer the database.
type Checker struct {
	db      *storage.Database
	cfg     config.ReadinessConfig
	cron    *cron.Cron
	logger  *slog.Logger
	mu      sync.RWMutex
	status  Status
	running bool
}

// NewChecker creates a readiness checker for the database.
func NewChecker(db *storage.Database, cfg config.ReadinessConfig) *Checker {
	return &Checker{
		db:     db,
		cfg:    cfg,
		cron:   cron.New(),
		logger: slog.Default().With("component", "health"),
	}
}

// Start begins scheduled pinging based on the configured cron expression
// and runs one check immediately so /ready has a result from the start.
// An empty schedule disables the background checks; Status then falls back
// to an on-demand ping.
func (c *Checker) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfg.PingSchedule == "" {
		c.logger.Info("readiness ping schedule not configured, checking on demand")
		return nil
	}

	if _, err := cron.ParseStandard(c.cfg.PingSchedule); err != nil {
		return fmt.Errorf("invalid ping schedule %q: %w", c.cfg.PingSchedule, err)
	}

	if _, err := c.cron.AddFunc(c.cfg.PingSchedule, func() {
		c.runCheck(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule readiness ping: %w", err)
	}

	c.cron.Start()
	c.running = true

	c.logger.Info("readiness checker started", "schedule", c.cfg.PingSchedule)

	go c.runCheck(ctx)

	go func() {
		<-ctx.Done()
		c.Stop()
	}()

	return nil
}

// Stop halts the scheduled checks.
func (c *Checker) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}
	c.cron.Stop()
	c.running = false
	c.logger.Info("readiness checker stopped")
}

// runCheck performs one ping and records the result.
func (c *Checker) runCheck(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, c.cfg.PingTimeout)
	defer cancel()

	err := c.db.Ping(pingCtx)
	now := time.Now()

	c.mu.Lock()
	c.status = Status{Healthy: err == nil, CheckedAt: now, Err: err}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("database ping failed", "error", err)
	}
}

// Status returns the most recent check result. If no scheduled check has
// run yet it pings on demand.
func (c *Checker) Status(ctx context.Context) Status {
	c.mu.RLock()
	status := c.status
	c.mu.RUnlock()

	if !status.CheckedAt.IsZero() {
		return status
	}

	c.runCheck(ctx)

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}
