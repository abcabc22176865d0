// Package scheduler runs periodic housekeeping over the shared store.
package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/faultline/faultline/internal/store"
)

// Janitor periodically sweeps orphaned single-flight claims: markers
// whose owning job record has expired or whose owner crashed before
// releasing them. Without the sweep a stale claim blocks resubmission
// of the same content until its TTL lapses.
type Janitor struct {
	claims   *store.ClaimStore
	cron     *cron.Cron
	schedule string
	enabled  bool
}

// NewJanitor creates a janitor on the given cron schedule
func NewJanitor(claims *store.ClaimStore, schedule string, enabled bool) *Janitor {
	return &Janitor{
		claims:   claims,
		cron:     cron.New(),
		schedule: schedule,
		enabled:  enabled,
	}
}

// Start registers and begins the sweep schedule
func (j *Janitor) Start(ctx context.Context) error {
	if !j.enabled {
		slog.Info("Janitor is disabled by configuration")
		return nil
	}

	if _, err := j.cron.AddFunc(j.schedule, func() {
		j.sweep(ctx)
	}); err != nil {
		return err
	}

	j.cron.Start()
	slog.Info("Janitor started", "schedule", j.schedule)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish
func (j *Janitor) Stop() {
	if !j.enabled {
		return
	}

	slog.Info("Stopping janitor")
	stopCtx := j.cron.Stop()
	<-stopCtx.Done()
	slog.Info("Janitor stopped")
}

func (j *Janitor) sweep(ctx context.Context) {
	removed, err := j.claims.SweepOrphans(ctx)
	if err != nil {
		slog.Error("Claim sweep failed", "error", err.Error())
		return
	}
	if removed > 0 {
		slog.Info("Claim sweep completed", "removed", removed)
	}
}
