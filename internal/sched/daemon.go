// Package sched runs the background schedules: periodic full syncs and the
// nightly decay sweep.
package sched

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	rcron "github.com/robfig/cron/v3"

	"github.com/nathanfields/ebb/internal/service"
)

// Daemon drives the recurring sync and sweep jobs on cron schedules.
// cron fires every job on its own goroutine, but both jobs write the
// task store, which expects a single writer; jobMu serializes them.
type Daemon struct {
	syncSvc  service.SyncService // nil when sync is disabled
	sweepSvc service.SweepService
	logger   *log.Logger
	cron     *rcron.Cron
	jobMu    sync.Mutex
}

func NewDaemon(syncSvc service.SyncService, sweepSvc service.SweepService, logger *log.Logger) *Daemon {
	if logger == nil {
		logger = log.Default()
	}
	return &Daemon{syncSvc: syncSvc, sweepSvc: sweepSvc, logger: logger}
}

// Run registers both schedules and blocks until the context is cancelled.
// Running jobs get a grace period to finish on shutdown.
func (d *Daemon) Run(ctx context.Context, syncSchedule, sweepSchedule string) error {
	d.cron = rcron.New()

	if d.syncSvc != nil {
		if _, err := d.cron.AddFunc(syncSchedule, func() { d.runSync(ctx) }); err != nil {
			return fmt.Errorf("invalid sync schedule %q: %w", syncSchedule, err)
		}
	}
	if _, err := d.cron.AddFunc(sweepSchedule, func() { d.runSweep(ctx) }); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", sweepSchedule, err)
	}

	d.cron.Start()
	d.logger.Printf("[sched] started (sync %q, sweep %q)", syncSchedule, sweepSchedule)

	<-ctx.Done()

	stopCtx := d.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		d.logger.Printf("[sched] stop timeout waiting for running jobs")
	}
	d.logger.Printf("[sched] stopped")
	return nil
}

func (d *Daemon) runSync(ctx context.Context) {
	d.jobMu.Lock()
	defer d.jobMu.Unlock()

	outcome, err := d.syncSvc.Sync(ctx)
	if err != nil {
		d.logger.Printf("[sched] sync failed: %v", err)
		return
	}
	if outcome.PullSkipped {
		d.logger.Printf("[sched] sync: pushed %d/%d tasks, pull deferred until the push is whole",
			outcome.Report.Tasks.Pushed, outcome.Report.Tasks.Total)
		return
	}
	d.logger.Printf("[sched] sync: pushed %d tasks, pulled %d active / %d archived",
		outcome.Report.Tasks.Pushed, outcome.Active, outcome.Archived)
}

func (d *Daemon) runSweep(ctx context.Context) {
	d.jobMu.Lock()
	defer d.jobMu.Unlock()

	result, err := d.sweepSvc.Sweep(ctx)
	if err != nil {
		d.logger.Printf("[sched] sweep failed: %v", err)
		return
	}
	if result.Stamped > 0 || result.Archived > 0 {
		d.logger.Printf("[sched] sweep: stamped %d overdue, archived %d decayed",
			result.Stamped, result.Archived)
	}
}
