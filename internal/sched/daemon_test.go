package sched

import (
	"context"
	"io"
	"log"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanfields/ebb/internal/service"
	ebbsync "github.com/nathanfields/ebb/internal/sync"
)

type countingSweep struct {
	calls atomic.Int32
}

func (c *countingSweep) Sweep(ctx context.Context) (service.SweepResult, error) {
	c.calls.Add(1)
	return service.SweepResult{}, nil
}

type countingSync struct {
	calls atomic.Int32
}

func (c *countingSync) Sync(ctx context.Context) (*service.SyncOutcome, error) {
	c.calls.Add(1)
	return &service.SyncOutcome{Report: &ebbsync.SyncReport{}}, nil
}

func (c *countingSync) Resync(ctx context.Context) (*service.SyncOutcome, error) {
	return c.Sync(ctx)
}

// holdingSync marks itself busy for the duration of every pass so a
// concurrently running job can be detected.
type holdingSync struct {
	busy atomic.Bool
	hold time.Duration
}

func (h *holdingSync) Sync(ctx context.Context) (*service.SyncOutcome, error) {
	h.busy.Store(true)
	time.Sleep(h.hold)
	h.busy.Store(false)
	return &service.SyncOutcome{Report: &ebbsync.SyncReport{}}, nil
}

func (h *holdingSync) Resync(ctx context.Context) (*service.SyncOutcome, error) {
	return h.Sync(ctx)
}

type watchingSweep struct {
	sync       *holdingSync
	calls      atomic.Int32
	overlapped atomic.Bool
}

func (w *watchingSweep) Sweep(ctx context.Context) (service.SweepResult, error) {
	w.calls.Add(1)
	if w.sync.busy.Load() {
		w.overlapped.Store(true)
	}
	return service.SweepResult{}, nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestDaemon_RejectsBadSchedule(t *testing.T) {
	d := NewDaemon(nil, &countingSweep{}, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	err := d.Run(ctx, "@every 1m", "not a schedule")
	require.Error(t, err)
}

func TestDaemon_RunsSweepOnSchedule(t *testing.T) {
	sweep := &countingSweep{}
	d := NewDaemon(nil, sweep, quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	require.NoError(t, d.Run(ctx, "@every 1m", "@every 50ms"))
	assert.GreaterOrEqual(t, sweep.calls.Load(), int32(1))
}

func TestDaemon_RunsSyncOnSchedule(t *testing.T) {
	syncSvc := &countingSync{}
	d := NewDaemon(syncSvc, &countingSweep{}, quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	require.NoError(t, d.Run(ctx, "@every 50ms", "@every 1m"))
	assert.GreaterOrEqual(t, syncSvc.calls.Load(), int32(1))
}

func TestDaemon_SerializesSyncAndSweep(t *testing.T) {
	// Both jobs mutate the task store, which expects one writer at a time.
	// cron fires each job on its own goroutine, so the sweep must never
	// observe a sync pass in flight.
	syncSvc := &holdingSync{hold: 40 * time.Millisecond}
	sweep := &watchingSweep{sync: syncSvc}
	d := NewDaemon(syncSvc, sweep, quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	require.NoError(t, d.Run(ctx, "@every 10ms", "@every 10ms"))

	assert.GreaterOrEqual(t, sweep.calls.Load(), int32(1))
	assert.False(t, sweep.overlapped.Load(), "sweep ran while a sync pass held the store")
}

func TestDaemon_SkipsSyncWhenDisabled(t *testing.T) {
	sweep := &countingSweep{}
	d := NewDaemon(nil, sweep, quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, d.Run(ctx, "definitely not a schedule", "@every 1m"))
}
