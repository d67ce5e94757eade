package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanfields/ebb/internal/decay"
	"github.com/nathanfields/ebb/internal/lifecycle"
)

func TestSweep_StampsThenArchives(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	missed := f.now.Add(-time.Hour)
	task, err := f.tasks.Create(ctx, lifecycle.CreateParams{Title: "missed", Deadline: &missed})
	require.NoError(t, err)

	result, err := f.sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stamped)
	assert.Equal(t, 0, result.Archived)

	got, err := f.tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.OverdueStartDate)
	assert.Equal(t, decay.Overdue, decay.Classify(got, f.now))

	// A second pass inside the decay window changes nothing.
	result, err = f.sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, result)

	f.advance(decay.DecayWindow)
	result, err = f.sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Archived)

	got, err = f.tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.IsArchived)

	// Archival is durable.
	row, err := f.taskRepo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, row.IsArchived)
}

func TestSweep_IgnoresCompletedAndDeadlineless(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.tasks.Create(ctx, lifecycle.CreateParams{Title: "no deadline"})
	require.NoError(t, err)

	missed := f.now.Add(-time.Hour)
	done, err := f.tasks.Create(ctx, lifecycle.CreateParams{Title: "done late", Deadline: &missed})
	require.NoError(t, err)
	_, _, err = f.tasks.Complete(ctx, done.ID)
	require.NoError(t, err)

	result, err := f.sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, result)
}
