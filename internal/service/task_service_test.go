package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanfields/ebb/internal/domain"
	"github.com/nathanfields/ebb/internal/lifecycle"
	"github.com/nathanfields/ebb/internal/repository"
	"github.com/nathanfields/ebb/internal/testutil"
)

func TestTaskService_CreatePersistsAcrossReload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	deadline := f.now.Add(48 * time.Hour)
	created, err := f.tasks.Create(ctx, lifecycle.CreateParams{
		Title:    "write report",
		Priority: domain.PriorityHigh,
		Deadline: &deadline,
	})
	require.NoError(t, err)

	fresh := f.reload(t)
	got, err := fresh.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestTaskService_CompleteBlockedByOpenSubtask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	parent, err := f.tasks.Create(ctx, lifecycle.CreateParams{Title: "parent"})
	require.NoError(t, err)
	child, err := f.tasks.AddSubtask(ctx, parent.ID, lifecycle.CreateParams{Title: "child"})
	require.NoError(t, err)

	_, _, err = f.tasks.Complete(ctx, parent.ID)
	require.ErrorIs(t, err, domain.ErrDependencyLocked)

	_, _, err = f.tasks.Complete(ctx, child.ID)
	require.NoError(t, err)
	done, _, err := f.tasks.Complete(ctx, parent.ID)
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)

	// Both completions are durable.
	fresh := f.reload(t)
	got, err := fresh.Get(parent.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
}

func TestTaskService_CompleteRecordsDuration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.tasks.Create(ctx, lifecycle.CreateParams{Title: "timed"})
	require.NoError(t, err)
	_, err = f.tasks.Start(ctx, task.ID)
	require.NoError(t, err)

	f.advance(25 * time.Minute)
	_, out, err := f.tasks.Complete(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, out.ActualMinutes)
	assert.Equal(t, 25, *out.ActualMinutes)
	assert.False(t, out.DurationClamped)
}

func TestTaskService_DeleteRemovesSubtreeRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root, err := f.tasks.Create(ctx, lifecycle.CreateParams{Title: "root"})
	require.NoError(t, err)
	child, err := f.tasks.AddSubtask(ctx, root.ID, lifecycle.CreateParams{Title: "child"})
	require.NoError(t, err)
	_, err = f.tasks.AddSubtask(ctx, child.ID, lifecycle.CreateParams{Title: "grandchild"})
	require.NoError(t, err)
	bystander, err := f.tasks.Create(ctx, lifecycle.CreateParams{Title: "bystander"})
	require.NoError(t, err)

	removed, err := f.tasks.Delete(ctx, root.ID)
	require.NoError(t, err)
	assert.Len(t, removed, 3)

	rows, err := f.taskRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, bystander.ID, rows[0].ID)
}

func TestTaskService_DeleteRollsBackOnWriteFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root, err := f.tasks.Create(ctx, lifecycle.CreateParams{Title: "root"})
	require.NoError(t, err)
	_, err = f.tasks.AddSubtask(ctx, root.ID, lifecycle.CreateParams{Title: "child"})
	require.NoError(t, err)

	boom := errors.New("disk full")
	failing := &testutil.FailOnNthExecUoW{DB: f.db, FailOn: 1, Err: boom}
	svc := NewTaskService(f.store, f.engine, f.taskRepo, failing, nil)

	_, err = svc.Delete(ctx, root.ID)
	require.ErrorIs(t, err, boom)

	// Rows remain; restart would restore the in-memory view from them.
	rows, err := f.taskRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestTaskService_EditPersists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.tasks.Create(ctx, lifecycle.CreateParams{Title: "draft"})
	require.NoError(t, err)

	title := "final"
	prio := domain.PriorityLow
	edited, err := f.tasks.Edit(ctx, task.ID, lifecycle.FieldEdits{Title: &title, Priority: &prio})
	require.NoError(t, err)
	assert.Equal(t, "final", edited.Title)

	got, err := f.taskRepo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
	assert.Equal(t, domain.PriorityLow, got.Priority)
}

func TestTaskService_GetMissing(t *testing.T) {
	f := newFixture(t)

	_, err := f.tasks.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound, "reads come from the store, not the database")
}
