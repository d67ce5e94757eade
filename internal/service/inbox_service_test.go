package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInboxService_CaptureAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item, err := f.inbox.Capture(ctx, "  call the dentist  ")
	require.NoError(t, err)
	assert.Equal(t, "call the dentist", item.RawText)

	_, err = f.inbox.Capture(ctx, "   ")
	require.Error(t, err)

	items, err := f.inbox.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestInboxService_PromoteCreatesTaskAndDropsCapture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item, err := f.inbox.Capture(ctx, "buy a new lamp")
	require.NoError(t, err)

	task, err := f.inbox.Promote(ctx, item.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "buy a new lamp", task.Title)

	items, err := f.inbox.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	got, err := f.tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.IsOpen())
}

func TestInboxService_PromoteMissing(t *testing.T) {
	f := newFixture(t)

	_, err := f.inbox.Promote(context.Background(), "ghost", "")
	require.Error(t, err)
}
