package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestMarkStarted_FromOpen(t *testing.T) {
	task := &Task{}
	require.NoError(t, task.MarkStarted(testNow))
	require.NotNil(t, task.StartedAt)
	assert.Equal(t, testNow, *task.StartedAt)
	assert.Equal(t, testNow, task.UpdatedAt)
}

func TestMarkStarted_AlreadyStarted(t *testing.T) {
	earlier := testNow.Add(-time.Hour)
	task := &Task{StartedAt: &earlier}
	err := task.MarkStarted(testNow)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, earlier, *task.StartedAt, "should not overwrite existing StartedAt")
}

func TestMarkStarted_Completed(t *testing.T) {
	task := &Task{IsCompleted: true}
	require.ErrorIs(t, task.MarkStarted(testNow), ErrInvalidTransition)
}

func TestMarkStarted_Archived(t *testing.T) {
	task := &Task{IsArchived: true}
	require.ErrorIs(t, task.MarkStarted(testNow), ErrInvalidTransition)
}

func TestMarkCompleted_FromOpen(t *testing.T) {
	task := &Task{}
	out, err := task.MarkCompleted(testNow)
	require.NoError(t, err)
	assert.True(t, task.IsCompleted)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, testNow, *task.CompletedAt)
	assert.Nil(t, out.ActualMinutes, "no start time means no actual minutes")
}

func TestMarkCompleted_DerivesActualMinutes(t *testing.T) {
	started := testNow.Add(-42 * time.Minute)
	task := &Task{StartedAt: &started}
	out, err := task.MarkCompleted(testNow)
	require.NoError(t, err)
	require.NotNil(t, out.ActualMinutes)
	assert.Equal(t, 42, *out.ActualMinutes)
	assert.False(t, out.DurationClamped)
	require.NotNil(t, task.ActualMinutes)
	assert.Equal(t, 42, *task.ActualMinutes)
}

func TestMarkCompleted_RoundsToNearestMinute(t *testing.T) {
	started := testNow.Add(-90 * time.Second)
	task := &Task{StartedAt: &started}
	out, err := task.MarkCompleted(testNow)
	require.NoError(t, err)
	require.NotNil(t, out.ActualMinutes)
	assert.Equal(t, 2, *out.ActualMinutes)
}

func TestMarkCompleted_NegativeDurationDiscarded(t *testing.T) {
	started := testNow.Add(10 * time.Minute)
	task := &Task{StartedAt: &started}
	out, err := task.MarkCompleted(testNow)
	require.NoError(t, err)
	assert.Nil(t, out.ActualMinutes)
	assert.Nil(t, task.ActualMinutes)
	assert.True(t, task.IsCompleted, "completion itself still applies")
}

func TestMarkCompleted_ClampsUnreasonableDuration(t *testing.T) {
	started := testNow.Add(-12 * time.Hour)
	task := &Task{StartedAt: &started}
	out, err := task.MarkCompleted(testNow)
	require.NoError(t, err)
	require.NotNil(t, out.ActualMinutes)
	assert.Equal(t, MaxReasonableMinutes, *out.ActualMinutes)
	assert.True(t, out.DurationClamped)
}

func TestMarkCompleted_ClearsOverdueStart(t *testing.T) {
	overdueSince := testNow.Add(-48 * time.Hour)
	task := &Task{OverdueStartDate: &overdueSince}
	_, err := task.MarkCompleted(testNow)
	require.NoError(t, err)
	assert.Nil(t, task.OverdueStartDate)
}

func TestMarkCompleted_AlreadyCompleted(t *testing.T) {
	task := &Task{IsCompleted: true}
	_, err := task.MarkCompleted(testNow)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMarkUncompleted(t *testing.T) {
	completed := testNow.Add(-time.Hour)
	mins := 30
	task := &Task{IsCompleted: true, CompletedAt: &completed, ActualMinutes: &mins}
	require.NoError(t, task.MarkUncompleted(testNow))
	assert.False(t, task.IsCompleted)
	assert.Nil(t, task.CompletedAt)
	assert.Nil(t, task.ActualMinutes)
}

func TestMarkUncompleted_NotCompleted(t *testing.T) {
	task := &Task{}
	require.ErrorIs(t, task.MarkUncompleted(testNow), ErrInvalidTransition)
}

func TestMarkDeferred_Increments(t *testing.T) {
	task := &Task{DeferCount: 2}
	require.NoError(t, task.MarkDeferred(testNow))
	assert.Equal(t, 3, task.DeferCount)
}

func TestMarkDeferred_ReturnsStartedToOpen(t *testing.T) {
	started := testNow.Add(-time.Hour)
	task := &Task{StartedAt: &started}
	require.NoError(t, task.MarkDeferred(testNow))
	assert.Nil(t, task.StartedAt)
	assert.Equal(t, 1, task.DeferCount)
}

func TestMarkDeferred_MonotonicUnderRepeatedCalls(t *testing.T) {
	task := &Task{}
	for i := 1; i <= 5; i++ {
		require.NoError(t, task.MarkDeferred(testNow))
		assert.Equal(t, i, task.DeferCount)
	}
}

func TestMarkDeferred_Completed(t *testing.T) {
	task := &Task{IsCompleted: true, DeferCount: 1}
	require.ErrorIs(t, task.MarkDeferred(testNow), ErrInvalidTransition)
	assert.Equal(t, 1, task.DeferCount)
}

func TestMarkArchived(t *testing.T) {
	task := &Task{}
	require.NoError(t, task.MarkArchived(testNow))
	assert.True(t, task.IsArchived)
	require.NotNil(t, task.ArchivedAt)
	assert.Equal(t, testNow, *task.ArchivedAt)
}

func TestMarkArchived_AlreadyArchived(t *testing.T) {
	task := &Task{IsArchived: true}
	require.ErrorIs(t, task.MarkArchived(testNow), ErrInvalidTransition)
}

func TestMarkRevived(t *testing.T) {
	archived := testNow.Add(-24 * time.Hour)
	overdueSince := testNow.Add(-10 * 24 * time.Hour)
	completed := testNow.Add(-30 * 24 * time.Hour)
	task := &Task{
		IsArchived:       true,
		ArchivedAt:       &archived,
		IsCompleted:      true,
		CompletedAt:      &completed,
		OverdueStartDate: &overdueSince,
	}
	require.NoError(t, task.MarkRevived(testNow))
	assert.False(t, task.IsArchived)
	assert.Nil(t, task.ArchivedAt)
	assert.False(t, task.IsCompleted)
	assert.Nil(t, task.CompletedAt)
	assert.Nil(t, task.OverdueStartDate, "decay clock restarts after revival")
	require.NotNil(t, task.RevivedAt)
	assert.Equal(t, testNow, *task.RevivedAt)
}

func TestMarkRevived_NotArchived(t *testing.T) {
	task := &Task{}
	require.ErrorIs(t, task.MarkRevived(testNow), ErrInvalidTransition)
}

func TestClone_Independent(t *testing.T) {
	deadline := testNow.Add(24 * time.Hour)
	est := 25
	parent := "p1"
	task := &Task{ID: "t1", Deadline: &deadline, EstimatedMinutes: &est, ParentID: &parent}

	c := task.Clone()
	*c.Deadline = c.Deadline.Add(time.Hour)
	*c.EstimatedMinutes = 99
	*c.ParentID = "p2"

	assert.Equal(t, deadline, *task.Deadline)
	assert.Equal(t, 25, *task.EstimatedMinutes)
	assert.Equal(t, "p1", *task.ParentID)
}
