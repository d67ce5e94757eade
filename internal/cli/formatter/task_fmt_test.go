package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nathanfields/ebb/internal/domain"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func plain(t *testing.T) {
	t.Helper()
	prev := Colorized
	Colorized = false
	t.Cleanup(func() { Colorized = prev })
}

func task(title string) *domain.Task {
	return &domain.Task{
		ID:          "aaaabbbb-0000-0000-0000-000000000000",
		Title:       title,
		Priority:    domain.PriorityNone,
		EnergyLevel: domain.EnergyMedium,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
}

func TestFormatTaskList_Tree(t *testing.T) {
	plain(t)

	parent := task("parent")
	childA := task("first child")
	childB := task("second child")
	childB.IsCompleted = true

	out := FormatTaskList([]TaskLine{
		{Task: parent},
		{Task: childA, Level: 1},
		{Task: childB, Level: 1, IsLast: true},
	}, testNow)

	assert.Contains(t, out, "○ aaaabbbb  parent")
	assert.Contains(t, out, "├─ ○ aaaabbbb  first child")
	assert.Contains(t, out, "└─ ✔ aaaabbbb  second child")
}

func TestFormatTaskList_DeadlineBadge(t *testing.T) {
	plain(t)

	due := testNow.Add(3 * 24 * time.Hour)
	withDeadline := task("report")
	withDeadline.Deadline = &due

	out := FormatTaskList([]TaskLine{{Task: withDeadline}}, testNow)
	assert.Contains(t, out, "In 3d")
}

func TestFormatTaskList_Empty(t *testing.T) {
	plain(t)
	assert.Equal(t, "No tasks.", FormatTaskList(nil, testNow))
}

func TestFormatTaskInspect(t *testing.T) {
	plain(t)

	tk := task("quarterly report")
	est := 90
	tk.EstimatedMinutes = &est
	tk.DeferCount = 2
	cat := &domain.Category{ID: "work", Name: "Work"}
	child := task("gather numbers")
	child.IsCompleted = true

	out := FormatTaskInspect(tk, cat, []*domain.Task{child}, testNow)
	assert.Contains(t, out, "QUARTERLY REPORT")
	assert.Contains(t, out, "Work")
	assert.Contains(t, out, "1h 30m")
	assert.Contains(t, out, "Deferred")
	assert.Contains(t, out, "Subtasks (1/1 done)")
}

func TestFormatCompleteOutcome_Clamped(t *testing.T) {
	plain(t)

	mins := domain.MaxReasonableMinutes
	out := FormatCompleteOutcome(task("marathon"), domain.CompleteOutcome{
		ActualMinutes:   &mins,
		DurationClamped: true,
	})
	assert.Contains(t, out, "capped")
}

func TestRelativeDateFrom(t *testing.T) {
	cases := []struct {
		offset time.Duration
		want   string
	}{
		{0, "Today"},
		{24 * time.Hour, "Tomorrow"},
		{-24 * time.Hour, "Yesterday"},
		{5 * 24 * time.Hour, "In 5d"},
		{-21 * 24 * time.Hour, "3w ago"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RelativeDateFrom(testNow.Add(tc.offset), testNow))
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "2h", FormatMinutes(120))
	assert.Equal(t, "2h 5m", FormatMinutes(125))
}
