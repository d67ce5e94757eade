package domain

import (
	"fmt"
	"math"
	"time"
)

// MaxDepth is the deepest allowed hierarchy level. Roots are depth 0.
const MaxDepth = 3

// MaxReasonableMinutes is the longest completion duration accepted without a
// confirmation warning.
const MaxReasonableMinutes = 480

// Task is the central entity: a single to-do item, optionally nested under a
// parent task. Child links are never stored on the task itself; they are
// derived from ParentID by the store.
type Task struct {
	ID     string
	UserID string

	Title       string
	Description string

	Priority    Priority
	EnergyLevel EnergyLevel
	CategoryID  string

	Deadline         *time.Time
	EstimatedMinutes *int
	ActualMinutes    *int

	ParentID *string
	Depth    int

	IsRecurring        bool
	RecurringFrequency *RecurringFrequency
	CreatedHour        int

	IsCompleted      bool
	CompletedAt      *time.Time
	StartedAt        *time.Time
	IsArchived       bool
	ArchivedAt       *time.Time
	OverdueStartDate *time.Time
	RevivedAt        *time.Time
	DeferCount       int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CompleteOutcome reports timing data derived from a completion.
type CompleteOutcome struct {
	// ActualMinutes is the recorded duration, nil when no start time exists
	// or the wall clock ran backwards.
	ActualMinutes *int

	// DurationClamped is true when the raw duration exceeded
	// MaxReasonableMinutes and was clamped. Callers must surface this for
	// confirmation rather than accept it silently.
	DurationClamped bool
}

// Clone returns a deep copy of the task. Pointer fields are duplicated so
// mutating the copy never leaks into the original.
func (t *Task) Clone() *Task {
	c := *t
	c.Deadline = cloneTime(t.Deadline)
	c.EstimatedMinutes = cloneInt(t.EstimatedMinutes)
	c.ActualMinutes = cloneInt(t.ActualMinutes)
	c.ParentID = cloneStr(t.ParentID)
	c.CompletedAt = cloneTime(t.CompletedAt)
	c.StartedAt = cloneTime(t.StartedAt)
	c.ArchivedAt = cloneTime(t.ArchivedAt)
	c.OverdueStartDate = cloneTime(t.OverdueStartDate)
	c.RevivedAt = cloneTime(t.RevivedAt)
	if t.RecurringFrequency != nil {
		f := *t.RecurringFrequency
		c.RecurringFrequency = &f
	}
	return &c
}

// IsOpen reports whether the task is still actionable (not completed, not
// archived).
func (t *Task) IsOpen() bool {
	return !t.IsCompleted && !t.IsArchived
}

// MarkStarted transitions Open → Started.
func (t *Task) MarkStarted(now time.Time) error {
	if t.IsArchived {
		return fmt.Errorf("%w: cannot start an archived task", ErrInvalidTransition)
	}
	if t.IsCompleted {
		return fmt.Errorf("%w: cannot start a completed task", ErrInvalidTransition)
	}
	if t.StartedAt != nil {
		return fmt.Errorf("%w: task already started", ErrInvalidTransition)
	}
	t.StartedAt = &now
	t.UpdatedAt = now
	return nil
}

// MarkCompleted transitions Open/Started → Completed and derives
// ActualMinutes from StartedAt when present. A negative duration (clock
// skew) is discarded; a duration above MaxReasonableMinutes is clamped and
// flagged in the outcome.
func (t *Task) MarkCompleted(now time.Time) (CompleteOutcome, error) {
	if t.IsArchived {
		return CompleteOutcome{}, fmt.Errorf("%w: cannot complete an archived task", ErrInvalidTransition)
	}
	if t.IsCompleted {
		return CompleteOutcome{}, fmt.Errorf("%w: task already completed", ErrInvalidTransition)
	}

	var out CompleteOutcome
	if t.StartedAt != nil {
		mins := int(math.Round(now.Sub(*t.StartedAt).Minutes()))
		switch {
		case mins < 0:
			// Clock skew; leave ActualMinutes unset.
		case mins > MaxReasonableMinutes:
			clamped := MaxReasonableMinutes
			t.ActualMinutes = &clamped
			out.ActualMinutes = &clamped
			out.DurationClamped = true
		default:
			t.ActualMinutes = &mins
			out.ActualMinutes = &mins
		}
	}

	t.IsCompleted = true
	t.CompletedAt = &now
	t.OverdueStartDate = nil
	t.UpdatedAt = now
	return out, nil
}

// MarkUncompleted reverses a completion (undo). Completion fields are
// cleared; reconstructing exact prior state is the caller's concern.
func (t *Task) MarkUncompleted(now time.Time) error {
	if t.IsArchived {
		return fmt.Errorf("%w: cannot uncomplete an archived task", ErrInvalidTransition)
	}
	if !t.IsCompleted {
		return fmt.Errorf("%w: task is not completed", ErrInvalidTransition)
	}
	t.IsCompleted = false
	t.CompletedAt = nil
	t.ActualMinutes = nil
	t.UpdatedAt = now
	return nil
}

// MarkDeferred bumps DeferCount and returns the task to Open. DeferCount is
// monotonic; nothing ever decrements it.
func (t *Task) MarkDeferred(now time.Time) error {
	if t.IsArchived {
		return fmt.Errorf("%w: cannot defer an archived task", ErrInvalidTransition)
	}
	if t.IsCompleted {
		return fmt.Errorf("%w: cannot defer a completed task", ErrInvalidTransition)
	}
	t.DeferCount++
	t.StartedAt = nil
	t.UpdatedAt = now
	return nil
}

// MarkArchived transitions to Archived.
func (t *Task) MarkArchived(now time.Time) error {
	if t.IsArchived {
		return fmt.Errorf("%w: task already archived", ErrInvalidTransition)
	}
	t.IsArchived = true
	t.ArchivedAt = &now
	t.UpdatedAt = now
	return nil
}

// MarkRevived transitions Archived → Open. Completion and decay bookkeeping
// are cleared so a re-overdue task restarts its decay clock.
func (t *Task) MarkRevived(now time.Time) error {
	if !t.IsArchived {
		return fmt.Errorf("%w: task is not archived", ErrInvalidTransition)
	}
	t.IsArchived = false
	t.ArchivedAt = nil
	t.IsCompleted = false
	t.CompletedAt = nil
	t.StartedAt = nil
	t.OverdueStartDate = nil
	t.RevivedAt = &now
	t.UpdatedAt = now
	return nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
