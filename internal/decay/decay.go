// Package decay classifies tasks into temporal buckets as a pure function
// of task state and the clock. The only field it ever writes is
// OverdueStartDate, the bookkeeping stamp for when a task first slipped
// past its deadline.
package decay

import (
	"time"

	"github.com/nathanfields/ebb/internal/domain"
)

// Bucket is a task's temporal classification.
type Bucket string

const (
	OnTrack      Bucket = "on_track"
	DueSoon      Bucket = "due_soon"
	Overdue      Bucket = "overdue"
	FullyDecayed Bucket = "fully_decayed"
)

// DecayWindow is how long a task must stay continuously overdue before it
// becomes archivable. Measured from OverdueStartDate, not from the deadline,
// so a revived task that slips again restarts its clock.
const DecayWindow = 7 * 24 * time.Hour

// DueSoonWindow is how far ahead of the deadline a task counts as due soon.
const DueSoonWindow = 24 * time.Hour

// Classify returns the task's temporal bucket at the given instant. It is a
// pure function: identical inputs always yield identical output.
func Classify(task *domain.Task, now time.Time) Bucket {
	if task.IsCompleted || task.Deadline == nil {
		return OnTrack
	}
	if !now.After(*task.Deadline) {
		if task.Deadline.Sub(now) <= DueSoonWindow {
			return DueSoon
		}
		return OnTrack
	}
	if task.OverdueStartDate != nil && now.Sub(*task.OverdueStartDate) >= DecayWindow {
		return FullyDecayed
	}
	return Overdue
}

// Stamp records OverdueStartDate the first time a task is observed overdue.
// It returns true when the task was modified. Completion and revival clear
// the stamp elsewhere; Stamp itself never clears anything.
func Stamp(task *domain.Task, now time.Time) bool {
	if task.IsCompleted || task.IsArchived || task.Deadline == nil {
		return false
	}
	if !now.After(*task.Deadline) {
		return false
	}
	if task.OverdueStartDate != nil {
		return false
	}
	task.OverdueStartDate = &now
	task.UpdatedAt = now
	return true
}

// SweepArchivable returns the subset of tasks eligible for archival: fully
// decayed and not yet archived. It is an explicit batch operation invoked by
// the caller (nightly, or on app foreground); classification reads never
// archive as a side effect.
func SweepArchivable(tasks []*domain.Task, now time.Time) []*domain.Task {
	var out []*domain.Task
	for _, t := range tasks {
		if t.IsArchived {
			continue
		}
		if Classify(t, now) == FullyDecayed {
			out = append(out, t)
		}
	}
	return out
}
