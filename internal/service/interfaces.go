package service

import (
	"context"

	"github.com/nathanfields/ebb/internal/domain"
	"github.com/nathanfields/ebb/internal/lifecycle"
	ebbsync "github.com/nathanfields/ebb/internal/sync"
)

type TaskService interface {
	Create(ctx context.Context, p lifecycle.CreateParams) (*domain.Task, error)
	AddSubtask(ctx context.Context, parentID string, p lifecycle.CreateParams) (*domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context) ([]*domain.Task, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*domain.Task, error)
	Subtasks(ctx context.Context, parentID string) ([]*domain.Task, error)
	Start(ctx context.Context, id string) (*domain.Task, error)
	Complete(ctx context.Context, id string) (*domain.Task, domain.CompleteOutcome, error)
	Uncomplete(ctx context.Context, id string) (*domain.Task, error)
	Defer(ctx context.Context, id string) (*domain.Task, error)
	Archive(ctx context.Context, id string) (*domain.Task, error)
	Revive(ctx context.Context, id string) (*domain.Task, error)
	Edit(ctx context.Context, id string, edits lifecycle.FieldEdits) (*domain.Task, error)
	// Delete removes the task and its whole subtree, returning the removed
	// tasks deepest-last.
	Delete(ctx context.Context, id string) ([]*domain.Task, error)
}

type CategoryService interface {
	Create(ctx context.Context, name, icon, color string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Rename(ctx context.Context, id, name string) (*domain.Category, error)
	Reorder(ctx context.Context, id string, rank int) (*domain.Category, error)
	// Delete removes a category and reassigns its tasks to the default
	// category. Returns the number of reassigned tasks.
	Delete(ctx context.Context, id string) (int, error)
}

type InboxService interface {
	Capture(ctx context.Context, rawText string) (*domain.InboxTask, error)
	List(ctx context.Context) ([]*domain.InboxTask, error)
	Delete(ctx context.Context, id string) error
	// Promote turns a captured note into a real task and removes it from the
	// inbox.
	Promote(ctx context.Context, id string, categoryID string) (*domain.Task, error)
}

// SweepResult reports what a decay sweep changed.
type SweepResult struct {
	Stamped  int
	Archived int
}

type SweepService interface {
	Sweep(ctx context.Context) (SweepResult, error)
}

// SyncOutcome bundles the push report and pull counts of one sync pass.
// PullSkipped is set when the push left holes on the remote side and
// applying the pull would have dropped the unpushed rows locally.
type SyncOutcome struct {
	Report      *ebbsync.SyncReport
	Active      int
	Archived    int
	Categories  int
	PullSkipped bool
}

type SyncService interface {
	// Sync runs a full push followed by a pull that replaces local state.
	// After the first pass the pull is incremental, driven by a stored
	// updated_at watermark.
	Sync(ctx context.Context) (*SyncOutcome, error)
	// Resync discards the watermark and pulls the complete remote state,
	// repairing any drift an incremental pass cannot see.
	Resync(ctx context.Context) (*SyncOutcome, error)
}
