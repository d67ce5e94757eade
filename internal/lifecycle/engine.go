// Package lifecycle implements the task state machine. Every sanctioned
// mutation of the task collection goes through the Engine, which validates
// against the store's structural invariants before applying anything: a
// rejected operation leaves the store untouched.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nathanfields/ebb/internal/domain"
	"github.com/nathanfields/ebb/internal/store"
)

// Clock supplies the current time. Injected so tests can pin it.
type Clock func() time.Time

// Engine drives task lifecycle transitions over a TaskStore.
type Engine struct {
	store *store.TaskStore
	now   Clock
}

// NewEngine creates an Engine over the given store. A nil clock defaults to
// time.Now.
func NewEngine(s *store.TaskStore, clock Clock) *Engine {
	if clock == nil {
		clock = time.Now
	}
	return &Engine{store: s, now: clock}
}

// CreateParams carries the user-editable fields of a new task.
type CreateParams struct {
	Title              string
	Description        string
	Priority           domain.Priority
	EnergyLevel        domain.EnergyLevel
	CategoryID         string
	Deadline           *time.Time
	EstimatedMinutes   *int
	IsRecurring        bool
	RecurringFrequency *domain.RecurringFrequency
	UserID             string
}

// Create adds a new root task.
func (e *Engine) Create(p CreateParams) (*domain.Task, error) {
	return e.create(nil, p)
}

// AddSubtask adds a new task under parentID. It fails with
// ErrMaxDepthExceeded when the parent already sits at the maximum depth.
func (e *Engine) AddSubtask(parentID string, p CreateParams) (*domain.Task, error) {
	return e.create(&parentID, p)
}

func (e *Engine) create(parentID *string, p CreateParams) (*domain.Task, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, fmt.Errorf("task title cannot be empty")
	}
	if p.Priority == "" {
		p.Priority = domain.PriorityNone
	}
	if !domain.ValidPriorities[string(p.Priority)] {
		return nil, fmt.Errorf("invalid priority %q", p.Priority)
	}
	if p.EnergyLevel == "" {
		p.EnergyLevel = domain.EnergyMedium
	}
	if !domain.ValidEnergyLevels[string(p.EnergyLevel)] {
		return nil, fmt.Errorf("invalid energy level %q", p.EnergyLevel)
	}
	if p.RecurringFrequency != nil && !domain.ValidRecurringFrequencies[string(*p.RecurringFrequency)] {
		return nil, fmt.Errorf("invalid recurring frequency %q", *p.RecurringFrequency)
	}
	if p.EstimatedMinutes != nil && *p.EstimatedMinutes <= 0 {
		return nil, fmt.Errorf("estimated minutes must be positive")
	}
	if p.CategoryID == "" {
		p.CategoryID = domain.DefaultCategoryID
	}
	if _, err := e.store.Category(p.CategoryID); err != nil {
		return nil, fmt.Errorf("category %s does not exist", p.CategoryID)
	}

	depth := 0
	if parentID != nil {
		parent, err := e.store.Get(*parentID)
		if err != nil {
			return nil, err
		}
		if parent.Depth >= domain.MaxDepth {
			return nil, fmt.Errorf("parent %s is at depth %d: %w", parent.ID, parent.Depth, domain.ErrMaxDepthExceeded)
		}
		depth = parent.Depth + 1
	}

	now := e.now()
	task := &domain.Task{
		ID:                 uuid.NewString(),
		UserID:             p.UserID,
		Title:              title,
		Description:        p.Description,
		Priority:           p.Priority,
		EnergyLevel:        p.EnergyLevel,
		CategoryID:         p.CategoryID,
		Deadline:           p.Deadline,
		EstimatedMinutes:   p.EstimatedMinutes,
		ParentID:           parentID,
		Depth:              depth,
		IsRecurring:        p.IsRecurring,
		RecurringFrequency: p.RecurringFrequency,
		CreatedHour:        now.Hour(),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := e.store.Upsert(task); err != nil {
		return nil, err
	}
	return task, nil
}

// Start transitions a task from Open to Started.
func (e *Engine) Start(id string) (*domain.Task, error) {
	return e.transition(id, func(t *domain.Task, now time.Time) error {
		return t.MarkStarted(now)
	})
}

// Complete transitions a task from Open or Started to Completed. It fails
// with ErrDependencyLocked while any direct child remains open; a failed
// completion mutates nothing.
func (e *Engine) Complete(id string) (*domain.Task, domain.CompleteOutcome, error) {
	task, err := e.store.Get(id)
	if err != nil {
		return nil, domain.CompleteOutcome{}, err
	}
	if e.store.IsLocked(id) {
		return nil, domain.CompleteOutcome{}, fmt.Errorf("task %s has incomplete subtasks: %w", id, domain.ErrDependencyLocked)
	}
	out, err := task.MarkCompleted(e.now())
	if err != nil {
		return nil, domain.CompleteOutcome{}, err
	}
	if err := e.store.Upsert(task); err != nil {
		return nil, domain.CompleteOutcome{}, err
	}
	return task, out, nil
}

// Uncomplete reverses a completion (undo). Exact prior state restoration is
// the caller's concern via its own snapshot.
func (e *Engine) Uncomplete(id string) (*domain.Task, error) {
	return e.transition(id, func(t *domain.Task, now time.Time) error {
		return t.MarkUncompleted(now)
	})
}

// Defer increments the task's defer count and returns it to Open.
func (e *Engine) Defer(id string) (*domain.Task, error) {
	return e.transition(id, func(t *domain.Task, now time.Time) error {
		return t.MarkDeferred(now)
	})
}

// Archive moves a task out of active views, retaining it for statistics.
func (e *Engine) Archive(id string) (*domain.Task, error) {
	return e.transition(id, func(t *domain.Task, now time.Time) error {
		return t.MarkArchived(now)
	})
}

// Revive returns an archived task to Open and restarts its decay clock.
func (e *Engine) Revive(id string) (*domain.Task, error) {
	return e.transition(id, func(t *domain.Task, now time.Time) error {
		return t.MarkRevived(now)
	})
}

func (e *Engine) transition(id string, fn func(*domain.Task, time.Time) error) (*domain.Task, error) {
	task, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}
	if err := fn(task, e.now()); err != nil {
		return nil, err
	}
	if err := e.store.Upsert(task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteCascade removes the task and its whole subtree as one batch,
// leaves first. The removed tasks are returned so the caller can offer undo.
func (e *Engine) DeleteCascade(id string) ([]*domain.Task, error) {
	task, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}

	removed := append(e.store.DescendantsOf(id), task)
	// Deepest first so no delete ever orphans a child.
	for i := len(removed) - 1; i >= 0; i-- {
		if err := e.store.Delete(removed[i].ID); err != nil {
			return nil, err
		}
	}
	return removed, nil
}

// FieldEdits carries direct field edits from the editing surface. These
// never change lifecycle state. Nil fields are left untouched.
type FieldEdits struct {
	Title            *string
	Description      *string
	Priority         *domain.Priority
	EnergyLevel      *domain.EnergyLevel
	CategoryID       *string
	Deadline         **time.Time
	EstimatedMinutes **int
}

// EditFields applies non-lifecycle field edits to a task.
func (e *Engine) EditFields(id string, edits FieldEdits) (*domain.Task, error) {
	task, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}

	if edits.Title != nil {
		title := strings.TrimSpace(*edits.Title)
		if title == "" {
			return nil, fmt.Errorf("task title cannot be empty")
		}
		task.Title = title
	}
	if edits.Description != nil {
		task.Description = *edits.Description
	}
	if edits.Priority != nil {
		if !domain.ValidPriorities[string(*edits.Priority)] {
			return nil, fmt.Errorf("invalid priority %q", *edits.Priority)
		}
		task.Priority = *edits.Priority
	}
	if edits.EnergyLevel != nil {
		if !domain.ValidEnergyLevels[string(*edits.EnergyLevel)] {
			return nil, fmt.Errorf("invalid energy level %q", *edits.EnergyLevel)
		}
		task.EnergyLevel = *edits.EnergyLevel
	}
	if edits.CategoryID != nil {
		if _, err := e.store.Category(*edits.CategoryID); err != nil {
			return nil, fmt.Errorf("category %s does not exist", *edits.CategoryID)
		}
		task.CategoryID = *edits.CategoryID
	}
	if edits.Deadline != nil {
		task.Deadline = *edits.Deadline
		if task.Deadline == nil || e.now().Before(*task.Deadline) {
			// A moved-out or cleared deadline ends the current overdue spell.
			task.OverdueStartDate = nil
		}
	}
	if edits.EstimatedMinutes != nil {
		if *edits.EstimatedMinutes != nil && **edits.EstimatedMinutes <= 0 {
			return nil, fmt.Errorf("estimated minutes must be positive")
		}
		task.EstimatedMinutes = *edits.EstimatedMinutes
	}

	task.UpdatedAt = e.now()
	if err := e.store.Upsert(task); err != nil {
		return nil, err
	}
	return task, nil
}
