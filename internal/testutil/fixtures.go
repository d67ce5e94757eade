package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/nathanfields/ebb/internal/domain"
)

// FixedNow is the reference instant used by fixtures.
var FixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// Task options
type TaskOption func(*domain.Task)

func WithID(id string) TaskOption {
	return func(t *domain.Task) {
		t.ID = id
	}
}

func WithParent(parentID string, depth int) TaskOption {
	return func(t *domain.Task) {
		t.ParentID = &parentID
		t.Depth = depth
	}
}

func WithDeadline(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.Deadline = &d
	}
}

func WithPriority(p domain.Priority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithCategory(categoryID string) TaskOption {
	return func(t *domain.Task) {
		t.CategoryID = categoryID
	}
}

func WithStarted(at time.Time) TaskOption {
	return func(t *domain.Task) {
		t.StartedAt = &at
	}
}

func WithCompleted(at time.Time) TaskOption {
	return func(t *domain.Task) {
		t.IsCompleted = true
		t.CompletedAt = &at
	}
}

func WithArchived(at time.Time) TaskOption {
	return func(t *domain.Task) {
		t.IsArchived = true
		t.ArchivedAt = &at
	}
}

func WithCreatedAt(at time.Time) TaskOption {
	return func(t *domain.Task) {
		t.CreatedAt = at
		t.UpdatedAt = at
	}
}

func NewTestTask(title string, opts ...TaskOption) *domain.Task {
	t := &domain.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Priority:    domain.PriorityNone,
		EnergyLevel: domain.EnergyMedium,
		CategoryID:  domain.DefaultCategoryID,
		CreatedHour: FixedNow.Hour(),
		CreatedAt:   FixedNow,
		UpdatedAt:   FixedNow,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Category options
type CategoryOption func(*domain.Category)

func WithOrder(rank int) CategoryOption {
	return func(c *domain.Category) {
		c.Order = rank
	}
}

func WithColor(color string) CategoryOption {
	return func(c *domain.Category) {
		c.Color = color
	}
}

func NewTestCategory(name string, opts ...CategoryOption) *domain.Category {
	c := &domain.Category{
		ID:    uuid.New().String(),
		Name:  name,
		Icon:  "grid-outline",
		Color: "#112233",
		Order: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewTestInboxTask creates an inbox capture fixture.
func NewTestInboxTask(rawText string) *domain.InboxTask {
	return &domain.InboxTask{
		ID:         uuid.New().String(),
		RawText:    rawText,
		CapturedAt: FixedNow,
	}
}
