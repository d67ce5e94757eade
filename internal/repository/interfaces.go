package repository

import (
	"context"
	"time"

	"github.com/nathanfields/ebb/internal/domain"
)

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context) ([]*domain.Task, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*domain.Task, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
	ReplaceAll(ctx context.Context, tasks []*domain.Task) error
}

type CategoryRepo interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, categories []*domain.Category) error
}

type InboxRepo interface {
	Create(ctx context.Context, item *domain.InboxTask) error
	List(ctx context.Context) ([]*domain.InboxTask, error)
	Delete(ctx context.Context, id string) error
}

// SyncStateRepo persists cursors for the sync process, currently just the
// incremental-pull watermark.
type SyncStateRepo interface {
	Watermark(ctx context.Context) (*time.Time, error)
	SetWatermark(ctx context.Context, t time.Time) error
	ClearWatermark(ctx context.Context) error
}
