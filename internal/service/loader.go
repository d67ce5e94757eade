package service

import (
	"context"
	"fmt"

	"github.com/nathanfields/ebb/internal/repository"
	"github.com/nathanfields/ebb/internal/store"
)

// LoadStore hydrates an in-memory task store from the local database. The
// database is the durable truth; the store serves reads and invariant checks
// for the lifetime of the process.
func LoadStore(
	ctx context.Context,
	tasks repository.TaskRepo,
	categories repository.CategoryRepo,
) (*store.TaskStore, error) {
	allCategories, err := categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	allTasks, err := tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}

	s := store.NewTaskStore()
	if err := s.Replace(allTasks, allCategories); err != nil {
		return nil, fmt.Errorf("hydrating store: %w", err)
	}
	return s, nil
}
