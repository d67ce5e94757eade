package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nathanfields/ebb/internal/db"
	"github.com/nathanfields/ebb/internal/domain"
	"github.com/nathanfields/ebb/internal/repository"
	"github.com/nathanfields/ebb/internal/store"
)

type categoryService struct {
	store      *store.TaskStore
	categories repository.CategoryRepo
	uow        db.UnitOfWork
}

func NewCategoryService(
	s *store.TaskStore,
	categories repository.CategoryRepo,
	uow db.UnitOfWork,
) CategoryService {
	return &categoryService{store: s, categories: categories, uow: uow}
}

func (s *categoryService) Create(ctx context.Context, name, icon, color string) (*domain.Category, error) {
	if icon == "" {
		icon = "grid-outline"
	}
	if color == "" {
		color = "#3B82F6"
	}
	c := &domain.Category{
		ID:    uuid.New().String(),
		Name:  strings.TrimSpace(name),
		Icon:  icon,
		Color: color,
		Order: s.nextRank(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpsertCategory(c); err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("persisting category: %w", err)
	}
	return c, nil
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.store.Categories(), nil
}

func (s *categoryService) Rename(ctx context.Context, id, name string) (*domain.Category, error) {
	c, err := s.store.Category(id)
	if err != nil {
		return nil, err
	}
	if c.IsDefault {
		return nil, fmt.Errorf("the default category cannot be renamed")
	}
	c.Name = strings.TrimSpace(name)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return s.saveUpdate(ctx, c)
}

func (s *categoryService) Reorder(ctx context.Context, id string, rank int) (*domain.Category, error) {
	c, err := s.store.Category(id)
	if err != nil {
		return nil, err
	}
	if c.IsDefault {
		return nil, fmt.Errorf("the default category stays at rank 0")
	}
	if rank < 1 {
		return nil, fmt.Errorf("rank must be at least 1")
	}
	c.Order = rank
	return s.saveUpdate(ctx, c)
}

// Delete removes a category after reassigning its tasks to the default
// category. The reassignments and the category removal commit together.
func (s *categoryService) Delete(ctx context.Context, id string) (int, error) {
	c, err := s.store.Category(id)
	if err != nil {
		return 0, err
	}
	if c.IsDefault {
		return 0, fmt.Errorf("the default category cannot be deleted")
	}

	orphans := s.store.TasksInCategory(id)
	for _, t := range orphans {
		t.CategoryID = domain.DefaultCategoryID
		if err := s.store.Upsert(t); err != nil {
			return 0, err
		}
	}
	if err := s.store.DeleteCategory(id); err != nil {
		return 0, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		for _, t := range orphans {
			if err := txTasks.Update(ctx, t); err != nil {
				return err
			}
		}
		return repository.NewSQLiteCategoryRepo(tx).Delete(ctx, id)
	})
	if err != nil {
		return 0, fmt.Errorf("deleting category: %w", err)
	}
	return len(orphans), nil
}

func (s *categoryService) saveUpdate(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	if err := s.store.UpsertCategory(c); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("persisting category update: %w", err)
	}
	return c, nil
}

func (s *categoryService) nextRank() int {
	max := 0
	for _, c := range s.store.Categories() {
		if c.Order > max {
			max = c.Order
		}
	}
	return max + 1
}
