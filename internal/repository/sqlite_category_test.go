package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanfields/ebb/internal/domain"
)

func TestCategoryRepo_SeededDefaultIsVisible(t *testing.T) {
	repo := NewSQLiteCategoryRepo(openTestDB(t))

	got, err := repo.GetByID(context.Background(), domain.DefaultCategoryID)
	require.NoError(t, err)
	assert.True(t, got.IsDefault)
	assert.Equal(t, 0, got.Order)
}

func TestCategoryRepo_CreateAndList(t *testing.T) {
	repo := NewSQLiteCategoryRepo(openTestDB(t))
	ctx := context.Background()

	errands := &domain.Category{ID: "cat-1", Name: "Errands", Icon: "cart-outline", Color: "#112233", Order: 2}
	work := &domain.Category{ID: "cat-2", Name: "Work", Icon: "briefcase", Color: "#445566", Order: 1}
	require.NoError(t, repo.Create(ctx, errands))
	require.NoError(t, repo.Create(ctx, work))

	categories, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, domain.DefaultCategoryID, categories[0].ID, "default stays at rank 0")
	assert.Equal(t, "cat-2", categories[1].ID)
	assert.Equal(t, "cat-1", categories[2].ID)
}

func TestCategoryRepo_Update(t *testing.T) {
	repo := NewSQLiteCategoryRepo(openTestDB(t))
	ctx := context.Background()

	c := &domain.Category{ID: "cat-1", Name: "Errands", Color: "#112233", Order: 1}
	require.NoError(t, repo.Create(ctx, c))

	c.Name = "Chores"
	c.Order = 5
	require.NoError(t, repo.Update(ctx, c))

	got, err := repo.GetByID(ctx, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, "Chores", got.Name)
	assert.Equal(t, 5, got.Order)
}

func TestCategoryRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteCategoryRepo(openTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryRepo_DeleteReferencedFails(t *testing.T) {
	database := openTestDB(t)
	categories := NewSQLiteCategoryRepo(database)
	tasks := NewSQLiteTaskRepo(database)
	ctx := context.Background()

	c := &domain.Category{ID: "cat-1", Name: "Errands", Color: "#112233", Order: 1}
	require.NoError(t, categories.Create(ctx, c))
	task := minimalTask("t1")
	task.CategoryID = "cat-1"
	require.NoError(t, tasks.Create(ctx, task))

	// Foreign keys are enabled on open; the referenced row cannot vanish.
	assert.Error(t, categories.Delete(ctx, "cat-1"))
}

func TestCategoryRepo_ReplaceAll(t *testing.T) {
	repo := NewSQLiteCategoryRepo(openTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &domain.Category{ID: "stale", Name: "Stale", Color: "#112233", Order: 1}))

	fresh := []*domain.Category{
		domain.DefaultCategory(),
		{ID: "cat-1", Name: "Errands", Color: "#445566", Order: 1},
	}
	require.NoError(t, repo.ReplaceAll(ctx, fresh))

	categories, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, domain.DefaultCategoryID, categories[0].ID)
	assert.Equal(t, "cat-1", categories[1].ID)
}
