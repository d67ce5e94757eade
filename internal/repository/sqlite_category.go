package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nathanfields/ebb/internal/db"
	"github.com/nathanfields/ebb/internal/domain"
)

// categoryColumns is the canonical SELECT column list for categories.
const categoryColumns = `id, user_id, name, icon, color, is_default, sort_order`

// SQLiteCategoryRepo implements CategoryRepo using a SQLite database.
type SQLiteCategoryRepo struct {
	db db.DBTX
}

// NewSQLiteCategoryRepo creates a new SQLiteCategoryRepo.
func NewSQLiteCategoryRepo(dbtx db.DBTX) *SQLiteCategoryRepo {
	return &SQLiteCategoryRepo{db: dbtx}
}

func (r *SQLiteCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	query := `INSERT INTO categories (` + categoryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.Name, c.Icon, c.Color, boolToInt(c.IsDefault), c.Order)
	if err != nil {
		return fmt.Errorf("inserting category: %w", err)
	}
	return nil
}

func (r *SQLiteCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	c, err := scanCategory(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("category: %w", ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (r *SQLiteCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}
	return categories, nil
}

func (r *SQLiteCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	query := `UPDATE categories SET user_id = ?, name = ?, icon = ?, color = ?, is_default = ?, sort_order = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.UserID, c.Name, c.Icon, c.Color, boolToInt(c.IsDefault), c.Order, c.ID)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("category %s: %w", c.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteCategoryRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM categories WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return nil
}

// ReplaceAll swaps the category table for the given set. The caller must
// ensure no task still references a removed category, and should run this
// inside a transaction alongside the matching task replacement.
func (r *SQLiteCategoryRepo) ReplaceAll(ctx context.Context, categories []*domain.Category) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("clearing categories: %w", err)
	}
	for _, c := range categories {
		if err := r.Create(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func scanCategory(s rowScanner) (*domain.Category, error) {
	var c domain.Category
	var defaultInt int
	err := s.Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.Color, &defaultInt, &c.Order)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning category: %w", err)
	}
	c.IsDefault = intToBool(defaultInt)
	return &c, nil
}
