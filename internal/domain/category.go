package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultCategoryID is the fixed local identifier of the built-in overview
// category. It exists before any remote round-trip, cannot be deleted or
// renamed, and is pinned at rank 0.
const DefaultCategoryID = "overview"

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Category groups tasks. Built-in categories use fixed string ids; user
// created ones get opaque generated ids.
type Category struct {
	ID        string
	UserID    string
	Name      string
	Icon      string
	Color     string
	IsDefault bool
	Order     int
}

// DefaultCategory returns the built-in overview category.
func DefaultCategory() *Category {
	return &Category{
		ID:        DefaultCategoryID,
		Name:      "Overview",
		Icon:      "grid-outline",
		Color:     "#3B82F6",
		IsDefault: true,
		Order:     0,
	}
}

// Validate checks the name and color constraints shared with the remote side.
func (c *Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return fmt.Errorf("category name cannot be empty")
	}
	if len(name) > 100 {
		return fmt.Errorf("category name must be at most 100 characters")
	}
	if !hexColorPattern.MatchString(c.Color) {
		return fmt.Errorf("category color %q must be a hex color like #3B82F6", c.Color)
	}
	return nil
}

// Clone returns a copy of the category.
func (c *Category) Clone() *Category {
	cp := *c
	return &cp
}
