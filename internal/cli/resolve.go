package cli

import (
	"context"
	"fmt"
	"strings"
)

// resolveTaskID expands an id or unique id prefix to a full task id.
func resolveTaskID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("task ID is required")
	}

	tasks, err := app.Tasks.List(ctx)
	if err != nil {
		return "", err
	}

	for _, t := range tasks {
		if t.ID == input {
			return t.ID, nil
		}
	}

	var matches []string
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, input) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("task not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("task ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveCategoryID accepts a category id or a case-insensitive name.
func resolveCategoryID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("category is required")
	}

	categories, err := app.Categories.List(ctx)
	if err != nil {
		return "", err
	}
	for _, c := range categories {
		if c.ID == input {
			return c.ID, nil
		}
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, input) {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("category not found: %q", input)
}

// resolveInboxID expands an id or unique id prefix to a full inbox item id.
func resolveInboxID(ctx context.Context, app *App, input string) (string, error) {
	items, err := app.Inbox.List(ctx)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, item := range items {
		if item.ID == input {
			return item.ID, nil
		}
		if strings.HasPrefix(item.ID, input) {
			matches = append(matches, item.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("inbox item not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("inbox item prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
