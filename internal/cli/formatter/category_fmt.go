package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathanfields/ebb/internal/domain"
)

// FormatCategoryList renders categories with task counts, ordered by rank.
func FormatCategoryList(categories []*domain.Category, counts map[string]int) string {
	if len(categories) == 0 {
		return Dim("No categories.")
	}

	var b strings.Builder
	for i, c := range categories {
		swatch := paint(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)), "■")
		name := c.Name
		if c.IsDefault {
			name += Dim(" (default)")
		}
		b.WriteString(fmt.Sprintf("%s %s  %s %s",
			swatch, Dim(fmt.Sprintf("%d.", c.Order)), Bold(name),
			Dim(fmt.Sprintf("%d tasks", counts[c.ID]))))
		if i < len(categories)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FormatInboxList renders raw inbox captures oldest first.
func FormatInboxList(items []*domain.InboxTask) string {
	if len(items) == 0 {
		return Dim("Inbox is empty.")
	}

	var b strings.Builder
	for i, item := range items {
		b.WriteString(fmt.Sprintf("%s  %s", Dim(ShortID(item.ID)), item.RawText))
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
