package formatter

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/nathanfields/ebb/internal/decay"
	"github.com/nathanfields/ebb/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Colorized is false when stdout is not a terminal; all styling degrades to
// plain text so piped output stays clean.
var Colorized = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func paint(style lipgloss.Style, text string) string {
	if !Colorized {
		return text
	}
	return style.Render(text)
}

// BucketStyle returns the style corresponding to a decay bucket.
func BucketStyle(b decay.Bucket) lipgloss.Style {
	switch b {
	case decay.FullyDecayed:
		return StyleRed
	case decay.Overdue:
		return StyleYellow
	case decay.DueSoon:
		return StyleBlue
	default:
		return StyleGreen
	}
}

// BucketBadge returns a short colored badge such as "● OVERDUE".
func BucketBadge(b decay.Bucket) string {
	switch b {
	case decay.FullyDecayed:
		return paint(StyleRed, "● DECAYED")
	case decay.Overdue:
		return paint(StyleYellow, "● OVERDUE")
	case decay.DueSoon:
		return paint(StyleBlue, "● DUE SOON")
	default:
		return paint(StyleGreen, "● ON TRACK")
	}
}

// PriorityBadge returns a colored priority marker, or "" for none.
func PriorityBadge(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return paint(StyleRed, "!!!")
	case domain.PriorityMedium:
		return paint(StyleYellow, "!!")
	case domain.PriorityLow:
		return paint(StyleBlue, "!")
	default:
		return ""
	}
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", paint(StyleHeader, upper), paint(StyleDim, line))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return paint(StyleDim, text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return paint(StyleBold, text)
}
