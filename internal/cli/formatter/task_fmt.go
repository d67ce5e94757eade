package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/nathanfields/ebb/internal/decay"
	"github.com/nathanfields/ebb/internal/domain"
)

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeGap    = "   "
)

// TaskLine is one row of the task tree view.
type TaskLine struct {
	Task   *domain.Task
	Level  int
	IsLast bool
}

// FormatTaskList renders tasks as an indented tree. Completed tasks get a
// green check, started tasks an amber arrow, and deadline badges are
// right-aligned per line.
func FormatTaskList(lines []TaskLine, now time.Time) string {
	if len(lines) == 0 {
		return Dim("No tasks.")
	}

	var b strings.Builder
	for i, line := range lines {
		t := line.Task

		var prefix string
		if line.Level > 0 {
			prefix = strings.Repeat(treePipe, line.Level-1)
			if line.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := t.Title
		if t.IsCompleted {
			title = Dim(title)
		}

		b.WriteString(prefix)
		b.WriteString(statusGlyph(t))
		b.WriteString(" ")
		b.WriteString(Dim(ShortID(t.ID)))
		b.WriteString("  ")
		b.WriteString(title)
		if badge := PriorityBadge(t.Priority); badge != "" {
			b.WriteString(" ")
			b.WriteString(badge)
		}
		if t.Deadline != nil && !t.IsCompleted {
			b.WriteString("  ")
			b.WriteString(paint(BucketStyle(decay.Classify(t, now)), RelativeDateFrom(*t.Deadline, now)))
		}
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func statusGlyph(t *domain.Task) string {
	switch {
	case t.IsArchived:
		return paint(StyleDim, "⊗")
	case t.IsCompleted:
		return paint(StyleGreen, "✔")
	case t.StartedAt != nil:
		return paint(StyleYellow, "▶")
	default:
		return paint(StyleDim, "○")
	}
}

// FormatTaskInspect renders the detail view of one task.
func FormatTaskInspect(t *domain.Task, category *domain.Category, children []*domain.Task, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header(t.Title))
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim(fmt.Sprintf("%-12s", label)), value))
	}

	row("ID", t.ID)
	if category != nil {
		row("Category", category.Name)
	}
	if t.Priority != domain.PriorityNone {
		row("Priority", string(t.Priority))
	}
	row("Energy", string(t.EnergyLevel))
	if t.Description != "" {
		row("Notes", t.Description)
	}
	if t.Deadline != nil {
		row("Deadline", fmt.Sprintf("%s (%s)",
			t.Deadline.Format("2006-01-02 15:04"), RelativeDateFrom(*t.Deadline, now)))
		row("Status", BucketBadge(decay.Classify(t, now)))
	}
	if t.EstimatedMinutes != nil {
		row("Estimate", FormatMinutes(*t.EstimatedMinutes))
	}
	if t.ActualMinutes != nil {
		row("Took", FormatMinutes(*t.ActualMinutes))
	}
	if t.IsRecurring && t.RecurringFrequency != nil {
		row("Repeats", string(*t.RecurringFrequency))
	}
	if t.DeferCount > 0 {
		row("Deferred", fmt.Sprintf("%d times", t.DeferCount))
	}
	if t.IsArchived && t.ArchivedAt != nil {
		row("Archived", RelativeDateFrom(*t.ArchivedAt, now))
	}

	if len(children) > 0 {
		done := 0
		for _, c := range children {
			if c.IsCompleted {
				done++
			}
		}
		b.WriteString("\n")
		b.WriteString(Bold(fmt.Sprintf("Subtasks (%d/%d done)", done, len(children))))
		b.WriteString("\n")
		for i, c := range children {
			connector := treeBranch
			if i == len(children)-1 {
				connector = treeCorner
			}
			b.WriteString(fmt.Sprintf("%s%s %s\n", connector, statusGlyph(c), c.Title))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatCompleteOutcome renders the post-completion summary line.
func FormatCompleteOutcome(t *domain.Task, out domain.CompleteOutcome) string {
	msg := fmt.Sprintf("Completed %s", Bold(t.Title))
	if out.ActualMinutes != nil {
		msg += Dim(fmt.Sprintf(" (%s", FormatMinutes(*out.ActualMinutes)))
		if out.DurationClamped {
			msg += Dim(", capped; session looked abandoned")
		}
		msg += Dim(")")
	}
	return msg
}
