package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nathanfields/ebb/internal/cli/formatter"
	"github.com/nathanfields/ebb/internal/domain"
	"github.com/nathanfields/ebb/internal/lifecycle"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskSubCmd(app),
		newTaskListCmd(app),
		newTaskInspectCmd(app),
		newTaskStartCmd(app),
		newTaskDoneCmd(app),
		newTaskUndoCmd(app),
		newTaskDeferCmd(app),
		newTaskArchiveCmd(app),
		newTaskReviveCmd(app),
		newTaskUpdateCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

// parseDeadline accepts "YYYY-MM-DD" or "YYYY-MM-DD HH:MM", both local time.
func parseDeadline(input string) (*time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, input, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid deadline %q, expected YYYY-MM-DD or YYYY-MM-DD HH:MM", input)
}

func collectCreateFlags(cmd *cobra.Command, app *App, title string,
	category, due, priority, energy, every string, estimate int, note string,
) (lifecycle.CreateParams, error) {
	p := lifecycle.CreateParams{
		Title:       title,
		Description: note,
		Priority:    domain.Priority(priority),
		EnergyLevel: domain.EnergyLevel(energy),
	}
	ctx := context.Background()

	if category != "" {
		id, err := resolveCategoryID(ctx, app, category)
		if err != nil {
			return p, err
		}
		p.CategoryID = id
	}
	if due != "" {
		deadline, err := parseDeadline(due)
		if err != nil {
			return p, err
		}
		p.Deadline = deadline
	}
	if cmd.Flags().Changed("estimate") {
		p.EstimatedMinutes = &estimate
	}
	if every != "" {
		freq := domain.RecurringFrequency(every)
		p.IsRecurring = true
		p.RecurringFrequency = &freq
	}
	return p, nil
}

func addCreateFlags(flags *pflag.FlagSet, category, due, priority, energy, every *string, estimate *int, note *string) {
	flags.StringVar(category, "in", "", "Category (name or ID)")
	flags.StringVar(due, "due", "", "Deadline (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	flags.StringVar(priority, "priority", "", "Priority (high|medium|low)")
	flags.StringVar(energy, "energy", "", "Energy level (high|medium|low)")
	flags.IntVar(estimate, "estimate", 0, "Estimated minutes")
	flags.StringVar(note, "note", "", "Free-form description")
	flags.StringVar(every, "every", "", "Recurrence (daily|weekly|biweekly|monthly)")
}

func newTaskAddCmd(app *App) *cobra.Command {
	var category, due, priority, energy, every, note string
	var estimate int

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a new task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := collectCreateFlags(cmd, app, strings.Join(args, " "),
				category, due, priority, energy, every, estimate, note)
			if err != nil {
				return err
			}
			task, err := app.Tasks.Create(context.Background(), p)
			if err != nil {
				return err
			}
			fmt.Printf("Created %s %s\n", formatter.Dim(formatter.ShortID(task.ID)), task.Title)
			return nil
		},
	}
	addCreateFlags(cmd.Flags(), &category, &due, &priority, &energy, &every, &estimate, &note)
	return cmd
}

func newTaskSubCmd(app *App) *cobra.Command {
	var category, due, priority, energy, every, note string
	var estimate int

	cmd := &cobra.Command{
		Use:   "sub PARENT TITLE",
		Short: "Add a subtask under an existing task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			parentID, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := collectCreateFlags(cmd, app, strings.Join(args[1:], " "),
				category, due, priority, energy, every, estimate, note)
			if err != nil {
				return err
			}
			task, err := app.Tasks.AddSubtask(ctx, parentID, p)
			if err != nil {
				return err
			}
			fmt.Printf("Created subtask %s %s\n", formatter.Dim(formatter.ShortID(task.ID)), task.Title)
			return nil
		},
	}
	addCreateFlags(cmd.Flags(), &category, &due, &priority, &energy, &every, &estimate, &note)
	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var category string
	var archived bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks as a tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			tasks, err := app.Tasks.List(ctx)
			if err != nil {
				return err
			}
			if category != "" {
				id, err := resolveCategoryID(ctx, app, category)
				if err != nil {
					return err
				}
				tasks, err = app.Tasks.ListByCategory(ctx, id)
				if err != nil {
					return err
				}
			}

			lines := buildTree(tasks, archived)
			fmt.Println(formatter.FormatTaskList(lines, time.Now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "in", "", "Only tasks in this category (name or ID)")
	cmd.Flags().BoolVar(&archived, "archived", false, "Show archived tasks instead of active ones")
	return cmd
}

// buildTree orders tasks depth-first under their parents. Children whose
// parent is filtered out surface at the top level.
func buildTree(tasks []*domain.Task, archived bool) []formatter.TaskLine {
	visible := make(map[string]*domain.Task)
	for _, t := range tasks {
		if t.IsArchived == archived {
			visible[t.ID] = t
		}
	}

	children := make(map[string][]*domain.Task)
	var roots []*domain.Task
	for _, t := range tasks {
		if _, ok := visible[t.ID]; !ok {
			continue
		}
		if t.ParentID != nil {
			if _, ok := visible[*t.ParentID]; ok {
				children[*t.ParentID] = append(children[*t.ParentID], t)
				continue
			}
		}
		roots = append(roots, t)
	}

	var lines []formatter.TaskLine
	var walk func(t *domain.Task, level int, isLast bool)
	walk = func(t *domain.Task, level int, isLast bool) {
		lines = append(lines, formatter.TaskLine{Task: t, Level: level, IsLast: isLast})
		kids := children[t.ID]
		for i, kid := range kids {
			walk(kid, level+1, i == len(kids)-1)
		}
	}
	for i, root := range roots {
		walk(root, 0, i == len(roots)-1)
	}
	return lines
}

func newTaskInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ID",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			task, err := app.Tasks.Get(ctx, id)
			if err != nil {
				return err
			}
			children, err := app.Tasks.Subtasks(ctx, id)
			if err != nil {
				return err
			}

			var category *domain.Category
			for _, c := range mustCategories(ctx, app) {
				if c.ID == task.CategoryID {
					category = c
					break
				}
			}

			fmt.Println(formatter.FormatTaskInspect(task, category, children, time.Now()))
			return nil
		},
	}
}

func mustCategories(ctx context.Context, app *App) []*domain.Category {
	categories, err := app.Categories.List(ctx)
	if err != nil {
		return nil
	}
	return categories
}

func newTaskStartCmd(app *App) *cobra.Command {
	return taskTransitionCmd(app, "start ID", "Start working on a task",
		func(ctx context.Context, id string) (*domain.Task, error) {
			return app.Tasks.Start(ctx, id)
		}, "Started %s\n")
}

func newTaskDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Complete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			task, out, err := app.Tasks.Complete(ctx, id)
			if err != nil {
				return err
			}
			fmt.Println(formatter.FormatCompleteOutcome(task, out))
			return nil
		},
	}
}

func newTaskUndoCmd(app *App) *cobra.Command {
	return taskTransitionCmd(app, "undo ID", "Reverse a completion",
		func(ctx context.Context, id string) (*domain.Task, error) {
			return app.Tasks.Uncomplete(ctx, id)
		}, "Reopened %s\n")
}

func newTaskDeferCmd(app *App) *cobra.Command {
	return taskTransitionCmd(app, "defer ID", "Push a task back to the open pile",
		func(ctx context.Context, id string) (*domain.Task, error) {
			return app.Tasks.Defer(ctx, id)
		}, "Deferred %s\n")
}

func newTaskArchiveCmd(app *App) *cobra.Command {
	return taskTransitionCmd(app, "archive ID", "Archive a task",
		func(ctx context.Context, id string) (*domain.Task, error) {
			return app.Tasks.Archive(ctx, id)
		}, "Archived %s\n")
}

func newTaskReviveCmd(app *App) *cobra.Command {
	return taskTransitionCmd(app, "revive ID", "Bring an archived task back",
		func(ctx context.Context, id string) (*domain.Task, error) {
			return app.Tasks.Revive(ctx, id)
		}, "Revived %s\n")
}

func taskTransitionCmd(app *App, use, short string,
	fn func(ctx context.Context, id string) (*domain.Task, error), doneFmt string,
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			task, err := fn(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf(doneFmt, task.Title)
			return nil
		},
	}
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var title, note, priority, energy, category, due string
	var estimate int

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Edit task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}

			var edits lifecycle.FieldEdits
			if cmd.Flags().Changed("title") {
				edits.Title = &title
			}
			if cmd.Flags().Changed("note") {
				edits.Description = &note
			}
			if cmd.Flags().Changed("priority") {
				p := domain.Priority(priority)
				edits.Priority = &p
			}
			if cmd.Flags().Changed("energy") {
				e := domain.EnergyLevel(energy)
				edits.EnergyLevel = &e
			}
			if cmd.Flags().Changed("in") {
				catID, err := resolveCategoryID(ctx, app, category)
				if err != nil {
					return err
				}
				edits.CategoryID = &catID
			}
			if cmd.Flags().Changed("due") {
				if due == "" {
					var cleared *time.Time
					edits.Deadline = &cleared
				} else {
					deadline, err := parseDeadline(due)
					if err != nil {
						return err
					}
					edits.Deadline = &deadline
				}
			}
			if cmd.Flags().Changed("estimate") {
				if estimate == 0 {
					var cleared *int
					edits.EstimatedMinutes = &cleared
				} else {
					v := &estimate
					edits.EstimatedMinutes = &v
				}
			}

			task, err := app.Tasks.Edit(ctx, id, edits)
			if err != nil {
				return err
			}
			fmt.Printf("Updated %s\n", task.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&note, "note", "", "New description")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (high|medium|low|none)")
	cmd.Flags().StringVar(&energy, "energy", "", "Energy level (high|medium|low)")
	cmd.Flags().StringVar(&category, "in", "", "Move to category (name or ID)")
	cmd.Flags().StringVar(&due, "due", "", "New deadline; empty string clears it")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "New estimate in minutes; 0 clears it")
	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a task and its whole subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			removed, err := app.Tasks.Delete(ctx, id)
			if err != nil {
				return err
			}
			if len(removed) == 1 {
				fmt.Printf("Removed %s\n", removed[len(removed)-1].Title)
			} else {
				fmt.Printf("Removed %s and %d subtasks\n", removed[len(removed)-1].Title, len(removed)-1)
			}
			return nil
		},
	}
}
