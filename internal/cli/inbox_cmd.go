package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nathanfields/ebb/internal/cli/formatter"
)

func newInboxCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Capture and triage raw notes",
	}

	cmd.AddCommand(
		newInboxAddCmd(app),
		newInboxListCmd(app),
		newInboxPromoteCmd(app),
		newInboxRemoveCmd(app),
	)

	return cmd
}

func newInboxAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add TEXT",
		Short: "Capture a raw note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := app.Inbox.Capture(context.Background(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Printf("Captured %s\n", formatter.Dim(formatter.ShortID(item.ID)))
			return nil
		},
	}
}

func newInboxListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List captured notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Inbox.List(context.Background())
			if err != nil {
				return err
			}
			fmt.Println(formatter.FormatInboxList(items))
			return nil
		},
	}
}

func newInboxPromoteCmd(app *App) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "promote ID",
		Short: "Turn a captured note into a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveInboxID(ctx, app, args[0])
			if err != nil {
				return err
			}
			categoryID := ""
			if category != "" {
				categoryID, err = resolveCategoryID(ctx, app, category)
				if err != nil {
					return err
				}
			}
			task, err := app.Inbox.Promote(ctx, id, categoryID)
			if err != nil {
				return err
			}
			fmt.Printf("Promoted to task %s %s\n", formatter.Dim(formatter.ShortID(task.ID)), task.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "in", "", "Category for the new task (name or ID)")
	return cmd
}

func newInboxRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Discard a captured note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveInboxID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Inbox.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Println("Discarded")
			return nil
		},
	}
}
