package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathanfields/ebb/internal/cli/formatter"
)

func newCategoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}

	cmd.AddCommand(
		newCategoryAddCmd(app),
		newCategoryListCmd(app),
		newCategoryRenameCmd(app),
		newCategoryReorderCmd(app),
		newCategoryRemoveCmd(app),
	)

	return cmd
}

func newCategoryAddCmd(app *App) *cobra.Command {
	var icon, color string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Categories.Create(context.Background(), args[0], icon, color)
			if err != nil {
				return err
			}
			fmt.Printf("Created category %s at rank %d\n", c.Name, c.Order)
			return nil
		},
	}

	cmd.Flags().StringVar(&icon, "icon", "", "Icon name")
	cmd.Flags().StringVar(&color, "color", "", "Hex color like #8ec07c")
	return cmd
}

func newCategoryListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			categories, err := app.Categories.List(ctx)
			if err != nil {
				return err
			}

			counts := make(map[string]int)
			for _, c := range categories {
				tasks, err := app.Tasks.ListByCategory(ctx, c.ID)
				if err != nil {
					return err
				}
				counts[c.ID] = len(tasks)
			}

			fmt.Println(formatter.FormatCategoryList(categories, counts))
			return nil
		},
	}
}

func newCategoryRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename CATEGORY NAME",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveCategoryID(ctx, app, args[0])
			if err != nil {
				return err
			}
			c, err := app.Categories.Rename(ctx, id, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Renamed category to %s\n", c.Name)
			return nil
		},
	}
}

func newCategoryReorderCmd(app *App) *cobra.Command {
	var rank int

	cmd := &cobra.Command{
		Use:   "reorder CATEGORY",
		Short: "Move a category to a different rank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveCategoryID(ctx, app, args[0])
			if err != nil {
				return err
			}
			c, err := app.Categories.Reorder(ctx, id, rank)
			if err != nil {
				return err
			}
			fmt.Printf("Moved %s to rank %d\n", c.Name, c.Order)
			return nil
		},
	}

	cmd.Flags().IntVar(&rank, "rank", 0, "New rank (1 or higher)")
	_ = cmd.MarkFlagRequired("rank")
	return cmd
}

func newCategoryRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove CATEGORY",
		Short: "Delete a category, moving its tasks to the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveCategoryID(ctx, app, args[0])
			if err != nil {
				return err
			}
			moved, err := app.Categories.Delete(ctx, id)
			if err != nil {
				return err
			}
			if moved > 0 {
				fmt.Printf("Removed category; %d tasks moved to the default category\n", moved)
			} else {
				fmt.Println("Removed category")
			}
			return nil
		},
	}
}
