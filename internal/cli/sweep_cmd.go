package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSweepCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Stamp newly overdue tasks and archive decayed ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Sweeper.Sweep(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("Stamped %d newly overdue, archived %d decayed\n", result.Stamped, result.Archived)
			return nil
		},
	}
}
