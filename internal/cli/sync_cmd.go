package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCmd(app *App) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push local changes and pull the remote state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Sync == nil {
				return fmt.Errorf("sync is not configured; set a sync endpoint and token in the config file")
			}

			ctx := context.Background()
			run := app.Sync.Sync
			if full {
				run = app.Sync.Resync
			}
			outcome, err := run(ctx)
			if err != nil {
				return err
			}

			r := outcome.Report
			fmt.Printf("Pushed %d/%d tasks and %d inbox captures", r.Tasks.Pushed, r.Tasks.Total, r.Inbox.Pushed)
			if failed := r.Tasks.FailedChunks + r.Inbox.FailedChunks; failed > 0 {
				fmt.Printf(" (%d chunks failed, will retry next sync)", failed)
			}
			fmt.Println()
			if outcome.PullSkipped {
				fmt.Println("Pull deferred: the remote is missing part of the push; run sync again")
				return nil
			}
			fmt.Printf("Pulled %d active, %d archived, %d categories\n",
				outcome.Active, outcome.Archived, outcome.Categories)
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Ignore the incremental watermark and pull everything")
	return cmd
}
