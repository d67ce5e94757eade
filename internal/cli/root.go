package cli

import (
	"github.com/spf13/cobra"

	"github.com/nathanfields/ebb/internal/sched"
	"github.com/nathanfields/ebb/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Tasks      service.TaskService
	Categories service.CategoryService
	Inbox      service.InboxService
	Sweeper    service.SweepService
	Sync       service.SyncService // nil when no endpoint is configured
	Daemon     *sched.Daemon

	SyncSchedule  string
	SweepSchedule string
}

// NewRootCmd creates the top-level "ebb" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "ebb",
		Short: "Personal task manager with decay-aware deadlines",
	}

	root.AddCommand(
		newTaskCmd(app),
		newCategoryCmd(app),
		newInboxCmd(app),
		newSyncCmd(app),
		newSweepCmd(app),
		newDaemonCmd(app),
	)

	return root
}
