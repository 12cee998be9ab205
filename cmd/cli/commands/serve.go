package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ViviVoid/park-volunteer-portal/pkg/core/scheduler"
)

// ServeCmd creates the serve command, which runs the recurring-post
// scheduler until interrupted.
func ServeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler, polling recurring posts and announcements every minute",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sched := scheduler.New(
				app.Database,
				app.Database,
				app.Database,
				app.Dispatcher,
				app.Announcer,
				app.Calendar,
				app.Logger,
				scheduler.Options{
					SystemActorID: app.Cfg.SystemActorID,
					ShiftStart:    app.Cfg.ShiftStart,
					ShiftEnd:      app.Cfg.ShiftEnd,
					PortalLink:    app.Cfg.PortalLink,
				},
			)

			if err := sched.Start(); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			fmt.Println("Scheduler running. Press Ctrl+C to stop.")

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop

			sched.Stop()
			return nil
		},
	}
}
