package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ViviVoid/park-volunteer-portal/pkg/core/services"
)

// NotifyPositionCmd creates the notifyPosition command
func NotifyPositionCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "notifyPosition <position_id>",
		Short: "Re-send the new-opportunity notice for a position to all volunteers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := services.NotifyForPosition(
				app.Ctx,
				app.Database,
				app.Database,
				app.Dispatcher,
				app.Logger,
				app.Cfg.PortalLink,
				args[0],
			)
			if err != nil {
				return err
			}

			fmt.Printf("\nNotified %d volunteers for position %s\n", report.Attempted, args[0])
			if failed := report.Failed(); len(failed) > 0 {
				fmt.Printf("%d send attempts failed:\n", len(failed))
				for _, f := range failed {
					fmt.Printf("  - volunteer %s via %s: %v\n", f.VolunteerID, f.Channel, f.Err)
				}
			}
			return nil
		},
	}
}
