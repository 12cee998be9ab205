package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ViviVoid/park-volunteer-portal/pkg/core/services"
)

// ListPositionsCmd creates the listPositions command
func ListPositionsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listPositions <template_id>",
		Short: "List the positions materialized from a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			positions, err := services.ListPositionsForTemplate(app.Ctx, app.Database, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d positions:\n\n", len(positions))
			for _, p := range positions {
				fmt.Printf("- %s  %q  %s %s-%s  [%s]\n",
					p.ID, p.Title, p.Date, p.StartTime, p.EndTime, p.Status)
			}
			return nil
		},
	}
}
