package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ListVolunteersCmd creates the listVolunteers command
func ListVolunteersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listVolunteers",
		Short: "List all volunteers and their notification preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			volunteers, err := app.Database.ListVolunteers(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list volunteers: %w", err)
			}

			fmt.Printf("\nFound %d volunteers:\n\n", len(volunteers))
			for _, v := range volunteers {
				phone := v.Phone
				if phone == "" {
					phone = "-"
				}
				fmt.Printf("- %s (%s) - %s - %s [%s]\n",
					v.Name, v.ID, v.Email, phone, v.Preference)
			}
			return nil
		},
	}
}
