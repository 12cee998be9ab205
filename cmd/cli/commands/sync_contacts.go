package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// SyncContactsCmd creates the syncContacts command
func SyncContactsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "syncContacts",
		Short: "Push the volunteer directory to the CRM contact store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.CRM == nil {
				return fmt.Errorf("no CRM configured: add a crm section to the config")
			}

			volunteers, err := app.Database.ListVolunteers(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list volunteers: %w", err)
			}

			synced, err := app.CRM.SyncContacts(app.Ctx, volunteers)
			if err != nil {
				return fmt.Errorf("failed to sync contacts: %w", err)
			}

			fmt.Printf("Synced %d contacts to the CRM (%d total)\n", synced, app.CRM.ContactCount())
			return nil
		},
	}
}
