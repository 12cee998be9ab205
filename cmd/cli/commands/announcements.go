package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ViviVoid/park-volunteer-portal/pkg/core/services"
)

// CreateAnnouncementCmd creates the createAnnouncement command
func CreateAnnouncementCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createAnnouncement <title>",
		Short: "Create an announcement (sent immediately unless --cron is given)",
		Long: `Create an organization announcement. Without --cron the announcement
is one-shot: it goes out to all volunteers immediately and is never
polled again. With --cron it is delivered on that recurring schedule.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")
			link, _ := cmd.Flags().GetString("link")
			msgType, _ := cmd.Flags().GetString("type")
			cronExpr, _ := cmd.Flags().GetString("cron")

			announcement, err := services.CreateAnnouncement(app.Ctx, app.Database, app.Database, app.Announcer, app.Logger, services.CreateAnnouncementInput{
				Title:       args[0],
				Description: description,
				Link:        link,
				Type:        msgType,
				CronExpr:    cronExpr,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\nAnnouncement created!\n\n")
			fmt.Printf("Announcement ID: %s\n", announcement.ID)
			fmt.Printf("Title:           %s\n", announcement.Title)
			fmt.Printf("Type:            %s\n", announcement.Type)
			if announcement.CronExpr != "" {
				fmt.Printf("Cron:            %s\n", announcement.CronExpr)
			} else {
				fmt.Println("Delivered:       immediately (one-shot)")
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("description", "", "Announcement body text")
	cmd.Flags().String("link", "", "Optional link appended to the message")
	cmd.Flags().String("type", "both", "Channels to use: email, sms or both")
	cmd.Flags().String("cron", "", "Recurring schedule (five-field cron); empty sends once now")

	return cmd
}

// ListAnnouncementsCmd creates the listAnnouncements command
func ListAnnouncementsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listAnnouncements",
		Short: "List all announcements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			announcements, err := services.ListAnnouncements(app.Ctx, app.Database)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d announcements:\n\n", len(announcements))
			for _, a := range announcements {
				schedule := "one-shot"
				if a.CronExpr != "" {
					schedule = fmt.Sprintf("cron=%q", a.CronExpr)
				}
				lastSent := "never"
				if a.LastSentAt != nil {
					lastSent = a.LastSentAt.Format("2006-01-02 15:04")
				}
				status := "active"
				if !a.IsActive {
					status = "paused"
				}
				fmt.Printf("- %s  %q  type=%s  %s  last_sent=%s  [%s]\n",
					a.ID, a.Title, a.Type, schedule, lastSent, status)
			}
			return nil
		},
	}
}

// SendAnnouncementCmd creates the sendAnnouncement command
func SendAnnouncementCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sendAnnouncement <announcement_id>",
		Short: "Send an announcement to all volunteers right now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.SendAnnouncementNow(app.Ctx, app.Database, app.Database, app.Announcer, app.Logger, args[0]); err != nil {
				return err
			}

			fmt.Printf("Announcement %s sent\n", args[0])
			return nil
		},
	}
}

// ToggleAnnouncementCmd creates the toggleAnnouncement command
func ToggleAnnouncementCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggleAnnouncement <announcement_id>",
		Short: "Pause or resume a recurring announcement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			announcement, err := services.ToggleAnnouncement(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			status := "active"
			if !announcement.IsActive {
				status = "paused"
			}
			fmt.Printf("Announcement %s is now %s\n", announcement.ID, status)
			return nil
		},
	}
}

// DeleteAnnouncementCmd creates the deleteAnnouncement command
func DeleteAnnouncementCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteAnnouncement <announcement_id>",
		Short: "Delete an announcement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.DeleteAnnouncement(app.Ctx, app.Database, app.Logger, args[0]); err != nil {
				return err
			}

			fmt.Printf("Announcement %s deleted\n", args[0])
			return nil
		},
	}
}
