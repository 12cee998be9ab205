package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ViviVoid/park-volunteer-portal/pkg/core/services"
)

// CreateScheduleCmd creates the createSchedule command
func CreateScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createSchedule <template_id> <cron_expression>",
		Short: "Create a recurring position schedule for a template",
		Long: `Create a recurring position schedule. The cron expression is five
whitespace-separated fields (minute hour day-of-month month day-of-week),
evaluated once per minute. Use quotes, e.g. "0 9 * * 1".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			daysAhead, _ := cmd.Flags().GetInt("days-ahead")

			post, err := services.CreateScheduledPost(app.Ctx, app.Database, app.Logger, services.CreateScheduledPostInput{
				TemplateID: args[0],
				CronExpr:   args[1],
				DaysAhead:  daysAhead,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\nSchedule created!\n\n")
			fmt.Printf("Schedule ID: %s\n", post.ID)
			fmt.Printf("Template ID: %s\n", post.TemplateID)
			fmt.Printf("Cron:        %s\n", post.CronExpr)
			fmt.Printf("Days ahead:  %d\n\n", post.DaysAhead)
			return nil
		},
	}

	cmd.Flags().Int("days-ahead", 0, "How many days ahead to date created positions (default 7)")

	return cmd
}

// ListSchedulesCmd creates the listSchedules command
func ListSchedulesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listSchedules",
		Short: "List all recurring position schedules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			posts, err := services.ListScheduledPosts(app.Ctx, app.Database)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d schedules:\n\n", len(posts))
			for _, post := range posts {
				status := "active"
				if !post.IsActive {
					status = "paused"
				}
				title := "(template missing)"
				if template, err := app.Database.GetTemplate(app.Ctx, post.TemplateID); err == nil {
					title = template.Title
				}
				fmt.Printf("- %s  %q  template=%s  cron=%q  days_ahead=%d  [%s]\n",
					post.ID, title, post.TemplateID, post.CronExpr, post.DaysAhead, status)
			}
			return nil
		},
	}
}

// ToggleScheduleCmd creates the toggleSchedule command
func ToggleScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggleSchedule <schedule_id>",
		Short: "Pause or resume a recurring position schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			post, err := services.ToggleScheduledPost(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			status := "active"
			if !post.IsActive {
				status = "paused"
			}
			fmt.Printf("Schedule %s is now %s\n", post.ID, status)
			return nil
		},
	}
}

// DeleteScheduleCmd creates the deleteSchedule command
func DeleteScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteSchedule <schedule_id>",
		Short: "Delete a recurring position schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.DeleteScheduledPost(app.Ctx, app.Database, app.Logger, args[0]); err != nil {
				return err
			}

			fmt.Printf("Schedule %s deleted\n", args[0])
			return nil
		},
	}
}
