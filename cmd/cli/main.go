package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ViviVoid/park-volunteer-portal/cmd/cli/commands"
	"github.com/ViviVoid/park-volunteer-portal/internal/config"
	"github.com/ViviVoid/park-volunteer-portal/pkg/clients/calendarclient"
	"github.com/ViviVoid/park-volunteer-portal/pkg/clients/crmclient"
	"github.com/ViviVoid/park-volunteer-portal/pkg/clients/mailclient"
	"github.com/ViviVoid/park-volunteer-portal/pkg/clients/smsclient"
	"github.com/ViviVoid/park-volunteer-portal/pkg/core/notify"
	"github.com/ViviVoid/park-volunteer-portal/pkg/postgres"
	"github.com/ViviVoid/park-volunteer-portal/pkg/utils/logging"
)

var (
	env string
	app *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Park Volunteer Portal CLI - Manage recurring posts and notifications",
		Long:  `A CLI tool for managing recurring volunteer position schedules, announcements, and multi-channel volunteer notifications.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.Database != nil {
					app.Database.Close()
				}
				if app.Logger != nil {
					app.Logger.Sync()
				}
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(commands.ServeCmd(appRef()))
	rootCmd.AddCommand(commands.CreateScheduleCmd(appRef()))
	rootCmd.AddCommand(commands.ListSchedulesCmd(appRef()))
	rootCmd.AddCommand(commands.ToggleScheduleCmd(appRef()))
	rootCmd.AddCommand(commands.DeleteScheduleCmd(appRef()))
	rootCmd.AddCommand(commands.NotifyPositionCmd(appRef()))
	rootCmd.AddCommand(commands.ListPositionsCmd(appRef()))
	rootCmd.AddCommand(commands.CreateAnnouncementCmd(appRef()))
	rootCmd.AddCommand(commands.ListAnnouncementsCmd(appRef()))
	rootCmd.AddCommand(commands.SendAnnouncementCmd(appRef()))
	rootCmd.AddCommand(commands.ToggleAnnouncementCmd(appRef()))
	rootCmd.AddCommand(commands.DeleteAnnouncementCmd(appRef()))
	rootCmd.AddCommand(commands.ListVolunteersCmd(appRef()))
	rootCmd.AddCommand(commands.SyncContactsCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared AppContext, allocating it before initApp
// has populated it so command constructors can capture the pointer.
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{}
	}
	return app
}

// initApp sets up logger, config, clients, and database
func initApp() error {
	var err error
	app = appRef()
	app.Ctx = context.Background()

	// Initialize logger
	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	// Connect to the database and apply pending migrations
	app.Logger.Info("Connecting to database")
	app.Database, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := app.Database.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Logger.Debug("Database ready")

	// Build the notification channels from the configured sections.
	// A missing section leaves that channel nil and it is skipped.
	var email notify.EmailSender
	if app.Cfg.SMTP != nil {
		email = mailclient.NewClient(
			app.Cfg.SMTP.Host,
			app.Cfg.SMTP.Port,
			app.Cfg.SMTP.Username,
			app.Cfg.SMTP.Password,
			app.Cfg.SMTP.From,
		)
		app.Logger.Info("Email channel enabled", zap.String("host", app.Cfg.SMTP.Host))
	}

	var sms notify.SMSSender
	if app.Cfg.Twilio != nil {
		sms = smsclient.NewClient(
			app.Cfg.Twilio.AccountSID,
			app.Cfg.Twilio.AuthToken,
			app.Cfg.Twilio.FromNumber,
		)
		app.Logger.Info("SMS channel enabled")
	}

	app.Dispatcher = notify.NewDispatcher(email, sms, app.Logger)

	// The CRM bulk channel is optional; announcement delivery falls
	// through to direct sends when it is absent or failing.
	var crm notify.BulkCampaigner
	if app.Cfg.CRM != nil {
		client := crmclient.NewClient(app.Logger)
		if err := client.Connect(app.Cfg.CRM.APIKey); err != nil {
			return fmt.Errorf("failed to connect to CRM: %w", err)
		}
		app.CRM = client
		crm = client
	}

	app.Announcer = notify.NewAnnouncementDeliverer(app.Dispatcher, crm, app.Logger)

	// Calendar forwarding is optional and only initialized when
	// enabled, since it may trigger an interactive OAuth flow.
	if app.Cfg.Calendar != nil && app.Cfg.Calendar.Enabled {
		oauthCfg, err := config.LoadOAuthClientWithEnv(env)
		if err != nil {
			return fmt.Errorf("failed to load OAuth client config: %w", err)
		}

		calendarClient, err := calendarclient.NewClient(app.Ctx, oauthCfg, env, app.Cfg.Calendar.CalendarID)
		if err != nil {
			return fmt.Errorf("failed to create calendar client: %w", err)
		}
		app.Calendar = calendarClient
		app.Logger.Info("Calendar forwarding enabled")
	}

	app.Logger.Info("Application initialized")
	return nil
}
