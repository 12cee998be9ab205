package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/ViviVoid/park-volunteer-portal/internal/config"
	"github.com/ViviVoid/park-volunteer-portal/pkg/clients/crmclient"
	"github.com/ViviVoid/park-volunteer-portal/pkg/core/notify"
	"github.com/ViviVoid/park-volunteer-portal/pkg/core/scheduler"
	"github.com/ViviVoid/park-volunteer-portal/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg        *config.Config
	Database   *postgres.DB
	Dispatcher *notify.Dispatcher
	Announcer  *notify.AnnouncementDeliverer
	CRM        *crmclient.Client
	Calendar   scheduler.CalendarForwarder
	Logger     *zap.Logger
	Ctx        context.Context
}
