package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/ViviVoid/park-volunteer-portal/pkg/core/model"
	"github.com/ViviVoid/park-volunteer-portal/pkg/db"
)

// BulkCampaigner is an optional CRM-style bulk delivery channel tried
// before direct per-recipient delivery.
type BulkCampaigner interface {
	SendAnnouncementCampaign(ctx context.Context, title string, msgType model.MessageType, msg Message) error
}

// AnnouncementDeliverer implements the two-tier delivery strategy for
// announcements: attempt the bulk CRM channel first, and regardless of
// its outcome fall through to direct per-recipient dispatch. The CRM
// attempt is best-effort; its failure is logged and never aborts the
// direct fan-out.
type AnnouncementDeliverer struct {
	dispatcher *Dispatcher
	crm        BulkCampaigner
	logger     *zap.Logger
}

// NewAnnouncementDeliverer creates a deliverer. crm may be nil when no
// bulk channel is configured.
func NewAnnouncementDeliverer(dispatcher *Dispatcher, crm BulkCampaigner, logger *zap.Logger) *AnnouncementDeliverer {
	return &AnnouncementDeliverer{
		dispatcher: dispatcher,
		crm:        crm,
		logger:     logger,
	}
}

// Deliver renders the announcement and sends it to every recipient,
// gating each channel on the announcement type intersected with the
// recipient's preference.
func (ad *AnnouncementDeliverer) Deliver(ctx context.Context, announcement db.Announcement, recipients []model.Volunteer) Report {
	msg := RenderAnnouncement(announcement)
	msgType := model.MessageType(announcement.Type)

	if ad.crm != nil {
		if err := ad.crm.SendAnnouncementCampaign(ctx, announcement.Title, msgType, msg); err != nil {
			ad.logger.Warn("CRM campaign send failed, falling through to direct delivery",
				zap.String("announcement_id", announcement.ID),
				zap.Error(err))
		} else {
			ad.logger.Info("CRM campaign sent",
				zap.String("announcement_id", announcement.ID))
		}
	}

	report := ad.dispatcher.Dispatch(ctx, recipients, msgType, msg)
	ad.logger.Info("Announcement dispatched",
		zap.String("announcement_id", announcement.ID),
		zap.String("title", announcement.Title),
		zap.Int("attempted", report.Attempted),
		zap.Int("failed_attempts", len(report.Failed())))

	return report
}
