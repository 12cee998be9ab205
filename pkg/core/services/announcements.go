package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ViviVoid/park-volunteer-portal/pkg/core/model"
	"github.com/ViviVoid/park-volunteer-portal/pkg/core/notify"
	"github.com/ViviVoid/park-volunteer-portal/pkg/db"
)

// AnnouncementSender runs the two-tier announcement delivery
// (CRM campaign first, then direct per-recipient fan-out).
type AnnouncementSender interface {
	Deliver(ctx context.Context, announcement db.Announcement, recipients []model.Volunteer) notify.Report
}

// CreateAnnouncementInput holds the admin-provided fields for a new
// organization announcement.
type CreateAnnouncementInput struct {
	Title       string
	Description string
	Link        string
	Type        string // email | sms | both
	CronExpr    string // empty = one-shot, sent immediately
}

// CreateAnnouncement creates an announcement. An announcement without
// a cron expression is a one-shot: it is delivered once, immediately,
// as a side effect of creation, and is never picked up by the
// periodic poll.
func CreateAnnouncement(
	ctx context.Context,
	store db.AnnouncementStore,
	directory VolunteerDirectory,
	sender AnnouncementSender,
	logger *zap.Logger,
	input CreateAnnouncementInput,
) (*db.Announcement, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("announcement title must not be empty")
	}
	if !model.MessageType(input.Type).Valid() {
		return nil, fmt.Errorf("invalid announcement type %q: must be email, sms or both", input.Type)
	}

	announcement := &db.Announcement{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Link:        input.Link,
		Type:        input.Type,
		CronExpr:    input.CronExpr,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}

	if err := store.InsertAnnouncement(ctx, announcement); err != nil {
		return nil, fmt.Errorf("failed to insert announcement: %w", err)
	}

	logger.Info("Announcement created",
		zap.String("announcement_id", announcement.ID),
		zap.String("title", announcement.Title),
		zap.String("type", announcement.Type),
		zap.Bool("recurring", announcement.CronExpr != ""))

	if announcement.CronExpr == "" {
		if err := deliverAnnouncement(ctx, store, directory, sender, logger, announcement); err != nil {
			return nil, err
		}
	}

	return announcement, nil
}

// SendAnnouncementNow delivers an announcement immediately, outside
// the cron path. Returns db.ErrNotFound (wrapped) when the id is
// unknown.
func SendAnnouncementNow(
	ctx context.Context,
	store db.AnnouncementStore,
	directory VolunteerDirectory,
	sender AnnouncementSender,
	logger *zap.Logger,
	id string,
) error {
	announcement, err := store.GetAnnouncement(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load announcement: %w", err)
	}

	return deliverAnnouncement(ctx, store, directory, sender, logger, announcement)
}

// deliverAnnouncement fans the announcement out to every volunteer
// and stamps last_sent_at regardless of partial per-recipient
// failures.
func deliverAnnouncement(
	ctx context.Context,
	store db.AnnouncementStore,
	directory VolunteerDirectory,
	sender AnnouncementSender,
	logger *zap.Logger,
	announcement *db.Announcement,
) error {
	recipients, err := directory.ListVolunteers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list volunteers: %w", err)
	}

	sender.Deliver(ctx, *announcement, recipients)

	sentAt := time.Now()
	if err := store.SetAnnouncementLastSent(ctx, announcement.ID, sentAt); err != nil {
		return fmt.Errorf("failed to stamp last_sent_at: %w", err)
	}
	announcement.LastSentAt = &sentAt

	logger.Info("Announcement sent",
		zap.String("announcement_id", announcement.ID),
		zap.String("title", announcement.Title))
	return nil
}

// ToggleAnnouncement flips the active flag of an announcement.
// Returns db.ErrNotFound (wrapped) when the id is unknown.
func ToggleAnnouncement(ctx context.Context, store db.AnnouncementStore, logger *zap.Logger, id string) (*db.Announcement, error) {
	announcement, err := store.GetAnnouncement(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load announcement: %w", err)
	}

	announcement.IsActive = !announcement.IsActive
	if err := store.SetAnnouncementActive(ctx, id, announcement.IsActive); err != nil {
		return nil, fmt.Errorf("failed to toggle announcement: %w", err)
	}

	logger.Info("Announcement toggled",
		zap.String("announcement_id", id),
		zap.Bool("is_active", announcement.IsActive))

	return announcement, nil
}

// DeleteAnnouncement removes an announcement. Returns db.ErrNotFound
// (wrapped) when the id is unknown.
func DeleteAnnouncement(ctx context.Context, store db.AnnouncementStore, logger *zap.Logger, id string) error {
	if err := store.DeleteAnnouncement(ctx, id); err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}

	logger.Info("Announcement deleted", zap.String("announcement_id", id))
	return nil
}

// ListAnnouncements returns every announcement.
func ListAnnouncements(ctx context.Context, store db.AnnouncementStore) ([]db.Announcement, error) {
	announcements, err := store.GetAnnouncements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch announcements: %w", err)
	}
	return announcements, nil
}
