package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ViviVoid/park-volunteer-portal/pkg/core/cronspec"
	"github.com/ViviVoid/park-volunteer-portal/pkg/core/model"
	"github.com/ViviVoid/park-volunteer-portal/pkg/core/notify"
	"github.com/ViviVoid/park-volunteer-portal/pkg/db"
)

// Default shift window applied to materialized positions. The
// scheduler does not consult the template for times.
const (
	DefaultShiftStart = "09:00"
	DefaultShiftEnd   = "17:00"
)

// PostStore defines the database operations the position scheduler
// needs per tick.
type PostStore interface {
	GetActiveScheduledPosts(ctx context.Context) ([]db.ScheduledPost, error)
	GetTemplate(ctx context.Context, id string) (*db.PositionTemplate, error)
	InsertPosition(ctx context.Context, position *db.Position) error
}

// AnnouncementStore defines the database operations the announcement
// scheduler needs per tick.
type AnnouncementStore interface {
	GetActiveRecurringAnnouncements(ctx context.Context) ([]db.Announcement, error)
	SetAnnouncementLastSent(ctx context.Context, id string, sentAt time.Time) error
}

// VolunteerDirectory provides the recipients for notifications.
type VolunteerDirectory interface {
	ListVolunteers(ctx context.Context) ([]model.Volunteer, error)
}

// Dispatcher fans a position notice out to volunteers.
type Dispatcher interface {
	Dispatch(ctx context.Context, recipients []model.Volunteer, msgType model.MessageType, msg notify.Message) notify.Report
}

// AnnouncementSender runs the two-tier announcement delivery.
type AnnouncementSender interface {
	Deliver(ctx context.Context, announcement db.Announcement, recipients []model.Volunteer) notify.Report
}

// CalendarForwarder forwards a newly created position downstream.
// Forwarding is best-effort; failures never abort position creation.
type CalendarForwarder interface {
	ForwardPosition(ctx context.Context, position *db.Position) error
}

// Options configures scheduler behavior. Zero values fall back to the
// documented defaults.
type Options struct {
	// SystemActorID is recorded as the creator of materialized
	// positions.
	SystemActorID string
	// ShiftStart and ShiftEnd override the default 09:00-17:00 window.
	ShiftStart string
	ShiftEnd   string
	// PortalLink is appended to position notices.
	PortalLink string
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Scheduler polls active recurring schedules once per minute and
// materializes positions and announcements that are due. It is owned
// by the composition root: construct with New, then Start/Stop.
// Tick is exported so tests can drive a single evaluation without a
// real timer.
type Scheduler struct {
	posts         PostStore
	announcements AnnouncementStore
	directory     VolunteerDirectory
	dispatcher    Dispatcher
	announcer     AnnouncementSender
	calendar      CalendarForwarder
	logger        *zap.Logger

	systemActorID string
	shiftStart    string
	shiftEnd      string
	portalLink    string
	now           func() time.Time

	cron *cron.Cron
}

// New creates a scheduler. calendar may be nil when forwarding is not
// configured.
func New(
	posts PostStore,
	announcements AnnouncementStore,
	directory VolunteerDirectory,
	dispatcher Dispatcher,
	announcer AnnouncementSender,
	calendar CalendarForwarder,
	logger *zap.Logger,
	opts Options,
) *Scheduler {
	if opts.ShiftStart == "" {
		opts.ShiftStart = DefaultShiftStart
	}
	if opts.ShiftEnd == "" {
		opts.ShiftEnd = DefaultShiftEnd
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Scheduler{
		posts:         posts,
		announcements: announcements,
		directory:     directory,
		dispatcher:    dispatcher,
		announcer:     announcer,
		calendar:      calendar,
		logger:        logger,
		systemActorID: opts.SystemActorID,
		shiftStart:    opts.ShiftStart,
		shiftEnd:      opts.ShiftEnd,
		portalLink:    opts.PortalLink,
		now:           opts.Now,
		cron:          cron.New(),
	}
}

// Start begins the one-minute tick loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@every 1m", s.runTick); err != nil {
		return fmt.Errorf("failed to register tick: %w", err)
	}
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.String("cadence", "1m"))
	return nil
}

// Stop halts the tick loop. A tick in flight runs to completion.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// runTick is the timer callback. A failing or panicking tick is
// logged and must never take down the loop: the next tick still runs.
func (s *Scheduler) runTick() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Tick panicked", zap.Any("panic", r))
		}
	}()

	if err := s.Tick(context.Background()); err != nil {
		s.logger.Error("Tick failed", zap.Error(err))
	}
}

// Tick evaluates every active schedule row against the current
// instant. Rows are evaluated sequentially and independently: a
// failing row is logged and the tick continues with the next one.
// Only failures to read the active rows themselves propagate out.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := s.now()
	return errors.Join(
		s.postTick(ctx, now),
		s.announcementTick(ctx, now),
	)
}

func (s *Scheduler) postTick(ctx context.Context, now time.Time) error {
	posts, err := s.posts.GetActiveScheduledPosts(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch active scheduled posts: %w", err)
	}

	for _, post := range posts {
		if !cronspec.Due(post.CronExpr, now) {
			continue
		}
		if err := s.materializePosition(ctx, post, now); err != nil {
			s.logger.Error("Failed to create scheduled position",
				zap.String("scheduled_post_id", post.ID),
				zap.String("template_id", post.TemplateID),
				zap.Error(err))
		}
	}
	return nil
}

// materializePosition creates a concrete dated position from the
// schedule's template and notifies volunteers.
func (s *Scheduler) materializePosition(ctx context.Context, post db.ScheduledPost, now time.Time) error {
	template, err := s.posts.GetTemplate(ctx, post.TemplateID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.logger.Warn("Template missing for scheduled post, skipping firing",
				zap.String("scheduled_post_id", post.ID),
				zap.String("template_id", post.TemplateID))
			return nil
		}
		return fmt.Errorf("failed to load template: %w", err)
	}

	date := now.AddDate(0, 0, post.DaysAhead).Format("2006-01-02")

	position := &db.Position{
		ID:            uuid.New().String(),
		TemplateID:    template.ID,
		Title:         template.Title,
		Description:   template.Description,
		Requirements:  template.Requirements,
		DurationHours: template.DurationHours,
		Location:      template.Location,
		Date:          date,
		StartTime:     s.shiftStart,
		EndTime:       s.shiftEnd,
		Status:        db.PositionStatusOpen,
		CreatedBy:     s.systemActorID,
		CreatedAt:     now,
	}

	if err := s.posts.InsertPosition(ctx, position); err != nil {
		return fmt.Errorf("failed to insert position: %w", err)
	}

	if s.calendar != nil {
		if err := s.calendar.ForwardPosition(ctx, position); err != nil {
			s.logger.Warn("Calendar forwarding failed",
				zap.String("position_id", position.ID),
				zap.Error(err))
		}
	}

	recipients, err := s.directory.ListVolunteers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list volunteers: %w", err)
	}

	msg := notify.RenderPositionNotice(notify.PositionNotice{
		PositionID: position.ID,
		Title:      position.Title,
		Date:       position.Date,
		StartTime:  position.StartTime,
		Location:   position.Location,
	}, s.portalLink)

	report := s.dispatcher.Dispatch(ctx, recipients, model.MessageBoth, msg)

	s.logger.Info("Created scheduled position",
		zap.String("position_id", position.ID),
		zap.String("title", position.Title),
		zap.String("date", position.Date),
		zap.Int("volunteers_notified", report.Attempted),
		zap.Int("failed_attempts", len(report.Failed())))

	return nil
}

func (s *Scheduler) announcementTick(ctx context.Context, now time.Time) error {
	announcements, err := s.announcements.GetActiveRecurringAnnouncements(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch active announcements: %w", err)
	}

	for _, announcement := range announcements {
		if !cronspec.Due(announcement.CronExpr, now) {
			continue
		}
		if err := s.sendAnnouncement(ctx, announcement, now); err != nil {
			s.logger.Error("Failed to send scheduled announcement",
				zap.String("announcement_id", announcement.ID),
				zap.Error(err))
		}
	}
	return nil
}

func (s *Scheduler) sendAnnouncement(ctx context.Context, announcement db.Announcement, now time.Time) error {
	recipients, err := s.directory.ListVolunteers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list volunteers: %w", err)
	}

	s.announcer.Deliver(ctx, announcement, recipients)

	// Stamped regardless of partial per-recipient failures.
	if err := s.announcements.SetAnnouncementLastSent(ctx, announcement.ID, now); err != nil {
		return fmt.Errorf("failed to stamp last_sent_at: %w", err)
	}
	return nil
}
