package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ViviVoid/park-volunteer-portal/pkg/core/model"
	"github.com/ViviVoid/park-volunteer-portal/pkg/core/notify"
	"github.com/ViviVoid/park-volunteer-portal/pkg/db"
)

// VolunteerDirectory provides notification recipients.
type VolunteerDirectory interface {
	ListVolunteers(ctx context.Context) ([]model.Volunteer, error)
}

// PositionLister provides read access to materialized positions.
type PositionLister interface {
	GetPositionsForTemplate(ctx context.Context, templateID string) ([]db.Position, error)
}

// ListPositionsForTemplate returns the positions materialized from a
// template, newest first.
func ListPositionsForTemplate(ctx context.Context, positions PositionLister, templateID string) ([]db.Position, error) {
	out, err := positions.GetPositionsForTemplate(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch positions: %w", err)
	}
	return out, nil
}

// Dispatcher fans a message out to volunteers.
type Dispatcher interface {
	Dispatch(ctx context.Context, recipients []model.Volunteer, msgType model.MessageType, msg notify.Message) notify.Report
}

// NotifyForPosition re-sends the new-opportunity notice for an
// existing position to every volunteer, outside the cron path.
// Returns db.ErrNotFound (wrapped) when the position is unknown; a
// partial per-recipient failure inside an otherwise successful call is
// reflected in the report, not returned as an error.
func NotifyForPosition(
	ctx context.Context,
	positions db.PositionStore,
	directory VolunteerDirectory,
	dispatcher Dispatcher,
	logger *zap.Logger,
	portalLink string,
	positionID string,
) (notify.Report, error) {
	position, err := positions.GetPosition(ctx, positionID)
	if err != nil {
		return notify.Report{}, fmt.Errorf("failed to load position: %w", err)
	}

	recipients, err := directory.ListVolunteers(ctx)
	if err != nil {
		return notify.Report{}, fmt.Errorf("failed to list volunteers: %w", err)
	}

	msg := notify.RenderPositionNotice(notify.PositionNotice{
		PositionID: position.ID,
		Title:      position.Title,
		Date:       position.Date,
		StartTime:  position.StartTime,
		Location:   position.Location,
	}, portalLink)

	report := dispatcher.Dispatch(ctx, recipients, model.MessageBoth, msg)

	logger.Info("Volunteers notified for position",
		zap.String("position_id", position.ID),
		zap.String("title", position.Title),
		zap.Int("notified", report.Attempted),
		zap.Int("failed_attempts", len(report.Failed())))

	return report, nil
}
