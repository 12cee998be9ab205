package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ViviVoid/park-volunteer-portal/pkg/db"
)

// DefaultDaysAhead is how far ahead of the firing instant a
// materialized position is dated when the schedule does not say
// otherwise.
const DefaultDaysAhead = 7

// CreateScheduledPostInput holds the admin-provided fields for a new
// recurring position schedule.
type CreateScheduledPostInput struct {
	TemplateID string
	CronExpr   string
	DaysAhead  int
}

// CreateScheduledPost creates a recurring position schedule. The
// template id must be a well-formed id, the cron expression must be
// non-empty, and days ahead must be at least 1 (defaulting to 7 when
// unset). The cron expression is deliberately not validated beyond
// non-emptiness: a malformed expression is stored and simply never
// fires.
func CreateScheduledPost(ctx context.Context, store db.ScheduledPostStore, logger *zap.Logger, input CreateScheduledPostInput) (*db.ScheduledPost, error) {
	if _, err := uuid.Parse(input.TemplateID); err != nil {
		return nil, fmt.Errorf("invalid template id %q: %w", input.TemplateID, err)
	}
	if input.CronExpr == "" {
		return nil, fmt.Errorf("cron expression must not be empty")
	}
	if input.DaysAhead == 0 {
		input.DaysAhead = DefaultDaysAhead
	}
	if input.DaysAhead < 1 {
		return nil, fmt.Errorf("days ahead must be at least 1, got %d", input.DaysAhead)
	}

	post := &db.ScheduledPost{
		ID:         uuid.New().String(),
		TemplateID: input.TemplateID,
		CronExpr:   input.CronExpr,
		IsActive:   true,
		DaysAhead:  input.DaysAhead,
		CreatedAt:  time.Now(),
	}

	if err := store.InsertScheduledPost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to insert scheduled post: %w", err)
	}

	logger.Info("Scheduled post created",
		zap.String("scheduled_post_id", post.ID),
		zap.String("template_id", post.TemplateID),
		zap.String("cron", post.CronExpr),
		zap.Int("days_ahead", post.DaysAhead))

	return post, nil
}

// ToggleScheduledPost flips the active flag of a schedule. Returns
// db.ErrNotFound when the id is unknown.
func ToggleScheduledPost(ctx context.Context, store db.ScheduledPostStore, logger *zap.Logger, id string) (*db.ScheduledPost, error) {
	post, err := store.GetScheduledPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load scheduled post: %w", err)
	}

	post.IsActive = !post.IsActive
	if err := store.SetScheduledPostActive(ctx, id, post.IsActive); err != nil {
		return nil, fmt.Errorf("failed to toggle scheduled post: %w", err)
	}

	logger.Info("Scheduled post toggled",
		zap.String("scheduled_post_id", id),
		zap.Bool("is_active", post.IsActive))

	return post, nil
}

// DeleteScheduledPost removes a schedule. Returns db.ErrNotFound when
// the id is unknown.
func DeleteScheduledPost(ctx context.Context, store db.ScheduledPostStore, logger *zap.Logger, id string) error {
	if err := store.DeleteScheduledPost(ctx, id); err != nil {
		return fmt.Errorf("failed to delete scheduled post: %w", err)
	}

	logger.Info("Scheduled post deleted", zap.String("scheduled_post_id", id))
	return nil
}

// ListScheduledPosts returns every schedule, active or not.
func ListScheduledPosts(ctx context.Context, store db.ScheduledPostStore) ([]db.ScheduledPost, error) {
	posts, err := store.GetScheduledPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scheduled posts: %w", err)
	}
	return posts, nil
}
