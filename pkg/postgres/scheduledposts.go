package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ViviVoid/park-volunteer-portal/pkg/db"
)

func scanScheduledPosts(rows pgx.Rows) ([]db.ScheduledPost, error) {
	defer rows.Close()

	var posts []db.ScheduledPost
	for rows.Next() {
		var p db.ScheduledPost
		if err := rows.Scan(&p.ID, &p.TemplateID, &p.CronExpr, &p.IsActive, &p.DaysAhead, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scheduled post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scheduled posts: %w", err)
	}
	return posts, nil
}

// GetScheduledPosts retrieves all scheduled post records
func (d *DB) GetScheduledPosts(ctx context.Context) ([]db.ScheduledPost, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, template_id, cron_expression, is_active, days_ahead, created_at
		FROM scheduled_posts
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled posts: %w", err)
	}
	return scanScheduledPosts(rows)
}

// GetActiveScheduledPosts retrieves the scheduled posts the scheduler
// polls each tick
func (d *DB) GetActiveScheduledPosts(ctx context.Context) ([]db.ScheduledPost, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, template_id, cron_expression, is_active, days_ahead, created_at
		FROM scheduled_posts
		WHERE is_active
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query active scheduled posts: %w", err)
	}
	return scanScheduledPosts(rows)
}

// GetScheduledPost retrieves a single scheduled post by id
func (d *DB) GetScheduledPost(ctx context.Context, id string) (*db.ScheduledPost, error) {
	var p db.ScheduledPost
	err := d.pool.QueryRow(ctx, `
		SELECT id, template_id, cron_expression, is_active, days_ahead, created_at
		FROM scheduled_posts
		WHERE id = $1
	`, id).Scan(&p.ID, &p.TemplateID, &p.CronExpr, &p.IsActive, &p.DaysAhead, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query scheduled post: %w", err)
	}
	return &p, nil
}

// InsertScheduledPost inserts a new scheduled post record
func (d *DB) InsertScheduledPost(ctx context.Context, post *db.ScheduledPost) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO scheduled_posts (id, template_id, cron_expression, is_active, days_ahead, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, post.ID, post.TemplateID, post.CronExpr, post.IsActive, post.DaysAhead, post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert scheduled post: %w", err)
	}
	return nil
}

// SetScheduledPostActive sets the active flag of a scheduled post
func (d *DB) SetScheduledPostActive(ctx context.Context, id string, active bool) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE scheduled_posts SET is_active = $2 WHERE id = $1
	`, id, active)
	if err != nil {
		return fmt.Errorf("failed to update scheduled post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// DeleteScheduledPost deletes a scheduled post by id
func (d *DB) DeleteScheduledPost(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM scheduled_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scheduled post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
