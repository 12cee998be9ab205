package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ViviVoid/park-volunteer-portal/pkg/db"
)

const announcementColumns = `id, title, description, message, link, type,
	COALESCE(cron_expression, ''), is_active, last_sent_at, created_at`

func scanAnnouncement(row pgx.Row) (*db.Announcement, error) {
	var a db.Announcement
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Message, &a.Link, &a.Type,
		&a.CronExpr, &a.IsActive, &a.LastSentAt, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanAnnouncements(rows pgx.Rows) ([]db.Announcement, error) {
	defer rows.Close()

	var announcements []db.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan announcement: %w", err)
		}
		announcements = append(announcements, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating announcements: %w", err)
	}
	return announcements, nil
}

// GetAnnouncements retrieves all announcement records
func (d *DB) GetAnnouncements(ctx context.Context) ([]db.Announcement, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+announcementColumns+`
		FROM announcements
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query announcements: %w", err)
	}
	return scanAnnouncements(rows)
}

// GetActiveRecurringAnnouncements retrieves the cron-bearing
// announcements the scheduler polls each tick. One-shot announcements
// (no cron expression) are never returned here.
func (d *DB) GetActiveRecurringAnnouncements(ctx context.Context) ([]db.Announcement, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+announcementColumns+`
		FROM announcements
		WHERE is_active AND cron_expression IS NOT NULL AND cron_expression <> ''
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring announcements: %w", err)
	}
	return scanAnnouncements(rows)
}

// GetAnnouncement retrieves a single announcement by id
func (d *DB) GetAnnouncement(ctx context.Context, id string) (*db.Announcement, error) {
	a, err := scanAnnouncement(d.pool.QueryRow(ctx, `
		SELECT `+announcementColumns+`
		FROM announcements
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query announcement: %w", err)
	}
	return a, nil
}

// InsertAnnouncement inserts a new announcement record
func (d *DB) InsertAnnouncement(ctx context.Context, a *db.Announcement) error {
	var cron *string
	if a.CronExpr != "" {
		cron = &a.CronExpr
	}
	_, err := d.pool.Exec(ctx, `
		INSERT INTO announcements (id, title, description, message, link, type, cron_expression, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID, a.Title, a.Description, a.Message, a.Link, a.Type, cron, a.IsActive, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert announcement: %w", err)
	}
	return nil
}

// SetAnnouncementActive sets the active flag of an announcement
func (d *DB) SetAnnouncementActive(ctx context.Context, id string, active bool) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE announcements SET is_active = $2 WHERE id = $1
	`, id, active)
	if err != nil {
		return fmt.Errorf("failed to update announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// SetAnnouncementLastSent stamps the last_sent_at timestamp
func (d *DB) SetAnnouncementLastSent(ctx context.Context, id string, sentAt time.Time) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE announcements SET last_sent_at = $2 WHERE id = $1
	`, id, sentAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to stamp announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// DeleteAnnouncement deletes an announcement by id
func (d *DB) DeleteAnnouncement(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
