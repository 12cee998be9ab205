package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ViviVoid/park-volunteer-portal/pkg/db"
)

// GetTemplate retrieves a position template by id
func (d *DB) GetTemplate(ctx context.Context, id string) (*db.PositionTemplate, error) {
	var t db.PositionTemplate
	err := d.pool.QueryRow(ctx, `
		SELECT id, title, description, requirements, duration_hours, location, created_at, updated_at
		FROM position_templates
		WHERE id = $1
	`, id).Scan(&t.ID, &t.Title, &t.Description, &t.Requirements, &t.DurationHours, &t.Location, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query template: %w", err)
	}
	return &t, nil
}

// GetPosition retrieves a position by id
func (d *DB) GetPosition(ctx context.Context, id string) (*db.Position, error) {
	var p db.Position
	var date time.Time
	err := d.pool.QueryRow(ctx, `
		SELECT id, template_id, title, description, requirements, duration_hours, location,
		       date, start_time, end_time, max_volunteers, current_volunteers, status, created_by, created_at
		FROM positions
		WHERE id = $1
	`, id).Scan(&p.ID, &p.TemplateID, &p.Title, &p.Description, &p.Requirements, &p.DurationHours, &p.Location,
		&date, &p.StartTime, &p.EndTime, &p.MaxVolunteers, &p.CurrentVolunteers, &p.Status, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query position: %w", err)
	}
	p.Date = date.Format("2006-01-02")
	return &p, nil
}

// InsertPosition inserts a new position record
func (d *DB) InsertPosition(ctx context.Context, p *db.Position) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO positions (id, template_id, title, description, requirements, duration_hours, location,
		                       date, start_time, end_time, max_volunteers, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, p.ID, p.TemplateID, p.Title, p.Description, p.Requirements, p.DurationHours, p.Location,
		p.Date, p.StartTime, p.EndTime, p.MaxVolunteers, p.Status, p.CreatedBy, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert position: %w", err)
	}
	return nil
}

// GetPositionsForTemplate retrieves the positions created from a
// template, newest date first.
func (d *DB) GetPositionsForTemplate(ctx context.Context, templateID string) ([]db.Position, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, template_id, title, description, requirements, duration_hours, location,
		       date, start_time, end_time, max_volunteers, current_volunteers, status, created_by, created_at
		FROM positions
		WHERE template_id = $1
		ORDER BY date DESC
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []db.Position
	for rows.Next() {
		var p db.Position
		var date time.Time
		if err := rows.Scan(&p.ID, &p.TemplateID, &p.Title, &p.Description, &p.Requirements, &p.DurationHours, &p.Location,
			&date, &p.StartTime, &p.EndTime, &p.MaxVolunteers, &p.CurrentVolunteers, &p.Status, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		p.Date = date.Format("2006-01-02")
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}
	return positions, nil
}
