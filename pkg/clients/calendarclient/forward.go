package calendarclient

import (
	"context"
	"fmt"
	"time"

	"github.com/ViviVoid/park-volunteer-portal/pkg/db"
)

const defaultShiftHours = 4

// ForwardPosition creates a calendar event for a newly created
// position. Dates and times on the position are wall-clock local
// values, so events are built in the server's local zone.
func (c *Client) ForwardPosition(ctx context.Context, position *db.Position) error {
	start, err := time.ParseInLocation("2006-01-02 15:04", position.Date+" "+position.StartTime, time.Local)
	if err != nil {
		return fmt.Errorf("failed to parse position start: %w", err)
	}

	var end time.Time
	if position.EndTime != "" {
		end, err = time.ParseInLocation("2006-01-02 15:04", position.Date+" "+position.EndTime, time.Local)
		if err != nil {
			return fmt.Errorf("failed to parse position end: %w", err)
		}
	} else {
		hours := position.DurationHours
		if hours <= 0 {
			hours = defaultShiftHours
		}
		end = start.Add(time.Duration(hours) * time.Hour)
	}

	description := position.Description
	if position.Requirements != "" {
		description += "\n\nRequirements: " + position.Requirements
	}

	if _, err := c.CreateEvent(ctx, position.Title, description, position.Location,
		start.Format(time.RFC3339), end.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to forward position %s: %w", position.ID, err)
	}

	return nil
}
