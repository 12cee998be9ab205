package db

import "time"

// Position status values
const (
	PositionStatusOpen      = "open"
	PositionStatusFilled    = "filled"
	PositionStatusCancelled = "cancelled"
	PositionStatusCompleted = "completed"
)

// ScheduledPost represents a recurring position schedule record.
// The cron expression is five whitespace-separated fields
// (minute hour day-of-month month day-of-week); a malformed
// expression is never matched.
type ScheduledPost struct {
	ID         string
	TemplateID string
	CronExpr   string
	IsActive   bool
	DaysAhead  int
	CreatedAt  time.Time
}

// PositionTemplate represents a reusable position stencil owned by
// the admin CRUD layer. The scheduler only reads it.
type PositionTemplate struct {
	ID            string
	Title         string
	Description   string
	Requirements  string
	DurationHours int
	Location      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Position represents a concrete dated shift. Template fields are
// copied at creation time; later template edits do not affect it.
// Date and times are wall-clock local values with no timezone.
type Position struct {
	ID                string
	TemplateID        string
	Title             string
	Description       string
	Requirements      string
	DurationHours     int
	Location          string
	Date              string // 2006-01-02
	StartTime         string // 15:04
	EndTime           string // 15:04
	MaxVolunteers     int
	CurrentVolunteers int
	Status            string
	CreatedBy         string
	CreatedAt         time.Time
}

// Announcement represents an organization-wide announcement.
// CronExpr empty means one-shot: sent once at creation or on demand,
// never polled. Message is the legacy body field kept as a fallback
// source for body text.
type Announcement struct {
	ID          string
	Title       string
	Description string
	Message     string
	Link        string
	Type        string // email | sms | both
	CronExpr    string
	IsActive    bool
	LastSentAt  *time.Time
	CreatedAt   time.Time
}
