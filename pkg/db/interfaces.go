package db

import (
	"context"
	"time"
)

// ScheduledPostStore defines the database operations for recurring
// position schedules.
type ScheduledPostStore interface {
	GetScheduledPosts(ctx context.Context) ([]ScheduledPost, error)
	GetActiveScheduledPosts(ctx context.Context) ([]ScheduledPost, error)
	GetScheduledPost(ctx context.Context, id string) (*ScheduledPost, error)
	InsertScheduledPost(ctx context.Context, post *ScheduledPost) error
	SetScheduledPostActive(ctx context.Context, id string, active bool) error
	DeleteScheduledPost(ctx context.Context, id string) error
}

// TemplateStore defines read access to position templates.
type TemplateStore interface {
	GetTemplate(ctx context.Context, id string) (*PositionTemplate, error)
}

// PositionStore defines the database operations for positions.
type PositionStore interface {
	GetPosition(ctx context.Context, id string) (*Position, error)
	InsertPosition(ctx context.Context, position *Position) error
}

// AnnouncementStore defines the database operations for announcements.
type AnnouncementStore interface {
	GetAnnouncements(ctx context.Context) ([]Announcement, error)
	GetActiveRecurringAnnouncements(ctx context.Context) ([]Announcement, error)
	GetAnnouncement(ctx context.Context, id string) (*Announcement, error)
	InsertAnnouncement(ctx context.Context, announcement *Announcement) error
	SetAnnouncementActive(ctx context.Context, id string, active bool) error
	SetAnnouncementLastSent(ctx context.Context, id string, sentAt time.Time) error
	DeleteAnnouncement(ctx context.Context, id string) error
}
