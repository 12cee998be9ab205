package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ViviVoid/park-volunteer-portal/pkg/core/model"
	"github.com/ViviVoid/park-volunteer-portal/pkg/core/notify"
	"github.com/ViviVoid/park-volunteer-portal/pkg/db"
)

type fakePostStore struct {
	posts     []db.ScheduledPost
	templates map[string]*db.PositionTemplate
	inserted  []*db.Position

	fetchErr  error
	insertErr error
}

func (f *fakePostStore) GetActiveScheduledPosts(context.Context) ([]db.ScheduledPost, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var active []db.ScheduledPost
	for _, p := range f.posts {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

func (f *fakePostStore) GetTemplate(_ context.Context, id string) (*db.PositionTemplate, error) {
	template, ok := f.templates[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return template, nil
}

func (f *fakePostStore) InsertPosition(_ context.Context, position *db.Position) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, position)
	return nil
}

type fakeAnnouncementStore struct {
	announcements []db.Announcement
	lastSent      map[string]time.Time
	fetchErr      error
}

func (f *fakeAnnouncementStore) GetActiveRecurringAnnouncements(context.Context) ([]db.Announcement, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var active []db.Announcement
	for _, a := range f.announcements {
		if a.IsActive && a.CronExpr != "" {
			active = append(active, a)
		}
	}
	return active, nil
}

func (f *fakeAnnouncementStore) SetAnnouncementLastSent(_ context.Context, id string, sentAt time.Time) error {
	if f.lastSent == nil {
		f.lastSent = make(map[string]time.Time)
	}
	f.lastSent[id] = sentAt
	return nil
}

type fakeDirectory struct {
	volunteers []model.Volunteer
	err        error
}

func (f *fakeDirectory) ListVolunteers(context.Context) ([]model.Volunteer, error) {
	return f.volunteers, f.err
}

type dispatchCall struct {
	msgType model.MessageType
	msg     notify.Message
}

type fakeDispatcher struct {
	calls []dispatchCall
}

func (f *fakeDispatcher) Dispatch(_ context.Context, recipients []model.Volunteer, msgType model.MessageType, msg notify.Message) notify.Report {
	f.calls = append(f.calls, dispatchCall{msgType: msgType, msg: msg})
	return notify.Report{Attempted: len(recipients)}
}

type fakeAnnouncer struct {
	delivered []db.Announcement
	report    notify.Report
}

func (f *fakeAnnouncer) Deliver(_ context.Context, announcement db.Announcement, _ []model.Volunteer) notify.Report {
	f.delivered = append(f.delivered, announcement)
	return f.report
}

type fakeForwarder struct {
	forwarded []*db.Position
	err       error
}

func (f *fakeForwarder) ForwardPosition(_ context.Context, position *db.Position) error {
	if f.err != nil {
		return f.err
	}
	f.forwarded = append(f.forwarded, position)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func trailTemplate() *db.PositionTemplate {
	return &db.PositionTemplate{
		ID:            "tpl-1",
		Title:         "Trail Cleanup",
		Description:   "Clear the north trail",
		Requirements:  "Gloves",
		DurationHours: 4,
		Location:      "North Gate",
	}
}

func newTestScheduler(posts *fakePostStore, anns *fakeAnnouncementStore, dir *fakeDirectory, disp *fakeDispatcher, announcer *fakeAnnouncer, cal *fakeForwarder, opts Options) *Scheduler {
	var forwarder CalendarForwarder
	if cal != nil {
		forwarder = cal
	}
	return New(posts, anns, dir, disp, announcer, forwarder, zap.NewNop(), opts)
}

func TestTick_DaysAheadArithmetic(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		daysAhead int
		wantDate  string
	}{
		{daysAhead: 7, wantDate: "2024-01-08"},
		{daysAhead: 1, wantDate: "2024-01-02"},
	}

	for _, tc := range tests {
		posts := &fakePostStore{
			posts: []db.ScheduledPost{
				{ID: "sp-1", TemplateID: "tpl-1", CronExpr: "30 9 * * *", IsActive: true, DaysAhead: tc.daysAhead},
			},
			templates: map[string]*db.PositionTemplate{"tpl-1": trailTemplate()},
		}
		s := newTestScheduler(posts, &fakeAnnouncementStore{}, &fakeDirectory{}, &fakeDispatcher{}, &fakeAnnouncer{}, nil, Options{Now: fixedClock(now)})

		require.NoError(t, s.Tick(context.Background()))
		require.Len(t, posts.inserted, 1)
		assert.Equal(t, tc.wantDate, posts.inserted[0].Date)
	}
}

func TestTick_PositionSnapshotsTemplateFields(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	template := trailTemplate()
	posts := &fakePostStore{
		posts: []db.ScheduledPost{
			{ID: "sp-1", TemplateID: "tpl-1", CronExpr: "30 9 * * *", IsActive: true, DaysAhead: 7},
		},
		templates: map[string]*db.PositionTemplate{"tpl-1": template},
	}
	s := newTestScheduler(posts, &fakeAnnouncementStore{}, &fakeDirectory{}, &fakeDispatcher{}, &fakeAnnouncer{}, nil, Options{SystemActorID: "system-1", Now: fixedClock(now)})

	require.NoError(t, s.Tick(context.Background()))
	require.Len(t, posts.inserted, 1)

	created := posts.inserted[0]
	assert.Equal(t, "Trail Cleanup", created.Title)
	assert.Equal(t, "Clear the north trail", created.Description)
	assert.Equal(t, "Gloves", created.Requirements)
	assert.Equal(t, 4, created.DurationHours)
	assert.Equal(t, "North Gate", created.Location)
	assert.Equal(t, db.PositionStatusOpen, created.Status)
	assert.Equal(t, "system-1", created.CreatedBy)
	assert.Equal(t, DefaultShiftStart, created.StartTime)
	assert.Equal(t, DefaultShiftEnd, created.EndTime)

	// Mutating the template afterwards must not change the created
	// position: fields were copied at creation time.
	template.Title = "Renamed"
	template.Location = "South Gate"
	assert.Equal(t, "Trail Cleanup", created.Title)
	assert.Equal(t, "North Gate", created.Location)
}

func TestTick_NonMatchingMinuteDoesNotFire(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 31, 0, 0, time.UTC)
	posts := &fakePostStore{
		posts: []db.ScheduledPost{
			{ID: "sp-1", TemplateID: "tpl-1", CronExpr: "30 9 * * *", IsActive: true, DaysAhead: 7},
		},
		templates: map[string]*db.PositionTemplate{"tpl-1": trailTemplate()},
	}
	s := newTestScheduler(posts, &fakeAnnouncementStore{}, &fakeDirectory{}, &fakeDispatcher{}, &fakeAnnouncer{}, nil, Options{Now: fixedClock(now)})

	require.NoError(t, s.Tick(context.Background()))
	assert.Empty(t, posts.inserted)
}

func TestTick_ToggledInactiveScheduleStopsFiring(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	posts := &fakePostStore{
		posts: []db.ScheduledPost{
			{ID: "sp-1", TemplateID: "tpl-1", CronExpr: "30 9 * * *", IsActive: true, DaysAhead: 7},
		},
		templates: map[string]*db.PositionTemplate{"tpl-1": trailTemplate()},
	}
	s := newTestScheduler(posts, &fakeAnnouncementStore{}, &fakeDirectory{}, &fakeDispatcher{}, &fakeAnnouncer{}, nil, Options{Now: fixedClock(now)})

	require.NoError(t, s.Tick(context.Background()))
	require.Len(t, posts.inserted, 1)

	// Deactivate before the next tick: the matching minute alone must
	// not fire an inactive row.
	posts.posts[0].IsActive = false
	require.NoError(t, s.Tick(context.Background()))
	assert.Len(t, posts.inserted, 1)
}

func TestTick_MalformedCronSkippedSilently(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	posts := &fakePostStore{
		posts: []db.ScheduledPost{
			{ID: "bad", TemplateID: "tpl-1", CronExpr: "30 9 * *", IsActive: true, DaysAhead: 7},
			{ID: "good", TemplateID: "tpl-1", CronExpr: "30 9 * * *", IsActive: true, DaysAhead: 7},
		},
		templates: map[string]*db.PositionTemplate{"tpl-1": trailTemplate()},
	}
	s := newTestScheduler(posts, &fakeAnnouncementStore{}, &fakeDirectory{}, &fakeDispatcher{}, &fakeAnnouncer{}, nil, Options{Now: fixedClock(now)})

	require.NoError(t, s.Tick(context.Background()))
	require.Len(t, posts.inserted, 1, "the well-formed row must still fire")
}

func TestTick_MissingTemplateAbandonsFiringWithoutError(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	posts := &fakePostStore{
		posts: []db.ScheduledPost{
			{ID: "orphan", TemplateID: "gone", CronExpr: "30 9 * * *", IsActive: true, DaysAhead: 7},
			{ID: "ok", TemplateID: "tpl-1", CronExpr: "30 9 * * *", IsActive: true, DaysAhead: 7},
		},
		templates: map[string]*db.PositionTemplate{"tpl-1": trailTemplate()},
	}
	s := newTestScheduler(posts, &fakeAnnouncementStore{}, &fakeDirectory{}, &fakeDispatcher{}, &fakeAnnouncer{}, nil, Options{Now: fixedClock(now)})

	require.NoError(t, s.Tick(context.Background()))
	require.Len(t, posts.inserted, 1)
	assert.Equal(t, "tpl-1", posts.inserted[0].TemplateID)
}

func TestTick_FailingRowDoesNotBlockOthers(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	// Directory failure makes every firing row fail after insert; the
	// tick itself must still visit both rows and not return the
	// per-row errors.
	posts := &fakePostStore{
		posts: []db.ScheduledPost{
			{ID: "sp-1", TemplateID: "tpl-1", CronExpr: "30 9 * * *", IsActive: true, DaysAhead: 7},
			{ID: "sp-2", TemplateID: "tpl-1", CronExpr: "30 9 * * *", IsActive: true, DaysAhead: 7},
		},
		templates: map[string]*db.PositionTemplate{"tpl-1": trailTemplate()},
	}
	dir := &fakeDirectory{err: errors.New("directory unreachable")}
	s := newTestScheduler(posts, &fakeAnnouncementStore{}, dir, &fakeDispatcher{}, &fakeAnnouncer{}, nil, Options{Now: fixedClock(now)})

	require.NoError(t, s.Tick(context.Background()))
	assert.Len(t, posts.inserted, 2, "both rows must be attempted")
}

func TestTick_PostFetchFailureStillRunsAnnouncements(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	posts := &fakePostStore{fetchErr: errors.New("db gone")}
	anns := &fakeAnnouncementStore{
		announcements: []db.Announcement{
			{ID: "ann-1", Title: "Notice", Type: "email", CronExpr: "30 9 * * *", IsActive: true},
		},
	}
	announcer := &fakeAnnouncer{}
	s := newTestScheduler(posts, anns, &fakeDirectory{}, &fakeDispatcher{}, announcer, nil, Options{Now: fixedClock(now)})

	err := s.Tick(context.Background())
	require.Error(t, err, "a store-level failure propagates out of the tick")
	assert.Len(t, announcer.delivered, 1, "announcement evaluation must not be blocked")
}

func TestTick_CalendarForwardingIsBestEffort(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	posts := &fakePostStore{
		posts: []db.ScheduledPost{
			{ID: "sp-1", TemplateID: "tpl-1", CronExpr: "30 9 * * *", IsActive: true, DaysAhead: 7},
		},
		templates: map[string]*db.PositionTemplate{"tpl-1": trailTemplate()},
	}
	disp := &fakeDispatcher{}
	cal := &fakeForwarder{err: errors.New("calendar API down")}
	s := newTestScheduler(posts, &fakeAnnouncementStore{}, &fakeDirectory{}, disp, &fakeAnnouncer{}, cal, Options{Now: fixedClock(now)})

	require.NoError(t, s.Tick(context.Background()))
	assert.Len(t, posts.inserted, 1, "position creation must survive a forwarding failure")
	assert.Len(t, disp.calls, 1, "volunteers are still notified")
}

func TestTick_PositionNoticeDispatchedToVolunteers(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	posts := &fakePostStore{
		posts: []db.ScheduledPost{
			{ID: "sp-1", TemplateID: "tpl-1", CronExpr: "30 9 * * *", IsActive: true, DaysAhead: 7},
		},
		templates: map[string]*db.PositionTemplate{"tpl-1": trailTemplate()},
	}
	disp := &fakeDispatcher{}
	s := newTestScheduler(posts, &fakeAnnouncementStore{}, &fakeDirectory{}, disp, &fakeAnnouncer{}, nil, Options{Now: fixedClock(now)})

	require.NoError(t, s.Tick(context.Background()))
	require.Len(t, disp.calls, 1)
	assert.Equal(t, model.MessageBoth, disp.calls[0].msgType)
	assert.Contains(t, disp.calls[0].msg.Text, "Trail Cleanup")
	assert.Contains(t, disp.calls[0].msg.Text, "2024-01-08")
	assert.Contains(t, disp.calls[0].msg.Text, "09:00")
}

func TestTick_AnnouncementLastSentStampedDespiteFailures(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	anns := &fakeAnnouncementStore{
		announcements: []db.Announcement{
			{ID: "ann-1", Title: "Notice", Type: "both", CronExpr: "0 12 * * *", IsActive: true},
		},
	}
	// Every per-recipient attempt failed; the stamp still happens.
	announcer := &fakeAnnouncer{report: notify.Report{
		Attempted: 2,
		Results: []notify.Result{
			{VolunteerID: "v1", Channel: notify.ChannelEmail, Err: errors.New("bounce")},
			{VolunteerID: "v2", Channel: notify.ChannelSMS, Err: errors.New("invalid number")},
		},
	}}
	s := newTestScheduler(&fakePostStore{}, anns, &fakeDirectory{}, &fakeDispatcher{}, announcer, nil, Options{Now: fixedClock(now)})

	require.NoError(t, s.Tick(context.Background()))
	require.Len(t, announcer.delivered, 1)
	assert.Equal(t, now, anns.lastSent["ann-1"])
}

func TestTick_CronlessAnnouncementsNeverPolled(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	anns := &fakeAnnouncementStore{
		announcements: []db.Announcement{
			{ID: "one-shot", Title: "Immediate", Type: "email", IsActive: true},
		},
	}
	announcer := &fakeAnnouncer{}
	s := newTestScheduler(&fakePostStore{}, anns, &fakeDirectory{}, &fakeDispatcher{}, announcer, nil, Options{Now: fixedClock(now)})

	require.NoError(t, s.Tick(context.Background()))
	require.NoError(t, s.Tick(context.Background()))
	assert.Empty(t, announcer.delivered)
}
