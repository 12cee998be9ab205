package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/ViviVoid/park-volunteer-portal/pkg/core/model"
	"github.com/ViviVoid/park-volunteer-portal/pkg/db"
)

type fakeCampaigner struct {
	calls int
	err   error
}

func (f *fakeCampaigner) SendAnnouncementCampaign(context.Context, string, model.MessageType, Message) error {
	f.calls++
	return f.err
}

func TestDeliver_CRMFailureFallsThroughToDirectDelivery(t *testing.T) {
	email := &fakeEmailSender{}
	crm := &fakeCampaigner{err: errors.New("crm unreachable")}
	deliverer := NewAnnouncementDeliverer(NewDispatcher(email, &fakeSMSSender{}, zap.NewNop()), crm, zap.NewNop())

	report := deliverer.Deliver(context.Background(), db.Announcement{
		ID:          "ann-1",
		Title:       "Notice",
		Description: "body",
		Type:        "email",
	}, []model.Volunteer{
		{ID: "v1", Email: "v1@park.local", Preference: model.PreferEmail},
	})

	assert.Equal(t, 1, crm.calls)
	assert.Equal(t, 1, report.Attempted, "direct delivery must still run after a CRM failure")
	assert.Equal(t, []string{"v1@park.local"}, email.sent)
}

func TestDeliver_CRMSuccessStillDeliversDirectly(t *testing.T) {
	email := &fakeEmailSender{}
	crm := &fakeCampaigner{}
	deliverer := NewAnnouncementDeliverer(NewDispatcher(email, &fakeSMSSender{}, zap.NewNop()), crm, zap.NewNop())

	deliverer.Deliver(context.Background(), db.Announcement{
		ID:          "ann-1",
		Title:       "Notice",
		Description: "body",
		Type:        "email",
	}, []model.Volunteer{
		{ID: "v1", Email: "v1@park.local", Preference: model.PreferEmail},
	})

	assert.Equal(t, 1, crm.calls)
	assert.Equal(t, []string{"v1@park.local"}, email.sent)
}

func TestDeliver_NoCRMConfigured(t *testing.T) {
	email := &fakeEmailSender{}
	deliverer := NewAnnouncementDeliverer(NewDispatcher(email, &fakeSMSSender{}, zap.NewNop()), nil, zap.NewNop())

	report := deliverer.Deliver(context.Background(), db.Announcement{
		ID:          "ann-1",
		Title:       "Notice",
		Description: "body",
		Type:        "email",
	}, []model.Volunteer{
		{ID: "v1", Email: "v1@park.local", Preference: model.PreferEmail},
	})

	assert.Equal(t, 1, report.Attempted)
}

func TestDeliver_AnnouncementTypeIntersectsPreference(t *testing.T) {
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	deliverer := NewAnnouncementDeliverer(NewDispatcher(email, sms, zap.NewNop()), nil, zap.NewNop())

	recipients := []model.Volunteer{
		{ID: "email-only", Email: "e@park.local", Phone: "+15550001", Preference: model.PreferEmail},
		{ID: "phone-only", Email: "p@park.local", Phone: "+15550002", Preference: model.PreferPhone},
	}

	deliverer.Deliver(context.Background(), db.Announcement{
		ID:          "ann-1",
		Title:       "Notice",
		Description: "body",
		Type:        "both",
	}, recipients)

	assert.Equal(t, []string{"e@park.local"}, email.sent)
	assert.Equal(t, []string{"+15550002"}, sms.sent)
}
