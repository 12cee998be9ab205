package crmclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ViviVoid/park-volunteer-portal/pkg/core/model"
	"github.com/ViviVoid/park-volunteer-portal/pkg/core/notify"
)

func testVolunteers() []model.Volunteer {
	return []model.Volunteer{
		{ID: "1", Name: "Ada Park", Email: "ada@example.com", Phone: "+15550001", Preference: model.PreferBoth},
		{ID: "2", Name: "Ben Field", Email: "ben@example.com", Preference: model.PreferEmail},
		{ID: "3", Name: "Cam Ridge", Phone: "+15550003", Preference: model.PreferPhone},
	}
}

func TestOperationsRequireConnection(t *testing.T) {
	client := NewClient(zap.NewNop())
	ctx := context.Background()

	_, err := client.SyncContacts(ctx, testVolunteers())
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = client.CreateCampaign(ctx, "spring drive", model.MessageEmail, "subject", "body")
	assert.ErrorIs(t, err, ErrNotConnected)

	err = client.SendAnnouncementCampaign(ctx, "spring drive", model.MessageEmail, notify.Message{})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestConnectRejectsEmptyKey(t *testing.T) {
	client := NewClient(zap.NewNop())

	assert.Error(t, client.Connect(""))
	assert.False(t, client.Connected())

	require.NoError(t, client.Connect("test-key"))
	assert.True(t, client.Connected())
}

func TestSyncContacts(t *testing.T) {
	client := NewClient(zap.NewNop())
	require.NoError(t, client.Connect("test-key"))

	synced, err := client.SyncContacts(context.Background(), testVolunteers())
	require.NoError(t, err)
	assert.Equal(t, 3, synced)
	assert.Equal(t, 3, client.ContactCount())

	// Re-syncing the same volunteers updates in place.
	synced, err = client.SyncContacts(context.Background(), testVolunteers())
	require.NoError(t, err)
	assert.Equal(t, 3, synced)
	assert.Equal(t, 3, client.ContactCount())
}

func TestSendCampaignFiltersByPreference(t *testing.T) {
	tests := []struct {
		name     string
		msgType  model.MessageType
		expected int
	}{
		{name: "email campaign skips phone-only contacts", msgType: model.MessageEmail, expected: 2},
		{name: "sms campaign skips email-only contacts", msgType: model.MessageSMS, expected: 2},
		{name: "both reaches every contact", msgType: model.MessageBoth, expected: 3},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client := NewClient(zap.NewNop())
			require.NoError(t, client.Connect("test-key"))
			_, err := client.SyncContacts(context.Background(), testVolunteers())
			require.NoError(t, err)

			id, err := client.CreateCampaign(context.Background(), "weekly update", test.msgType, "subject", "body")
			require.NoError(t, err)

			sent, err := client.SendCampaign(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, test.expected, sent)

			campaign, ok := client.GetCampaign(id)
			require.True(t, ok)
			assert.Equal(t, CampaignSent, campaign.Status)
			assert.Equal(t, test.expected, campaign.SentCount)
		})
	}
}

func TestSendCampaignUnknownID(t *testing.T) {
	client := NewClient(zap.NewNop())
	require.NoError(t, client.Connect("test-key"))

	_, err := client.SendCampaign(context.Background(), "CAMPAIGN_missing")
	assert.Error(t, err)
}

func TestSendAnnouncementCampaign(t *testing.T) {
	client := NewClient(zap.NewNop())
	require.NoError(t, client.Connect("test-key"))
	_, err := client.SyncContacts(context.Background(), testVolunteers())
	require.NoError(t, err)

	msg := notify.Message{Subject: "Trail day", Text: "Join us Saturday"}
	require.NoError(t, client.SendAnnouncementCampaign(context.Background(), "Trail day", model.MessageBoth, msg))

	campaigns := 0
	for id := range client.campaigns {
		campaign, ok := client.GetCampaign(id)
		require.True(t, ok)
		assert.Equal(t, CampaignSent, campaign.Status)
		assert.Equal(t, "Trail day", campaign.Name)
		campaigns++
	}
	assert.Equal(t, 1, campaigns)
}
