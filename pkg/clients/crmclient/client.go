// Package crmclient is a mock CRM integration. It simulates the
// contact-sync and bulk-campaign APIs of a marketing platform in
// memory; a production build would replace the internals with real
// API calls while keeping the same surface.
package crmclient

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ViviVoid/park-volunteer-portal/pkg/core/model"
	"github.com/ViviVoid/park-volunteer-portal/pkg/core/notify"
)

// ErrNotConnected is returned by campaign operations before a
// successful Connect. Callers treat it as any other delivery failure
// and fall through to direct sends.
var ErrNotConnected = errors.New("crm api not connected")

// Contact is a synced CRM contact record.
type Contact struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	Preference model.NotificationPreference
}

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignDraft CampaignStatus = "draft"
	CampaignSent  CampaignStatus = "sent"
)

// Campaign is a bulk communication tracked by the CRM.
type Campaign struct {
	ID             string
	Name           string
	Type           model.MessageType
	Subject        string
	Message        string
	Status         CampaignStatus
	SentCount      int
	DeliveredCount int
}

// Client holds the mock CRM state. All methods are safe for
// concurrent use.
type Client struct {
	mu        sync.Mutex
	connected bool
	contacts  map[string]Contact
	campaigns map[string]Campaign
	logger    *zap.Logger
}

func NewClient(logger *zap.Logger) *Client {
	return &Client{
		contacts:  make(map[string]Contact),
		campaigns: make(map[string]Campaign),
		logger:    logger,
	}
}

// Connect authenticates against the CRM API. An empty key fails.
func (c *Client) Connect(apiKey string) error {
	if apiKey == "" {
		return errors.New("invalid api key")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = true
	c.logger.Info("Connected to CRM API")
	return nil
}

// Connected reports whether Connect has succeeded.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// SyncContacts pushes volunteer records into the CRM contact store,
// creating or updating one contact per volunteer. It returns the
// number of contacts synced.
func (c *Client) SyncContacts(ctx context.Context, volunteers []model.Volunteer) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return 0, ErrNotConnected
	}

	for _, v := range volunteers {
		c.contacts["SF_"+v.ID] = Contact{
			ID:         "SF_" + v.ID,
			Name:       v.Name,
			Email:      v.Email,
			Phone:      v.Phone,
			Preference: v.Preference,
		}
	}

	c.logger.Info("Synced CRM contacts", zap.Int("count", len(volunteers)))
	return len(volunteers), nil
}

// ContactCount returns the number of synced contacts.
func (c *Client) ContactCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.contacts)
}

// CreateCampaign registers a draft campaign and returns its ID.
func (c *Client) CreateCampaign(ctx context.Context, name string, msgType model.MessageType, subject, message string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return "", ErrNotConnected
	}

	id := fmt.Sprintf("CAMPAIGN_%d", time.Now().UnixNano())
	c.campaigns[id] = Campaign{
		ID:      id,
		Name:    name,
		Type:    msgType,
		Subject: subject,
		Message: message,
		Status:  CampaignDraft,
	}
	c.logger.Info("Created CRM campaign", zap.String("campaign_id", id), zap.String("name", name))
	return id, nil
}

// SendCampaign delivers a draft campaign to every synced contact whose
// preference admits the campaign's channel type.
func (c *Client) SendCampaign(ctx context.Context, campaignID string) (sent int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return 0, ErrNotConnected
	}

	campaign, ok := c.campaigns[campaignID]
	if !ok {
		return 0, fmt.Errorf("campaign %s not found", campaignID)
	}

	for _, contact := range c.contacts {
		if !wantsType(contact.Preference, campaign.Type) {
			continue
		}
		sent++
	}

	campaign.Status = CampaignSent
	campaign.SentCount = sent
	campaign.DeliveredCount = sent
	c.campaigns[campaignID] = campaign

	c.logger.Info("Sent CRM campaign", zap.String("campaign_id", campaignID), zap.Int("sent", sent))
	return sent, nil
}

// GetCampaign returns a campaign by ID, or false when it does not
// exist.
func (c *Client) GetCampaign(campaignID string) (Campaign, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	campaign, ok := c.campaigns[campaignID]
	return campaign, ok
}

// SendAnnouncementCampaign creates and immediately sends a campaign
// carrying the announcement content. It satisfies the bulk tier of
// announcement delivery.
func (c *Client) SendAnnouncementCampaign(ctx context.Context, title string, msgType model.MessageType, msg notify.Message) error {
	id, err := c.CreateCampaign(ctx, title, msgType, msg.Subject, msg.Text)
	if err != nil {
		return err
	}
	if _, err := c.SendCampaign(ctx, id); err != nil {
		return err
	}
	return nil
}

func wantsType(pref model.NotificationPreference, msgType model.MessageType) bool {
	switch msgType {
	case model.MessageEmail:
		return pref.WantsEmail()
	case model.MessageSMS:
		return pref.WantsSMS()
	default:
		return pref.WantsEmail() || pref.WantsSMS()
	}
}
