package calendarclient

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/ViviVoid/park-volunteer-portal/internal/config"
	"github.com/ViviVoid/park-volunteer-portal/pkg/utils"
)

// Client wraps the Google Calendar API client
type Client struct {
	service    *calendar.Service
	token      *oauth2.Token
	calendarID string
}

// NewClient creates a new Calendar client using OAuth credentials and
// performs the OAuth flow if needed. Tokens are persisted to disk for
// the given environment. calendarID is the calendar positions are
// forwarded to; "primary" targets the account's default calendar.
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, env, calendarID string) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	token, err := utils.GetTokenWithFlow(ctx, oauthConfig, env)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth token: %w", err)
	}

	httpClient := oauthConfig.Client(ctx, token)

	service, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	if calendarID == "" {
		calendarID = "primary"
	}

	return &Client{
		service:    service,
		token:      token,
		calendarID: calendarID,
	}, nil
}

// Service returns the underlying calendar service for direct API access
func (c *Client) Service() *calendar.Service {
	return c.service
}

// ListCalendars returns the calendars visible to the authenticated account
func (c *Client) ListCalendars(ctx context.Context) ([]*calendar.CalendarListEntry, error) {
	resp, err := c.service.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	return resp.Items, nil
}

// CreateEvent inserts a timed event into the configured calendar and
// returns the created event's link.
func (c *Client) CreateEvent(ctx context.Context, summary, description, location, startRFC3339, endRFC3339 string) (string, error) {
	event := &calendar.Event{
		Summary:     summary,
		Description: description,
		Location:    location,
		Start:       &calendar.EventDateTime{DateTime: startRFC3339},
		End:         &calendar.EventDateTime{DateTime: endRFC3339},
	}

	created, err := c.service.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create calendar event: %w", err)
	}

	return created.HtmlLink, nil
}
