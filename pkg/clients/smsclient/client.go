package smsclient

import (
	"context"
	"fmt"

	twilio "github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Client sends notification texts through the Twilio messaging API.
type Client struct {
	api  *twilio.RestClient
	from string
}

// NewClient creates a Twilio client. from is the provisioned number
// texts are sent from.
func NewClient(accountSID, authToken, from string) *Client {
	api := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &Client{api: api, from: from}
}

// SendSMS sends a single text message to the given number.
func (c *Client) SendSMS(ctx context.Context, to, body string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetBody(body)

	if _, err := c.api.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send sms to %s: %w", to, err)
	}
	return nil
}
