package mailclient

import (
	"context"
	"fmt"
	"time"

	mail "gopkg.in/mail.v2"
)

// Client sends notification emails over SMTP.
type Client struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewClient creates an SMTP client. from is the sender address put on
// outgoing mail.
func NewClient(host string, port int, username, password, from string) *Client {
	return &Client{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// SendEmail sends a single email with a plain-text body and an
// optional HTML alternative. The dial-and-send is bounded by the
// context deadline when one is set.
func (c *Client) SendEmail(ctx context.Context, to, subject, text, html string) error {
	message := mail.NewMessage()
	message.SetHeader("From", c.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/plain", text)
	if html != "" {
		message.AddAlternative("text/html", html)
	}

	dialer := mail.NewDialer(c.host, c.port, c.username, c.password)
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Timeout = time.Until(deadline)
	}

	if err := dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
