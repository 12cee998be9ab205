package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ViviVoid/park-volunteer-portal/pkg/core/model"
)

// Channel is a delivery medium with independent per-recipient
// success or failure.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// DefaultSendTimeout bounds a single channel send so one hung
// provider call cannot stall the rest of a dispatch.
const DefaultSendTimeout = 30 * time.Second

// EmailSender sends a single email. html may be empty for
// plain-text-only messages.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, text, html string) error
}

// SMSSender sends a single SMS.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// Message is a rendered notification ready for delivery.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// Result records the outcome of one channel attempt for one recipient.
// Err is nil when the send succeeded.
type Result struct {
	VolunteerID string
	Channel     Channel
	Err         error
}

// Report aggregates a dispatch run. Attempted counts recipients for
// whom at least one channel was eligible; Results holds every
// individual channel attempt.
type Report struct {
	Attempted int
	Results   []Result
}

// Failed returns the results whose send attempt returned an error.
func (r Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Dispatcher fans a single rendered message out to many recipients
// over each recipient's preferred channels.
type Dispatcher struct {
	email       EmailSender
	sms         SMSSender
	logger      *zap.Logger
	sendTimeout time.Duration
}

// NewDispatcher creates a dispatcher. Either sender may be nil, in
// which case that channel is skipped for every recipient.
func NewDispatcher(email EmailSender, sms SMSSender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		email:       email,
		sms:         sms,
		logger:      logger,
		sendTimeout: DefaultSendTimeout,
	}
}

// WithSendTimeout overrides the per-attempt timeout.
func (d *Dispatcher) WithSendTimeout(timeout time.Duration) *Dispatcher {
	d.sendTimeout = timeout
	return d
}

// Dispatch delivers msg to every eligible recipient. A recipient's
// email channel is eligible when the message type includes email, the
// recipient's preference includes email, and an address is on file;
// the SMS channel is symmetric using the phone number. Every eligible
// channel is attempted independently: a failure for one recipient or
// channel never blocks the others, and Dispatch itself never returns
// an error past a single recipient's failure.
func (d *Dispatcher) Dispatch(ctx context.Context, recipients []model.Volunteer, msgType model.MessageType, msg Message) Report {
	var report Report

	for _, recipient := range recipients {
		sendEmail := d.email != nil &&
			(msgType == model.MessageEmail || msgType == model.MessageBoth) &&
			recipient.Preference.WantsEmail() &&
			recipient.Email != ""
		sendSMS := d.sms != nil &&
			(msgType == model.MessageSMS || msgType == model.MessageBoth) &&
			recipient.Preference.WantsSMS() &&
			recipient.Phone != ""

		if !sendEmail && !sendSMS {
			continue
		}
		report.Attempted++

		if sendEmail {
			err := d.attempt(ctx, func(sendCtx context.Context) error {
				return d.email.SendEmail(sendCtx, recipient.Email, msg.Subject, msg.Text, msg.HTML)
			})
			if err != nil {
				d.logger.Warn("Failed to send email",
					zap.String("volunteer_id", recipient.ID),
					zap.String("email", recipient.Email),
					zap.Error(err))
			}
			report.Results = append(report.Results, Result{
				VolunteerID: recipient.ID,
				Channel:     ChannelEmail,
				Err:         err,
			})
		}

		if sendSMS {
			err := d.attempt(ctx, func(sendCtx context.Context) error {
				return d.sms.SendSMS(sendCtx, recipient.Phone, msg.Text)
			})
			if err != nil {
				d.logger.Warn("Failed to send SMS",
					zap.String("volunteer_id", recipient.ID),
					zap.String("phone", recipient.Phone),
					zap.Error(err))
			}
			report.Results = append(report.Results, Result{
				VolunteerID: recipient.ID,
				Channel:     ChannelSMS,
				Err:         err,
			})
		}
	}

	return report
}

// attempt runs one channel send under the per-attempt timeout.
func (d *Dispatcher) attempt(ctx context.Context, send func(context.Context) error) error {
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()
	return send(sendCtx)
}
