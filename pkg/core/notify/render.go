package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/ViviVoid/park-volunteer-portal/pkg/db"
)

// PositionNotice holds the fields of a newly posted position that go
// into the volunteer notification.
type PositionNotice struct {
	PositionID string
	Title      string
	Date       string
	StartTime  string
	Location   string
}

// RenderPositionNotice renders the "new volunteer opportunity"
// message in both plain-text and HTML forms.
func RenderPositionNotice(notice PositionNotice, portalLink string) Message {
	var text strings.Builder
	fmt.Fprintf(&text, "New volunteer opportunity: %s\n", notice.Title)
	fmt.Fprintf(&text, "Date: %s\n", notice.Date)
	fmt.Fprintf(&text, "Time: %s\n", notice.StartTime)
	if notice.Location != "" {
		fmt.Fprintf(&text, "Location: %s\n", notice.Location)
	}
	text.WriteString("\nSign up at the volunteer portal!")
	if portalLink != "" {
		fmt.Fprintf(&text, "\n%s", portalLink)
	}

	var htmlBody strings.Builder
	htmlBody.WriteString("<h2>New Volunteer Opportunity</h2>")
	fmt.Fprintf(&htmlBody, "<p><strong>%s</strong></p>", html.EscapeString(notice.Title))
	fmt.Fprintf(&htmlBody, "<p><strong>Date:</strong> %s</p>", html.EscapeString(notice.Date))
	fmt.Fprintf(&htmlBody, "<p><strong>Time:</strong> %s</p>", html.EscapeString(notice.StartTime))
	if notice.Location != "" {
		fmt.Fprintf(&htmlBody, "<p><strong>Location:</strong> %s</p>", html.EscapeString(notice.Location))
	}
	if portalLink != "" {
		fmt.Fprintf(&htmlBody, `<p><a href="%s">Sign up at the volunteer portal!</a></p>`, portalLink)
	} else {
		htmlBody.WriteString("<p>Sign up at the volunteer portal!</p>")
	}

	return Message{
		Subject: fmt.Sprintf("New Volunteer Opportunity: %s", notice.Title),
		Text:    text.String(),
		HTML:    htmlBody.String(),
	}
}

// RenderAnnouncement renders an announcement body. The description is
// the primary body text with the legacy message field as fallback; an
// optional link is appended as a plain-text suffix and as an HTML
// anchor.
func RenderAnnouncement(announcement db.Announcement) Message {
	body := announcement.Description
	if body == "" {
		body = announcement.Message
	}

	text := body
	if announcement.Link != "" {
		text = fmt.Sprintf("%s\n\n%s", body, announcement.Link)
	}

	var htmlBody strings.Builder
	fmt.Fprintf(&htmlBody, "<h2>%s</h2>", html.EscapeString(announcement.Title))
	fmt.Fprintf(&htmlBody, "<p>%s</p>", html.EscapeString(body))
	if announcement.Link != "" {
		fmt.Fprintf(&htmlBody, `<p><a href="%s">%s</a></p>`,
			announcement.Link, html.EscapeString(announcement.Link))
	}

	return Message{
		Subject: announcement.Title,
		Text:    text,
		HTML:    htmlBody.String(),
	}
}
