package model

// NotificationPreference is a volunteer's preferred contact channel.
type NotificationPreference string

const (
	PreferEmail NotificationPreference = "email"
	PreferPhone NotificationPreference = "phone"
	PreferBoth  NotificationPreference = "both"
)

// WantsEmail reports whether the preference includes email.
func (p NotificationPreference) WantsEmail() bool {
	return p == PreferEmail || p == PreferBoth
}

// WantsSMS reports whether the preference includes SMS.
func (p NotificationPreference) WantsSMS() bool {
	return p == PreferPhone || p == PreferBoth
}

// MessageType declares which channels a message goes out on.
type MessageType string

const (
	MessageEmail MessageType = "email"
	MessageSMS   MessageType = "sms"
	MessageBoth  MessageType = "both"
)

// Valid reports whether the message type is one of the known values.
func (t MessageType) Valid() bool {
	return t == MessageEmail || t == MessageSMS || t == MessageBoth
}

// Volunteer represents a notification recipient.
type Volunteer struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	Preference NotificationPreference
}
