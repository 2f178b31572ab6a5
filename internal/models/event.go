package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventLogSaved      = "log.saved"
	EventRosterUpdated = "roster.updated"
	EventSignedIn      = "auth.signed_in"
	EventSignedOut     = "auth.signed_out"
)

// Event is pushed to subscribers over the notification socket. UserID is the
// profile the event is about, not necessarily the recipient.
type Event struct {
	Type      string    `json:"type"`
	UserID    uuid.UUID `json:"user_id"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEvent(eventType string, userID uuid.UUID, payload any) Event {
	return Event{
		Type:      eventType,
		UserID:    userID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}
