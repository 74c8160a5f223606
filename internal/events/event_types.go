package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType labels the domain events the service emits.
type EventType string

const (
	EventUserRegistered EventType = "user.registered"
	EventLoginFailed    EventType = "auth.login_failed"
	EventTokenRevoked   EventType = "token.revoked"
	EventOrderCreated   EventType = "order.created"
	EventOrderDeleted   EventType = "order.deleted"
)

// Event is the envelope published through the dispatcher.
type Event struct {
	ID         string
	Type       EventType
	OccurredAt time.Time
	Payload    map[string]any
}

// NewEvent stamps a fresh event envelope.
func NewEvent(eventType EventType, payload map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now(),
		Payload:    payload,
	}
}
