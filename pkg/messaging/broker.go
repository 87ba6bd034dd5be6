package messaging

import (
	"context"
	"time"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Publisher is the narrow side services depend on for entity-change events.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

// Event is the payload published on entity changes, e.g. channel
// "appointment.created" with the stored appointment as payload.
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

func NewEvent(eventType string, payload interface{}) Event {
	return Event{
		Type:       eventType,
		OccurredAt: time.Now(),
		Payload:    payload,
	}
}
