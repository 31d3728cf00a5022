package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types published on the booking stream.
const (
	BookingCreated       = "booking.created"
	BookingStatusChanged = "booking.status_changed"
)

// Header keys carried on every message.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

// Message is one event on the booking stream. Key is the booking ID so all
// events for a booking land on the same partition, in order.
type Message struct {
	Key     string
	Value   []byte
	Headers map[string]string
}

// NewMessage JSON-encodes the payload and stamps the standard headers,
// including a fresh event ID.
func NewMessage(eventType, key string, payload any) (Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}

	return Message{
		Key:   key,
		Value: value,
		Headers: map[string]string{
			HeaderEventID:   uuid.NewString(),
			HeaderEventType: eventType,
			HeaderSource:    "rentcar",
			HeaderTimestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}
