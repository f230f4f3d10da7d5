// Package notification models status-change messages addressed to a single recipient.
package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MaxMessageSize bounds a notification message in bytes.
const MaxMessageSize = 4096

// Event is a notification. The only allowed transition is unread -> read.
type Event struct {
	id        string
	recipient string
	message   string
	createdAt time.Time
	read      bool
}

// New creates an unread event with a fresh ID.
func New(recipient, message string, at time.Time) (Event, error) {
	if recipient == "" {
		return Event{}, fmt.Errorf("recipient is required")
	}
	if message == "" {
		return Event{}, fmt.Errorf("message is required")
	}
	if len(message) > MaxMessageSize {
		return Event{}, fmt.Errorf("message too large (max %d bytes)", MaxMessageSize)
	}
	return Event{
		id:        uuid.NewString(),
		recipient: recipient,
		message:   message,
		createdAt: at.UTC(),
	}, nil
}

// Reconstruct creates an Event without validation (storage hydration).
func Reconstruct(id, recipient, message string, createdAt time.Time, read bool) Event {
	return Event{id: id, recipient: recipient, message: message, createdAt: createdAt, read: read}
}

// ID returns the event identifier.
func (e *Event) ID() string { return e.id }

// Recipient returns the user the event is addressed to.
func (e *Event) Recipient() string { return e.recipient }

// Message returns the human-readable text.
func (e *Event) Message() string { return e.message }

// CreatedAt returns the creation timestamp (UTC).
func (e *Event) CreatedAt() time.Time { return e.createdAt }

// Read reports whether the recipient has seen the event.
func (e *Event) Read() bool { return e.read }

// MarkRead transitions the event to read. Returns false if it already was.
func (e *Event) MarkRead() bool {
	if e.read {
		return false
	}
	e.read = true
	return true
}
