package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ACTIVITY_RECORDED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the default Event implementation used across services.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const TypeActivityRecorded = "ACTIVITY_RECORDED"

// NewActivityRecorded builds the event published after a note mutation and its
// audit record have been committed. Consumed by the realtime activity feed.
func NewActivityRecorded(userId, activityId uuid.UUID, activityType, title, message string) BaseEvent {
	return BaseEvent{
		Type: TypeActivityRecorded,
		Data: map[string]interface{}{
			"user_id":       userId.String(),
			"activity_id":   activityId.String(),
			"activity_type": activityType,
			"title":         title,
			"message":       message,
		},
		OccurredAt: time.Now(),
	}
}
