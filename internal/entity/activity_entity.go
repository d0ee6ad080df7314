package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Activity is an immutable audit entry describing one user-visible mutation.
// Only IsRead/ReadAt ever change after creation.
type Activity struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	Type       string
	Action     string
	TargetType string
	TargetId   *uuid.UUID
	Title      string
	Message    string
	Data       json.RawMessage
	IsRead     bool
	ReadAt     *time.Time
	CreatedAt  time.Time
}
