package dto

import "github.com/google/uuid"

// InvalidateCacheMessage is published on the in-process bus after every
// committed mutation so the read-model cache drops the owner's entries.
type InvalidateCacheMessage struct {
	UserId uuid.UUID `json:"user_id"`
}
