package dto

import (
	"encoding/json"
	"time"

	"notekeeper-be/internal/entity"

	"github.com/google/uuid"
)

type ListActivitiesRequest struct {
	Page       int
	Limit      int
	UnreadOnly bool
}

type ActivityResponse struct {
	Id         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	Action     string          `json:"action"`
	TargetType string          `json:"targetType,omitempty"`
	TargetId   *uuid.UUID      `json:"targetId,omitempty"`
	Title      string          `json:"title"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data,omitempty"`
	Read       bool            `json:"read"`
	ReadAt     *time.Time      `json:"readAt,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func NewActivityResponse(a *entity.Activity) *ActivityResponse {
	if a == nil {
		return nil
	}
	return &ActivityResponse{
		Id:         a.Id,
		Type:       a.Type,
		Action:     a.Action,
		TargetType: a.TargetType,
		TargetId:   a.TargetId,
		Title:      a.Title,
		Message:    a.Message,
		Data:       a.Data,
		Read:       a.IsRead,
		ReadAt:     a.ReadAt,
		CreatedAt:  a.CreatedAt,
	}
}

func NewActivityResponses(activities []*entity.Activity) []*ActivityResponse {
	responses := make([]*ActivityResponse, len(activities))
	for i, a := range activities {
		responses[i] = NewActivityResponse(a)
	}
	return responses
}

// ActivityListResponse pairs one page of activities with the caller's unread
// counter.
type ActivityListResponse struct {
	Activities  []*ActivityResponse `json:"activities"`
	UnreadCount int64               `json:"unreadCount"`
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

type DeleteAllActivitiesResponse struct {
	Deleted int64 `json:"deleted"`
}
