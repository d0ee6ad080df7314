package dto

import (
	"time"

	"notekeeper-be/internal/entity"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Synopsis string `json:"synopsis"`
}

// UpdateNoteRequest carries only the fields the caller wants changed; nil
// means "leave as is".
type UpdateNoteRequest struct {
	Id       uuid.UUID
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Synopsis *string `json:"synopsis"`
}

type ToggleFlagRequest struct {
	Id      uuid.UUID
	Desired bool
}

type TogglePinBody struct {
	IsPinned *bool `json:"isPinned" validate:"required"`
}

type ToggleFavoriteBody struct {
	IsFavorite *bool `json:"isFavorite" validate:"required"`
}

type ToggleBookmarkBody struct {
	Bookmarked *bool `json:"bookmarked" validate:"required"`
}

type NoteResponse struct {
	Id           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Synopsis     string     `json:"synopsis,omitempty"`
	IsPinned     bool       `json:"isPinned"`
	PinnedAt     *time.Time `json:"pinnedAt,omitempty"`
	IsFavorite   bool       `json:"isFavorite"`
	FavoritedAt  *time.Time `json:"favoritedAt,omitempty"`
	Bookmarked   bool       `json:"bookmarked"`
	BookmarkedAt *time.Time `json:"bookmarkedAt,omitempty"`
	IsDeleted    bool       `json:"isDeleted"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func NewNoteResponse(n *entity.Note) *NoteResponse {
	if n == nil {
		return nil
	}
	return &NoteResponse{
		Id:           n.Id,
		Title:        n.Title,
		Content:      n.Content,
		Synopsis:     n.Synopsis,
		IsPinned:     n.IsPinned,
		PinnedAt:     n.PinnedAt,
		IsFavorite:   n.IsFavorite,
		FavoritedAt:  n.FavoritedAt,
		Bookmarked:   n.IsBookmarked,
		BookmarkedAt: n.BookmarkedAt,
		IsDeleted:    n.IsDeleted,
		DeletedAt:    n.DeletedAt,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}

func NewNoteResponses(notes []*entity.Note) []*NoteResponse {
	responses := make([]*NoteResponse, len(notes))
	for i, n := range notes {
		responses[i] = NewNoteResponse(n)
	}
	return responses
}

type ListNotesRequest struct {
	Page           int
	Limit          int
	Search         string
	IncludeDeleted bool
}

type EmptyTrashResponse struct {
	Count   int         `json:"count"`
	NoteIds []uuid.UUID `json:"noteIds"`
}

type NoteStatsResponse struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	Deleted int64 `json:"deleted"`
	Recent  int64 `json:"recent"`
}
