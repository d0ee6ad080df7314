package entity

import (
	"time"

	"github.com/google/uuid"
)

// Note is the domain form of a user-owned document. Each organizational flag
// carries a paired timestamp that is set iff the flag is set; the same holds
// for IsDeleted/DeletedAt.
type Note struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Title        string
	Content      string
	Synopsis     string
	IsPinned     bool
	PinnedAt     *time.Time
	IsFavorite   bool
	FavoritedAt  *time.Time
	IsBookmarked bool
	BookmarkedAt *time.Time
	IsDeleted    bool
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
