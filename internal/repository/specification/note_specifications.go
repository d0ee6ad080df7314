package specification

import (
	"time"

	"gorm.io/gorm"
)

// ActiveOnly keeps notes that are not in the trash.
type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// TrashedOnly keeps notes currently in the trash.
type TrashedOnly struct{}

func (s TrashedOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", true)
}

type PinnedOnly struct{}

func (s PinnedOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_pinned = ?", true)
}

type FavoritesOnly struct{}

func (s FavoritesOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_favorite = ?", true)
}

type BookmarkedOnly struct{}

func (s BookmarkedOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_bookmarked = ?", true)
}

// NoteSearchQuery matches the query as a case-insensitive substring of the
// title, content or synopsis (ILIKE, Postgres).
type NoteSearchQuery struct {
	Query string
}

func (s NoteSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("title ILIKE ? OR content ILIKE ? OR synopsis ILIKE ?", pattern, pattern, pattern)
}

// PinnedFirst orders listings with pinned notes ahead of the rest, most
// recently updated first within each group.
type PinnedFirst struct{}

func (s PinnedFirst) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("is_pinned DESC, updated_at DESC")
}

// UpdatedDesc orders by recency only.
type UpdatedDesc struct{}

func (s UpdatedDesc) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("updated_at DESC")
}

// DeletedBefore keeps trashed notes whose deletion is older than the cutoff.
// Used by the trash sweeper.
type DeletedBefore struct {
	Cutoff time.Time
}

func (s DeletedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at < ?", s.Cutoff)
}

// CreatedSince keeps notes created at or after the given time.
type CreatedSince struct {
	Since time.Time
}

func (s CreatedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.Since)
}
