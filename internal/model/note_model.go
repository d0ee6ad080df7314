package model

import (
	"time"

	"github.com/google/uuid"
)

// Note uses an explicit IsDeleted/DeletedAt pair instead of gorm.DeletedAt:
// trashed notes stay queryable through normal scopes and the flag/timestamp
// pairing is part of the domain contract.
type Note struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID  `gorm:"type:uuid;not null;index:idx_notes_user,priority:1"`
	Title        string     `gorm:"type:varchar(255);not null"`
	Content      string     `gorm:"type:text;not null"`
	Synopsis     string     `gorm:"type:text"`
	IsPinned     bool       `gorm:"not null;default:false"`
	PinnedAt     *time.Time `gorm:""`
	IsFavorite   bool       `gorm:"not null;default:false"`
	FavoritedAt  *time.Time `gorm:""`
	IsBookmarked bool       `gorm:"not null;default:false"`
	BookmarkedAt *time.Time `gorm:""`
	IsDeleted    bool       `gorm:"not null;default:false;index:idx_notes_user,priority:2"`
	DeletedAt    *time.Time `gorm:"index"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime:false;index"`
}

func (Note) TableName() string {
	return "notes"
}
