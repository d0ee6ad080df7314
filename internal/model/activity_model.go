package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Activity stores the append-only audit history, one row per mutation.
type Activity struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;index:idx_activities_user_created,priority:1;index:idx_activities_user_unread,priority:1"`
	Type       string         `gorm:"type:varchar(50);not null;index:idx_activities_type"`
	Action     string         `gorm:"type:varchar(50);not null"`
	TargetType string         `gorm:"type:varchar(50)"`
	TargetId   *uuid.UUID     `gorm:"type:uuid"`
	Title      string         `gorm:"type:varchar(200);not null"`
	Message    string         `gorm:"type:text;not null"`
	Data       datatypes.JSON `gorm:"type:jsonb"`
	IsRead     bool           `gorm:"not null;default:false;index:idx_activities_user_unread,priority:2"`
	ReadAt     *time.Time     `gorm:""`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index:idx_activities_user_created,priority:2"`
}

func (Activity) TableName() string {
	return "activities"
}
