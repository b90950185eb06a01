package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Session is one learning session for a student. EndedAt stays nil while the
// session is open.
type Session struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User          `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	LessonID   string         `gorm:"column:lesson_id;index" json:"lesson_id"`
	StartedAt  time.Time      `gorm:"not null;index" json:"started_at"`
	EndedAt    *time.Time     `gorm:"column:ended_at" json:"ended_at,omitempty"`
	DeviceInfo datatypes.JSON `gorm:"type:jsonb;column:device_info" json:"device_info,omitempty"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
}

func (Session) TableName() string { return "session" }
