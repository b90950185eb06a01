package types

import (
	"time"

	"github.com/google/uuid"
)

// Progress tracks the furthest position a user ever reached in a lesson.
// Percent never regresses and completed is one-way; the merge happens in a
// single conditional upsert so concurrent pings cannot lose updates.
type Progress struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_progress_user_lesson,unique" json:"user_id"`
	LessonID    string    `gorm:"column:lesson_id;not null;index:idx_progress_user_lesson,unique" json:"lesson_id"`
	PositionSec float64   `gorm:"not null;default:0;column:position_sec" json:"position_sec"`
	DurationSec float64   `gorm:"not null;default:0;column:duration_sec" json:"duration_sec"`
	Percent     int       `gorm:"not null;default:0" json:"percent"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`
	LastPingAt  time.Time `gorm:"not null;column:last_ping_at" json:"last_ping_at"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Progress) TableName() string { return "progress" }
