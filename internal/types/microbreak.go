package types

import (
	"time"

	"github.com/google/uuid"
)

// MicroBreak is a short activity shown to students between lessons.
type MicroBreak struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	YoutubeURL  string    `gorm:"not null;column:youtube_url" json:"youtube_url"`
	BoosterText string    `gorm:"not null;column:booster_text" json:"booster_text"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by"`
	IsActive    bool      `gorm:"not null;default:true;index;column:is_active" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (MicroBreak) TableName() string { return "micro_break" }
