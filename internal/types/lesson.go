package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	LessonStatusDraft     = "draft"
	LessonStatusPublished = "published"
)

var LessonCategories = []string{"numbers", "letters", "colors", "shapes", "emotions"}

var LessonLevels = []string{"beginner", "intermediate", "advanced"}

func ValidLessonCategory(c string) bool {
	for _, v := range LessonCategories {
		if v == c {
			return true
		}
	}
	return false
}

func ValidLessonLevel(l string) bool {
	for _, v := range LessonLevels {
		if v == l {
			return true
		}
	}
	return false
}

// Lesson is teacher-authored video content. Draft lessons are visible only to
// teachers; everyone else sees published ones.
type Lesson struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `gorm:"not null" json:"description"`
	Goal         string    `gorm:"not null" json:"goal"`
	Category     string    `gorm:"not null" json:"category"`
	Level        string    `gorm:"not null" json:"level"`
	VideoURL     string    `gorm:"not null;column:video_url" json:"video_url"`
	VideoID      string    `gorm:"not null;column:video_id" json:"video_id"`
	ThumbnailURL string    `gorm:"not null;column:thumbnail_url" json:"thumbnail_url"`
	Status       string    `gorm:"not null;default:'published';index:idx_lesson_creator_status" json:"status"`
	CreatedBy    uuid.UUID `gorm:"type:uuid;not null;index:idx_lesson_creator_status" json:"created_by"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }
