package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuizSettings struct {
	AllowRetry     bool `gorm:"column:settings_allow_retry;not null;default:true" json:"allow_retry"`
	MaxAttempts    int  `gorm:"column:settings_max_attempts;not null;default:3" json:"max_attempts"`
	ShuffleOptions bool `gorm:"column:settings_shuffle_options;not null;default:true" json:"shuffle_options"`
	PassingScore   int  `gorm:"column:settings_passing_score;not null;default:60" json:"passing_score"`
}

type Quiz struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string          `gorm:"not null" json:"title"`
	LessonID  string          `gorm:"column:lesson_id;index" json:"lesson_id"`
	IsActive  bool            `gorm:"not null;default:true;column:is_active" json:"is_active"`
	Language  string          `gorm:"not null;default:'en'" json:"language"`
	Settings  QuizSettings    `gorm:"embedded" json:"settings"`
	Questions []*QuizQuestion `gorm:"foreignKey:QuizID;references:ID" json:"questions,omitempty"`
	CreatedBy uuid.UUID       `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`
}

func (Quiz) TableName() string { return "quiz" }

// QuizOption is one choice inside a question's options jsonb array. The id is
// a stable client token referenced by submitted answers.
type QuizOption struct {
	ID        string `json:"id"`
	LabelText string `json:"label_text,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

// QuizQuestion holds 2-4 options and the answer key. CorrectOptionID is never
// serialized; student-facing reads go through the sanitized view.
type QuizQuestion struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Type            string         `gorm:"not null;default:'single'" json:"type"`
	PromptText      string         `gorm:"column:prompt_text" json:"prompt_text,omitempty"`
	PromptImageURL  string         `gorm:"column:prompt_image_url" json:"prompt_image_url,omitempty"`
	PromptAudioURL  string         `gorm:"column:prompt_audio_url" json:"prompt_audio_url,omitempty"`
	Options         datatypes.JSON `gorm:"type:jsonb;not null" json:"options"`
	CorrectOptionID string         `gorm:"not null;column:correct_option_id" json:"-"`
	Order           int            `gorm:"column:question_order;not null;default:0" json:"order"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
}

func (QuizQuestion) TableName() string { return "quiz_question" }
