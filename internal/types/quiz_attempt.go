package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	AttemptStatusCompleted = "completed"
	AttemptStatusAbandoned = "abandoned"
)

// AttemptAnswer is one graded answer inside QuizAttempt.Answers.
type AttemptAnswer struct {
	QuestionID       uuid.UUID `json:"question_id"`
	SelectedOptionID string    `json:"selected_option_id"`
	IsCorrect        bool      `json:"is_correct"`
	TimeTakenSec     int       `json:"time_taken_sec,omitempty"`
}

// QuizAttempt is the immutable record of one grading pass. Rows are inserted
// once and never updated.
type QuizAttempt struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_attempt_user_quiz" json:"user_id"`
	QuizID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_attempt_user_quiz" json:"quiz_id"`
	LessonID    string         `gorm:"column:lesson_id;index" json:"lesson_id"`
	StartedAt   time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Answers     datatypes.JSON `gorm:"type:jsonb;not null" json:"answers"`
	Correct     int            `gorm:"not null;default:0" json:"correct"`
	Total       int            `gorm:"not null;default:0" json:"total"`
	ScorePct    int            `gorm:"not null;default:0;column:score_pct" json:"score_pct"`
	Status      string         `gorm:"not null;default:'completed'" json:"status"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
}

func (QuizAttempt) TableName() string { return "quiz_attempt" }
