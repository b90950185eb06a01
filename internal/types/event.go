package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	EventTypeAttention = "attention"
	EventTypeEmotion   = "emotion"
)

// EmotionLabels is the closed vocabulary for emotion events. Daily summaries
// always report a count for every label, absent ones as zero.
var EmotionLabels = []string{"happy", "surprise", "neutral", "fear", "angry", "sad", "disgust"}

func ValidEmotionLabel(label string) bool {
	for _, l := range EmotionLabels {
		if l == label {
			return true
		}
	}
	return false
}

// Event is an append-only telemetry observation tied to a session. Exactly
// one of the attention or emotion payloads is set, selected by Type. Rows are
// never updated or deleted after insert.
type Event struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID        uuid.UUID      `gorm:"type:uuid;not null;index:idx_event_session_ts" json:"session_id"`
	Session          *Session       `gorm:"foreignKey:SessionID;references:ID" json:"session,omitempty"`
	TS               time.Time      `gorm:"column:ts;not null;index:idx_event_session_ts" json:"ts"`
	Type             string         `gorm:"column:type;not null" json:"type"`
	EmotionLabel     string         `gorm:"column:emotion_label" json:"emotion_label,omitempty"`
	EmotionScores    datatypes.JSON `gorm:"type:jsonb;column:emotion_scores" json:"emotion_scores,omitempty"`
	AttentionScore   *float64       `gorm:"column:attention_score" json:"attention_score,omitempty"`
	AttentionSignals datatypes.JSON `gorm:"type:jsonb;column:attention_signals" json:"attention_signals,omitempty"`
	LatencyMs        *int           `gorm:"column:latency_ms" json:"latency_ms,omitempty"`
	CreatedAt        time.Time      `gorm:"not null" json:"created_at"`
}

func (Event) TableName() string { return "event" }
