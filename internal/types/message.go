package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Message struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID      `gorm:"type:uuid;not null;index:idx_message_convo_created" json:"conversation_id"`
	SenderID       uuid.UUID      `gorm:"type:uuid;not null" json:"sender_id"`
	SenderRole     string         `gorm:"not null;column:sender_role" json:"sender_role"`
	Text           string         `gorm:"column:text" json:"text"`
	Attachments    datatypes.JSON `gorm:"type:jsonb;column:attachments" json:"attachments,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;index:idx_message_convo_created" json:"created_at"`
}

func (Message) TableName() string { return "message" }

// MessageRead marks a message as read by one user. Read state is tracked per
// recipient row, never shared.
type MessageRead struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MessageID uuid.UUID `gorm:"type:uuid;not null;index:idx_message_read_pair,unique" json:"message_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_message_read_pair,unique" json:"user_id"`
	ReadAt    time.Time `gorm:"not null;column:read_at" json:"read_at"`
}

func (MessageRead) TableName() string { return "message_read" }
