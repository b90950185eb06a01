package types

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is always one teacher plus one parent, optionally scoped to a
// specific child. Creation is idempotent per (teacher, parent, child).
type Conversation struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherID          uuid.UUID  `gorm:"type:uuid;not null;index:idx_convo_pair" json:"teacher_id"`
	Teacher            *User      `gorm:"foreignKey:TeacherID;references:ID" json:"teacher,omitempty"`
	ParentID           uuid.UUID  `gorm:"type:uuid;not null;index:idx_convo_pair" json:"parent_id"`
	Parent             *User      `gorm:"foreignKey:ParentID;references:ID" json:"parent,omitempty"`
	ChildID            *uuid.UUID `gorm:"type:uuid;column:child_id" json:"child_id,omitempty"`
	LastMessageAt      time.Time  `gorm:"not null;index;column:last_message_at" json:"last_message_at"`
	LastMessagePreview string     `gorm:"column:last_message_preview" json:"last_message_preview"`
	CreatedAt          time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"not null" json:"updated_at"`
}

func (Conversation) TableName() string { return "conversation" }
