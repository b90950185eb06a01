package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeAttentionAlert = "attention_alert"
	NotificationTypeProgressUpdate = "progress_update"
	NotificationTypeQuizResult     = "quiz_result"
	NotificationTypeGeneral        = "general"
	NotificationTypeSystem         = "system"

	NotificationPurposeSystem   = "system"
	NotificationPurposeLearning = "learning"
)

var NotificationTypes = []string{
	NotificationTypeAttentionAlert,
	NotificationTypeProgressUpdate,
	NotificationTypeQuizResult,
	NotificationTypeGeneral,
	NotificationTypeSystem,
}

func ValidNotificationType(t string) bool {
	for _, v := range NotificationTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Notification is a one-way, role-gated record. A send to N recipients
// materializes as N independent rows so read state is per recipient.
type Notification struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string     `gorm:"not null" json:"title"`
	Message       string     `gorm:"not null" json:"message"`
	Type          string     `gorm:"not null;default:'general'" json:"type"`
	Purpose       string     `gorm:"not null;default:'learning'" json:"purpose"`
	SenderID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"sender_id"`
	Sender        *User      `gorm:"foreignKey:SenderID;references:ID" json:"sender,omitempty"`
	SenderRole    string     `gorm:"not null;column:sender_role" json:"sender_role"`
	RecipientID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Recipient     *User      `gorm:"foreignKey:RecipientID;references:ID" json:"recipient,omitempty"`
	RecipientRole string     `gorm:"not null;column:recipient_role" json:"recipient_role"`
	IsRead        bool       `gorm:"not null;default:false;column:is_read" json:"is_read"`
	ReadAt        *time.Time `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

func (Notification) TableName() string { return "notification" }
