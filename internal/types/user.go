package types

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"not null;column:name" json:"name"`
	Email       string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password    string     `gorm:"not null;column:password" json:"-"`
	Role        string     `gorm:"not null;default:'student';index;column:role" json:"role"`
	IsActive    bool       `gorm:"not null;default:true;column:is_active" json:"is_active"`
	Avatar      string     `gorm:"column:avatar;default:'/placeholder.svg'" json:"avatar"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid;column:created_by" json:"created_by,omitempty"`
	UpdatedBy   *uuid.UUID `gorm:"type:uuid;column:updated_by" json:"updated_by,omitempty"`
	LastLoginAt *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }
