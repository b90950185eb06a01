package types

import (
	"time"

	"github.com/google/uuid"
)

// GuardianAssignment links one parent account to one student account. The
// unique index on student_id is the authority for "a student has at most one
// guardian"; the service pre-check only exists to produce a readable conflict
// report.
type GuardianAssignment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ParentID   uuid.UUID `gorm:"type:uuid;not null;index" json:"parent_id"`
	Parent     *User     `gorm:"foreignKey:ParentID;references:ID" json:"parent,omitempty"`
	StudentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"student_id"`
	Student    *User     `gorm:"foreignKey:StudentID;references:ID" json:"student,omitempty"`
	AssignedBy uuid.UUID `gorm:"type:uuid;not null" json:"assigned_by"`
	Note       string    `gorm:"column:note" json:"note,omitempty"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (GuardianAssignment) TableName() string { return "guardian_assignment" }
