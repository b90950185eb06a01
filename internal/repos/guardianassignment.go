package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/types"
)

// GuardianAssignmentRepo persists the parent/student link table. A student
// has at most one guardian; the unique index on student_id enforces it and
// Create surfaces the conflict through IsUniqueViolation.
type GuardianListFilter struct {
	ParentID  *uuid.UUID
	StudentID *uuid.UUID
}

type GuardianAssignmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assignment *types.GuardianAssignment) (*types.GuardianAssignment, error)
	GetByID(ctx context.Context, tx *gorm.DB, assignmentID uuid.UUID) (*types.GuardianAssignment, error)
	GetByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.GuardianAssignment, error)
	ListByParent(ctx context.Context, tx *gorm.DB, parentID uuid.UUID) ([]*types.GuardianAssignment, error)
	ListAll(ctx context.Context, tx *gorm.DB, filter GuardianListFilter) ([]*types.GuardianAssignment, error)
	Exists(ctx context.Context, tx *gorm.DB, parentID, studentID uuid.UUID) (bool, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, assignmentID uuid.UUID) (int64, error)
	DeleteByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (int64, error)
	DeleteByParent(ctx context.Context, tx *gorm.DB, parentID uuid.UUID) (int64, error)
}

type guardianAssignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGuardianAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) GuardianAssignmentRepo {
	repoLog := baseLog.With("repo", "GuardianAssignmentRepo")
	return &guardianAssignmentRepo{db: db, log: repoLog}
}

func (gr *guardianAssignmentRepo) Create(ctx context.Context, tx *gorm.DB, assignment *types.GuardianAssignment) (*types.GuardianAssignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(assignment).Error; err != nil {
		return nil, err
	}
	return assignment, nil
}

func (gr *guardianAssignmentRepo) GetByID(ctx context.Context, tx *gorm.DB, assignmentID uuid.UUID) (*types.GuardianAssignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	var result types.GuardianAssignment
	if err := transaction.WithContext(ctx).
		Where("id = ?", assignmentID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (gr *guardianAssignmentRepo) GetByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.GuardianAssignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	var result types.GuardianAssignment
	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (gr *guardianAssignmentRepo) ListByParent(ctx context.Context, tx *gorm.DB, parentID uuid.UUID) ([]*types.GuardianAssignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	var results []*types.GuardianAssignment
	if err := transaction.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gr *guardianAssignmentRepo) ListAll(ctx context.Context, tx *gorm.DB, filter GuardianListFilter) ([]*types.GuardianAssignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	query := transaction.WithContext(ctx).Model(&types.GuardianAssignment{})
	if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	var results []*types.GuardianAssignment
	if err := query.Order("created_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gr *guardianAssignmentRepo) Exists(ctx context.Context, tx *gorm.DB, parentID, studentID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.GuardianAssignment{}).
		Where("parent_id = ? AND student_id = ?", parentID, studentID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (gr *guardianAssignmentRepo) DeleteByID(ctx context.Context, tx *gorm.DB, assignmentID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ?", assignmentID).
		Delete(&types.GuardianAssignment{})
	return res.RowsAffected, res.Error
}

func (gr *guardianAssignmentRepo) DeleteByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	res := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&types.GuardianAssignment{})
	return res.RowsAffected, res.Error
}

func (gr *guardianAssignmentRepo) DeleteByParent(ctx context.Context, tx *gorm.DB, parentID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	res := transaction.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Delete(&types.GuardianAssignment{})
	return res.RowsAffected, res.Error
}
