package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/types"
)

type MicroBreakRepo interface {
	Create(ctx context.Context, tx *gorm.DB, mb *types.MicroBreak) (*types.MicroBreak, error)
	GetByID(ctx context.Context, tx *gorm.DB, mbID uuid.UUID) (*types.MicroBreak, error)
	List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.MicroBreak, error)
	Update(ctx context.Context, tx *gorm.DB, mb *types.MicroBreak) (*types.MicroBreak, error)
	Delete(ctx context.Context, tx *gorm.DB, mbID uuid.UUID) error
}

type microBreakRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMicroBreakRepo(db *gorm.DB, baseLog *logger.Logger) MicroBreakRepo {
	repoLog := baseLog.With("repo", "MicroBreakRepo")
	return &microBreakRepo{db: db, log: repoLog}
}

func (mr *microBreakRepo) Create(ctx context.Context, tx *gorm.DB, mb *types.MicroBreak) (*types.MicroBreak, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if mb.ID == uuid.Nil {
		mb.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(mb).Error; err != nil {
		return nil, err
	}
	return mb, nil
}

func (mr *microBreakRepo) GetByID(ctx context.Context, tx *gorm.DB, mbID uuid.UUID) (*types.MicroBreak, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var result types.MicroBreak
	if err := transaction.WithContext(ctx).
		Where("id = ?", mbID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (mr *microBreakRepo) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.MicroBreak, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	query := transaction.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var results []*types.MicroBreak
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *microBreakRepo) Update(ctx context.Context, tx *gorm.DB, mb *types.MicroBreak) (*types.MicroBreak, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if err := transaction.WithContext(ctx).Save(mb).Error; err != nil {
		return nil, err
	}
	return mb, nil
}

func (mr *microBreakRepo) Delete(ctx context.Context, tx *gorm.DB, mbID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", mbID).
		Delete(&types.MicroBreak{}).Error
}
