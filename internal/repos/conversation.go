package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/types"
)

type ConversationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, convo *types.Conversation) (*types.Conversation, error)
	GetByID(ctx context.Context, tx *gorm.DB, convoID uuid.UUID) (*types.Conversation, error)
	// GetByPair looks up the conversation for a teacher/parent pair, further
	// scoped by child when one is given.
	GetByPair(ctx context.Context, tx *gorm.DB, teacherID, parentID uuid.UUID, childID *uuid.UUID) (*types.Conversation, error)
	ListByParticipant(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Conversation, error)
	UpdateLastMessage(ctx context.Context, tx *gorm.DB, convoID uuid.UUID, at time.Time, preview string) error
}

type conversationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConversationRepo(db *gorm.DB, baseLog *logger.Logger) ConversationRepo {
	repoLog := baseLog.With("repo", "ConversationRepo")
	return &conversationRepo{db: db, log: repoLog}
}

func (cr *conversationRepo) Create(ctx context.Context, tx *gorm.DB, convo *types.Conversation) (*types.Conversation, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if convo.ID == uuid.Nil {
		convo.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(convo).Error; err != nil {
		return nil, err
	}
	return convo, nil
}

func (cr *conversationRepo) GetByID(ctx context.Context, tx *gorm.DB, convoID uuid.UUID) (*types.Conversation, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.Conversation
	if err := transaction.WithContext(ctx).
		Where("id = ?", convoID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *conversationRepo) GetByPair(ctx context.Context, tx *gorm.DB, teacherID, parentID uuid.UUID, childID *uuid.UUID) (*types.Conversation, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	query := transaction.WithContext(ctx).
		Where("teacher_id = ? AND parent_id = ?", teacherID, parentID)
	if childID != nil {
		query = query.Where("child_id = ?", *childID)
	} else {
		query = query.Where("child_id IS NULL")
	}
	var result types.Conversation
	if err := query.First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *conversationRepo) ListByParticipant(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Conversation, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Conversation
	if err := transaction.WithContext(ctx).
		Where("teacher_id = ? OR parent_id = ?", userID, userID).
		Order("last_message_at DESC NULLS LAST").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *conversationRepo) UpdateLastMessage(ctx context.Context, tx *gorm.DB, convoID uuid.UUID, at time.Time, preview string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Conversation{}).
		Where("id = ?", convoID).
		Updates(map[string]interface{}{
			"last_message_at":      at,
			"last_message_preview": preview,
		}).Error
}
