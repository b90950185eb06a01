package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/types"
)

type MessageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, message *types.Message) (*types.Message, error)
	ListByConversation(ctx context.Context, tx *gorm.DB, convoID uuid.UUID, limit int, before *time.Time) ([]*types.Message, error)
	// MarkRead records read receipts for the given messages. Re-reading an
	// already-read message is a no-op, not an error.
	MarkRead(ctx context.Context, tx *gorm.DB, messageIDs []uuid.UUID, userID uuid.UUID, at time.Time) error
	MarkConversationRead(ctx context.Context, tx *gorm.DB, convoID, userID uuid.UUID, at time.Time) error
	// UnreadCount counts messages in the conversation sent by someone else
	// that the given user has no read receipt for.
	UnreadCount(ctx context.Context, tx *gorm.DB, convoID, userID uuid.UUID) (int64, error)
	// UnreadTotalForUser is UnreadCount across every conversation the user
	// participates in.
	UnreadTotalForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	repoLog := baseLog.With("repo", "MessageRepo")
	return &messageRepo{db: db, log: repoLog}
}

func (mr *messageRepo) Create(ctx context.Context, tx *gorm.DB, message *types.Message) (*types.Message, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

func (mr *messageRepo) ListByConversation(ctx context.Context, tx *gorm.DB, convoID uuid.UUID, limit int, before *time.Time) ([]*types.Message, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	query := transaction.WithContext(ctx).
		Where("conversation_id = ?", convoID)
	if before != nil {
		query = query.Where("created_at < ?", *before)
	}
	if limit <= 0 {
		limit = 50
	}
	var page []*types.Message
	if err := query.Order("created_at DESC").Limit(limit).Find(&page).Error; err != nil {
		return nil, err
	}
	// newest page, oldest first
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}
	return page, nil
}

func (mr *messageRepo) MarkRead(ctx context.Context, tx *gorm.DB, messageIDs []uuid.UUID, userID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(messageIDs) == 0 {
		return nil
	}
	reads := make([]*types.MessageRead, 0, len(messageIDs))
	for _, id := range messageIDs {
		reads = append(reads, &types.MessageRead{
			ID:        uuid.New(),
			MessageID: id,
			UserID:    userID,
			ReadAt:    at,
		})
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&reads).Error
}

func (mr *messageRepo) MarkConversationRead(ctx context.Context, tx *gorm.DB, convoID, userID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var unreadIDs []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.Message{}).
		Where("conversation_id = ? AND sender_id <> ?", convoID, userID).
		Where("NOT EXISTS (SELECT 1 FROM message_read WHERE message_read.message_id = message.id AND message_read.user_id = ?)", userID).
		Pluck("id", &unreadIDs).Error; err != nil {
		return err
	}
	return mr.MarkRead(ctx, transaction, unreadIDs, userID, at)
}

func (mr *messageRepo) UnreadCount(ctx context.Context, tx *gorm.DB, convoID, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Message{}).
		Where("conversation_id = ? AND sender_id <> ?", convoID, userID).
		Where("NOT EXISTS (SELECT 1 FROM message_read WHERE message_read.message_id = message.id AND message_read.user_id = ?)", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (mr *messageRepo) UnreadTotalForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Message{}).
		Joins("JOIN conversation ON conversation.id = message.conversation_id").
		Where("(conversation.teacher_id = ? OR conversation.parent_id = ?)", userID, userID).
		Where("message.sender_id <> ?", userID).
		Where("NOT EXISTS (SELECT 1 FROM message_read WHERE message_read.message_id = message.id AND message_read.user_id = ?)", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
