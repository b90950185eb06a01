package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/types"
)

type NotificationListFilter struct {
	UnreadOnly bool
	Purpose    string
	Limit      int
	Offset     int
}

type NotificationRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, notifications []*types.Notification) ([]*types.Notification, error)
	GetByID(ctx context.Context, tx *gorm.DB, notificationID uuid.UUID) (*types.Notification, error)
	ListByRecipient(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, filter NotificationListFilter) ([]*types.Notification, int64, error)
	ListBySender(ctx context.Context, tx *gorm.DB, senderID uuid.UUID, limit, offset int) ([]*types.Notification, int64, error)
	MarkRead(ctx context.Context, tx *gorm.DB, notificationID, recipientID uuid.UUID, at time.Time) (int64, error)
	MarkAllRead(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, at time.Time) (int64, error)
	UnreadCount(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID) (int64, error)
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	repoLog := baseLog.With("repo", "NotificationRepo")
	return &notificationRepo{db: db, log: repoLog}
}

func (nr *notificationRepo) CreateBatch(ctx context.Context, tx *gorm.DB, notifications []*types.Notification) ([]*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	if len(notifications) == 0 {
		return []*types.Notification{}, nil
	}
	for _, n := range notifications {
		if n.ID == uuid.Nil {
			n.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (nr *notificationRepo) GetByID(ctx context.Context, tx *gorm.DB, notificationID uuid.UUID) (*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	var result types.Notification
	if err := transaction.WithContext(ctx).
		Where("id = ?", notificationID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (nr *notificationRepo) ListByRecipient(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, filter NotificationListFilter) ([]*types.Notification, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("recipient_id = ?", recipientID)
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if filter.Purpose != "" {
		query = query.Where("purpose = ?", filter.Purpose)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var results []*types.Notification
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (nr *notificationRepo) ListBySender(ctx context.Context, tx *gorm.DB, senderID uuid.UUID, limit, offset int) ([]*types.Notification, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("sender_id = ?", senderID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var results []*types.Notification
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (nr *notificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, notificationID, recipientID uuid.UUID, at time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return res.RowsAffected, res.Error
}

func (nr *notificationRepo) MarkAllRead(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, at time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return res.RowsAffected, res.Error
}

func (nr *notificationRepo) UnreadCount(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
