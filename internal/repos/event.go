package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/types"
)

// EventRepo is append-only. Events are never updated or deleted once written.
type EventRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, events []*types.Event) ([]*types.Event, error)
	ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Event, error)
	ListForSessions(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID, from, to time.Time) ([]*types.Event, error)
	CountBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (int64, error)
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	repoLog := baseLog.With("repo", "EventRepo")
	return &eventRepo{db: db, log: repoLog}
}

func (er *eventRepo) CreateBatch(ctx context.Context, tx *gorm.DB, events []*types.Event) ([]*types.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	if len(events) == 0 {
		return []*types.Event{}, nil
	}
	for _, e := range events {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (er *eventRepo) ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var results []*types.Event
	if err := transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("ts ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *eventRepo) ListForSessions(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID, from, to time.Time) ([]*types.Event, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var results []*types.Event
	if len(sessionIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("session_id IN ?", sessionIDs).
		Where("ts >= ? AND ts < ?", from, to).
		Order("ts ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *eventRepo) CountBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Event{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
