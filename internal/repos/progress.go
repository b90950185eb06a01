package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/types"
)

type ProgressRepo interface {
	// UpsertPing merges a watch ping into the per-(user, lesson) row in a
	// single statement. Progress never regresses: position, duration and
	// percent only grow, and once completed the row stays completed with
	// percent pinned to 100 and position pinned to duration.
	UpsertPing(ctx context.Context, tx *gorm.DB, ping *types.Progress) (*types.Progress, error)
	GetByUserAndLesson(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessonID string) (*types.Progress, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Progress, error)
	ListByUsers(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Progress, error)
	ListByLesson(ctx context.Context, tx *gorm.DB, lessonID string) ([]*types.Progress, error)
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	repoLog := baseLog.With("repo", "ProgressRepo")
	return &progressRepo{db: db, log: repoLog}
}

func (pr *progressRepo) UpsertPing(ctx context.Context, tx *gorm.DB, ping *types.Progress) (*types.Progress, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if ping.ID == uuid.Nil {
		ping.ID = uuid.New()
	}
	now := time.Now().UTC()

	// Percent is recomputed from the merged position and duration so a ping
	// reporting a shorter video than previously seen cannot inflate it, then
	// floored at the stored value so it never regresses. SQLite spells
	// two-argument GREATEST as MAX.
	greatest := "GREATEST"
	if transaction.Dialector.Name() == "sqlite" {
		greatest = "MAX"
	}
	query := fmt.Sprintf(`
		INSERT INTO progress
			(id, user_id, lesson_id, position_sec, duration_sec, percent, completed, last_ping_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, lesson_id) DO UPDATE SET
			duration_sec = %[1]s(progress.duration_sec, EXCLUDED.duration_sec),
			position_sec = CASE
				WHEN progress.completed OR EXCLUDED.completed
					THEN %[1]s(progress.duration_sec, EXCLUDED.duration_sec)
				ELSE %[1]s(progress.position_sec, EXCLUDED.position_sec)
			END,
			percent = CASE
				WHEN progress.completed OR EXCLUDED.completed THEN 100
				ELSE %[1]s(progress.percent, COALESCE(CAST(ROUND(
					100.0 * %[1]s(progress.position_sec, EXCLUDED.position_sec)
					/ NULLIF(%[1]s(progress.duration_sec, EXCLUDED.duration_sec), 0)
				) AS INTEGER), 0))
			END,
			completed = progress.completed OR EXCLUDED.completed,
			last_ping_at = EXCLUDED.last_ping_at,
			updated_at = EXCLUDED.updated_at
		RETURNING *`, greatest)

	var result types.Progress
	err := transaction.WithContext(ctx).Raw(query,
		ping.ID, ping.UserID, ping.LessonID,
		ping.PositionSec, ping.DurationSec, ping.Percent, ping.Completed,
		ping.LastPingAt, now, now,
	).Scan(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *progressRepo) GetByUserAndLesson(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessonID string) (*types.Progress, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result types.Progress
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *progressRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Progress, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Progress
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *progressRepo) ListByUsers(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Progress, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Progress
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *progressRepo) ListByLesson(ctx context.Context, tx *gorm.DB, lessonID string) ([]*types.Progress, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Progress
	if err := transaction.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
