package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/happypath-backend/internal/apierr"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/repos"
	"github.com/yungbote/happypath-backend/internal/requestdata"
	"github.com/yungbote/happypath-backend/internal/types"
)

const (
	// maxLessonDurationSec caps reported video durations at 24 hours.
	maxLessonDurationSec = 24 * 60 * 60
	// completionThresholdPct is the watch percentage at which a lesson
	// auto-completes.
	completionThresholdPct = 95
)

type PingInput struct {
	LessonID    string
	PositionSec float64
	DurationSec float64
}

type ProgressService interface {
	Ping(ctx context.Context, studentID uuid.UUID, input PingInput) (*types.Progress, error)
	ForUser(ctx context.Context, viewer requestdata.RequestData, userID uuid.UUID) ([]*types.Progress, error)
	ForUserAndLesson(ctx context.Context, viewer requestdata.RequestData, userID uuid.UUID, lessonID string) (*types.Progress, error)
	ForLesson(ctx context.Context, lessonID string) ([]*types.Progress, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	progressRepo repos.ProgressRepo
	access       AccessService
}

func NewProgressService(
	db *gorm.DB,
	log *logger.Logger,
	progressRepo repos.ProgressRepo,
	access AccessService,
) ProgressService {
	serviceLog := log.With("service", "ProgressService")
	return &progressService{
		db:           db,
		log:          serviceLog,
		progressRepo: progressRepo,
		access:       access,
	}
}

func (ps *progressService) Ping(ctx context.Context, studentID uuid.UUID, input PingInput) (*types.Progress, error) {
	lessonID := strings.TrimSpace(input.LessonID)
	if lessonID == "" {
		return nil, apierr.Validation("lesson_id is required")
	}
	position, duration, percent, completed, err := computePing(input.PositionSec, input.DurationSec)
	if err != nil {
		return nil, err
	}

	progress, uErr := ps.progressRepo.UpsertPing(ctx, nil, &types.Progress{
		UserID:      studentID,
		LessonID:    lessonID,
		PositionSec: position,
		DurationSec: duration,
		Percent:     percent,
		Completed:   completed,
		LastPingAt:  time.Now().UTC(),
	})
	if uErr != nil {
		return nil, apierr.Internal(uErr)
	}
	return progress, nil
}

func (ps *progressService) ForUser(ctx context.Context, viewer requestdata.RequestData, userID uuid.UUID) ([]*types.Progress, error) {
	if err := ps.access.CanViewLearner(ctx, viewer, userID); err != nil {
		return nil, err
	}
	rows, err := ps.progressRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return rows, nil
}

func (ps *progressService) ForUserAndLesson(ctx context.Context, viewer requestdata.RequestData, userID uuid.UUID, lessonID string) (*types.Progress, error) {
	if err := ps.access.CanViewLearner(ctx, viewer, userID); err != nil {
		return nil, err
	}
	row, err := ps.progressRepo.GetByUserAndLesson(ctx, nil, userID, lessonID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("no progress recorded for this lesson")
		}
		return nil, apierr.Internal(err)
	}
	return row, nil
}

func (ps *progressService) ForLesson(ctx context.Context, lessonID string) ([]*types.Progress, error) {
	rows, err := ps.progressRepo.ListByLesson(ctx, nil, lessonID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return rows, nil
}

// computePing normalizes one watch ping: negative values are rejected,
// duration is capped at 24 hours, position is clamped into [0, duration], and
// completion kicks in at 95 percent.
func computePing(positionSec, durationSec float64) (float64, float64, int, bool, error) {
	if positionSec < 0 || durationSec < 0 {
		return 0, 0, 0, false, apierr.Validation("position_sec and duration_sec must be non-negative")
	}
	if durationSec > maxLessonDurationSec {
		durationSec = maxLessonDurationSec
	}
	if positionSec > durationSec {
		positionSec = durationSec
	}
	percent := 0
	if durationSec > 0 {
		percent = int(math.Round(positionSec / durationSec * 100))
	}
	completed := percent >= completionThresholdPct
	if completed {
		percent = 100
		positionSec = durationSec
	}
	return positionSec, durationSec, percent, completed, nil
}
