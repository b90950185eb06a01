package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/happypath-backend/internal/apierr"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/repos"
	"github.com/yungbote/happypath-backend/internal/requestdata"
	"github.com/yungbote/happypath-backend/internal/types"
	"github.com/yungbote/happypath-backend/internal/youtube"
)

type LessonInput struct {
	Title       string
	Description string
	Goal        string
	Category    string
	Level       string
	VideoURL    string
	Status      string
}

type LessonService interface {
	Create(ctx context.Context, creatorID uuid.UUID, input LessonInput) (*types.Lesson, error)
	Get(ctx context.Context, viewer requestdata.RequestData, lessonID uuid.UUID) (*types.Lesson, error)
	List(ctx context.Context, viewer requestdata.RequestData, filter repos.LessonListFilter) ([]*types.Lesson, int64, error)
	Update(ctx context.Context, actor requestdata.RequestData, lessonID uuid.UUID, input LessonInput) (*types.Lesson, error)
	Delete(ctx context.Context, actor requestdata.RequestData, lessonID uuid.UUID) error
}

type lessonService struct {
	db         *gorm.DB
	log        *logger.Logger
	lessonRepo repos.LessonRepo
}

func NewLessonService(db *gorm.DB, log *logger.Logger, lessonRepo repos.LessonRepo) LessonService {
	serviceLog := log.With("service", "LessonService")
	return &lessonService{db: db, log: serviceLog, lessonRepo: lessonRepo}
}

func (ls *lessonService) Create(ctx context.Context, creatorID uuid.UUID, input LessonInput) (*types.Lesson, error) {
	lesson, err := buildLesson(input)
	if err != nil {
		return nil, err
	}
	lesson.ID = uuid.New()
	lesson.CreatedBy = creatorID

	if _, err := ls.lessonRepo.Create(ctx, nil, lesson); err != nil {
		return nil, apierr.Internal(err)
	}
	ls.log.Info("lesson created", "lesson_id", lesson.ID, "category", lesson.Category)
	return lesson, nil
}

func (ls *lessonService) Get(ctx context.Context, viewer requestdata.RequestData, lessonID uuid.UUID) (*types.Lesson, error) {
	lesson, err := ls.lessonRepo.GetByID(ctx, nil, lessonID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("lesson not found")
		}
		return nil, apierr.Internal(err)
	}
	if lesson.Status != types.LessonStatusPublished && !canSeeDrafts(viewer) {
		// drafts are invisible, not forbidden
		return nil, apierr.NotFound("lesson not found")
	}
	return lesson, nil
}

func (ls *lessonService) List(ctx context.Context, viewer requestdata.RequestData, filter repos.LessonListFilter) ([]*types.Lesson, int64, error) {
	if !canSeeDrafts(viewer) {
		filter.Status = types.LessonStatusPublished
	}
	if filter.Category != "" && !types.ValidLessonCategory(filter.Category) {
		return nil, 0, apierr.Validation("invalid category %q", filter.Category)
	}
	if filter.Level != "" && !types.ValidLessonLevel(filter.Level) {
		return nil, 0, apierr.Validation("invalid level %q", filter.Level)
	}
	lessons, total, err := ls.lessonRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, 0, apierr.Internal(err)
	}
	return lessons, total, nil
}

func (ls *lessonService) Update(ctx context.Context, actor requestdata.RequestData, lessonID uuid.UUID, input LessonInput) (*types.Lesson, error) {
	existing, err := ls.lessonRepo.GetByID(ctx, nil, lessonID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("lesson not found")
		}
		return nil, apierr.Internal(err)
	}
	if actor.Role == types.RoleTeacher && existing.CreatedBy != actor.UserID {
		return nil, apierr.Forbidden("teachers may only edit their own lessons")
	}

	updated, err := buildLesson(input)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedBy = existing.CreatedBy
	updated.CreatedAt = existing.CreatedAt

	if _, err := ls.lessonRepo.Update(ctx, nil, updated); err != nil {
		return nil, apierr.Internal(err)
	}
	return updated, nil
}

func (ls *lessonService) Delete(ctx context.Context, actor requestdata.RequestData, lessonID uuid.UUID) error {
	existing, err := ls.lessonRepo.GetByID(ctx, nil, lessonID)
	if err != nil {
		if repos.IsNotFound(err) {
			return apierr.NotFound("lesson not found")
		}
		return apierr.Internal(err)
	}
	if actor.Role == types.RoleTeacher && existing.CreatedBy != actor.UserID {
		return apierr.Forbidden("teachers may only delete their own lessons")
	}
	if err := ls.lessonRepo.Delete(ctx, nil, lessonID); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

func canSeeDrafts(viewer requestdata.RequestData) bool {
	return viewer.Role == types.RoleTeacher || viewer.Role == types.RoleAdmin
}

// buildLesson validates the input and derives the video id and thumbnail from
// the youtube URL.
func buildLesson(input LessonInput) (*types.Lesson, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apierr.Validation("title is required")
	}
	if !types.ValidLessonCategory(input.Category) {
		return nil, apierr.Validation("invalid category %q", input.Category)
	}
	if !types.ValidLessonLevel(input.Level) {
		return nil, apierr.Validation("invalid level %q", input.Level)
	}
	status := input.Status
	if status == "" {
		status = types.LessonStatusPublished
	}
	if status != types.LessonStatusDraft && status != types.LessonStatusPublished {
		return nil, apierr.Validation("invalid status %q", status)
	}

	videoURL := strings.TrimSpace(input.VideoURL)
	videoID := youtube.ExtractID(videoURL)
	if videoID == "" {
		return nil, apierr.Validation("video_url is not a recognizable youtube url")
	}

	return &types.Lesson{
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		Goal:         strings.TrimSpace(input.Goal),
		Category:     input.Category,
		Level:        input.Level,
		VideoURL:     videoURL,
		VideoID:      videoID,
		ThumbnailURL: youtube.ThumbURL(videoID, "hq"),
		Status:       status,
	}, nil
}
