package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/happypath-backend/internal/apierr"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/repos"
	"github.com/yungbote/happypath-backend/internal/types"
	"github.com/yungbote/happypath-backend/internal/youtube"
)

type MicroBreakInput struct {
	Title       string
	YoutubeURL  string
	BoosterText string
	IsActive    *bool
}

type MicroBreakService interface {
	Create(ctx context.Context, creatorID uuid.UUID, input MicroBreakInput) (*types.MicroBreak, error)
	Get(ctx context.Context, mbID uuid.UUID) (*types.MicroBreak, error)
	List(ctx context.Context, activeOnly bool) ([]*types.MicroBreak, error)
	Update(ctx context.Context, mbID uuid.UUID, input MicroBreakInput) (*types.MicroBreak, error)
	Delete(ctx context.Context, mbID uuid.UUID) error
}

type microBreakService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.MicroBreakRepo
}

func NewMicroBreakService(db *gorm.DB, log *logger.Logger, repo repos.MicroBreakRepo) MicroBreakService {
	serviceLog := log.With("service", "MicroBreakService")
	return &microBreakService{db: db, log: serviceLog, repo: repo}
}

func (ms *microBreakService) Create(ctx context.Context, creatorID uuid.UUID, input MicroBreakInput) (*types.MicroBreak, error) {
	title := strings.TrimSpace(input.Title)
	url := strings.TrimSpace(input.YoutubeURL)
	if title == "" || url == "" {
		return nil, apierr.Validation("title and youtube_url are required")
	}
	if youtube.ExtractID(url) == "" {
		return nil, apierr.Validation("youtube_url is not a recognizable youtube url")
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	mb := &types.MicroBreak{
		ID:          uuid.New(),
		Title:       title,
		YoutubeURL:  url,
		BoosterText: strings.TrimSpace(input.BoosterText),
		CreatedBy:   creatorID,
		IsActive:    active,
	}
	if _, err := ms.repo.Create(ctx, nil, mb); err != nil {
		return nil, apierr.Internal(err)
	}
	return mb, nil
}

func (ms *microBreakService) Get(ctx context.Context, mbID uuid.UUID) (*types.MicroBreak, error) {
	mb, err := ms.repo.GetByID(ctx, nil, mbID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("micro-break not found")
		}
		return nil, apierr.Internal(err)
	}
	return mb, nil
}

func (ms *microBreakService) List(ctx context.Context, activeOnly bool) ([]*types.MicroBreak, error) {
	breaks, err := ms.repo.List(ctx, nil, activeOnly)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return breaks, nil
}

func (ms *microBreakService) Update(ctx context.Context, mbID uuid.UUID, input MicroBreakInput) (*types.MicroBreak, error) {
	mb, err := ms.repo.GetByID(ctx, nil, mbID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("micro-break not found")
		}
		return nil, apierr.Internal(err)
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		mb.Title = title
	}
	if url := strings.TrimSpace(input.YoutubeURL); url != "" {
		if youtube.ExtractID(url) == "" {
			return nil, apierr.Validation("youtube_url is not a recognizable youtube url")
		}
		mb.YoutubeURL = url
	}
	if booster := strings.TrimSpace(input.BoosterText); booster != "" {
		mb.BoosterText = booster
	}
	if input.IsActive != nil {
		mb.IsActive = *input.IsActive
	}

	if _, err := ms.repo.Update(ctx, nil, mb); err != nil {
		return nil, apierr.Internal(err)
	}
	return mb, nil
}

func (ms *microBreakService) Delete(ctx context.Context, mbID uuid.UUID) error {
	if _, err := ms.repo.GetByID(ctx, nil, mbID); err != nil {
		if repos.IsNotFound(err) {
			return apierr.NotFound("micro-break not found")
		}
		return apierr.Internal(err)
	}
	if err := ms.repo.Delete(ctx, nil, mbID); err != nil {
		return apierr.Internal(err)
	}
	return nil
}
