package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/happypath-backend/internal/apierr"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/repos"
	"github.com/yungbote/happypath-backend/internal/requestdata"
	"github.com/yungbote/happypath-backend/internal/types"
)

type StartSessionInput struct {
	LessonID   string
	DeviceInfo map[string]interface{}
}

type EventInput struct {
	TS               *time.Time             `json:"ts"`
	Type             string                 `json:"type"`
	EmotionLabel     string                 `json:"emotion_label"`
	EmotionScores    map[string]float64     `json:"emotion_scores"`
	AttentionScore   *float64               `json:"attention_score"`
	AttentionSignals map[string]interface{} `json:"attention_signals"`
	LatencyMs        *int                   `json:"latency_ms"`
}

type IngestResult struct {
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

type LowAttentionResult struct {
	Sent         bool                `json:"sent"`
	Skipped      bool                `json:"skipped"`
	Notification *types.Notification `json:"notification,omitempty"`
}

type SessionService interface {
	Start(ctx context.Context, actor requestdata.RequestData, input StartSessionInput) (*types.Session, error)
	End(ctx context.Context, actor requestdata.RequestData, sessionID uuid.UUID) (*types.Session, error)
	Get(ctx context.Context, viewer requestdata.RequestData, sessionID uuid.UUID) (*types.Session, error)
	ListForUser(ctx context.Context, viewer requestdata.RequestData, userID uuid.UUID, limit int) ([]*types.Session, error)
	IngestEvents(ctx context.Context, actor requestdata.RequestData, sessionID uuid.UUID, events []EventInput) (*IngestResult, error)
	Events(ctx context.Context, viewer requestdata.RequestData, sessionID uuid.UUID) ([]*types.Event, error)
	// LowAttentionAlert notifies the session owner's guardian using the
	// template for the given reason. No guardian means no alert, silently.
	LowAttentionAlert(ctx context.Context, sessionID uuid.UUID, reason string) (*LowAttentionResult, error)
}

type sessionService struct {
	db           *gorm.DB
	log          *logger.Logger
	sessionRepo  repos.SessionRepo
	eventRepo    repos.EventRepo
	userRepo     repos.UserRepo
	guardian     GuardianService
	notification NotificationService
	access       AccessService
	alerts       *AlertTemplates
}

func NewSessionService(
	db *gorm.DB,
	log *logger.Logger,
	sessionRepo repos.SessionRepo,
	eventRepo repos.EventRepo,
	userRepo repos.UserRepo,
	guardian GuardianService,
	notification NotificationService,
	access AccessService,
	alerts *AlertTemplates,
) SessionService {
	serviceLog := log.With("service", "SessionService")
	return &sessionService{
		db:           db,
		log:          serviceLog,
		sessionRepo:  sessionRepo,
		eventRepo:    eventRepo,
		userRepo:     userRepo,
		guardian:     guardian,
		notification: notification,
		access:       access,
		alerts:       alerts,
	}
}

func (ss *sessionService) Start(ctx context.Context, actor requestdata.RequestData, input StartSessionInput) (*types.Session, error) {
	if actor.Role != types.RoleStudent {
		return nil, apierr.Forbidden("only students start learning sessions")
	}

	session := &types.Session{
		ID:        uuid.New(),
		UserID:    actor.UserID,
		LessonID:  input.LessonID,
		StartedAt: time.Now().UTC(),
	}
	if len(input.DeviceInfo) > 0 {
		raw, err := json.Marshal(input.DeviceInfo)
		if err != nil {
			return nil, apierr.Validation("device_info is not serializable")
		}
		session.DeviceInfo = datatypes.JSON(raw)
	}

	if _, err := ss.sessionRepo.Create(ctx, nil, session); err != nil {
		return nil, apierr.Internal(err)
	}
	ss.log.Info("session started", "session_id", session.ID, "user_id", actor.UserID)
	return session, nil
}

func (ss *sessionService) End(ctx context.Context, actor requestdata.RequestData, sessionID uuid.UUID) (*types.Session, error) {
	session, err := ss.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := ss.access.CanViewLearner(ctx, actor, session.UserID); err != nil {
		return nil, err
	}
	if session.EndedAt != nil {
		return session, nil
	}

	now := time.Now().UTC()
	if err := ss.sessionRepo.End(ctx, nil, sessionID, now); err != nil {
		return nil, apierr.Internal(err)
	}
	session.EndedAt = &now
	ss.log.Info("session ended", "session_id", sessionID)
	return session, nil
}

func (ss *sessionService) Get(ctx context.Context, viewer requestdata.RequestData, sessionID uuid.UUID) (*types.Session, error) {
	session, err := ss.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := ss.access.CanViewLearner(ctx, viewer, session.UserID); err != nil {
		return nil, err
	}
	return session, nil
}

func (ss *sessionService) ListForUser(ctx context.Context, viewer requestdata.RequestData, userID uuid.UUID, limit int) ([]*types.Session, error) {
	if err := ss.access.CanViewLearner(ctx, viewer, userID); err != nil {
		return nil, err
	}
	sessions, err := ss.sessionRepo.ListByUser(ctx, nil, userID, limit)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return sessions, nil
}

func (ss *sessionService) IngestEvents(ctx context.Context, actor requestdata.RequestData, sessionID uuid.UUID, events []EventInput) (*IngestResult, error) {
	session, err := ss.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if actor.Role == types.RoleStudent && session.UserID != actor.UserID {
		return nil, apierr.Forbidden("students may only report on their own sessions")
	}
	if len(events) == 0 {
		return nil, apierr.Validation("events must not be empty")
	}

	now := time.Now().UTC()
	batch := make([]*types.Event, 0, len(events))
	rejected := 0
	for _, in := range events {
		event, vErr := buildEvent(sessionID, in, now)
		if vErr != nil {
			rejected++
			continue
		}
		batch = append(batch, event)
	}
	if len(batch) == 0 {
		return nil, apierr.Validation("no valid events in batch")
	}

	if _, err := ss.eventRepo.CreateBatch(ctx, nil, batch); err != nil {
		return nil, apierr.Internal(err)
	}
	return &IngestResult{Accepted: len(batch), Rejected: rejected}, nil
}

func (ss *sessionService) Events(ctx context.Context, viewer requestdata.RequestData, sessionID uuid.UUID) ([]*types.Event, error) {
	session, err := ss.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := ss.access.CanViewLearner(ctx, viewer, session.UserID); err != nil {
		return nil, err
	}
	events, err := ss.eventRepo.ListBySession(ctx, nil, sessionID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return events, nil
}

func (ss *sessionService) LowAttentionAlert(ctx context.Context, sessionID uuid.UUID, reason string) (*LowAttentionResult, error) {
	if reason == "" {
		reason = AlertReasonMultipleEpisodes
	}
	if !ValidAlertReason(reason) {
		return nil, apierr.Validation("invalid alert reason %q", reason)
	}

	session, err := ss.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	student, err := ss.userRepo.GetByID(ctx, nil, session.UserID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("session owner not found")
		}
		return nil, apierr.Internal(err)
	}

	parent, err := ss.guardian.GuardianOf(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		ss.log.Info("low-attention alert skipped, student has no guardian",
			"session_id", sessionID, "student_id", student.ID)
		return &LowAttentionResult{Skipped: true}, nil
	}

	admins, err := ss.userRepo.ListByRole(ctx, nil, types.RoleAdmin, true)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if len(admins) == 0 {
		return nil, apierr.Internal(errors.New("no active admin account to send system alerts"))
	}
	sender := admins[0]

	title, message := ss.alerts.Render(reason, student.Name)
	notifications, err := ss.notification.Send(ctx, requestdata.RequestData{
		UserID: sender.ID,
		Role:   sender.Role,
		Email:  sender.Email,
		Name:   sender.Name,
	}, SendNotificationInput{
		Title:        title,
		Message:      message,
		Type:         types.NotificationTypeAttentionAlert,
		RecipientIDs: []uuid.UUID{parent.ID},
	})
	if err != nil {
		return nil, err
	}

	ss.log.Info("low-attention alert sent",
		"session_id", sessionID,
		"student_id", student.ID,
		"parent_id", parent.ID,
		"reason", reason)
	result := &LowAttentionResult{Sent: true}
	if len(notifications) > 0 {
		result.Notification = notifications[0]
	}
	return result, nil
}

func (ss *sessionService) loadSession(ctx context.Context, sessionID uuid.UUID) (*types.Session, error) {
	session, err := ss.sessionRepo.GetByID(ctx, nil, sessionID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("session not found")
		}
		return nil, apierr.Internal(err)
	}
	return session, nil
}

// buildEvent validates a single telemetry observation. An event carrying
// neither an attention score nor an emotion label is rejected.
func buildEvent(sessionID uuid.UUID, in EventInput, fallbackTS time.Time) (*types.Event, error) {
	event := &types.Event{
		ID:        uuid.New(),
		SessionID: sessionID,
		TS:        fallbackTS,
		LatencyMs: in.LatencyMs,
	}
	if in.TS != nil {
		event.TS = in.TS.UTC()
	}

	switch in.Type {
	case types.EventTypeAttention:
		if in.AttentionScore == nil {
			return nil, apierr.Validation("attention event is missing attention_score")
		}
		if *in.AttentionScore < 0 || *in.AttentionScore > 1 {
			return nil, apierr.Validation("attention_score must be within [0, 1]")
		}
		event.Type = types.EventTypeAttention
		event.AttentionScore = in.AttentionScore
		if len(in.AttentionSignals) > 0 {
			raw, err := json.Marshal(in.AttentionSignals)
			if err != nil {
				return nil, apierr.Validation("attention_signals is not serializable")
			}
			event.AttentionSignals = datatypes.JSON(raw)
		}
	case types.EventTypeEmotion:
		if in.EmotionLabel == "" {
			return nil, apierr.Validation("emotion event is missing emotion_label")
		}
		if !types.ValidEmotionLabel(in.EmotionLabel) {
			return nil, apierr.Validation("unknown emotion label %q", in.EmotionLabel)
		}
		event.Type = types.EventTypeEmotion
		event.EmotionLabel = in.EmotionLabel
		if len(in.EmotionScores) > 0 {
			raw, err := json.Marshal(in.EmotionScores)
			if err != nil {
				return nil, apierr.Validation("emotion_scores is not serializable")
			}
			event.EmotionScores = datatypes.JSON(raw)
		}
	default:
		return nil, apierr.Validation("event type must be attention or emotion")
	}
	return event, nil
}
