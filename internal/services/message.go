package services

import (
	"context"
	"encoding/json"
	"strings"
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

const previewMaxLen = 120

type ConversationView struct {
	*types.Conversation
	UnreadCount int64 `json:"unread_count"`
}

type MessageService interface {
	// StartConversation resolves the teacher/parent pair from the two
	// participants and returns the existing conversation when one already
	// exists for the pair and child.
	StartConversation(ctx context.Context, actor requestdata.RequestData, otherUserID uuid.UUID, childID *uuid.UUID) (*types.Conversation, error)
	ListConversations(ctx context.Context, actor requestdata.RequestData) ([]*ConversationView, error)
	Send(ctx context.Context, actor requestdata.RequestData, convoID uuid.UUID, text string, attachments []string) (*types.Message, error)
	Messages(ctx context.Context, actor requestdata.RequestData, convoID uuid.UUID, limit int, before *time.Time) ([]*types.Message, error)
	MarkRead(ctx context.Context, actor requestdata.RequestData, convoID uuid.UUID) error
	UnreadTotal(ctx context.Context, actor requestdata.RequestData) (int64, error)
}

type messageService struct {
	db               *gorm.DB
	log              *logger.Logger
	conversationRepo repos.ConversationRepo
	messageRepo      repos.MessageRepo
	userRepo         repos.UserRepo
	guardian         GuardianService
}

func NewMessageService(
	db *gorm.DB,
	log *logger.Logger,
	conversationRepo repos.ConversationRepo,
	messageRepo repos.MessageRepo,
	userRepo repos.UserRepo,
	guardian GuardianService,
) MessageService {
	serviceLog := log.With("service", "MessageService")
	return &messageService{
		db:               db,
		log:              serviceLog,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
		guardian:         guardian,
	}
}

func (ms *messageService) StartConversation(ctx context.Context, actor requestdata.RequestData, otherUserID uuid.UUID, childID *uuid.UUID) (*types.Conversation, error) {
	other, err := ms.userRepo.GetByID(ctx, nil, otherUserID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("user not found")
		}
		return nil, apierr.Internal(err)
	}

	var teacherID, parentID uuid.UUID
	switch {
	case actor.Role == types.RoleTeacher && other.Role == types.RoleParent:
		teacherID, parentID = actor.UserID, other.ID
	case actor.Role == types.RoleParent && other.Role == types.RoleTeacher:
		teacherID, parentID = other.ID, actor.UserID
	default:
		return nil, apierr.Forbidden("conversations are between one teacher and one parent")
	}

	if childID != nil {
		linked, err := ms.guardian.IsLinked(ctx, parentID, *childID)
		if err != nil {
			return nil, err
		}
		if !linked {
			return nil, apierr.Validation("child is not linked to this parent")
		}
	}

	existing, err := ms.conversationRepo.GetByPair(ctx, nil, teacherID, parentID, childID)
	if err == nil {
		return existing, nil
	}
	if !repos.IsNotFound(err) {
		return nil, apierr.Internal(err)
	}

	convo := &types.Conversation{
		ID:            uuid.New(),
		TeacherID:     teacherID,
		ParentID:      parentID,
		ChildID:       childID,
		LastMessageAt: time.Now().UTC(),
	}
	if _, err := ms.conversationRepo.Create(ctx, nil, convo); err != nil {
		return nil, apierr.Internal(err)
	}
	ms.log.Info("conversation started", "conversation_id", convo.ID)
	return convo, nil
}

func (ms *messageService) ListConversations(ctx context.Context, actor requestdata.RequestData) ([]*ConversationView, error) {
	conversations, err := ms.conversationRepo.ListByParticipant(ctx, nil, actor.UserID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	views := make([]*ConversationView, 0, len(conversations))
	for _, c := range conversations {
		unread, err := ms.messageRepo.UnreadCount(ctx, nil, c.ID, actor.UserID)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		views = append(views, &ConversationView{Conversation: c, UnreadCount: unread})
	}
	return views, nil
}

func (ms *messageService) Send(ctx context.Context, actor requestdata.RequestData, convoID uuid.UUID, text string, attachments []string) (*types.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" && len(attachments) == 0 {
		return nil, apierr.Validation("message needs text or attachments")
	}

	convo, err := ms.participantConversation(ctx, actor, convoID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	message := &types.Message{
		ID:             uuid.New(),
		ConversationID: convo.ID,
		SenderID:       actor.UserID,
		SenderRole:     actor.Role,
		Text:           text,
		CreatedAt:      now,
	}
	if len(attachments) > 0 {
		raw, mErr := json.Marshal(attachments)
		if mErr != nil {
			return nil, apierr.Internal(mErr)
		}
		message.Attachments = datatypes.JSON(raw)
	}

	err = ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ms.messageRepo.Create(ctx, tx, message); err != nil {
			return err
		}
		return ms.conversationRepo.UpdateLastMessage(ctx, tx, convo.ID, now, truncatePreview(text))
	})
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return message, nil
}

func (ms *messageService) Messages(ctx context.Context, actor requestdata.RequestData, convoID uuid.UUID, limit int, before *time.Time) ([]*types.Message, error) {
	convo, err := ms.participantConversation(ctx, actor, convoID)
	if err != nil {
		return nil, err
	}
	messages, err := ms.messageRepo.ListByConversation(ctx, nil, convo.ID, limit, before)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	// fetching the thread counts as reading it
	if err := ms.messageRepo.MarkConversationRead(ctx, nil, convo.ID, actor.UserID, time.Now().UTC()); err != nil {
		ms.log.Warn("failed to mark conversation read", "conversation_id", convo.ID, "error", err)
	}
	return messages, nil
}

func (ms *messageService) MarkRead(ctx context.Context, actor requestdata.RequestData, convoID uuid.UUID) error {
	convo, err := ms.participantConversation(ctx, actor, convoID)
	if err != nil {
		return err
	}
	if err := ms.messageRepo.MarkConversationRead(ctx, nil, convo.ID, actor.UserID, time.Now().UTC()); err != nil {
		return apierr.Internal(err)
	}
	return nil
}

func (ms *messageService) UnreadTotal(ctx context.Context, actor requestdata.RequestData) (int64, error) {
	count, err := ms.messageRepo.UnreadTotalForUser(ctx, nil, actor.UserID)
	if err != nil {
		return 0, apierr.Internal(err)
	}
	return count, nil
}

func (ms *messageService) participantConversation(ctx context.Context, actor requestdata.RequestData, convoID uuid.UUID) (*types.Conversation, error) {
	convo, err := ms.conversationRepo.GetByID(ctx, nil, convoID)
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, apierr.NotFound("conversation not found")
		}
		return nil, apierr.Internal(err)
	}
	if convo.TeacherID != actor.UserID && convo.ParentID != actor.UserID {
		return nil, apierr.Forbidden("not a participant in this conversation")
	}
	return convo, nil
}

// truncatePreview cuts the conversation preview on a rune boundary so a
// multi-byte character is never split.
func truncatePreview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewMaxLen {
		return text
	}
	return string(runes[:previewMaxLen])
}
