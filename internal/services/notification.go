package services

import (
	"context"
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

type SendNotificationInput struct {
	Title        string
	Message      string
	Type         string
	RecipientIDs []uuid.UUID
}

type NotificationService interface {
	// Send fans the notification out to every recipient as an independent
	// row. The whole batch is rejected if any recipient is outside the
	// sender's allowed audience.
	Send(ctx context.Context, sender requestdata.RequestData, input SendNotificationInput) ([]*types.Notification, error)
	ListMine(ctx context.Context, recipientID uuid.UUID, filter repos.NotificationListFilter) ([]*types.Notification, int64, error)
	ListSent(ctx context.Context, senderID uuid.UUID, limit, offset int) ([]*types.Notification, int64, error)
	// Recipients lists the active users the sender's role is allowed to
	// notify, for building the compose directory.
	Recipients(ctx context.Context, sender requestdata.RequestData) ([]*types.User, error)
	MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

type notificationService struct {
	db               *gorm.DB
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
	userRepo         repos.UserRepo
}

func NewNotificationService(
	db *gorm.DB,
	log *logger.Logger,
	notificationRepo repos.NotificationRepo,
	userRepo repos.UserRepo,
) NotificationService {
	serviceLog := log.With("service", "NotificationService")
	return &notificationService{
		db:               db,
		log:              serviceLog,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

func (ns *notificationService) Send(ctx context.Context, sender requestdata.RequestData, input SendNotificationInput) ([]*types.Notification, error) {
	title := strings.TrimSpace(input.Title)
	message := strings.TrimSpace(input.Message)
	if title == "" || message == "" {
		return nil, apierr.Validation("title and message are required")
	}
	if len(input.RecipientIDs) == 0 {
		return nil, apierr.Validation("recipient_ids must not be empty")
	}
	nType := input.Type
	if nType == "" {
		nType = types.NotificationTypeGeneral
	}
	if !types.ValidNotificationType(nType) {
		return nil, apierr.Validation("invalid notification type %q", nType)
	}

	recipients, err := ns.userRepo.GetByIDs(ctx, nil, input.RecipientIDs)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if len(recipients) != len(input.RecipientIDs) {
		return nil, apierr.NotFound("one or more recipients not found")
	}
	for _, r := range recipients {
		if !canNotify(sender.Role, r.Role) {
			return nil, apierr.Forbidden("%s accounts may not notify %s accounts", sender.Role, r.Role)
		}
	}

	purpose := types.NotificationPurposeLearning
	if sender.Role == types.RoleAdmin {
		purpose = types.NotificationPurposeSystem
	}

	now := time.Now().UTC()
	batch := make([]*types.Notification, 0, len(recipients))
	for _, r := range recipients {
		batch = append(batch, &types.Notification{
			ID:            uuid.New(),
			Title:         title,
			Message:       message,
			Type:          nType,
			Purpose:       purpose,
			SenderID:      sender.UserID,
			SenderRole:    sender.Role,
			RecipientID:   r.ID,
			RecipientRole: r.Role,
			CreatedAt:     now,
		})
	}

	created, err := ns.notificationRepo.CreateBatch(ctx, nil, batch)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	ns.log.Info("notification sent",
		"sender_id", sender.UserID,
		"recipients", len(created),
		"type", nType)
	return created, nil
}

func (ns *notificationService) ListMine(ctx context.Context, recipientID uuid.UUID, filter repos.NotificationListFilter) ([]*types.Notification, int64, error) {
	notifications, total, err := ns.notificationRepo.ListByRecipient(ctx, nil, recipientID, filter)
	if err != nil {
		return nil, 0, apierr.Internal(err)
	}
	return notifications, total, nil
}

func (ns *notificationService) ListSent(ctx context.Context, senderID uuid.UUID, limit, offset int) ([]*types.Notification, int64, error) {
	notifications, total, err := ns.notificationRepo.ListBySender(ctx, nil, senderID, limit, offset)
	if err != nil {
		return nil, 0, apierr.Internal(err)
	}
	return notifications, total, nil
}

func (ns *notificationService) Recipients(ctx context.Context, sender requestdata.RequestData) ([]*types.User, error) {
	recipients := []*types.User{}
	for _, role := range types.AllRoles {
		if !canNotify(sender.Role, role) {
			continue
		}
		users, err := ns.userRepo.ListByRole(ctx, nil, role, true)
		if err != nil {
			return nil, apierr.Internal(err)
		}
		recipients = append(recipients, users...)
	}
	return recipients, nil
}

func (ns *notificationService) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	n, err := ns.notificationRepo.MarkRead(ctx, nil, notificationID, recipientID, time.Now().UTC())
	if err != nil {
		return apierr.Internal(err)
	}
	if n == 0 {
		return apierr.NotFound("notification not found")
	}
	return nil
}

func (ns *notificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	n, err := ns.notificationRepo.MarkAllRead(ctx, nil, recipientID, time.Now().UTC())
	if err != nil {
		return 0, apierr.Internal(err)
	}
	return n, nil
}

func (ns *notificationService) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	count, err := ns.notificationRepo.UnreadCount(ctx, nil, recipientID)
	if err != nil {
		return 0, apierr.Internal(err)
	}
	return count, nil
}

// canNotify is the sender/recipient role matrix. Admins reach parents and
// teachers, teachers reach parents, parents reach other parents. Nobody
// notifies students directly.
func canNotify(senderRole, recipientRole string) bool {
	switch senderRole {
	case types.RoleAdmin:
		return recipientRole == types.RoleParent || recipientRole == types.RoleTeacher
	case types.RoleTeacher:
		return recipientRole == types.RoleParent
	case types.RoleParent:
		return recipientRole == types.RoleParent
	default:
		return false
	}
}
