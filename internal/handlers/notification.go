package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/happypath-backend/internal/apierr"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/middleware"
	"github.com/yungbote/happypath-backend/internal/repos"
	"github.com/yungbote/happypath-backend/internal/services"
)

type NotificationHandler struct {
	log             *logger.Logger
	notificationSvc services.NotificationService
}

func NewNotificationHandler(log *logger.Logger, notificationSvc services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		log:             log.With("handler", "NotificationHandler"),
		notificationSvc: notificationSvc,
	}
}

// POST /api/notifications
func (h *NotificationHandler) Send(c *gin.Context) {
	var req struct {
		Title        string      `json:"title"`
		Message      string      `json:"message"`
		Type         string      `json:"type"`
		RecipientIDs []uuid.UUID `json:"recipient_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}

	rd := middleware.GetRequestData(c)
	notifications, err := h.notificationSvc.Send(c.Request.Context(), *rd, services.SendNotificationInput{
		Title:        req.Title,
		Message:      req.Message,
		Type:         req.Type,
		RecipientIDs: req.RecipientIDs,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"notifications": notifications, "sent": len(notifications)})
}

// GET /api/notifications?unread=true&purpose=...&limit=...&offset=...
func (h *NotificationHandler) ListMine(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rd := middleware.GetRequestData(c)
	notifications, total, err := h.notificationSvc.ListMine(c.Request.Context(), rd.UserID, repos.NotificationListFilter{
		UnreadOnly: c.Query("unread") == "true",
		Purpose:    c.Query("purpose"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"notifications": notifications, "total": total})
}

// GET /api/notifications/sent?limit=...&offset=...
func (h *NotificationHandler) ListSent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rd := middleware.GetRequestData(c)
	notifications, total, err := h.notificationSvc.ListSent(c.Request.Context(), rd.UserID, limit, offset)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"notifications": notifications, "total": total})
}

// GET /api/notifications/recipients
func (h *NotificationHandler) Recipients(c *gin.Context) {
	rd := middleware.GetRequestData(c)
	recipients, err := h.notificationSvc.Recipients(c.Request.Context(), *rd)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"recipients": recipients})
}

// PATCH /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid notification id"))
		return
	}
	rd := middleware.GetRequestData(c)
	if err := h.notificationSvc.MarkRead(c.Request.Context(), rd.UserID, notificationID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"read": true})
}

// POST /api/notifications/mark-all-read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	rd := middleware.GetRequestData(c)
	updated, err := h.notificationSvc.MarkAllRead(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"updated": updated})
}

// GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	rd := middleware.GetRequestData(c)
	count, err := h.notificationSvc.UnreadCount(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"count": count})
}
