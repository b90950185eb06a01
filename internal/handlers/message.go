package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/happypath-backend/internal/apierr"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/middleware"
	"github.com/yungbote/happypath-backend/internal/services"
)

type MessageHandler struct {
	log        *logger.Logger
	messageSvc services.MessageService
}

func NewMessageHandler(log *logger.Logger, messageSvc services.MessageService) *MessageHandler {
	return &MessageHandler{
		log:        log.With("handler", "MessageHandler"),
		messageSvc: messageSvc,
	}
}

// POST /api/messages/conversations
// { user_id, child_id }
func (h *MessageHandler) StartConversation(c *gin.Context) {
	var req struct {
		UserID  uuid.UUID  `json:"user_id"`
		ChildID *uuid.UUID `json:"child_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}

	rd := middleware.GetRequestData(c)
	convo, err := h.messageSvc.StartConversation(c.Request.Context(), *rd, req.UserID, req.ChildID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"conversation": convo})
}

// GET /api/messages/conversations
func (h *MessageHandler) ListConversations(c *gin.Context) {
	rd := middleware.GetRequestData(c)
	conversations, err := h.messageSvc.ListConversations(c.Request.Context(), *rd)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"conversations": conversations})
}

// POST /api/messages/conversations/:id
func (h *MessageHandler) Send(c *gin.Context) {
	convoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid conversation id"))
		return
	}
	var req struct {
		Text        string   `json:"text"`
		Attachments []string `json:"attachments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}

	rd := middleware.GetRequestData(c)
	message, err := h.messageSvc.Send(c.Request.Context(), *rd, convoID, req.Text, req.Attachments)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"message": message})
}

// GET /api/messages/conversations/:id?limit=...&before=...
func (h *MessageHandler) Messages(c *gin.Context) {
	convoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid conversation id"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	var before *time.Time
	if raw := c.Query("before"); raw != "" {
		parsed, pErr := time.Parse(time.RFC3339, raw)
		if pErr != nil {
			RespondError(c, apierr.Validation("before must be RFC3339"))
			return
		}
		before = &parsed
	}

	rd := middleware.GetRequestData(c)
	messages, err := h.messageSvc.Messages(c.Request.Context(), *rd, convoID, limit, before)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"messages": messages})
}

// GET /api/messages/unread-count
func (h *MessageHandler) UnreadTotal(c *gin.Context) {
	rd := middleware.GetRequestData(c)
	count, err := h.messageSvc.UnreadTotal(c.Request.Context(), *rd)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"count": count})
}

// POST /api/messages/conversations/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	convoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid conversation id"))
		return
	}
	rd := middleware.GetRequestData(c)
	if err := h.messageSvc.MarkRead(c.Request.Context(), *rd, convoID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"read": true})
}
