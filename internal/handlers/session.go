package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/happypath-backend/internal/apierr"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/middleware"
	"github.com/yungbote/happypath-backend/internal/services"
)

type SessionHandler struct {
	log        *logger.Logger
	sessionSvc services.SessionService
}

func NewSessionHandler(log *logger.Logger, sessionSvc services.SessionService) *SessionHandler {
	return &SessionHandler{
		log:        log.With("handler", "SessionHandler"),
		sessionSvc: sessionSvc,
	}
}

// POST /api/sessions
func (h *SessionHandler) Start(c *gin.Context) {
	var req struct {
		LessonID   string                 `json:"lesson_id"`
		DeviceInfo map[string]interface{} `json:"device_info"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}

	rd := middleware.GetRequestData(c)
	session, err := h.sessionSvc.Start(c.Request.Context(), *rd, services.StartSessionInput{
		LessonID:   req.LessonID,
		DeviceInfo: req.DeviceInfo,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"session": session})
}

// POST /api/sessions/:id/end
func (h *SessionHandler) End(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid session id"))
		return
	}
	rd := middleware.GetRequestData(c)
	session, err := h.sessionSvc.End(c.Request.Context(), *rd, sessionID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"session": session})
}

// GET /api/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid session id"))
		return
	}
	rd := middleware.GetRequestData(c)
	session, err := h.sessionSvc.Get(c.Request.Context(), *rd, sessionID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"session": session})
}

// GET /api/users/:id/sessions
func (h *SessionHandler) ListForUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid user id"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	rd := middleware.GetRequestData(c)
	sessions, err := h.sessionSvc.ListForUser(c.Request.Context(), *rd, userID, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"sessions": sessions})
}

// POST /api/sessions/:id/events
func (h *SessionHandler) IngestEvents(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid session id"))
		return
	}
	var req struct {
		Events []services.EventInput `json:"events"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}

	rd := middleware.GetRequestData(c)
	result, err := h.sessionSvc.IngestEvents(c.Request.Context(), *rd, sessionID, req.Events)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

// GET /api/sessions/:id/events
func (h *SessionHandler) Events(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid session id"))
		return
	}
	rd := middleware.GetRequestData(c)
	events, err := h.sessionSvc.Events(c.Request.Context(), *rd, sessionID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"events": events})
}

// POST /api/sessions/:id/low-attention-alert
func (h *SessionHandler) LowAttentionAlert(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid session id"))
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	// body optional; reason defaults to multiple_episodes
	_ = c.ShouldBindJSON(&req)

	result, err := h.sessionSvc.LowAttentionAlert(c.Request.Context(), sessionID, req.Reason)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}
