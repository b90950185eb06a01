package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/happypath-backend/internal/apierr"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/middleware"
	"github.com/yungbote/happypath-backend/internal/services"
)

type ProgressHandler struct {
	log         *logger.Logger
	progressSvc services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progressSvc services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		log:         log.With("handler", "ProgressHandler"),
		progressSvc: progressSvc,
	}
}

// POST /api/progress/ping
func (h *ProgressHandler) Ping(c *gin.Context) {
	var req struct {
		LessonID    string  `json:"lesson_id"`
		PositionSec float64 `json:"position_sec"`
		DurationSec float64 `json:"duration_sec"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}

	rd := middleware.GetRequestData(c)
	progress, err := h.progressSvc.Ping(c.Request.Context(), rd.UserID, services.PingInput{
		LessonID:    req.LessonID,
		PositionSec: req.PositionSec,
		DurationSec: req.DurationSec,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"progress": progress})
}

// GET /api/progress/me
func (h *ProgressHandler) Mine(c *gin.Context) {
	rd := middleware.GetRequestData(c)
	rows, err := h.progressSvc.ForUser(c.Request.Context(), *rd, rd.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"progress": rows})
}

// GET /api/progress/user/:userId
func (h *ProgressHandler) ForUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid user id"))
		return
	}
	rd := middleware.GetRequestData(c)
	rows, err := h.progressSvc.ForUser(c.Request.Context(), *rd, userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"progress": rows})
}

// GET /api/progress/user/:userId/lesson/:lessonId
func (h *ProgressHandler) ForUserLesson(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid user id"))
		return
	}
	rd := middleware.GetRequestData(c)
	row, err := h.progressSvc.ForUserAndLesson(c.Request.Context(), *rd, userID, c.Param("lessonId"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"progress": row})
}

// GET /api/lessons/:id/progress
func (h *ProgressHandler) ForLesson(c *gin.Context) {
	rows, err := h.progressSvc.ForLesson(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"progress": rows})
}
