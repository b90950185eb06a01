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

type LessonHandler struct {
	log       *logger.Logger
	lessonSvc services.LessonService
}

func NewLessonHandler(log *logger.Logger, lessonSvc services.LessonService) *LessonHandler {
	return &LessonHandler{
		log:       log.With("handler", "LessonHandler"),
		lessonSvc: lessonSvc,
	}
}

type lessonRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Goal        string `json:"goal"`
	Category    string `json:"category"`
	Level       string `json:"level"`
	VideoURL    string `json:"video_url"`
	Status      string `json:"status"`
}

// POST /api/lessons
func (h *LessonHandler) Create(c *gin.Context) {
	var req lessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}

	rd := middleware.GetRequestData(c)
	lesson, err := h.lessonSvc.Create(c.Request.Context(), rd.UserID, services.LessonInput{
		Title:       req.Title,
		Description: req.Description,
		Goal:        req.Goal,
		Category:    req.Category,
		Level:       req.Level,
		VideoURL:    req.VideoURL,
		Status:      req.Status,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"lesson": lesson})
}

// GET /api/lessons
func (h *LessonHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rd := middleware.GetRequestData(c)
	lessons, total, err := h.lessonSvc.List(c.Request.Context(), *rd, repos.LessonListFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Level:    c.Query("level"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"lessons": lessons, "total": total})
}

// GET /api/lessons/:id
func (h *LessonHandler) Get(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid lesson id"))
		return
	}
	rd := middleware.GetRequestData(c)
	lesson, err := h.lessonSvc.Get(c.Request.Context(), *rd, lessonID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"lesson": lesson})
}

// PUT /api/lessons/:id
func (h *LessonHandler) Update(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid lesson id"))
		return
	}
	var req lessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}

	rd := middleware.GetRequestData(c)
	lesson, err := h.lessonSvc.Update(c.Request.Context(), *rd, lessonID, services.LessonInput{
		Title:       req.Title,
		Description: req.Description,
		Goal:        req.Goal,
		Category:    req.Category,
		Level:       req.Level,
		VideoURL:    req.VideoURL,
		Status:      req.Status,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"lesson": lesson})
}

// DELETE /api/lessons/:id
func (h *LessonHandler) Delete(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid lesson id"))
		return
	}
	rd := middleware.GetRequestData(c)
	if err := h.lessonSvc.Delete(c.Request.Context(), *rd, lessonID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
