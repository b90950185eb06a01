package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/happypath-backend/internal/apierr"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/middleware"
	"github.com/yungbote/happypath-backend/internal/services"
	"github.com/yungbote/happypath-backend/internal/types"
)

type MicroBreakHandler struct {
	log      *logger.Logger
	breakSvc services.MicroBreakService
}

func NewMicroBreakHandler(log *logger.Logger, breakSvc services.MicroBreakService) *MicroBreakHandler {
	return &MicroBreakHandler{
		log:      log.With("handler", "MicroBreakHandler"),
		breakSvc: breakSvc,
	}
}

type microBreakRequest struct {
	Title       string `json:"title"`
	YoutubeURL  string `json:"youtube_url"`
	BoosterText string `json:"booster_text"`
	IsActive    *bool  `json:"is_active"`
}

// POST /api/micro-breaks
func (h *MicroBreakHandler) Create(c *gin.Context) {
	var req microBreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}

	rd := middleware.GetRequestData(c)
	mb, err := h.breakSvc.Create(c.Request.Context(), rd.UserID, services.MicroBreakInput{
		Title:       req.Title,
		YoutubeURL:  req.YoutubeURL,
		BoosterText: req.BoosterText,
		IsActive:    req.IsActive,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"micro_break": mb})
}

// GET /api/micro-breaks?active=true
// Non-staff callers only ever see active breaks.
func (h *MicroBreakHandler) List(c *gin.Context) {
	rd := middleware.GetRequestData(c)
	activeOnly := c.Query("active") == "true"
	if rd.Role != types.RoleTeacher && rd.Role != types.RoleAdmin {
		activeOnly = true
	}
	breaks, err := h.breakSvc.List(c.Request.Context(), activeOnly)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"micro_breaks": breaks})
}

// GET /api/micro-breaks/:id
func (h *MicroBreakHandler) Get(c *gin.Context) {
	mbID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid micro-break id"))
		return
	}
	mb, err := h.breakSvc.Get(c.Request.Context(), mbID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"micro_break": mb})
}

// PUT /api/micro-breaks/:id
func (h *MicroBreakHandler) Update(c *gin.Context) {
	mbID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid micro-break id"))
		return
	}
	var req microBreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	mb, err := h.breakSvc.Update(c.Request.Context(), mbID, services.MicroBreakInput{
		Title:       req.Title,
		YoutubeURL:  req.YoutubeURL,
		BoosterText: req.BoosterText,
		IsActive:    req.IsActive,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"micro_break": mb})
}

// DELETE /api/micro-breaks/:id
func (h *MicroBreakHandler) Delete(c *gin.Context) {
	mbID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid micro-break id"))
		return
	}
	if err := h.breakSvc.Delete(c.Request.Context(), mbID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
