package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/happypath-backend/internal/apierr"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/middleware"
	"github.com/yungbote/happypath-backend/internal/repos"
	"github.com/yungbote/happypath-backend/internal/services"
)

type GuardianHandler struct {
	log         *logger.Logger
	guardianSvc services.GuardianService
}

func NewGuardianHandler(log *logger.Logger, guardianSvc services.GuardianService) *GuardianHandler {
	return &GuardianHandler{
		log:         log.With("handler", "GuardianHandler"),
		guardianSvc: guardianSvc,
	}
}

// POST /api/admin/assignments
// { parent_id, student_ids, note }
func (h *GuardianHandler) Assign(c *gin.Context) {
	var req struct {
		ParentID   uuid.UUID   `json:"parent_id"`
		StudentIDs []uuid.UUID `json:"student_ids"`
		Note       string      `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}

	rd := middleware.GetRequestData(c)
	assignments, err := h.guardianSvc.Assign(c.Request.Context(), rd.UserID, req.ParentID, req.StudentIDs, req.Note)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"assignments": assignments})
}

// DELETE /api/admin/assignments/:id
func (h *GuardianHandler) Unassign(c *gin.Context) {
	assignmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid assignment id"))
		return
	}
	if err := h.guardianSvc.Unassign(c.Request.Context(), assignmentID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"unassigned": true})
}

// GET /api/admin/assignments?parent_id=...&student_id=...
func (h *GuardianHandler) ListAssignments(c *gin.Context) {
	var filter repos.GuardianListFilter
	if raw := c.Query("parent_id"); raw != "" {
		parentID, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, apierr.Validation("invalid parent_id"))
			return
		}
		filter.ParentID = &parentID
	}
	if raw := c.Query("student_id"); raw != "" {
		studentID, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, apierr.Validation("invalid student_id"))
			return
		}
		filter.StudentID = &studentID
	}

	assignments, err := h.guardianSvc.ListAssignments(c.Request.Context(), filter)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"assignments": assignments})
}

// GET /api/parent/children
func (h *GuardianHandler) MyChildren(c *gin.Context) {
	rd := middleware.GetRequestData(c)
	children, err := h.guardianSvc.ChildrenOf(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"children": children})
}
