package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/happypath-backend/internal/apierr"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/middleware"
	"github.com/yungbote/happypath-backend/internal/services"
)

type ReportHandler struct {
	log       *logger.Logger
	reportSvc services.ReportService
}

func NewReportHandler(log *logger.Logger, reportSvc services.ReportService) *ReportHandler {
	return &ReportHandler{
		log:       log.With("handler", "ReportHandler"),
		reportSvc: reportSvc,
	}
}

// GET /api/reports/learner/:id/daily?from=...&to=...&tz=...
func (h *ReportHandler) DailySummary(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid user id"))
		return
	}

	// defaults: the trailing 7 days
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -7)
	to := now
	if raw := c.Query("from"); raw != "" {
		parsed, pErr := time.Parse(time.RFC3339, raw)
		if pErr != nil {
			RespondError(c, apierr.Validation("from must be RFC3339"))
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, pErr := time.Parse(time.RFC3339, raw)
		if pErr != nil {
			RespondError(c, apierr.Validation("to must be RFC3339"))
			return
		}
		to = parsed
	}

	rd := middleware.GetRequestData(c)
	days, err := h.reportSvc.DailySummary(c.Request.Context(), *rd, userID, from, to, c.Query("tz"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"days": days})
}

// GET /api/reports/session/:id
func (h *ReportHandler) SessionReport(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid session id"))
		return
	}
	rd := middleware.GetRequestData(c)
	report, err := h.reportSvc.SessionReport(c.Request.Context(), *rd, sessionID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, report)
}

// GET /api/teacher/students
func (h *ReportHandler) TeacherStudents(c *gin.Context) {
	rollups, err := h.reportSvc.TeacherStudents(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"students": rollups})
}
