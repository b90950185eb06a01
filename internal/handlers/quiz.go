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
	"github.com/yungbote/happypath-backend/internal/types"
)

type QuizHandler struct {
	log     *logger.Logger
	quizSvc services.QuizService
}

func NewQuizHandler(log *logger.Logger, quizSvc services.QuizService) *QuizHandler {
	return &QuizHandler{
		log:     log.With("handler", "QuizHandler"),
		quizSvc: quizSvc,
	}
}

type quizRequest struct {
	Title     string                       `json:"title"`
	LessonID  string                       `json:"lesson_id"`
	Language  string                       `json:"language"`
	IsActive  *bool                        `json:"is_active"`
	Settings  *types.QuizSettings          `json:"settings"`
	Questions []services.QuizQuestionInput `json:"questions"`
}

// POST /api/quizzes
func (h *QuizHandler) Create(c *gin.Context) {
	var req quizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}

	rd := middleware.GetRequestData(c)
	quiz, err := h.quizSvc.Create(c.Request.Context(), rd.UserID, services.QuizInput{
		Title:     req.Title,
		LessonID:  req.LessonID,
		Language:  req.Language,
		IsActive:  req.IsActive,
		Settings:  req.Settings,
		Questions: req.Questions,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"quiz": quiz})
}

// GET /api/quizzes
func (h *QuizHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rd := middleware.GetRequestData(c)
	quizzes, total, err := h.quizSvc.List(c.Request.Context(), *rd, repos.QuizListFilter{
		LessonID: c.Query("lesson_id"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"quizzes": quizzes, "total": total})
}

// GET /api/quizzes/:id
func (h *QuizHandler) Get(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid quiz id"))
		return
	}
	rd := middleware.GetRequestData(c)
	quiz, err := h.quizSvc.Get(c.Request.Context(), *rd, quizID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"quiz": quiz})
}

// GET /api/lessons/:id/quizzes
func (h *QuizHandler) ForLesson(c *gin.Context) {
	rd := middleware.GetRequestData(c)
	quizzes, err := h.quizSvc.ForLesson(c.Request.Context(), *rd, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"quizzes": quizzes})
}

// PUT /api/quizzes/:id
func (h *QuizHandler) Update(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid quiz id"))
		return
	}
	var req quizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}

	rd := middleware.GetRequestData(c)
	quiz, err := h.quizSvc.Update(c.Request.Context(), *rd, quizID, services.QuizInput{
		Title:     req.Title,
		LessonID:  req.LessonID,
		Language:  req.Language,
		IsActive:  req.IsActive,
		Settings:  req.Settings,
		Questions: req.Questions,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"quiz": quiz})
}

// PATCH /api/quizzes/:id/active
func (h *QuizHandler) SetActive(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid quiz id"))
		return
	}
	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		RespondError(c, apierr.Validation("is_active is required"))
		return
	}
	quiz, err := h.quizSvc.SetActive(c.Request.Context(), quizID, *req.IsActive)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"quiz": quiz})
}

// DELETE /api/quizzes/:id
func (h *QuizHandler) Delete(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid quiz id"))
		return
	}
	if err := h.quizSvc.Delete(c.Request.Context(), quizID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

// POST /api/quizzes/:id/attempts
func (h *QuizHandler) Submit(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid quiz id"))
		return
	}
	var req struct {
		Answers []services.SubmittedAnswer `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}

	rd := middleware.GetRequestData(c)
	result, err := h.quizSvc.Submit(c.Request.Context(), rd.UserID, quizID, req.Answers)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

// GET /api/quizzes/:id/attempts
func (h *QuizHandler) AttemptsForQuiz(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid quiz id"))
		return
	}
	rd := middleware.GetRequestData(c)
	attempts, err := h.quizSvc.AttemptsForQuiz(c.Request.Context(), *rd, quizID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"attempts": attempts})
}

// GET /api/quizzes/:id/summary
func (h *QuizHandler) SummaryForQuiz(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid quiz id"))
		return
	}
	rd := middleware.GetRequestData(c)
	summary, err := h.quizSvc.SummaryForQuiz(c.Request.Context(), *rd, quizID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"summary": summary})
}

// GET /api/users/:id/quiz-attempts
func (h *QuizHandler) AttemptsForUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid user id"))
		return
	}
	rd := middleware.GetRequestData(c)
	attempts, err := h.quizSvc.AttemptsForUser(c.Request.Context(), *rd, userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"attempts": attempts})
}

// GET /api/reports/learner/:id/quizzes and /api/parent/children/:id/quizzes
func (h *QuizHandler) SummaryForUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation("invalid user id"))
		return
	}
	rd := middleware.GetRequestData(c)
	summary, err := h.quizSvc.SummaryForUser(c.Request.Context(), *rd, userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"quizzes": summary})
}
