package server

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/happypath-backend/internal/handlers"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/middleware"
	"github.com/yungbote/happypath-backend/internal/services"
	"github.com/yungbote/happypath-backend/internal/types"
)

type RouterConfig struct {
	Log                 *logger.Logger
	AuthService         services.AuthService
	AuthHandler         *handlers.AuthHandler
	UserHandler         *handlers.UserHandler
	GuardianHandler     *handlers.GuardianHandler
	LessonHandler       *handlers.LessonHandler
	QuizHandler         *handlers.QuizHandler
	SessionHandler      *handlers.SessionHandler
	ProgressHandler     *handlers.ProgressHandler
	ReportHandler       *handlers.ReportHandler
	MessageHandler      *handlers.MessageHandler
	NotificationHandler *handlers.NotificationHandler
	MicroBreakHandler   *handlers.MicroBreakHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if os.Getenv("OTEL_ENABLED") == "true" {
		router.Use(otelgin.Middleware("happypath-backend"))
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	api.POST("/auth/register", cfg.AuthHandler.Register)
	api.POST("/auth/login", cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(middleware.RequireAuth(cfg.AuthService, cfg.Log))

	staff := middleware.RequireRole(types.RoleTeacher, types.RoleAdmin)
	studentOnly := middleware.RequireRole(types.RoleStudent)

	// Auth
	protected.GET("/auth/me", cfg.AuthHandler.Me)

	// User directory
	protected.GET("/users", middleware.RequireRole(types.RoleTeacher, types.RoleParent, types.RoleAdmin), cfg.UserHandler.List)
	protected.GET("/users/:id", cfg.UserHandler.Get)
	protected.GET("/users/:id/sessions", cfg.SessionHandler.ListForUser)
	protected.GET("/users/:id/quiz-attempts", cfg.QuizHandler.AttemptsForUser)

	// Admin
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(types.RoleAdmin))
	admin.GET("/users", cfg.UserHandler.List)
	admin.POST("/users", cfg.UserHandler.Create)
	admin.PATCH("/users/:id", cfg.UserHandler.Update)
	admin.PATCH("/users/:id/role", cfg.UserHandler.SetRole)
	admin.PATCH("/users/:id/active", cfg.UserHandler.SetActive)
	admin.PATCH("/users/:id/reset-password", cfg.UserHandler.ResetPassword)
	admin.DELETE("/users/:id", cfg.UserHandler.Delete)
	admin.GET("/assignments", cfg.GuardianHandler.ListAssignments)
	admin.POST("/assignments", cfg.GuardianHandler.Assign)
	admin.DELETE("/assignments/:id", cfg.GuardianHandler.Unassign)

	// Parent
	parent := protected.Group("/parent")
	parent.Use(middleware.RequireRole(types.RoleParent))
	parent.GET("/children", cfg.GuardianHandler.MyChildren)
	parent.GET("/children/:id/quizzes", cfg.QuizHandler.SummaryForUser)

	// Teacher
	protected.GET("/teacher/students", staff, cfg.ReportHandler.TeacherStudents)

	// Lessons
	protected.GET("/lessons", cfg.LessonHandler.List)
	protected.GET("/lessons/:id", cfg.LessonHandler.Get)
	protected.GET("/lessons/:id/quizzes", cfg.QuizHandler.ForLesson)
	protected.GET("/lessons/:id/progress", staff, cfg.ProgressHandler.ForLesson)
	protected.POST("/lessons", staff, cfg.LessonHandler.Create)
	protected.PUT("/lessons/:id", staff, cfg.LessonHandler.Update)
	protected.DELETE("/lessons/:id", staff, cfg.LessonHandler.Delete)

	// Quizzes
	protected.GET("/quizzes", cfg.QuizHandler.List)
	protected.GET("/quizzes/:id", cfg.QuizHandler.Get)
	protected.GET("/quizzes/:id/attempts", cfg.QuizHandler.AttemptsForQuiz)
	protected.GET("/quizzes/:id/summary", cfg.QuizHandler.SummaryForQuiz)
	protected.POST("/quizzes/:id/attempts", studentOnly, cfg.QuizHandler.Submit)
	protected.POST("/quizzes", staff, cfg.QuizHandler.Create)
	protected.PUT("/quizzes/:id", staff, cfg.QuizHandler.Update)
	protected.PATCH("/quizzes/:id/active", staff, cfg.QuizHandler.SetActive)
	protected.DELETE("/quizzes/:id", staff, cfg.QuizHandler.Delete)

	// Sessions and telemetry
	protected.POST("/sessions", studentOnly, cfg.SessionHandler.Start)
	protected.POST("/sessions/:id/end", cfg.SessionHandler.End)
	protected.GET("/sessions/:id", cfg.SessionHandler.Get)
	protected.POST("/sessions/:id/events", studentOnly, cfg.SessionHandler.IngestEvents)
	protected.GET("/sessions/:id/events", cfg.SessionHandler.Events)
	protected.POST("/sessions/:id/low-attention-alert", studentOnly, cfg.SessionHandler.LowAttentionAlert)

	// Progress
	protected.POST("/progress/ping", studentOnly, cfg.ProgressHandler.Ping)
	protected.GET("/progress/me", cfg.ProgressHandler.Mine)
	protected.GET("/progress/user/:userId", cfg.ProgressHandler.ForUser)
	protected.GET("/progress/user/:userId/lesson/:lessonId", cfg.ProgressHandler.ForUserLesson)

	// Reports
	protected.GET("/reports/learner/:id/daily", cfg.ReportHandler.DailySummary)
	protected.GET("/reports/learner/:id/quizzes", cfg.QuizHandler.SummaryForUser)
	protected.GET("/reports/session/:id", cfg.ReportHandler.SessionReport)

	// Messaging
	messages := protected.Group("/messages")
	messages.Use(middleware.RequireRole(types.RoleTeacher, types.RoleParent))
	messages.GET("/conversations", cfg.MessageHandler.ListConversations)
	messages.POST("/conversations", cfg.MessageHandler.StartConversation)
	messages.GET("/conversations/:id", cfg.MessageHandler.Messages)
	messages.POST("/conversations/:id", cfg.MessageHandler.Send)
	messages.POST("/conversations/:id/read", cfg.MessageHandler.MarkRead)
	messages.GET("/unread-count", cfg.MessageHandler.UnreadTotal)

	// Notifications
	protected.GET("/notifications", cfg.NotificationHandler.ListMine)
	protected.POST("/notifications", middleware.RequireRole(types.RoleParent, types.RoleTeacher, types.RoleAdmin), cfg.NotificationHandler.Send)
	protected.GET("/notifications/sent", cfg.NotificationHandler.ListSent)
	protected.GET("/notifications/recipients", middleware.RequireRole(types.RoleParent, types.RoleTeacher, types.RoleAdmin), cfg.NotificationHandler.Recipients)
	protected.GET("/notifications/unread-count", cfg.NotificationHandler.UnreadCount)
	protected.PATCH("/notifications/:id/read", cfg.NotificationHandler.MarkRead)
	protected.POST("/notifications/mark-all-read", cfg.NotificationHandler.MarkAllRead)

	// Micro-breaks
	protected.GET("/micro-breaks", cfg.MicroBreakHandler.List)
	protected.GET("/micro-breaks/:id", cfg.MicroBreakHandler.Get)
	protected.POST("/micro-breaks", staff, cfg.MicroBreakHandler.Create)
	protected.PUT("/micro-breaks/:id", staff, cfg.MicroBreakHandler.Update)
	protected.DELETE("/micro-breaks/:id", staff, cfg.MicroBreakHandler.Delete)

	return router
}

func corsOrigins() []string {
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		parts := strings.Split(raw, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		return origins
	}
	return []string{
		"http://localhost:80",
		"http://localhost:3000",
		"http://localhost:5173",
	}
}
