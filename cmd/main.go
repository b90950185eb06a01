package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yungbote/happypath-backend/internal/clients/redis"
	"github.com/yungbote/happypath-backend/internal/db"
	"github.com/yungbote/happypath-backend/internal/handlers"
	"github.com/yungbote/happypath-backend/internal/logger"
	"github.com/yungbote/happypath-backend/internal/observability"
	"github.com/yungbote/happypath-backend/internal/repos"
	"github.com/yungbote/happypath-backend/internal/server"
	"github.com/yungbote/happypath-backend/internal/services"
	"github.com/yungbote/happypath-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "happypath-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Warn("OTel shutdown failed", "error", err)
		}
	}()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	tokenTTLHours := utils.GetEnvAsInt("JWT_TTL_HOURS", 12, log)
	alertsPath := utils.GetEnv("ALERTS_CONFIG_PATH", "configs/alerts.yaml", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Redis (optional; guardian link lookups fall back to Postgres without it)
	linkCache, err := redis.NewLinkCache(log)
	if err != nil {
		log.Warn("Redis init failed, continuing without link cache", "error", err)
		linkCache = nil
	}
	if linkCache != nil {
		defer linkCache.Close()
	}

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	guardianRepo := repos.NewGuardianAssignmentRepo(thePG, log)
	sessionRepo := repos.NewSessionRepo(thePG, log)
	eventRepo := repos.NewEventRepo(thePG, log)
	lessonRepo := repos.NewLessonRepo(thePG, log)
	quizRepo := repos.NewQuizRepo(thePG, log)
	quizAttemptRepo := repos.NewQuizAttemptRepo(thePG, log)
	progressRepo := repos.NewProgressRepo(thePG, log)
	conversationRepo := repos.NewConversationRepo(thePG, log)
	messageRepo := repos.NewMessageRepo(thePG, log)
	notificationRepo := repos.NewNotificationRepo(thePG, log)
	microBreakRepo := repos.NewMicroBreakRepo(thePG, log)

	// Alert templates
	alertTemplates, err := services.LoadAlertTemplates(alertsPath)
	if err != nil {
		log.Error("Could not load alert templates", "error", err, "path", alertsPath)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, jwtSecretKey, time.Duration(tokenTTLHours)*time.Hour)
	userService := services.NewUserService(thePG, log, userRepo, guardianRepo)
	guardianService := services.NewGuardianService(thePG, log, userRepo, guardianRepo, linkCache)
	accessService := services.NewAccessService(log, guardianService)
	lessonService := services.NewLessonService(thePG, log, lessonRepo)
	quizService := services.NewQuizService(thePG, log, quizRepo, quizAttemptRepo, accessService)
	progressService := services.NewProgressService(thePG, log, progressRepo, accessService)
	notificationService := services.NewNotificationService(thePG, log, notificationRepo, userRepo)
	sessionService := services.NewSessionService(thePG, log, sessionRepo, eventRepo, userRepo, guardianService, notificationService, accessService, alertTemplates)
	reportService := services.NewReportService(thePG, log, sessionRepo, eventRepo, progressRepo, userRepo, accessService)
	messageService := services.NewMessageService(thePG, log, conversationRepo, messageRepo, userRepo, guardianService)
	microBreakService := services.NewMicroBreakService(thePG, log, microBreakRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(log, authService)
	userHandler := handlers.NewUserHandler(log, userService)
	guardianHandler := handlers.NewGuardianHandler(log, guardianService)
	lessonHandler := handlers.NewLessonHandler(log, lessonService)
	quizHandler := handlers.NewQuizHandler(log, quizService)
	sessionHandler := handlers.NewSessionHandler(log, sessionService)
	progressHandler := handlers.NewProgressHandler(log, progressService)
	reportHandler := handlers.NewReportHandler(log, reportService)
	messageHandler := handlers.NewMessageHandler(log, messageService)
	notificationHandler := handlers.NewNotificationHandler(log, notificationService)
	microBreakHandler := handlers.NewMicroBreakHandler(log, microBreakService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		Log:                 log,
		AuthService:         authService,
		AuthHandler:         authHandler,
		UserHandler:         userHandler,
		GuardianHandler:     guardianHandler,
		LessonHandler:       lessonHandler,
		QuizHandler:         quizHandler,
		SessionHandler:      sessionHandler,
		ProgressHandler:     progressHandler,
		ReportHandler:       reportHandler,
		MessageHandler:      messageHandler,
		NotificationHandler: notificationHandler,
		MicroBreakHandler:   microBreakHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Info("Server listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("Server shutdown failed", "error", err)
	}
}
