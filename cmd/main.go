package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/draftforge/draftforge-backend/internal/db"
	"github.com/draftforge/draftforge-backend/internal/handlers"
	"github.com/draftforge/draftforge-backend/internal/logger"
	"github.com/draftforge/draftforge-backend/internal/middleware"
	"github.com/draftforge/draftforge-backend/internal/observability"
	"github.com/draftforge/draftforge-backend/internal/repos"
	"github.com/draftforge/draftforge-backend/internal/server"
	"github.com/draftforge/draftforge-backend/internal/services"
	"github.com/draftforge/draftforge-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

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

	// Env
	log.Info("Loading environment variables from main...")
	port := utils.GetEnv("PORT", "8000", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 604800, log)
	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	geminiModelName := utils.GetEnv("GEMINI_MODEL", "gemini-flash-latest", log)
	redisAddr := os.Getenv("REDIS_ADDR")
	aiRequestsPerMinute := utils.GetEnvAsInt("AI_REQUESTS_PER_MINUTE", 15, log)
	allowedOrigins := strings.Split(utils.GetEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173", log), ",")

	// Tracing
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "draftforge-backend",
		Environment: os.Getenv("APP_ENV"),
		Version:     os.Getenv("APP_VERSION"),
	})
	if shutdownOTel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOTel(ctx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	projectRepo := repos.NewProjectRepo(thePG, log)
	sectionRepo := repos.NewSectionRepo(thePG, log)
	refinementRepo := repos.NewRefinementHistoryRepo(thePG, log)
	feedbackRepo := repos.NewSectionFeedbackRepo(thePG, log)
	commentRepo := repos.NewSectionCommentRepo(thePG, log)

	// Rate limiter
	var limiter services.RateLimiter
	if redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: redisAddr, Password: os.Getenv("REDIS_PASSWORD")})
		limiter = services.NewRedisRateLimiter(log, redisClient, aiRequestsPerMinute, time.Minute)
	} else {
		log.Warn("REDIS_ADDR not set, AI rate limiting disabled")
		limiter = services.NewNoopRateLimiter()
	}

	// Services
	log.Info("Setting up Services from main...")
	model := services.NewGeminiModel(log, geminiAPIKey, geminiModelName)
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	tokenVerifier := services.NewTokenVerifier(thePG, log, userRepo, userTokenRepo, jwtSecretKey)
	projectService := services.NewProjectService(thePG, log, projectRepo)
	sectionService := services.NewSectionService(thePG, log, projectRepo, sectionRepo)
	generationService := services.NewGenerationService(thePG, log, model, limiter, projectRepo, sectionRepo, refinementRepo)
	feedbackService := services.NewFeedbackService(thePG, log, model, limiter, sectionRepo, projectRepo, feedbackRepo, commentRepo, refinementRepo)
	chatService := services.NewChatService(thePG, log, model, limiter, projectRepo)
	exportService := services.NewExportService(thePG, log, projectRepo)

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	healthcheckHandler := handlers.NewHealthcheckHandler(model)
	projectHandler := handlers.NewProjectHandler(projectService)
	sectionHandler := handlers.NewSectionHandler(sectionService)
	generationHandler := handlers.NewGenerationHandler(generationService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	chatHandler := handlers.NewChatHandler(chatService)
	exportHandler := handlers.NewExportHandler(exportService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, tokenVerifier)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AllowedOrigins:     allowedOrigins,
		TracingEnabled:     observability.Enabled(),
		AuthHandler:        authHandler,
		AuthMiddleware:     authMiddleware,
		HealthcheckHandler: healthcheckHandler,
		ProjectHandler:     projectHandler,
		SectionHandler:     sectionHandler,
		GenerationHandler:  generationHandler,
		FeedbackHandler:    feedbackHandler,
		ChatHandler:        chatHandler,
		ExportHandler:      exportHandler,
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
