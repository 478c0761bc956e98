package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/draftforge/draftforge-backend/internal/handlers"
	"github.com/draftforge/draftforge-backend/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins     []string
	TracingEnabled     bool
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	HealthcheckHandler *handlers.HealthcheckHandler
	ProjectHandler     *handlers.ProjectHandler
	SectionHandler     *handlers.SectionHandler
	GenerationHandler  *handlers.GenerationHandler
	FeedbackHandler    *handlers.FeedbackHandler
	ChatHandler        *handlers.ChatHandler
	ExportHandler      *handlers.ExportHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware("draftforge-backend"))
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)
	router.POST("/signup", cfg.AuthHandler.Register)
	router.POST("/token", cfg.AuthHandler.Login)
	router.POST("/token/refresh", cfg.AuthHandler.Refresh)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// Projects
	protected.POST("/projects", cfg.ProjectHandler.Create)
	protected.GET("/projects", cfg.ProjectHandler.List)
	protected.GET("/projects/:project_id", cfg.ProjectHandler.Get)
	protected.DELETE("/projects/:project_id", cfg.ProjectHandler.Delete)
	protected.POST("/projects/:project_id/plan", cfg.GenerationHandler.Plan)
	protected.POST("/projects/:project_id/generate-all", cfg.GenerationHandler.GenerateAll)
	protected.POST("/projects/:project_id/generate-full-document", cfg.GenerationHandler.GenerateFullDocument)
	protected.GET("/projects/:project_id/feedback", cfg.FeedbackHandler.ProjectStats)
	protected.POST("/projects/:project_id/chat", cfg.ChatHandler.SendMessage)
	protected.GET("/projects/:project_id/export", cfg.ExportHandler.Export)
	// Sections
	protected.POST("/projects/:project_id/sections", cfg.SectionHandler.Create)
	protected.GET("/sections/:section_id", cfg.SectionHandler.Get)
	protected.PATCH("/sections/:section_id", cfg.SectionHandler.Update)
	protected.DELETE("/sections/:section_id", cfg.SectionHandler.Delete)
	protected.POST("/sections/:section_id/reorder", cfg.SectionHandler.Reorder)
	// Generation
	protected.POST("/sections/:section_id/generate", cfg.GenerationHandler.GenerateSection)
	protected.POST("/sections/:section_id/refine", cfg.GenerationHandler.Refine)
	protected.GET("/sections/:section_id/history", cfg.GenerationHandler.History)
	// Feedback
	protected.POST("/sections/:section_id/feedback", cfg.FeedbackHandler.Submit)
	protected.DELETE("/sections/:section_id/feedback", cfg.FeedbackHandler.Remove)
	protected.GET("/sections/:section_id/feedback", cfg.FeedbackHandler.Stats)
	protected.POST("/sections/:section_id/comments", cfg.FeedbackHandler.AddComment)
	protected.GET("/sections/:section_id/comments", cfg.FeedbackHandler.ListComments)
	protected.DELETE("/comments/:comment_id", cfg.FeedbackHandler.DeleteComment)
	protected.POST("/sections/:section_id/regenerate", cfg.FeedbackHandler.Regenerate)

	return router
}
