package http

import (
	"time"

	"zurich_todo/internal/config"
	"zurich_todo/internal/http/handlers"
	"zurich_todo/internal/http/middleware"
	"zurich_todo/internal/repository"
	"zurich_todo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) {
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)

	taskHandler := handlers.NewTaskHandler(service.NewTaskService(taskRepo))
	authHandler := handlers.NewAuthHandler(userRepo)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	apiWindow := time.Duration(cfg.APIRateWindow) * time.Second
	authWindow := time.Duration(cfg.AuthRateWindow) * time.Second

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiWindow))

	tasks := v1.Group("/tasks")
	{
		// static routes before /:id
		tasks.GET("/stats", taskHandler.Stats)
		tasks.PATCH("/bulk", taskHandler.BulkUpdate)

		tasks.GET("", taskHandler.List)
		tasks.POST("", taskHandler.Create)
		tasks.GET("/:id", taskHandler.Get)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.PATCH("/:id", taskHandler.Patch)
		tasks.PATCH("/:id/toggle", taskHandler.Toggle)
		tasks.DELETE("/:id", taskHandler.Delete)
	}

	auth := v1.Group("/auth")
	{
		auth.POST("/login", middleware.RedisRateLimit(cfg.AuthRateLimit, authWindow), authHandler.Login)
		auth.GET("/me", middleware.JWT(), authHandler.Me)
	}
}
