package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finkan/finkan-api/internal/config"
	"github.com/finkan/finkan-api/internal/database"
	"github.com/finkan/finkan-api/internal/handlers"
	"github.com/finkan/finkan-api/internal/logger"
	"github.com/finkan/finkan-api/internal/metrics"
	authmw "github.com/finkan/finkan-api/internal/middleware"
	"github.com/finkan/finkan-api/internal/oauth"
	"github.com/finkan/finkan-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	metrics.Init(cfg.MetricsPrefix)

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.L().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.L().Fatal("Failed to run migrations", zap.Error(err))
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.SessionExpiry)
	profileService := services.NewProfileService(db)
	sessionService := services.NewSessionService(db)
	workspaceService := services.NewWorkspaceService(db)
	projectService := services.NewProjectService(db)
	columnService := services.NewColumnService(db)
	taskService := services.NewTaskService(db)

	provider := oauth.NewMicrosoftProvider(cfg.Microsoft)

	authHandler := handlers.NewAuthHandler(provider, profileService, sessionService, jwtService, cfg.ClientURL, cfg.IsProduction())
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService)
	projectHandler := handlers.NewProjectHandler(projectService, workspaceService)
	columnHandler := handlers.NewColumnHandler(columnService, workspaceService)
	taskHandler := handlers.NewTaskHandler(taskService, workspaceService)
	healthHandler := handlers.NewHealthHandler(db.Pool)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.ClientURL},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())
	app.Use(authmw.RequestID())
	app.Use(logger.RequestLogger())
	app.Use(metrics.Middleware())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Get("/microsoft", authHandler.MicrosoftLogin)
	auth.Get("/microsoft/callback", authHandler.MicrosoftCallback)
	auth.Post("/microsoft/token", authHandler.TokenLogin)
	auth.Get("/logout", authHandler.Logout)
	auth.Post("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Get("/auth/me", authHandler.Me)
	protected.Patch("/auth/me", authHandler.UpdateMe)

	protected.Get("/workspaces", workspaceHandler.List)
	protected.Post("/workspaces", workspaceHandler.Create)
	protected.Get("/workspaces/:workspaceId", workspaceHandler.Get)
	protected.Patch("/workspaces/:workspaceId", workspaceHandler.Update)
	protected.Delete("/workspaces/:workspaceId", workspaceHandler.Delete)
	protected.Get("/workspaces/:workspaceId/members", workspaceHandler.ListMembers)
	protected.Post("/workspaces/:workspaceId/members", workspaceHandler.AddMember)

	protected.Get("/workspaces/:workspaceId/projects", projectHandler.ListByWorkspace)
	protected.Post("/workspaces/:workspaceId/projects", projectHandler.Create)
	protected.Get("/projects/:projectId", projectHandler.Get)
	protected.Patch("/projects/:projectId", projectHandler.Update)
	protected.Delete("/projects/:projectId", projectHandler.Delete)

	protected.Get("/projects/:projectId/columns", columnHandler.ListByProject)
	protected.Post("/projects/:projectId/columns", columnHandler.Create)
	protected.Patch("/columns/:columnId", columnHandler.Update)
	protected.Delete("/columns/:columnId", columnHandler.Delete)

	protected.Get("/columns/:columnId/tasks", taskHandler.ListByColumn)
	protected.Post("/columns/:columnId/tasks", taskHandler.CreateInColumn)
	protected.Post("/tasks", taskHandler.Create)
	protected.Get("/tasks/:taskId", taskHandler.Get)
	protected.Patch("/tasks/:taskId", taskHandler.Update)
	protected.Post("/tasks/:taskId/move", taskHandler.Move)
	protected.Delete("/tasks/:taskId", taskHandler.Delete)

	api.Get("/health", healthHandler.Check)
	app.Get("/metrics", metrics.Handler())

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			if err := sessionService.CleanupExpired(context.Background()); err != nil {
				logger.L().Warn("session cleanup failed", zap.Error(err))
			}
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logger.L().Info("Server starting", zap.String("addr", addr))
		if err := app.Run(addr); err != nil {
			logger.L().Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L().Info("Shutting down server")
}
