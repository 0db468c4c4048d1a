package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/repolens/repolens/internal/handlers"
	"github.com/repolens/repolens/internal/middleware"
	"github.com/repolens/repolens/internal/repositories"
	"github.com/repolens/repolens/internal/services"
	"github.com/repolens/repolens/internal/workers"
	"github.com/repolens/repolens/pkg/config"
	"github.com/repolens/repolens/pkg/database"
	"github.com/repolens/repolens/pkg/logger"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Set Gin mode
	gin.SetMode(config.AppConfig.Server.Mode)

	// Initialize database
	if err := database.Init(config.AppConfig.Database.Path); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Initialize dependencies
	userRepo := repositories.NewUserRepository(database.DB)
	repositoryRepo := repositories.NewRepositoryRepository(database.DB)
	changesetRepo := repositories.NewChangesetRepository(database.DB)
	jobRepo := repositories.NewJobRepository(database.DB)

	userService := services.NewUserService(userRepo)
	repositoryService := services.NewRepositoryService(repositoryRepo, changesetRepo)
	changesetService := services.NewChangesetService(changesetRepo, userService)
	importService := services.NewGitHubImportService(changesetService, config.AppConfig.GitHub.Token)
	exportService := services.NewExportService()
	jobService := services.NewJobService(jobRepo)

	// Initialize worker manager
	workerManager := workers.NewWorkerManager(jobRepo, repositoryRepo, importService)

	// Initialize router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	setupRoutes(router, userService, repositoryService, changesetService, jobService, exportService, changesetRepo, userRepo)

	// Start workers
	if err := workerManager.StartAll(); err != nil {
		logger.Fatalf("Failed to start workers: %v", err)
	}
	defer workerManager.StopAll()

	// Setup server
	server := &http.Server{
		Addr:         ":" + config.AppConfig.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(config.AppConfig.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(config.AppConfig.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Infof("Server starting on :%s", config.AppConfig.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown error: %v", err)
	}

	logger.Info("Server stopped")
}

func setupRoutes(
	router *gin.Engine,
	userService *services.UserService,
	repositoryService *services.RepositoryService,
	changesetService *services.ChangesetService,
	jobService *services.JobService,
	exportService *services.ExportService,
	changesetRepo *repositories.ChangesetRepository,
	userRepo *repositories.UserRepository,
) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	userHandler := handlers.NewUserHandler(userService)
	repositoryHandler := handlers.NewRepositoryHandler(repositoryService, changesetService, jobService)
	statsHandler := handlers.NewStatsHandler(changesetRepo, userRepo, exportService)

	// Health check endpoint
	router.GET("/health", healthHandler.HealthCheck)

	// User directory
	users := router.Group("/users")
	{
		users.POST("", userHandler.CreateUser)
		users.GET("", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	// Repositories, changesets and statistics
	repos := router.Group("/repositories")
	{
		repos.POST("", repositoryHandler.CreateRepository)
		repos.GET("", repositoryHandler.ListRepositories)
		repos.GET("/:id", repositoryHandler.GetRepository)
		repos.DELETE("/:id", repositoryHandler.DeleteRepository)
		repos.POST("/:id/changesets", repositoryHandler.RecordChangeset)
		repos.POST("/:id/import", repositoryHandler.CreateImportJob)
		repos.GET("/:id/jobs", repositoryHandler.ListJobs)
		repos.GET("/:id/stats/contributors", statsHandler.CommitsPerAuthor)
		repos.GET("/:id/stats/contributors/global", statsHandler.CommitsPerAuthorGlobal)
		repos.GET("/:id/stats/contributors/export", statsHandler.ExportGlobal)
	}
}
