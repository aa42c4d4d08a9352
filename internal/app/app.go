package app

import (
	"context"
	"fmt"
	"time"

	"cvmatch_backend/internal/config"
	"cvmatch_backend/internal/handlers"
	"cvmatch_backend/internal/logger"
	"cvmatch_backend/internal/middleware"
	"cvmatch_backend/internal/parser"
	"cvmatch_backend/internal/repositories"
	"cvmatch_backend/internal/routes"
	"cvmatch_backend/internal/services"
	"cvmatch_backend/internal/validator"
	"cvmatch_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	serviceContainer := initializeServices(cfg, gormDB)

	appHandlers := initializeHandlers(serviceContainer)

	// Фоновый воркер парсинга CV
	cvRepo := repositories.NewProjectCVRepository(gormDB)
	parseWorker := workers.NewParseWorker(
		cvRepo,
		serviceContainer.CVService,
		time.Duration(cfg.Parser.WorkerInterval)*time.Second,
	)
	parseWorker.Start(context.Background())

	ginRouter := initializeGinRouter(cfg, gormDB)

	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository(gormDB)
	projectRepo := repositories.NewProjectRepository(gormDB)
	cvRepo := repositories.NewProjectCVRepository(gormDB)

	cvParser := parser.NewRemoteParser(parser.RemoteConfig{
		BaseURL:     cfg.Parser.BaseURL,
		APIKey:      cfg.Parser.APIKey,
		Timeout:     time.Duration(cfg.Parser.TimeoutSeconds) * time.Second,
		MaxFileSize: cfg.Parser.MaxFileSize,
		AllowedExts: cfg.Parser.AllowedExts,
	})

	// Один реестр локов на оба сервиса: матчинг и инвалидация критериев
	// сериализуются по проекту
	projectLocks := services.NewProjectLocks()

	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo, cvRepo, userRepo, projectLocks)
	cvService := services.NewCVService(cvRepo, projectRepo, cvParser, cfg.Matching.MaxCVsPerProject)
	matchingService := services.NewMatchingService(projectRepo, cvRepo, projectLocks)

	return &services.ServiceContainer{
		UserService:     userService,
		ProjectService:  projectService,
		CVService:       cvService,
		MatchingService: matchingService,
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		UserHandler:     handlers.NewUserHandler(baseHandler, services.UserService),
		ProjectHandler:  handlers.NewProjectHandler(baseHandler, services.ProjectService),
		CVHandler:       handlers.NewCVHandler(baseHandler, services.CVService),
		MatchingHandler: handlers.NewMatchingHandler(baseHandler, services.MatchingService, services.CVService),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.DBMiddleware(db))

	return router
}
