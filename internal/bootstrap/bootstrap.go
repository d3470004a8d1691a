// Package bootstrap assembles the application: configuration, logging,
// database and migrations, the dependency graph, and the HTTP router.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/kaustack/catalog/docs" // Import generated swagger docs
	appControllers "github.com/kaustack/catalog/internal/app/controllers"
	"github.com/kaustack/catalog/internal/app/feed"
	appMigrations "github.com/kaustack/catalog/internal/app/migrations"
	appRepos "github.com/kaustack/catalog/internal/app/repositories"
	appRoutes "github.com/kaustack/catalog/internal/app/routes"
	appServices "github.com/kaustack/catalog/internal/app/services"
	"github.com/kaustack/catalog/internal/config"
	"github.com/kaustack/catalog/internal/db"
	appMiddleware "github.com/kaustack/catalog/internal/middleware"
	"github.com/kaustack/catalog/internal/pkg/helpers"
	"github.com/kaustack/catalog/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                *appRepos.Repositories
	Services             *appServices.Services
	SyncRunner           *appServices.SyncRunner
	SearchController     *appControllers.SearchController
	CourseController     *appControllers.CourseController
	InstructorController *appControllers.InstructorController
	SyncController       *appControllers.SyncController
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	feedClient := feed.NewClient(
		cfg.Sync.CoursesURL,
		cfg.Sync.InstructorsURL,
		helpers.ParseDuration(cfg.Sync.RequestTimeout, 30*time.Second),
		cfg.Sync.MaxRetries,
	)

	deps.Services = appServices.NewServices(deps.Repos, dbPool, feedClient)

	if cfg.Sync.Enabled {
		deps.SyncRunner = appServices.NewSyncRunner(
			deps.Services.SyncService,
			helpers.ParseDuration(cfg.Sync.Interval, 6*time.Hour),
			cfg.Sync.RunOnStartup,
		)
	}

	deps.SearchController = appControllers.NewSearchController(deps.Services.CatalogService)
	deps.CourseController = appControllers.NewCourseController(deps.Services.CatalogService)
	deps.InstructorController = appControllers.NewInstructorController(deps.Services.CatalogService)
	deps.SyncController = appControllers.NewSyncController(deps.Services.SyncService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), gin.Recovery())

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.SearchController,
		deps.CourseController,
		deps.InstructorController,
		deps.SyncController,
	)

	return router
}

// StartSyncRunner launches the periodic sync runner when it is configured.
func StartSyncRunner(ctx context.Context, deps *Dependencies, lgr zerolog.Logger) {
	if deps.SyncRunner == nil {
		lgr.Info().Msg("Periodic sync disabled")
		return
	}
	deps.SyncRunner.Start(ctx)
	lgr.Info().Msg("Periodic sync runner started")
}
