// Package bootstrap wires configuration, database, repositories, services
// and the HTTP router together during startup.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
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

	appControllers "github.com/deniz/regdesk/internal/app/controllers"
	"github.com/deniz/regdesk/internal/app/importer"
	appMigrations "github.com/deniz/regdesk/internal/app/migrations"
	appRepos "github.com/deniz/regdesk/internal/app/repositories"
	appRoutes "github.com/deniz/regdesk/internal/app/routes"
	appServices "github.com/deniz/regdesk/internal/app/services"
	"github.com/deniz/regdesk/internal/config"
	"github.com/deniz/regdesk/internal/db"
	appMiddleware "github.com/deniz/regdesk/internal/middleware"
	"github.com/deniz/regdesk/internal/pkg/logger"
	"github.com/deniz/regdesk/internal/pkg/session"
	"github.com/deniz/regdesk/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos               *appRepos.Repositories
	Services            *appServices.Services
	SessionStore        session.Store
	Importer            *importer.Importer
	AuthController      *appControllers.AuthController
	StudentController   *appControllers.StudentController
	NoteController      *appControllers.NoteController
	ListStateController *appControllers.ListStateController
	Logger              zerolog.Logger
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}

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

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seeding is best effort; a usable schema is enough to start
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	switch cfg.Session.Store {
	case "memory":
		deps.SessionStore = session.NewMemoryStore()
		lgr.Info().Msg("Using in-memory session store")
	default:
		deps.SessionStore = session.NewPGStore(dbPool)
		lgr.Info().Msg("Using PostgreSQL session store")
	}

	deps.Services = appServices.NewServices(deps.Repos, deps.SessionStore, cfg.SessionTTL())
	deps.Importer = importer.New(deps.Services.Student, cfg.Import.Workers)

	deps.AuthController = appControllers.NewAuthController(
		deps.Services.Auth,
		deps.Services.ListState,
		cfg.SessionTTL(),
		cfg.Session.SecureCookie,
	)
	deps.StudentController = appControllers.NewStudentController(
		deps.Services.Student,
		deps.Services.Export,
		deps.Importer,
	)
	deps.NoteController = appControllers.NewNoteController(deps.Services.Note)
	deps.ListStateController = appControllers.NewListStateController(deps.Services.ListState)

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

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.NoteController,
		deps.ListStateController,
		deps.Services.Auth,
	)

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

// StartSessionSweeper periodically removes expired sessions until ctx ends.
func StartSessionSweeper(ctx context.Context, store session.Store, interval time.Duration, lgr zerolog.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := store.DeleteExpired(ctx)
				if err != nil {
					lgr.Error().Err(err).Msg("Session sweep failed")
					continue
				}
				if removed > 0 {
					lgr.Debug().Int64("removed", removed).Msg("Expired sessions swept")
				}
			}
		}
	}()
}
