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

	appControllers "github.com/jkarani/campusgate/internal/app/controllers"
	appMigrations "github.com/jkarani/campusgate/internal/app/migrations"
	appRepos "github.com/jkarani/campusgate/internal/app/repositories"
	appRoutes "github.com/jkarani/campusgate/internal/app/routes"
	appServices "github.com/jkarani/campusgate/internal/app/services"
	"github.com/jkarani/campusgate/internal/config"
	"github.com/jkarani/campusgate/internal/db"
	appMiddleware "github.com/jkarani/campusgate/internal/middleware"
	pkgAuth "github.com/jkarani/campusgate/internal/pkg/auth"
	"github.com/jkarani/campusgate/internal/pkg/filestorage"
	"github.com/jkarani/campusgate/internal/pkg/helpers"
	"github.com/jkarani/campusgate/internal/pkg/logger"
	"github.com/jkarani/campusgate/internal/pkg/queue"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	SessionResolver  appServices.SessionResolver
	ScanVerifier     appServices.ScanVerifier
	SessionService   appServices.SessionService
	TimetableService appServices.TimetableService
	ClassroomService appServices.ClassroomService
	AuditService     appServices.AuditService

	AttendanceController *appControllers.AttendanceController
	SessionController    *appControllers.SessionController
	TimetableController  *appControllers.TimetableController
	ClassroomController  *appControllers.ClassroomController
	AuditController      *appControllers.AuditController

	AuthMiddleware *appMiddleware.AuthMiddleware
	ScanLimiter    *appMiddleware.SimpleTokenBucket
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	FileStorage    *filestorage.LocalStorage
	ReviewQueue    queue.Queue
	Logger         zerolog.Logger
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
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return dbPool, nil
}

// SetupReviewQueue connects the evidence review queue. Falls back to an
// in-process queue when Redis is not configured, which keeps single-node
// deployments working without a broker.
func SetupReviewQueue(cfg *config.Config, lgr zerolog.Logger) queue.Queue {
	if cfg.Redis.Addr == "" {
		lgr.Warn().Msg("Redis not configured, using in-memory review queue")
		return queue.NewInMemory(256)
	}

	client := queue.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	lgr.Info().Str("addr", cfg.Redis.Addr).Str("queue", cfg.Redis.Queue).Msg("Redis review queue configured")
	return queue.NewRedisQueue(client, cfg.Redis.Queue)
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, reviewQueue queue.Queue, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, ReviewQueue: reviewQueue}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.EvidenceDir)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 12*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	// Services
	deps.SessionResolver = appServices.NewSessionResolver(
		deps.Repos.ClassroomRepository,
		deps.Repos.TimetableRepository,
		deps.Repos.SessionRepository,
	)
	deps.ScanVerifier = appServices.NewScanVerifier(
		deps.SessionResolver,
		appServices.NewEvidenceAnalyzer(),
		deps.Repos.ClassroomRepository,
		deps.Repos.AttendanceRepository,
		deps.Repos.ScanLogRepository,
		deps.Repos.RegistrationRepository,
		deps.Repos.CourseRepository,
		deps.FileStorage,
		reviewQueue,
	)
	deps.SessionService = appServices.NewSessionService(
		deps.Repos.SessionRepository,
		deps.Repos.ClassroomRepository,
		deps.Repos.CourseRepository,
		deps.Repos.AttendanceRepository,
		deps.Repos.RegistrationRepository,
		appServices.NewCohortAnalyzer(),
	)
	deps.TimetableService = appServices.NewTimetableService(
		deps.Repos.TimetableRepository,
		deps.Repos.CourseRepository,
		deps.Repos.ClassroomRepository,
	)
	deps.ClassroomService = appServices.NewClassroomService(deps.Repos.ClassroomRepository)
	deps.AuditService = appServices.NewAuditService(deps.Repos.ScanLogRepository)

	// Middleware
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	if cfg.RateLimit.Enabled {
		deps.ScanLimiter = appMiddleware.NewSimpleTokenBucket(int(cfg.RateLimit.Rate), cfg.RateLimit.Burst)
	}

	// Controllers
	deps.AttendanceController = appControllers.NewAttendanceController(
		deps.ScanVerifier,
		appServices.NewAttendanceReader(deps.Repos.AttendanceRepository),
	)
	deps.SessionController = appControllers.NewSessionController(deps.SessionService)
	deps.TimetableController = appControllers.NewTimetableController(deps.TimetableService, deps.SessionResolver)
	deps.ClassroomController = appControllers.NewClassroomController(deps.ClassroomService)
	deps.AuditController = appControllers.NewAuditController(deps.AuditService)

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

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AttendanceController,
		deps.SessionController,
		deps.TimetableController,
		deps.ClassroomController,
		deps.AuditController,
		deps.AuthMiddleware,
		deps.ScanLimiter,
	)

	return router
}
