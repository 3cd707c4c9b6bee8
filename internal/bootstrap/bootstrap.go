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

	appControllers "github.com/dmelo/shiftboard/internal/app/controllers"
	appMigrations "github.com/dmelo/shiftboard/internal/app/migrations"
	appRepos "github.com/dmelo/shiftboard/internal/app/repositories"
	appRoutes "github.com/dmelo/shiftboard/internal/app/routes"
	appServices "github.com/dmelo/shiftboard/internal/app/services"
	"github.com/dmelo/shiftboard/internal/config"
	"github.com/dmelo/shiftboard/internal/db"
	appMiddleware "github.com/dmelo/shiftboard/internal/middleware"
	pkgAuth "github.com/dmelo/shiftboard/internal/pkg/auth"
	"github.com/dmelo/shiftboard/internal/pkg/helpers"
	"github.com/dmelo/shiftboard/internal/pkg/logger"
	"github.com/dmelo/shiftboard/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         *appServices.AuthService
	CourseService       *appServices.CourseService
	ShiftService        *appServices.ShiftService
	StudentService      *appServices.StudentService
	CapacityService     *appServices.CapacityService
	RequestService      *appServices.RequestService
	DistributionService *appServices.DistributionService
	PublicationService  *appServices.PublicationService
	AllocationService   *appServices.AllocationService

	AuthController         *appControllers.AuthController
	CourseController       *appControllers.CourseController
	ShiftController        *appControllers.ShiftController
	StudentController      *appControllers.StudentController
	AllocationController   *appControllers.AllocationController
	ShiftRequestController *appControllers.ShiftRequestController
	DistributionController *appControllers.DistributionController
	PublicationController  *appControllers.PublicationController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
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

	// Seed after migrations; a failure here is logged but not fatal.
	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 12*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, lgr)
	deps.CourseService = appServices.NewCourseService(deps.Repos.CourseRepository)
	deps.ShiftService = appServices.NewShiftService(
		deps.Repos.ShiftRepository,
		deps.Repos.CourseRepository,
		deps.Repos.AllocationRepository,
	)
	deps.StudentService = appServices.NewStudentService(deps.Repos.StudentRepository, deps.Repos.CourseRepository)
	deps.CapacityService = appServices.NewCapacityService(deps.Repos.ShiftRepository, deps.Repos.AllocationRepository)
	deps.RequestService = appServices.NewRequestService(
		dbPool,
		deps.Repos.ShiftRequestRepository,
		deps.Repos.ShiftRepository,
		deps.Repos.StudentRepository,
		deps.Repos.AllocationRepository,
		deps.CapacityService,
		lgr,
	)
	deps.DistributionService = appServices.NewDistributionService(
		dbPool,
		deps.Repos.StudentRepository,
		deps.Repos.ShiftRepository,
		deps.Repos.AllocationRepository,
		deps.CapacityService,
		lgr,
	)
	deps.PublicationService = appServices.NewPublicationService(deps.Repos.PublicationRepository, lgr)
	deps.AllocationService = appServices.NewAllocationService(
		deps.Repos.AllocationRepository,
		deps.Repos.PublicationRepository,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.ShiftController = appControllers.NewShiftController(deps.ShiftService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.AllocationController = appControllers.NewAllocationController(deps.AllocationService)
	deps.ShiftRequestController = appControllers.NewShiftRequestController(deps.RequestService)
	deps.DistributionController = appControllers.NewDistributionController(deps.DistributionService)
	deps.PublicationController = appControllers.NewPublicationController(deps.PublicationService)

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

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CourseController,
		deps.ShiftController,
		deps.StudentController,
		deps.AllocationController,
		deps.ShiftRequestController,
		deps.DistributionController,
		deps.PublicationController,
		deps.AuthMiddleware,
	)

	return router
}
