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

	appAuth "github.com/extracenter/backend/internal/app/auth"
	appControllers "github.com/extracenter/backend/internal/app/controllers"
	appMigrations "github.com/extracenter/backend/internal/app/migrations"
	appRepos "github.com/extracenter/backend/internal/app/repositories"
	appRoutes "github.com/extracenter/backend/internal/app/routes"
	appServices "github.com/extracenter/backend/internal/app/services"
	"github.com/extracenter/backend/internal/config"
	"github.com/extracenter/backend/internal/db"
	appMiddleware "github.com/extracenter/backend/internal/middleware"
	pkgAuth "github.com/extracenter/backend/internal/pkg/auth"
	"github.com/extracenter/backend/internal/pkg/logger"
	"github.com/extracenter/backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService          appServices.AuthService
	UserService          appServices.UserService
	CenterService        appServices.CenterService
	MembershipService    appServices.MembershipService
	CourseService        appServices.CourseService
	RosterService        appServices.RosterService
	OversightService     appServices.OversightService
	AttendanceService    appServices.AttendanceService
	AuthController       *appControllers.AuthController
	UserController       *appControllers.UserController
	CenterController     *appControllers.CenterController
	CourseController     *appControllers.CourseController
	RosterController     *appControllers.RosterController
	AttendanceController *appControllers.AttendanceController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	AuthzService         *appAuth.AuthorizationService
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

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Create default data (after migrations)
	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.AuthzService = appAuth.NewAuthorizationService(
		deps.Repos.UserRepository,
		deps.Repos.CenterRepository,
		deps.Repos.CourseRepository,
	)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  config.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: config.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, deps.AuthzService)
	deps.CenterService = appServices.NewCenterService(deps.Repos.CenterRepository, deps.Repos.UserRepository, deps.AuthzService)
	deps.MembershipService = appServices.NewMembershipService(deps.Repos.MembershipRepository, deps.Repos.UserRepository, deps.AuthzService)
	deps.CourseService = appServices.NewCourseService(
		deps.Repos.CourseRepository,
		deps.Repos.UserRepository,
		deps.Repos.MembershipRepository,
		deps.Repos.EnrollmentRepository,
		deps.AuthzService,
	)
	deps.RosterService = appServices.NewRosterService(
		deps.Repos.CenterRepository,
		deps.Repos.MembershipRepository,
		config.ParseDuration(cfg.Roster.FetchTimeout, 5*time.Second),
	)
	deps.OversightService = appServices.NewOversightService(
		deps.Repos.UserRepository,
		deps.Repos.CenterRepository,
		deps.Repos.CourseRepository,
		deps.Repos.MembershipRepository,
		deps.Repos.EnrollmentRepository,
		deps.RosterService,
		deps.AuthzService,
	)

	deps.AttendanceService = appServices.NewAttendanceService(
		deps.Repos.ClassSlotRepository,
		deps.Repos.AttendanceRepository,
		deps.Repos.CourseRepository,
		deps.Repos.EnrollmentRepository,
		deps.AuthzService,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.UserController = appControllers.NewUserController(deps.UserService, deps.OversightService)
	deps.CenterController = appControllers.NewCenterController(deps.CenterService, deps.MembershipService)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.RosterController = appControllers.NewRosterController(deps.RosterService)
	deps.AttendanceController = appControllers.NewAttendanceController(deps.AttendanceService)

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
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestID())
	router.Use(appMiddleware.RequestLogger())
	router.Use(appMiddleware.Metrics())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.CenterController,
		deps.CourseController,
		deps.RosterController,
		deps.AttendanceController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
