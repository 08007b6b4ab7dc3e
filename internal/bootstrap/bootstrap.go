// Package bootstrap wires configuration, storage and application
// dependencies together.
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

	appControllers "github.com/unicen/alumni-registry/internal/app/controllers"
	appMigrations "github.com/unicen/alumni-registry/internal/app/migrations"
	appRepos "github.com/unicen/alumni-registry/internal/app/repositories"
	appRoutes "github.com/unicen/alumni-registry/internal/app/routes"
	appServices "github.com/unicen/alumni-registry/internal/app/services"
	"github.com/unicen/alumni-registry/internal/config"
	"github.com/unicen/alumni-registry/internal/db"
	appMiddleware "github.com/unicen/alumni-registry/internal/middleware"
	pkgAuth "github.com/unicen/alumni-registry/internal/pkg/auth"
	"github.com/unicen/alumni-registry/internal/pkg/email"
	"github.com/unicen/alumni-registry/internal/pkg/filestorage"
	"github.com/unicen/alumni-registry/internal/pkg/geocode"
	"github.com/unicen/alumni-registry/internal/pkg/logger"
	"github.com/unicen/alumni-registry/internal/pkg/websocket"
	"github.com/unicen/alumni-registry/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService        *appServices.AuthService
	GraduateService    *appServices.GraduateService
	AdminService       *appServices.AdminService
	AuthController     *appControllers.AuthController
	GraduateController *appControllers.GraduateController
	AdminController    *appControllers.AdminController
	AuthMiddleware     *appMiddleware.AuthMiddleware
	Repos              *appRepos.Repositories
	JWTService         *pkgAuth.JWTService
	Mailer             email.Mailer
	Geocoder           geocode.Resolver
	Hub                *websocket.Hub
	WSHandler          *websocket.Handler
	FileStorage        *filestorage.LocalStorage
	Logger             zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger
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

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default administrator
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
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
	lgr.Info().Msg("Database connection established")

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

	if err := seed.CreateDefaultAdmin(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to seed default administrator, proceeding anyway")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services and controllers
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	baseURL := "http://localhost:" + cfg.Server.Port
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:     cfg.JWT.Secret,
		TokenExpiry:   cfg.TokenTTL(),
		ResetTokenExp: cfg.ResetTokenTTL(),
		TokenIssuer:   cfg.JWT.Issuer,
	})

	deps.Mailer = email.NewSMTPMailer(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, lgr)

	deps.Geocoder = geocode.NewClient(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent, cfg.GeocoderTimeout())

	deps.Hub = websocket.NewHub(lgr)
	go deps.Hub.Run()
	deps.WSHandler = websocket.NewHandler(deps.Hub, lgr)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.Graduates,
		deps.Repos.Admins,
		deps.Repos.SessionTokens,
		deps.JWTService,
		deps.Mailer,
		cfg.Server.FrontendURL,
		cfg.TokenTTL(),
		lgr,
	)

	deps.GraduateService = appServices.NewGraduateService(
		deps.Repos.Graduates,
		deps.Repos.SessionTokens,
		deps.Geocoder,
		deps.Mailer,
		deps.Hub,
		deps.FileStorage,
		lgr,
	)

	deps.AdminService = appServices.NewAdminService(deps.Repos.Admins, deps.Repos.Graduates, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.SessionTokens)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.GraduateController = appControllers.NewGraduateController(deps.GraduateService, lgr)
	deps.AdminController = appControllers.NewAdminController(deps.AdminService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())
	router.Use(appMiddleware.CORS(cfg.Server.FrontendURL))

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.GraduateController,
		deps.AdminController,
		deps.WSHandler,
		deps.AuthMiddleware,
	)

	return router
}
