// Package bootstrap assembles the application at startup.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/clicksapp/clicks/internal/app/migrations"
	"github.com/clicksapp/clicks/internal/app/repositories"
	"github.com/clicksapp/clicks/internal/app/routes"
	"github.com/clicksapp/clicks/internal/app/services"
	"github.com/clicksapp/clicks/internal/config"
	"github.com/clicksapp/clicks/internal/db"
	"github.com/clicksapp/clicks/internal/pkg/auth"
	"github.com/clicksapp/clicks/internal/pkg/filestorage"
	"github.com/clicksapp/clicks/internal/pkg/helpers"
	"github.com/clicksapp/clicks/internal/pkg/logger"
	"github.com/clicksapp/clicks/internal/seed"
)

// Application holds everything needed to run the server
type Application struct {
	Config   *config.Config
	DB       *db.PostgresDB
	Router   *gin.Engine
	Services *services.Services
}

// LoadConfigAndSetupLogger loads configuration and configures logging
func LoadConfigAndSetupLogger(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Format == "pretty",
	})

	return cfg, nil
}

// SetupDatabase connects to Postgres and applies pending migrations
func SetupDatabase(ctx context.Context, cfg *config.Config, migrationsDir string) (*db.PostgresDB, error) {
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	migrator := migrations.NewMigrator(database.Pool)
	if err := migrator.Apply(ctx, migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	if cfg.Seed.Enabled {
		if err := seed.CreateDefaultData(ctx, database.Pool); err != nil {
			logger.Warn().Err(err).Msg("Failed to seed default data")
		}
	}

	return database, nil
}

// BuildApplication wires repositories, services and the HTTP router
func BuildApplication(cfg *config.Config, database *db.PostgresDB) (*Application, error) {
	storage, err := filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.Server.PublicURL+"/uploads")
	if err != nil {
		return nil, fmt.Errorf("failed to set up file storage: %w", err)
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 30*24*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	repos := repositories.NewRepositories(database.Pool)
	svcs := services.NewServices(repos, jwtService, storage)

	router := setupRouter(cfg, svcs, jwtService)

	return &Application{
		Config:   cfg,
		DB:       database,
		Router:   router,
		Services: svcs,
	}, nil
}

func setupRouter(cfg *config.Config, svcs *services.Services, jwtService *auth.JWTService) *gin.Engine {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Uploaded files are served directly
	router.Static("/uploads", cfg.Server.StoragePath)

	routes.SetupRoutes(router, svcs, jwtService)

	return router
}
