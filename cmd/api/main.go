package main

import (
	"context"
	"flag"

	"github.com/clicksapp/clicks/internal/bootstrap"
	"github.com/clicksapp/clicks/internal/pkg/logger"
	"github.com/clicksapp/clicks/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	migrationsDir := flag.String("migrations", "migrations", "path to the migrations directory")
	flag.Parse()

	cfg, err := bootstrap.LoadConfigAndSetupLogger(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	database, err := bootstrap.SetupDatabase(context.Background(), cfg, *migrationsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to set up database")
	}
	defer database.Close()

	app, err := bootstrap.BuildApplication(cfg, database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build application")
	}

	srv := server.New(cfg.Server.Port, app.Router)
	if err := srv.Run(); err != nil {
		logger.Fatal().Err(err).Msg("Server error")
	}
}
