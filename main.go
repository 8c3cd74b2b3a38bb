// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-catalog/cmd"
	"media-catalog/internal/cache"
	"media-catalog/internal/data/repository"
	"media-catalog/internal/wire"
	"media-catalog/pkg/database"
	"media-catalog/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logger); err != nil {
			logger.Fatal("Failed to apply schema", zap.Error(err))
		}
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	if n, err := repos.Session.Purge(ctx, time.Now().Add(-config.Session.Retention())); err != nil {
		logger.Warn("Failed to clean expired sessions", zap.Error(err))
	} else if n > 0 {
		logger.Info("Expired sessions removed", zap.Int64("count", n))
	}

	var store *cache.Store
	if config.Cache.Enabled {
		store = cache.NewWithLimit(config.Cache.TTL, config.Cache.MaxEntries)
		go store.Run(ctx, config.Cache.SweepInterval)
	}

	// Wire all dependencies
	app := wire.Wiring(repos, store, config, logger)

	// Start server
	if err := cmd.APIServer(ctx, app.Router, config.App.Port, config.HTTP.ShutdownTimeout, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}
