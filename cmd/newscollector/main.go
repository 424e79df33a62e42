package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/armenabnousi/NewsCollector/internal/app"
	"github.com/armenabnousi/NewsCollector/internal/config"
	"github.com/armenabnousi/NewsCollector/internal/logging"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
