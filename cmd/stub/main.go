package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/config"
	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/logger"
	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/stub"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// The stub is a server; request logs are the point
	level := cfg.Logging.Level
	if os.Getenv("LOG_LEVEL") == "" {
		level = "info"
	}
	logger.Init(level, cfg.Logging.Format)
	log := logger.GetLogger()

	srv, err := stub.New(cfg.Stub, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create stub server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("addr", cfg.Stub.Addr).Msg("Starting recipe stub backend...")

	if err := srv.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Stub server failed")
	}
}
