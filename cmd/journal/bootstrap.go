package main

import (
	"context"
	"fmt"
	"os"

	"forex-journal/internal/coach"
	"forex-journal/internal/coach/claude"
	"forex-journal/internal/coach/coachobs"
	"forex-journal/internal/coach/noop"
	"forex-journal/internal/coach/openai"
	"forex-journal/internal/interfaces"
	"forex-journal/internal/logger"
	"forex-journal/internal/storage/sqlite"
	"forex-journal/internal/store"
	"forex-journal/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem initializes environment, logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// initializeRepository opens the trade store
func initializeRepository(ctx context.Context, cfg *store.Config) (interfaces.TradeRepository, error) {
	return sqlite.NewRepository(ctx, sqlite.Config{
		DBPath:      cfg.Storage.DBPath,
		InsertChunk: cfg.Storage.InsertChunk,
	})
}

// initializeAdvisor selects the coaching provider and wraps it with
// observability middleware
func initializeAdvisor(ctx context.Context, cfg *store.Config) interfaces.Advisor {
	var advisor interfaces.Advisor

	switch cfg.Coaching.Provider {
	case "OPENAI":
		advisor = openai.NewOpenAIAdvisor(cfg)
	case "CLAUDE":
		advisor = claude.NewClaudeAdvisor(cfg)
	default:
		advisor = noop.NewNoopAdvisor()
		logger.Warn(ctx, "No coaching provider configured - using rule-based fallback reports")
	}

	return coachobs.Wrap(advisor)
}

// initializeCoaching builds the caching coaching service around the advisor
func initializeCoaching(advisor interfaces.Advisor, cfg *store.Config) (*coach.Service, error) {
	return coach.NewService(advisor, cfg.Coaching.CacheTTL, cfg.Coaching.Version)
}
