// Package main provides the battle simulator binary: it loads content, builds an
// encounter, and lets the AI oracle play both sides to the end.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	encounter := flag.String("encounter", "", "encounter file; overrides battle.encounter")
	seed := flag.Uint64("seed", 0, "replay seed; overrides battle.seed when non-zero")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *encounter != "" {
		cfg.Battle.Encounter = *encounter
	}
	if *seed != 0 {
		cfg.Battle.Seed = *seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := simulate(ctx, cfg.Battle, logger)
	if err != nil {
		logger.Error("battle failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("battle finished",
		zap.Int("rounds", res.Rounds),
		zap.Bool("over", res.Over),
		zap.Bool("players_won", res.PlayersWon),
		zap.Duration("elapsed", time.Since(start)),
	)
}
