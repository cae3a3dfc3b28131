package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/event"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// simulate loads everything cfg points at and runs one battle to completion.
//
// Precondition: cfg must have passed config validation; logger must be non-nil.
// Postcondition: extra listeners see every event the battle emits.
func simulate(ctx context.Context, cfg config.BattleConfig, logger *zap.Logger, listeners ...event.Listener) (combat.Result, error) {
	loadStart := time.Now()
	reg, err := ruleset.LoadDirectory(cfg.ContentDir)
	if err != nil {
		return combat.Result{}, fmt.Errorf("loading content: %w", err)
	}
	enc, err := ruleset.LoadEncounter(cfg.Encounter, reg)
	if err != nil {
		return combat.Result{}, fmt.Errorf("loading encounter: %w", err)
	}
	logger.Info("content loaded",
		zap.Int("actions", len(reg.AllActions())),
		zap.Int("statuses", len(reg.AllStatuses())),
		zap.Int("characters", len(reg.AllCharacters())),
		zap.String("encounter", enc.ID),
		zap.Duration("elapsed", time.Since(loadStart)),
	)

	var src dice.Source
	if cfg.Seed != 0 {
		src = dice.NewSeededSource(cfg.Seed)
		logger.Info("using seeded dice", zap.Uint64("seed", cfg.Seed))
	} else {
		src = dice.NewCryptoSource()
	}

	b, err := combat.FromEncounter(reg, enc, src, logger)
	if err != nil {
		return combat.Result{}, err
	}

	// Lua preconditions must be loaded before domains are registered.
	scriptMgr := scripting.NewManager(dice.NewLoggedRoller(src, logger), logger)
	defer scriptMgr.Close()
	if err := scriptMgr.LoadGlobal(cfg.ScriptDir, cfg.InstructionLimit); err != nil {
		return combat.Result{}, fmt.Errorf("loading AI scripts: %w", err)
	}
	ai.Bind(scriptMgr, b)

	domains, err := ai.LoadDomains(cfg.AIDir)
	if err != nil {
		return combat.Result{}, fmt.Errorf("loading AI domains: %w", err)
	}
	ids := make([]string, 0, len(domains))
	for _, d := range domains {
		ids = append(ids, d.ID)
	}
	scoped, err := scriptMgr.LoadScopes(cfg.ScriptDir, ids, cfg.InstructionLimit)
	if err != nil {
		return combat.Result{}, fmt.Errorf("loading AI domain scripts: %w", err)
	}
	logger.Debug("loaded domain script scopes", zap.Strings("domains", scoped))
	planners := ai.NewRegistry()
	if err := planners.RegisterAll(domains, scriptMgr); err != nil {
		return combat.Result{}, fmt.Errorf("registering AI domains: %w", err)
	}
	logger.Info("loaded AI domains", zap.Strings("domains", planners.IDs()))

	runner := &combat.Runner{
		Battle:    b,
		Oracle:    ai.NewOracle(planners, logger),
		Listeners: append([]event.Listener{observability.NewEventLogger(logger)}, listeners...),
		MaxRounds: cfg.MaxRounds,
		Logger:    logger,
	}
	logger.Info("battle starting",
		zap.String("battle_id", b.ID.String()),
		zap.Int("combatants", len(enc.Slots)),
	)
	return runner.Run(ctx)
}
