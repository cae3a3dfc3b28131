package ai

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// ErrNoDecision is returned when a character has nothing it can legally do.
var ErrNoDecision = errors.New("no usable action")

// Oracle decides for computer-controlled characters. A character whose template names a
// registered AI domain follows that domain's plan; the first planned step that is known,
// affordable and has a legal target wins. Everyone else, and any plan without a usable
// step, falls back to the first usable attack at the nearest enemy.
type Oracle struct {
	planners *Registry
	logger   *zap.Logger
}

// NewOracle creates an Oracle.
//
// Precondition: planners and logger must be non-nil.
func NewOracle(planners *Registry, logger *zap.Logger) *Oracle {
	if planners == nil || logger == nil {
		panic("ai.NewOracle: precondition violated: planners and logger must be non-nil")
	}
	return &Oracle{planners: planners, logger: logger}
}

// Decide implements combat.Oracle.
//
// Postcondition: a non-nil Decision passes Battle.Act's validation for actorID.
func (o *Oracle) Decide(ctx context.Context, b *combat.Battle, actorID int) (*combat.Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	actor, ok := b.Roster().Get(actorID)
	if !ok {
		return nil, fmt.Errorf("ai.Oracle: unknown character %d", actorID)
	}
	ws := BuildWorldState(b, actorID)

	if planner, ok := o.plannerFor(b, actor); ok {
		plan, err := planner.Plan(ws)
		if err != nil {
			return nil, err
		}
		for _, step := range plan {
			if d, ok := o.decision(b, actor, step.Action, step.Item, step.Target); ok {
				o.logger.Debug("ai decision",
					zap.Int("actor_id", actorID),
					zap.String("domain", planner.Domain().ID),
					zap.String("operator", step.OperatorID),
					zap.Int("center", d.Center),
				)
				return d, nil
			}
		}
	}
	return o.fallback(b, actor, ws)
}

func (o *Oracle) plannerFor(b *combat.Battle, actor *character.Character) (*Planner, bool) {
	tmpl, ok := b.Registry().Character(actor.TemplateID)
	if !ok || tmpl.AIDomain == "" {
		return nil, false
	}
	planner, ok := o.planners.PlannerFor(tmpl.AIDomain)
	if !ok {
		o.logger.Warn("ai domain not registered",
			zap.String("template", tmpl.ID),
			zap.String("domain", tmpl.AIDomain),
		)
	}
	return planner, ok
}

// decision builds a Decision for actionID aimed at target, or reports false when the
// actor cannot use it right now.
func (o *Oracle) decision(b *combat.Battle, actor *character.Character, actionID string, item bool, target *CombatantState) (*combat.Decision, bool) {
	action, ok := b.Registry().Action(actionID)
	if !ok {
		o.logger.Warn("ai planned unknown action", zap.String("action_id", actionID))
		return nil, false
	}
	if (item && !actor.HasItem(actionID)) || (!item && !actor.Knows(actionID)) {
		return nil, false
	}
	if actor.CurrentMana < action.ManaCost {
		return nil, false
	}
	center := actor.Position
	if action.Targeting.CanRelocate {
		if target == nil || target.Dead {
			return nil, false
		}
		center = target.Position
	}
	if _, err := combat.ExpandTargets(b.Roster(), actor, action, center); err != nil {
		return nil, false
	}
	if item {
		return &combat.Decision{ConsumableID: actionID, Center: center}, true
	}
	return &combat.Decision{ActionID: actionID, Center: center}, true
}

func (o *Oracle) fallback(b *combat.Battle, actor *character.Character, ws *WorldState) (*combat.Decision, error) {
	enemies := ws.EnemiesByDistance()
	for _, attack := range actor.Attacks {
		for _, e := range enemies {
			if d, ok := o.decision(b, actor, attack, false, e); ok {
				o.logger.Debug("ai fallback decision",
					zap.Int("actor_id", actor.ID),
					zap.String("action_id", attack),
					zap.Int("center", d.Center),
				)
				return d, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoDecision, actor.Name)
}
