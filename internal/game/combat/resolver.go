package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/event"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
	"github.com/cory-johannsen/skirmish/internal/game/threat"
)

// DelayedAction is an action cast with a delay. Its magnitude, crit included, was
// frozen at cast time; targets are grid positions resolved when it fires.
type DelayedAction struct {
	ActorID        int
	Action         *ruleset.ActionTemplate
	Positions      []int
	TurnsRemaining int
	Frozen         condition.Frozen
}

// Resolver applies one action's damage, healing, threat and statuses, and schedules
// delayed actions.
// Resolver is not safe for concurrent use.
type Resolver struct {
	roster   *character.Roster
	statuses *condition.Engine
	roller   *dice.Roller
	out      *event.Outbox
	logger   *zap.Logger
	delayed  map[int][]*DelayedAction
}

// NewResolver creates a Resolver.
//
// Precondition: all arguments must be non-nil.
func NewResolver(roster *character.Roster, statuses *condition.Engine, roller *dice.Roller, out *event.Outbox, logger *zap.Logger) *Resolver {
	if roster == nil || statuses == nil || roller == nil || out == nil || logger == nil {
		panic("combat.NewResolver: precondition violated: all arguments must be non-nil")
	}
	return &Resolver{
		roster:   roster,
		statuses: statuses,
		roller:   roller,
		out:      out,
		logger:   logger,
		delayed:  make(map[int][]*DelayedAction),
	}
}

// StartAction fires action from actorID at positions.
//
// An instant action resolves against the living characters at positions: per target a
// crit check, healing then mitigated damage, threat for the actor, then the action's
// statuses on the survivors. A delayed action freezes its magnitude (crit rolled once,
// now) and schedules itself and its statuses against positions.
//
// Precondition: actorID must be in the roster; action must be non-nil and linked.
// Postcondition: returns the ids of characters this call killed, who have already been
// stripped of non-permanent statuses and reported in a CharactersDied event.
func (r *Resolver) StartAction(actorID int, action *ruleset.ActionTemplate, positions []int) []int {
	actor := r.roster.MustGet(actorID)
	if action.Delay > 0 {
		r.schedule(actor, action, positions)
		return nil
	}
	fresh := condition.Freeze(actor, action.Payload)
	rollCrit := actor.CritChance > 0 || action.CritChance > 0
	targets := r.roster.LivingAt(positions)
	r.logger.Debug("action started",
		zap.Int("actor_id", actorID),
		zap.String("action_id", action.ID),
		zap.Ints("positions", positions),
		zap.Int("targets", len(targets)),
	)
	return r.hit(actor, action, targets, func() condition.Frozen {
		if rollCrit && r.roller.Roll(dice.Percentile, "action crit").Total() <= fresh.CritChance {
			return fresh.Crit()
		}
		return fresh
	}, true)
}

func (r *Resolver) schedule(actor *character.Character, action *ruleset.ActionTemplate, positions []int) {
	f := condition.Freeze(actor, action.Payload)
	if (actor.CritChance > 0 || action.CritChance > 0) &&
		r.roller.Roll(dice.Percentile, "delayed action crit").Total() <= f.CritChance {
		f = f.Crit()
	}
	r.delayed[actor.ID] = append(r.delayed[actor.ID], &DelayedAction{
		ActorID:        actor.ID,
		Action:         action,
		Positions:      append([]int(nil), positions...),
		TurnsRemaining: action.Delay,
		Frozen:         f,
	})
	for _, s := range action.Statuses {
		r.statuses.CreateDelayed(actor.ID, s, positions, action.Delay)
	}
	r.logger.Debug("delayed action scheduled",
		zap.Int("actor_id", actor.ID),
		zap.String("action_id", action.ID),
		zap.Ints("positions", positions),
		zap.Int("delay", action.Delay),
	)
}

// hit applies magnitude() to each target, heal before damage, and reports deaths.
// Statuses are applied, then cleanses removed, only when withStatuses is set.
func (r *Resolver) hit(actor *character.Character, action *ruleset.ActionTemplate, targets []*character.Character, magnitude func() condition.Frozen, withStatuses bool) []int {
	var changes []event.HealthChange
	var survivors, died []int
	for _, t := range targets {
		f := magnitude()
		if !f.IsZero() {
			heal, dmg := f.HealthDelta(t)
			before, _ := t.ChangeHealth(heal)
			_, after := t.ChangeHealth(dmg)
			changes = append(changes, event.HealthChange{ID: t.ID, Before: before, After: after, Delta: after - before})
			threat.Apply(actor, t, heal+dmg, action.Threat, action.ThreatMultiplier)
		} else if action.Threat != 0 {
			threat.Apply(actor, t, 0, action.Threat, action.ThreatMultiplier)
		}
		if t.IsDead() {
			died = append(died, t.ID)
		} else {
			survivors = append(survivors, t.ID)
		}
	}
	if len(changes) > 0 {
		r.out.Append(event.HealthChanged{Changes: changes})
	}
	// The status engine reports deaths it causes itself.
	var afflicted []int
	if withStatuses && len(survivors) > 0 {
		for _, s := range action.Statuses {
			afflicted = append(afflicted, r.statuses.ApplyMany(actor.ID, s, survivors)...)
		}
		for _, s := range action.Cleanses {
			for _, id := range survivors {
				if r.statuses.Remove(id, s.ID) && r.roster.MustGet(id).IsDead() {
					afflicted = append(afflicted, id)
				}
			}
		}
	}
	if len(died) > 0 {
		for _, id := range died {
			r.statuses.RemoveAll(id, false)
		}
		r.out.Append(event.CharactersDied{IDs: died})
	}
	return append(died, afflicted...)
}

// StartTurn counts down actorID's delayed actions and fires those reaching zero against
// the living characters at their positions.
//
// Postcondition: each delayed action fires exactly once and is then discarded. Returns
// the ids of characters killed.
func (r *Resolver) StartTurn(actorID int) []int {
	pending := r.delayed[actorID]
	if len(pending) == 0 {
		return nil
	}
	actor := r.roster.MustGet(actorID)
	var keep []*DelayedAction
	var died []int
	for _, da := range pending {
		da.TurnsRemaining--
		if da.TurnsRemaining > 0 {
			keep = append(keep, da)
			continue
		}
		targets := r.roster.LivingAt(da.Positions)
		r.logger.Debug("delayed action fired",
			zap.Int("actor_id", actorID),
			zap.String("action_id", da.Action.ID),
			zap.Int("targets", len(targets)),
		)
		frozen := da.Frozen
		died = append(died, r.hit(actor, da.Action, targets, func() condition.Frozen { return frozen }, false)...)
	}
	if len(keep) == 0 {
		delete(r.delayed, actorID)
	} else {
		r.delayed[actorID] = keep
	}
	return died
}

// Delayed returns copies of actorID's pending delayed actions.
func (r *Resolver) Delayed(actorID int) []DelayedAction {
	pending := r.delayed[actorID]
	out := make([]DelayedAction, 0, len(pending))
	for _, da := range pending {
		out = append(out, *da)
	}
	return out
}
