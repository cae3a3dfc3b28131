// Package condition implements the status engine: applied buffs and debuffs with their
// stat deltas and stacking, start-of-turn ticks, and delayed statuses.
package condition

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/event"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
	"github.com/cory-johannsen/skirmish/internal/game/threat"
)

// Engine owns every applied and delayed status in a battle.
//
// Invariant: for every AppliedStatus as on character c, c carries as.Template's
// modifiers exactly as.StackCount times.
// Engine is not safe for concurrent use.
type Engine struct {
	roster  *character.Roster
	roller  *dice.Roller
	out     *event.Outbox
	logger  *zap.Logger
	active  map[int]*ActiveSet
	delayed map[int][]*DelayedStatus
}

// NewEngine creates an Engine over roster that appends its events to out.
//
// Precondition: all arguments must be non-nil.
func NewEngine(roster *character.Roster, roller *dice.Roller, out *event.Outbox, logger *zap.Logger) *Engine {
	if roster == nil || roller == nil || out == nil || logger == nil {
		panic("condition.NewEngine: precondition violated: all arguments must be non-nil")
	}
	return &Engine{
		roster:  roster,
		roller:  roller,
		out:     out,
		logger:  logger,
		active:  make(map[int]*ActiveSet),
		delayed: make(map[int][]*DelayedStatus),
	}
}

func (e *Engine) set(id int) *ActiveSet {
	s, ok := e.active[id]
	if !ok {
		s = &ActiveSet{}
		e.active[id] = s
	}
	return s
}

// Apply applies tmpl from applicatorID to characterID. Dead targets are skipped.
//
// Precondition: both ids must be in the roster; tmpl must be non-nil.
// Postcondition: returns the ids killed by the status's modifiers, see ApplyMany.
func (e *Engine) Apply(applicatorID int, tmpl *ruleset.StatusTemplate, characterID int) []int {
	return e.ApplyMany(applicatorID, tmpl, []int{characterID})
}

// ApplyMany applies tmpl from applicatorID to each living character in ids and emits a
// single StatusApplied event naming every character affected.
//
// Precondition: every id must be in the roster; tmpl must be non-nil.
// Postcondition: returns the ids whose health the modifiers drove to zero; they have
// been stripped of non-permanent statuses and reported in a CharactersDied event.
func (e *Engine) ApplyMany(applicatorID int, tmpl *ruleset.StatusTemplate, ids []int) []int {
	applicator := e.roster.MustGet(applicatorID)
	return e.applyFrozen(applicatorID, tmpl, ids, Freeze(applicator, tmpl.Payload))
}

func (e *Engine) applyFrozen(applicatorID int, tmpl *ruleset.StatusTemplate, ids []int, f Frozen) []int {
	var affected []int
	var names []string
	for _, id := range ids {
		c := e.roster.MustGet(id)
		if c.IsDead() {
			continue
		}
		e.applyOne(applicatorID, tmpl, c, f)
		affected = append(affected, id)
		names = append(names, c.Name)
	}
	if len(affected) == 0 {
		return nil
	}
	e.out.Append(event.StatusApplied{
		IDs:      affected,
		StatusID: tmpl.ID,
		Message:  fmt.Sprintf("%s afflicts %v", tmpl.Name, names),
	})
	var died []int
	for _, id := range affected {
		if e.roster.MustGet(id).IsDead() {
			died = append(died, id)
		}
	}
	e.bury(died, false)
	return died
}

// bury strips the newly dead and reports them in one CharactersDied event.
func (e *Engine) bury(ids []int, removePermanent bool) {
	if len(ids) == 0 {
		return
	}
	for _, id := range ids {
		e.RemoveAll(id, removePermanent)
	}
	e.out.Append(event.CharactersDied{IDs: ids})
	e.logger.Debug("characters died to statuses", zap.Ints("ids", ids))
}

// applyOne implements the stacking rules for a single living target.
func (e *Engine) applyOne(applicatorID int, tmpl *ruleset.StatusTemplate, c *character.Character, f Frozen) {
	set := e.set(c.ID)
	as, ok := set.Get(tmpl.ID)
	switch {
	case !ok:
		e.applyModifiers(c, tmpl.Modifiers, 1)
		set.add(&AppliedStatus{
			ApplicatorID:   applicatorID,
			Template:       tmpl,
			TurnsRemaining: tmpl.Duration,
			StackCount:     1,
			Frozen:         f,
		})
		c.AddStatus(tmpl)
	case tmpl.Stackable && as.StackCount < tmpl.MaxStacks():
		as.TurnsRemaining = tmpl.Duration
		as.Frozen = as.Frozen.Stack(f)
		as.ApplicatorID = applicatorID
		e.applyModifiers(c, tmpl.Modifiers, 1)
		as.StackCount++
	case tmpl.Stackable:
		as.TurnsRemaining = tmpl.Duration
	default:
		as.TurnsRemaining = tmpl.Duration
		as.Frozen = f
		as.ApplicatorID = applicatorID
	}
	e.logger.Debug("status applied",
		zap.Int("character_id", c.ID),
		zap.String("status_id", tmpl.ID),
		zap.Int("stacks", set.Stacks(tmpl.ID)),
	)
}

// applyModifiers applies m × times to c and emits the speed and health side effects.
func (e *Engine) applyModifiers(c *character.Character, m ruleset.Modifiers, times int) {
	preSpeed := c.Speed()
	preHealth := c.CurrentHealth
	if delta := c.ApplyModifiers(m, times); delta != 0 {
		e.out.Append(event.SpeedChanged{ID: c.ID, PreSpeed: preSpeed, Delta: delta})
	}
	if c.CurrentHealth != preHealth {
		e.out.Append(event.HealthChanged{Changes: []event.HealthChange{{
			ID: c.ID, Before: preHealth, After: c.CurrentHealth, Delta: c.CurrentHealth - preHealth,
		}}})
	}
}

// CreateDelayed schedules tmpl against positions, to be applied after delay of the
// applicator's turns. The magnitude is frozen now.
//
// Precondition: applicatorID must be in the roster; delay >= 1.
func (e *Engine) CreateDelayed(applicatorID int, tmpl *ruleset.StatusTemplate, positions []int, delay int) {
	applicator := e.roster.MustGet(applicatorID)
	e.delayed[applicatorID] = append(e.delayed[applicatorID], &DelayedStatus{
		ApplicatorID:   applicatorID,
		Template:       tmpl,
		Positions:      append([]int(nil), positions...),
		TurnsRemaining: delay,
		Frozen:         Freeze(applicator, tmpl.Payload),
	})
	e.logger.Debug("delayed status scheduled",
		zap.Int("applicator_id", applicatorID),
		zap.String("status_id", tmpl.ID),
		zap.Ints("positions", positions),
		zap.Int("delay", delay),
	)
}

// FinishStartTurn counts down the delayed statuses characterID cast and applies those
// reaching zero to the living characters at their positions, then discards them.
//
// Postcondition: returns the ids the applied statuses killed.
func (e *Engine) FinishStartTurn(characterID int) []int {
	pending := e.delayed[characterID]
	if len(pending) == 0 {
		return nil
	}
	var keep []*DelayedStatus
	var died []int
	for _, ds := range pending {
		ds.TurnsRemaining--
		if ds.TurnsRemaining > 0 {
			keep = append(keep, ds)
			continue
		}
		var ids []int
		for _, c := range e.roster.LivingAt(ds.Positions) {
			ids = append(ids, c.ID)
		}
		e.logger.Debug("delayed status fired",
			zap.Int("applicator_id", characterID),
			zap.String("status_id", ds.Template.ID),
			zap.Ints("targets", ids),
		)
		died = append(died, e.applyFrozen(ds.ApplicatorID, ds.Template, ids, ds.Frozen)...)
	}
	if len(keep) == 0 {
		delete(e.delayed, characterID)
	} else {
		e.delayed[characterID] = keep
	}
	return died
}

// BeginStartTurn ticks every status on characterID: frozen damage is mitigated, healing
// added, crits rolled per status and threat credited to each applicator. The net change
// is applied to health once. Durations then count down and expired statuses are
// removed. If the tick kills the character every status, permanent ones included, is
// removed before the CharactersDied event. An expiry that leaves the character at zero
// health strips its remaining non-permanent statuses and reports the death too.
//
// Postcondition: returns true iff the character died during this tick.
func (e *Engine) BeginStartTurn(characterID int) (died bool) {
	c := e.roster.MustGet(characterID)
	set, ok := e.active[characterID]
	if !ok || c.IsDead() {
		return false
	}

	total := 0
	ticked := false
	var expired []*AppliedStatus
	for _, as := range set.All() {
		if !as.Frozen.IsZero() {
			f := as.Frozen
			if e.roller.Check(f.CritChance, "status crit") {
				f = f.Crit()
			}
			heal, dmg := f.HealthDelta(c)
			delta := heal + dmg
			total += delta
			ticked = true
			if applicator, ok := e.roster.Get(as.ApplicatorID); ok && delta != 0 {
				threat.Apply(applicator, c, delta, as.Template.Threat, as.Template.ThreatMultiplier)
			}
		}
		if as.Template.Expires() {
			as.TurnsRemaining--
			if as.TurnsRemaining <= 0 {
				expired = append(expired, as)
			}
		}
	}

	if ticked {
		before, after := c.ChangeHealth(total)
		e.out.Append(event.HealthChanged{Changes: []event.HealthChange{{
			ID: c.ID, Before: before, After: after, Delta: after - before,
		}}})
	}

	if c.IsDead() {
		e.bury([]int{characterID}, true)
		return true
	}
	for _, as := range expired {
		e.remove(c, set, as, "wore off")
	}
	if c.IsDead() {
		e.bury([]int{characterID}, false)
		return true
	}
	return false
}

// RemoveAll removes every status on characterID, skipping permanent ones unless
// removePermanent is set. It returns the number removed.
func (e *Engine) RemoveAll(characterID int, removePermanent bool) int {
	set, ok := e.active[characterID]
	if !ok {
		return 0
	}
	c := e.roster.MustGet(characterID)
	n := 0
	for _, as := range set.All() {
		if as.Template.Permanent && !removePermanent {
			continue
		}
		e.remove(c, set, as, "was removed from")
		n++
	}
	return n
}

// Remove cleanses a single non-permanent status from a living character. It reports
// whether anything was removed. A cleanse that leaves the character at zero health
// runs the same death path as a lethal application.
func (e *Engine) Remove(characterID int, statusID string) bool {
	set, ok := e.active[characterID]
	if !ok {
		return false
	}
	as, ok := set.Get(statusID)
	c := e.roster.MustGet(characterID)
	if !ok || as.Template.Permanent || c.IsDead() {
		return false
	}
	e.remove(c, set, as, "was cleansed from")
	if c.IsDead() {
		e.bury([]int{characterID}, false)
	}
	return true
}

// remove reverses as's modifiers for every active stack and forgets it.
func (e *Engine) remove(c *character.Character, set *ActiveSet, as *AppliedStatus, verb string) {
	e.applyModifiers(c, as.Template.Modifiers, -as.StackCount)
	set.remove(as)
	c.DropStatus(as.Template)
	e.out.Append(event.StatusRemoved{
		ID:       c.ID,
		StatusID: as.Template.ID,
		Message:  fmt.Sprintf("%s %s %s", as.Template.Name, verb, c.Name),
	})
	e.logger.Debug("status removed",
		zap.Int("character_id", c.ID),
		zap.String("status_id", as.Template.ID),
		zap.Int("stacks", as.StackCount),
	)
}

// Applied returns copies of the statuses on characterID in application order.
func (e *Engine) Applied(characterID int) []AppliedStatus {
	set, ok := e.active[characterID]
	if !ok {
		return nil
	}
	out := make([]AppliedStatus, 0, set.Len())
	for _, as := range set.All() {
		out = append(out, *as)
	}
	return out
}

// Stacks returns the stack count of statusID on characterID, or 0.
func (e *Engine) Stacks(characterID int, statusID string) int {
	if set, ok := e.active[characterID]; ok {
		return set.Stacks(statusID)
	}
	return 0
}

// Delayed returns copies of the delayed statuses applicatorID has pending.
func (e *Engine) Delayed(applicatorID int) []DelayedStatus {
	pending := e.delayed[applicatorID]
	out := make([]DelayedStatus, 0, len(pending))
	for _, ds := range pending {
		out = append(out, *ds)
	}
	return out
}
