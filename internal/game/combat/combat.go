// Package combat resolves turn-based tactical battles: turn order, action resolution on
// the 3×3×2 grid, and the Battle facade tying them to the status engine.
package combat

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/event"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// Precondition violations reported by Battle. A call that returns one of these has
// changed nothing.
var (
	ErrUnknownAction      = errors.New("unknown action")
	ErrNilDecision        = errors.New("nil decision")
	ErrItemNotInInventory = errors.New("item not in inventory")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrActionNotKnown     = errors.New("action not known by actor")
	ErrInsufficientMana   = errors.New("insufficient mana")
	ErrInvalidTarget      = errors.New("invalid target")
)

// Battle is one fight: the roster, its turn order, status engine, resolver and outbox.
// Every entry point appends its events to the outbox before returning; callers drain
// them with Events or Dispatch.
//
// Battle is not safe for concurrent use.
type Battle struct {
	ID        uuid.UUID
	registry  *ruleset.Registry
	roster    *character.Roster
	sequencer *Sequencer
	statuses  *condition.Engine
	resolver  *Resolver
	out       *event.Outbox
	logger    *zap.Logger
	// turn is the id whose turn StartTurn opened; acting is that id while it may act.
	turn   int
	acting int
}

// NewBattle creates a battle over a populated roster.
//
// Precondition: reg must be linked; roster must hold at least one character; src and
// logger must be non-nil.
func NewBattle(reg *ruleset.Registry, roster *character.Roster, src dice.Source, logger *zap.Logger) *Battle {
	id := uuid.New()
	logger = logger.With(zap.String("battle_id", id.String()))
	out := &event.Outbox{}
	roller := dice.NewLoggedRoller(src, logger)
	statuses := condition.NewEngine(roster, roller, out, logger)
	return &Battle{
		ID:        id,
		registry:  reg,
		roster:    roster,
		sequencer: NewSequencer(roster),
		statuses:  statuses,
		resolver:  NewResolver(roster, statuses, roller, out, logger),
		out:       out,
		logger:    logger,
	}
}

// FromEncounter builds the roster for enc from reg and creates the battle.
//
// Precondition: enc must have been validated against reg.
func FromEncounter(reg *ruleset.Registry, enc *ruleset.Encounter, src dice.Source, logger *zap.Logger) (*Battle, error) {
	roster := character.NewRoster()
	for _, slot := range enc.Slots {
		tmpl, ok := reg.Character(slot.Template)
		if !ok {
			return nil, fmt.Errorf("encounter %q: unknown character template %q", enc.ID, slot.Template)
		}
		c, err := character.NewFromTemplate(tmpl, slot.Position, slot.Player)
		if err != nil {
			return nil, fmt.Errorf("encounter %q: %w", enc.ID, err)
		}
		roster.Add(c)
	}
	return NewBattle(reg, roster, src, logger), nil
}

// Roster returns the battle's characters.
func (b *Battle) Roster() *character.Roster { return b.roster }

// Registry returns the template repository the battle resolves ids against.
func (b *Battle) Registry() *ruleset.Registry { return b.registry }

// Sequencer returns the turn order.
func (b *Battle) Sequencer() *Sequencer { return b.sequencer }

// Statuses returns the status engine.
func (b *Battle) Statuses() *condition.Engine { return b.statuses }

// Resolver returns the action resolver.
func (b *Battle) Resolver() *Resolver { return b.resolver }

// Round returns the current round number.
func (b *Battle) Round() int { return b.sequencer.Round() }

// Outcome reports whether one side has been wiped out and, if so, whether the players
// won.
func (b *Battle) Outcome() (over, playersWon bool) {
	players, enemies := b.roster.SideAlive(true), b.roster.SideAlive(false)
	return !players || !enemies, players && !enemies
}

// StartTurn opens the front character's turn: status ticks, then delayed actions, then
// delayed statuses. A character killed by its own start-of-turn effects does not act;
// the caller should end the turn.
//
// Postcondition: alive is true iff actorID may act now; a TurnStarted event is emitted
// only in that case.
func (b *Battle) StartTurn() (actorID int, alive bool) {
	id, ok := b.sequencer.Current()
	if !ok {
		return 0, false
	}
	b.turn = id
	if b.statuses.BeginStartTurn(id) {
		b.sequencer.Remove(id)
		return id, false
	}
	for _, dead := range b.resolver.StartTurn(id) {
		b.sequencer.Remove(dead)
	}
	actor := b.roster.MustGet(id)
	if actor.IsDead() {
		return id, false
	}
	for _, dead := range b.statuses.FinishStartTurn(id) {
		b.sequencer.Remove(dead)
	}
	if actor.IsDead() {
		return id, false
	}
	b.acting = id
	b.out.Append(event.TurnStarted{ID: id, IsPlayer: actor.IsPlayer})
	b.logger.Debug("turn started", zap.Int("character_id", id), zap.Int("round", b.sequencer.Round()))
	return id, true
}

// Act validates d for actorID, expands its target, pays its cost and resolves it.
//
// Postcondition: on error nothing changed; the error wraps one of the package
// sentinels.
func (b *Battle) Act(actorID int, d *Decision) error {
	if d == nil {
		return ErrNilDecision
	}
	if actorID == 0 || actorID != b.acting {
		return fmt.Errorf("%w: character %d", ErrNotYourTurn, actorID)
	}
	actor := b.roster.MustGet(actorID)
	action, err := b.chooseAction(actor, d)
	if err != nil {
		return err
	}
	if actor.CurrentMana < action.ManaCost {
		return fmt.Errorf("%w: %s needs %d, has %d", ErrInsufficientMana, action.ID, action.ManaCost, actor.CurrentMana)
	}
	positions, err := ExpandTargets(b.roster, actor, action, d.Center)
	if err != nil {
		return err
	}
	if d.ConsumableID != "" {
		actor.ConsumeItem(d.ConsumableID)
	}
	if action.ManaCost > 0 {
		actor.ChangeMana(-action.ManaCost)
	}
	b.fire(actorID, action, positions)
	return nil
}

func (b *Battle) chooseAction(actor *character.Character, d *Decision) (*ruleset.ActionTemplate, error) {
	if d.ConsumableID != "" {
		if !actor.HasItem(d.ConsumableID) {
			return nil, fmt.Errorf("%w: %s", ErrItemNotInInventory, d.ConsumableID)
		}
		action, ok := b.registry.Action(d.ConsumableID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAction, d.ConsumableID)
		}
		return action, nil
	}
	action, ok := b.registry.Action(d.ActionID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, d.ActionID)
	}
	if !actor.Knows(d.ActionID) {
		return nil, fmt.Errorf("%w: %s does not know %s", ErrActionNotKnown, actor.Name, d.ActionID)
	}
	return action, nil
}

// StartAction fires actionID from actorID at explicit positions, bypassing turn,
// knowledge and cost checks. It is the entry point for callers that already chose
// concrete targets.
func (b *Battle) StartAction(actorID int, actionID string, positions []int) error {
	action, ok := b.registry.Action(actionID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, actionID)
	}
	if _, ok := b.roster.Get(actorID); !ok {
		return fmt.Errorf("%w: unknown character %d", ErrInvalidTarget, actorID)
	}
	for _, p := range positions {
		if !ruleset.ValidPosition(p) {
			return fmt.Errorf("%w: position %d is off the battlefield", ErrInvalidTarget, p)
		}
	}
	b.fire(actorID, action, positions)
	return nil
}

func (b *Battle) fire(actorID int, action *ruleset.ActionTemplate, positions []int) {
	for _, id := range b.resolver.StartAction(actorID, action, positions) {
		b.sequencer.Remove(id)
	}
}

// Wait sends the acting character to the back of the current round. It reports false,
// and the turn stays open, when the actor is the last of the round.
func (b *Battle) Wait() bool {
	if !b.sequencer.Wait() {
		return false
	}
	b.acting, b.turn = 0, 0
	return true
}

// EndTurn closes the current turn and advances the turn order.
func (b *Battle) EndTurn() {
	id := b.turn
	if id == 0 {
		id, _ = b.sequencer.Current()
	}
	round := b.sequencer.Round()
	if b.sequencer.EndTurn() {
		b.logger.Debug("round started", zap.Int("round", b.sequencer.Round()))
	}
	if id != 0 {
		b.out.Append(event.TurnEnded{ID: id, Round: round})
	}
	b.acting, b.turn = 0, 0
}

// Events drains the outbox.
func (b *Battle) Events() []event.Event { return b.out.Drain() }

// Dispatch drains the outbox into listeners.
func (b *Battle) Dispatch(listeners ...event.Listener) {
	event.Dispatch(b.out.Drain(), listeners...)
}
