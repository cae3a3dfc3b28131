package ai

import (
	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// BuildWorldState constructs a WorldState snapshot of b for the character actorID.
//
// Precondition: actorID must be in b's roster.
// Postcondition: ws.Self.ID == actorID; every character in the roster is represented,
// in roster order.
func BuildWorldState(b *combat.Battle, actorID int) *WorldState {
	ws := &WorldState{}
	for _, c := range b.Roster().All() {
		x, y := combat.Cell(c.Position)
		cs := &CombatantState{
			ID:        c.ID,
			Name:      c.Name,
			IsPlayer:  c.IsPlayer,
			Position:  c.Position,
			X:         x,
			Y:         y,
			Health:    c.CurrentHealth,
			MaxHealth: c.CurrentMaxHealth,
			Mana:      c.CurrentMana,
			Threat:    c.Threat,
			Dead:      c.IsDead(),
		}
		if c.ID == actorID {
			ws.Self = cs
		}
		ws.Combatants = append(ws.Combatants, cs)
	}
	return ws
}

// Bind points mgr's combat callbacks at b so Lua preconditions see the live battle.
//
// Precondition: mgr and b must be non-nil.
func Bind(mgr *scripting.Manager, b *combat.Battle) {
	mgr.GetCombatant = func(id int) *scripting.CombatantInfo {
		c, ok := b.Roster().Get(id)
		if !ok {
			return nil
		}
		return combatantInfo(b, c)
	}
	mgr.GetCombatants = func() []*scripting.CombatantInfo {
		all := b.Roster().All()
		out := make([]*scripting.CombatantInfo, 0, len(all))
		for _, c := range all {
			out = append(out, combatantInfo(b, c))
		}
		return out
	}
}

func combatantInfo(b *combat.Battle, c *character.Character) *scripting.CombatantInfo {
	applied := b.Statuses().Applied(c.ID)
	statuses := make([]string, 0, len(applied))
	for _, as := range applied {
		statuses = append(statuses, as.Template.ID)
	}
	return &scripting.CombatantInfo{
		ID:        c.ID,
		Name:      c.Name,
		IsPlayer:  c.IsPlayer,
		Position:  c.Position,
		Health:    c.CurrentHealth,
		MaxHealth: c.CurrentMaxHealth,
		Mana:      c.CurrentMana,
		MaxMana:   c.CurrentMaxMana,
		Threat:    c.Threat,
		Items:     len(c.Inventory),
		Statuses:  statuses,
	}
}
