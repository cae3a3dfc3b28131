// Package character defines the mutable combat entity and the roster arena that owns it.
package character

import (
	"github.com/cory-johannsen/skirmish/internal/game/damage"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// Character is one combatant. It is created once at battle setup and never destroyed
// mid-battle; death is CurrentHealth == 0.
//
// Invariant: 0 <= CurrentHealth <= CurrentMaxHealth and 0 <= CurrentMana <= CurrentMaxMana.
type Character struct {
	// ID is assigned by Roster.Add and never reused.
	ID         int
	Name       string
	TemplateID string
	IsPlayer   bool
	// Position is the grid slot 1-18.
	Position int

	// MaxHealth and MaxMana are the permanent base values.
	MaxHealth        int
	MaxMana          int
	CurrentMaxHealth int
	CurrentMaxMana   int
	CurrentHealth    int
	CurrentMana      int

	Stats        damage.Stats
	CurrentStats damage.Stats

	DamageBonus        damage.Vector
	DamageBonusPercent damage.Vector
	Armor              damage.Vector
	ArmorPercent       damage.Vector
	CritChance         int
	CritMultiplier     int
	SpellDamage        int
	SpellDamagePercent int
	ResistAll          int
	ResistAllPercent   int

	Threat           int
	ThreatMultiplier int

	Attacks   []string
	Spells    []string
	Skills    []string
	Inventory []string

	// Buffs and Debuffs reference the templates currently applied, in application order.
	Buffs   []*ruleset.StatusTemplate
	Debuffs []*ruleset.StatusTemplate
}

// IsDead reports whether the character has no health left.
func (c *Character) IsDead() bool { return c.CurrentHealth <= 0 }

// Offense returns the attacker-side damage inputs.
func (c *Character) Offense() damage.Offense {
	return damage.Offense{
		Bonus:              c.DamageBonus,
		BonusPercent:       c.DamageBonusPercent,
		Stats:              c.CurrentStats,
		SpellDamagePercent: c.SpellDamagePercent,
	}
}

// Defense returns the target-side mitigation inputs.
func (c *Character) Defense() damage.Defense {
	return damage.Defense{
		Armor:            c.Armor,
		ArmorPercent:     c.ArmorPercent,
		ResistAll:        c.ResistAll,
		ResistAllPercent: c.ResistAllPercent,
	}
}

// Speed returns the current speed stat.
func (c *Character) Speed() int { return c.CurrentStats.Get(damage.Speed) }

// ChangeHealth adds delta to CurrentHealth, clamped to [0, CurrentMaxHealth].
//
// Postcondition: after == clamp(before+delta).
func (c *Character) ChangeHealth(delta int) (before, after int) {
	before = c.CurrentHealth
	c.CurrentHealth = clamp(before+delta, c.CurrentMaxHealth)
	return before, c.CurrentHealth
}

// ChangeMana adds delta to CurrentMana, clamped to [0, CurrentMaxMana].
func (c *Character) ChangeMana(delta int) (before, after int) {
	before = c.CurrentMana
	c.CurrentMana = clamp(before+delta, c.CurrentMaxMana)
	return before, c.CurrentMana
}

// ApplyModifiers adds m × times to the current (temporary) fields and re-clamps health
// and mana. Passing -times exactly reverses an earlier application.
//
// Postcondition: returns the change to the current speed stat.
func (c *Character) ApplyModifiers(m ruleset.Modifiers, times int) (speedDelta int) {
	if times == 0 || m.IsZero() {
		return 0
	}
	s := m.Scaled(times)
	preSpeed := c.Speed()
	c.CurrentMaxHealth += s.MaxHealth
	c.CurrentMaxMana += s.MaxMana
	c.CurrentStats = c.CurrentStats.Add(s.Stats)
	c.DamageBonus = c.DamageBonus.Add(s.DamageBonus)
	c.DamageBonusPercent = c.DamageBonusPercent.Add(s.DamageBonusPercent)
	c.Armor = c.Armor.Add(s.Armor)
	c.ArmorPercent = c.ArmorPercent.Add(s.ArmorPercent)
	c.CritChance += s.CritChance
	c.CritMultiplier += s.CritMultiplier
	c.SpellDamage += s.SpellDamage
	c.SpellDamagePercent += s.SpellDamagePercent
	c.ResistAll += s.ResistAll
	c.ResistAllPercent += s.ResistAllPercent
	c.CurrentHealth = clamp(c.CurrentHealth, c.CurrentMaxHealth)
	c.CurrentMana = clamp(c.CurrentMana, c.CurrentMaxMana)
	return c.Speed() - preSpeed
}

// ApplyPermanent applies m to both the base and the current values, for modifications
// that outlive every status effect.
func (c *Character) ApplyPermanent(m ruleset.Modifiers) (speedDelta int) {
	c.MaxHealth += m.MaxHealth
	c.MaxMana += m.MaxMana
	c.Stats = c.Stats.Add(m.Stats)
	return c.ApplyModifiers(m, 1)
}

// Knows reports whether actionID is one of the character's attacks, spells or skills.
func (c *Character) Knows(actionID string) bool {
	for _, list := range [][]string{c.Attacks, c.Spells, c.Skills} {
		for _, id := range list {
			if id == actionID {
				return true
			}
		}
	}
	return false
}

// HasItem reports whether the inventory holds at least one itemID.
func (c *Character) HasItem(itemID string) bool {
	for _, id := range c.Inventory {
		if id == itemID {
			return true
		}
	}
	return false
}

// ConsumeItem removes one itemID from the inventory.
//
// Postcondition: returns false and leaves the inventory unchanged if none is held.
func (c *Character) ConsumeItem(itemID string) bool {
	for i, id := range c.Inventory {
		if id == itemID {
			c.Inventory = append(c.Inventory[:i:i], c.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// Statuses returns buffs then debuffs.
func (c *Character) Statuses() []*ruleset.StatusTemplate {
	out := make([]*ruleset.StatusTemplate, 0, len(c.Buffs)+len(c.Debuffs))
	out = append(out, c.Buffs...)
	return append(out, c.Debuffs...)
}

// AddStatus records tmpl in the buff or debuff list.
func (c *Character) AddStatus(tmpl *ruleset.StatusTemplate) {
	if tmpl.IsDebuff {
		c.Debuffs = append(c.Debuffs, tmpl)
		return
	}
	c.Buffs = append(c.Buffs, tmpl)
}

// DropStatus removes tmpl from the buff or debuff list.
func (c *Character) DropStatus(tmpl *ruleset.StatusTemplate) {
	if tmpl.IsDebuff {
		c.Debuffs = without(c.Debuffs, tmpl)
		return
	}
	c.Buffs = without(c.Buffs, tmpl)
}

func without(list []*ruleset.StatusTemplate, tmpl *ruleset.StatusTemplate) []*ruleset.StatusTemplate {
	out := list[:0]
	for _, s := range list {
		if s != tmpl {
			out = append(out, s)
		}
	}
	return out
}

func clamp(v, hi int) int {
	if v > hi {
		v = hi
	}
	if v < 0 {
		v = 0
	}
	return v
}
