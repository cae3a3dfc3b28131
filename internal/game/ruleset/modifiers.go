// Package ruleset defines the immutable templates combat is built from (actions, status
// effects, characters, encounters) and the YAML-backed registry that serves them.
package ruleset

import "github.com/cory-johannsen/skirmish/internal/game/damage"

// Modifiers is a set of stat deltas. Status effects carry one and apply it once per
// stack; character templates use it for their base armor and bonuses.
type Modifiers struct {
	MaxHealth          int           `yaml:"max_health"`
	MaxMana            int           `yaml:"max_mana"`
	Stats              damage.Stats  `yaml:"stats"`
	DamageBonus        damage.Vector `yaml:"damage_bonus"`
	DamageBonusPercent damage.Vector `yaml:"damage_bonus_percent"`
	Armor              damage.Vector `yaml:"armor"`
	ArmorPercent       damage.Vector `yaml:"armor_percent"`
	CritChance         int           `yaml:"crit_chance"`
	CritMultiplier     int           `yaml:"crit_multiplier"`
	SpellDamage        int           `yaml:"spell_damage"`
	SpellDamagePercent int           `yaml:"spell_damage_percent"`
	ResistAll          int           `yaml:"resist_all"`
	ResistAllPercent   int           `yaml:"resist_all_percent"`
}

// Scaled returns m with every field multiplied by n.
// Scaled(-k) is the exact inverse of applying m k times.
func (m Modifiers) Scaled(n int) Modifiers {
	return Modifiers{
		MaxHealth:          m.MaxHealth * n,
		MaxMana:            m.MaxMana * n,
		Stats:              m.Stats.Scale(n),
		DamageBonus:        m.DamageBonus.Scale(n),
		DamageBonusPercent: m.DamageBonusPercent.Scale(n),
		Armor:              m.Armor.Scale(n),
		ArmorPercent:       m.ArmorPercent.Scale(n),
		CritChance:         m.CritChance * n,
		CritMultiplier:     m.CritMultiplier * n,
		SpellDamage:        m.SpellDamage * n,
		SpellDamagePercent: m.SpellDamagePercent * n,
		ResistAll:          m.ResistAll * n,
		ResistAllPercent:   m.ResistAllPercent * n,
	}
}

// IsZero reports whether m changes nothing.
func (m Modifiers) IsZero() bool {
	return m == Modifiers{}
}

// Payload is the damage, healing, crit and threat data shared by actions and status
// effects.
type Payload struct {
	Damage           damage.Vector  `yaml:"damage"`
	DamageScalars    damage.Scalars `yaml:"damage_scalars"`
	DamageMultiplier int            `yaml:"damage_multiplier"`
	Heal             int            `yaml:"heal"`
	HealScalars      damage.Stats   `yaml:"heal_scalars"`
	HealPercent      int            `yaml:"heal_percent"`
	CritChance       int            `yaml:"crit_chance"`
	CritMultiplier   int            `yaml:"crit_multiplier"`
	Threat           int            `yaml:"threat"`
	ThreatMultiplier int            `yaml:"threat_multiplier"`
	// Magical payloads are additionally scaled by the caster's spell damage percentage.
	Magical bool `yaml:"magical"`
}

// Formula returns the damage formula input for this payload.
func (p Payload) Formula() damage.Formula {
	return damage.Formula{
		Base:       p.Damage,
		Scalars:    p.DamageScalars,
		Multiplier: p.DamageMultiplier,
		Magical:    p.Magical,
	}
}

// DealsDamage reports whether any damage channel can be nonzero.
func (p Payload) DealsDamage() bool {
	if !p.Damage.IsZero() {
		return true
	}
	for _, c := range damage.Channels() {
		if p.DamageScalars.Any(c) {
			return true
		}
	}
	return false
}

// Heals reports whether the payload carries any healing.
func (p Payload) Heals() bool {
	return p.Heal != 0 || p.HealPercent != 0 || !p.HealScalars.IsZero()
}
