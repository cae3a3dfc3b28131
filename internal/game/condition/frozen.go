package condition

import (
	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/damage"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// Frozen is a payload magnitude computed once from the caster's stats at cast or
// (re)application time. Later changes to the caster do not affect it.
type Frozen struct {
	// Damage is the outgoing vector before the target's mitigation.
	Damage      damage.Vector
	Heal        int
	HealPercent int
	// CritChance and CritMultiplier combine the caster's and the payload's values.
	CritChance     int
	CritMultiplier int
}

// Freeze computes the magnitude of p fired by caster.
//
// Precondition: caster must be non-nil.
func Freeze(caster *character.Character, p ruleset.Payload) Frozen {
	f := Frozen{
		Heal:           damage.Heal(caster.CurrentStats, p.Heal, p.HealScalars),
		HealPercent:    p.HealPercent,
		CritChance:     caster.CritChance + p.CritChance,
		CritMultiplier: caster.CritMultiplier + p.CritMultiplier,
	}
	if p.DealsDamage() {
		f.Damage = damage.ComputeAction(caster.Offense(), p.Formula())
	}
	return f
}

// Stack returns f with the magnitudes of o added. Crit data is taken from o, the
// fresher application.
func (f Frozen) Stack(o Frozen) Frozen {
	f.Damage = f.Damage.Add(o.Damage)
	f.Heal += o.Heal
	f.HealPercent += o.HealPercent
	f.CritChance = o.CritChance
	f.CritMultiplier = o.CritMultiplier
	return f
}

// Crit returns f with damage and healing scaled by 100+CritMultiplier percent.
func (f Frozen) Crit() Frozen {
	pct := 100 + f.CritMultiplier
	f.Damage = f.Damage.ScalePercent(pct)
	f.Heal = f.Heal * pct / 100
	f.HealPercent = f.HealPercent * pct / 100
	return f
}

// HealthDelta resolves f against target: percent healing of the target's current
// maximum, then flat healing, then mitigated damage. The result is added to health
// directly.
func (f Frozen) HealthDelta(target *character.Character) (heal, dmg int) {
	heal = f.HealPercent*target.CurrentMaxHealth/100 + f.Heal
	dmg = damage.Mitigate(f.Damage, target.Defense())
	return heal, dmg
}

// IsZero reports whether f can change health.
func (f Frozen) IsZero() bool {
	return f.Damage.IsZero() && f.Heal == 0 && f.HealPercent == 0
}
