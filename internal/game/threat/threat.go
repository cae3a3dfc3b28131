// Package threat turns health changes into threat on the acting character.
package threat

import "github.com/cory-johannsen/skirmish/internal/game/character"

// Apply adds threat to actor for a health change of modifiedHealth on target and
// returns the amount added. Damage (negative) and healing (positive) both generate
// threat.
//
//	flat = |modifiedHealth|*100/target.CurrentMaxHealth + actionThreat + Σ status Threat
//	mult = actionThreatMultiplier + actor.ThreatMultiplier + 100 + Σ status ThreatMultiplier
//	actor.Threat += flat*mult/100
//
// The status sums run over every buff and debuff currently on actor.
//
// Precondition: actor and target must be non-nil.
func Apply(actor, target *character.Character, modifiedHealth, actionThreat, actionThreatMultiplier int) int {
	if modifiedHealth < 0 {
		modifiedHealth = -modifiedHealth
	}
	flat := modifiedHealth*100/max(target.CurrentMaxHealth, 1) + actionThreat
	mult := actionThreatMultiplier + actor.ThreatMultiplier + 100
	for _, s := range actor.Statuses() {
		flat += s.Threat
		mult += s.ThreatMultiplier
	}
	delta := flat * mult / 100
	actor.Threat += delta
	return delta
}
