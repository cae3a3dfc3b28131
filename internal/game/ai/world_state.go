package ai

import "sort"

// CombatantState captures a character's combat-relevant state at planning time.
type CombatantState struct {
	ID       int
	Name     string
	IsPlayer bool
	Position int
	// X and Y are the absolute grid column and lane.
	X, Y      int
	Health    int
	MaxHealth int
	Mana      int
	Threat    int
	Dead      bool
}

// HealthPercent returns current health as a percentage of MaxHealth; 0 if MaxHealth == 0.
func (c *CombatantState) HealthPercent() float64 {
	if c.MaxHealth <= 0 {
		return 0
	}
	return float64(c.Health) / float64(c.MaxHealth) * 100
}

func (c *CombatantState) distance(o *CombatantState) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// WorldState is the snapshot passed to the HTN planner for one acting character.
//
// Invariant: Self must not be nil and must appear in Combatants.
type WorldState struct {
	Self       *CombatantState
	Combatants []*CombatantState
}

// Enemies returns all living combatants on the other side from Self.
//
// Postcondition: returned slice contains no dead combatants and no allies.
func (ws *WorldState) Enemies() []*CombatantState {
	var out []*CombatantState
	for _, c := range ws.Combatants {
		if !c.Dead && c.IsPlayer != ws.Self.IsPlayer {
			out = append(out, c)
		}
	}
	return out
}

// Allies returns all living combatants on Self's side, excluding Self.
func (ws *WorldState) Allies() []*CombatantState {
	var out []*CombatantState
	for _, c := range ws.Combatants {
		if !c.Dead && c.ID != ws.Self.ID && c.IsPlayer == ws.Self.IsPlayer {
			out = append(out, c)
		}
	}
	return out
}

// HasLivingEnemies returns true when at least one living enemy exists.
func (ws *WorldState) HasLivingEnemies() bool {
	return len(ws.Enemies()) > 0
}

// EnemiesByDistance returns living enemies ordered by grid distance from Self; ties keep
// Combatants order.
func (ws *WorldState) EnemiesByDistance() []*CombatantState {
	enemies := ws.Enemies()
	sort.SliceStable(enemies, func(i, j int) bool {
		return ws.Self.distance(enemies[i]) < ws.Self.distance(enemies[j])
	})
	return enemies
}

// NearestEnemy returns the living enemy closest on the grid, or nil.
func (ws *WorldState) NearestEnemy() *CombatantState {
	if enemies := ws.EnemiesByDistance(); len(enemies) > 0 {
		return enemies[0]
	}
	return nil
}

// WeakestEnemy returns the living enemy with the lowest health percentage, or nil.
//
// Postcondition: ties broken by order in Combatants.
func (ws *WorldState) WeakestEnemy() *CombatantState {
	return lowestHealth(ws.Enemies())
}

// HighestThreatEnemy returns the living enemy with the most accumulated threat, or nil.
//
// Postcondition: ties broken by order in Combatants.
func (ws *WorldState) HighestThreatEnemy() *CombatantState {
	var best *CombatantState
	for _, e := range ws.Enemies() {
		if best == nil || e.Threat > best.Threat {
			best = e
		}
	}
	return best
}

// WeakestAlly returns the living ally, Self included, with the lowest health percentage.
func (ws *WorldState) WeakestAlly() *CombatantState {
	candidates := []*CombatantState{ws.Self}
	if ws.Self.Dead {
		candidates = nil
	}
	return lowestHealth(append(candidates, ws.Allies()...))
}

func lowestHealth(list []*CombatantState) *CombatantState {
	var weakest *CombatantState
	for _, c := range list {
		if weakest == nil || c.HealthPercent() < weakest.HealthPercent() {
			weakest = c
		}
	}
	return weakest
}

// ResolveTarget maps a target selector to a combatant.
//
// Postcondition: nil when the selector is unknown or selects nobody.
func (ws *WorldState) ResolveTarget(selector string) *CombatantState {
	switch selector {
	case TargetNearestEnemy:
		return ws.NearestEnemy()
	case TargetWeakestEnemy:
		return ws.WeakestEnemy()
	case TargetHighestThreatEnemy:
		return ws.HighestThreatEnemy()
	case TargetWeakestAlly:
		return ws.WeakestAlly()
	case TargetSelf:
		return ws.Self
	default:
		return nil
	}
}
