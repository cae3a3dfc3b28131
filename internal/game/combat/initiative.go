package combat

import (
	"sort"

	"github.com/cory-johannsen/skirmish/internal/game/character"
)

// DetermineTurnOrder returns the ids of the living characters sorted by current speed,
// fastest first. Ties keep roster order.
//
// Postcondition: the result is non-increasing in speed and contains each living
// character exactly once.
func DetermineTurnOrder(roster *character.Roster) []int {
	living := roster.Living()
	sort.SliceStable(living, func(i, j int) bool {
		return living[i].Speed() > living[j].Speed()
	})
	ids := make([]int, len(living))
	for i, c := range living {
		ids[i] = c.ID
	}
	return ids
}
