package combat

import (
	"context"
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// Decision is what an oracle or a player chooses for the acting character.
type Decision struct {
	// ActionID names a known attack, spell or skill.
	ActionID string
	// Center is the grid position the action's offsets expand around.
	Center int
	// ConsumableID, when set, names an item action in the actor's inventory. It is
	// used instead of ActionID and consumed.
	ConsumableID string
}

// Oracle picks a decision for the acting character.
type Oracle interface {
	Decide(ctx context.Context, b *Battle, actorID int) (*Decision, error)
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(ctx context.Context, b *Battle, actorID int) (*Decision, error)

// Decide calls f.
func (f OracleFunc) Decide(ctx context.Context, b *Battle, actorID int) (*Decision, error) {
	return f(ctx, b, actorID)
}

// The battlefield is six columns by three lanes. Columns 0-2 are the player side with
// column 2 at the front; columns 3-5 are the enemy side with column 3 at the front.
// Within a side, position index i = (p-1) % 9 has rank i/3 (0 is the front row) and
// lane i%3.
const (
	gridColumns = 6
	gridLanes   = 3
	sideRanks   = 3
)

// Cell returns the absolute column and lane of a valid position.
func Cell(position int) (x, y int) {
	i := (position - 1) % ruleset.SideSize
	rank, lane := i/sideRanks, i%sideRanks
	if ruleset.PlayerSide(position) {
		return sideRanks - 1 - rank, lane
	}
	return sideRanks + rank, lane
}

// PositionAt returns the position at column x and lane y.
func PositionAt(x, y int) (int, bool) {
	if x < 0 || x >= gridColumns || y < 0 || y >= gridLanes {
		return 0, false
	}
	if x < sideRanks {
		rank := sideRanks - 1 - x
		return rank*sideRanks + y + 1, true
	}
	rank := x - sideRanks
	return ruleset.SideSize + rank*sideRanks + y + 1, true
}

// ExpandTargets turns a chosen center into the action's target positions. Offsets are
// mirrored for enemy actors so DX always points away from the actor's side. Offsets that
// fall off the grid are dropped.
//
// Postcondition: returns an error wrapping ErrInvalidTarget when the center is off the
// grid, or when the action cannot pass through and a living character stands in front
// of the center in its lane on the opposing side.
func ExpandTargets(roster *character.Roster, actor *character.Character, action *ruleset.ActionTemplate, center int) ([]int, error) {
	t := action.Targeting
	if !t.CanRelocate {
		center = actor.Position
	}
	if !ruleset.ValidPosition(center) {
		return nil, fmt.Errorf("%w: center %d is off the battlefield", ErrInvalidTarget, center)
	}
	if !t.PassThrough && ruleset.PlayerSide(center) != actor.IsPlayer {
		if blocker, ok := blockerFor(roster, center); ok {
			return nil, fmt.Errorf("%w: %s blocks position %d", ErrInvalidTarget, blocker.Name, center)
		}
	}
	if len(t.Offsets) == 0 {
		return []int{center}, nil
	}
	cx, cy := Cell(center)
	seen := make(map[int]bool, len(t.Offsets))
	var out []int
	for _, o := range t.Offsets {
		dx := o.DX
		if !actor.IsPlayer {
			dx = -dx
		}
		p, ok := PositionAt(cx+dx, cy+o.DY)
		if !ok || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}

// blockerFor returns a living character in front of center on center's side, in the
// same lane.
func blockerFor(roster *character.Roster, center int) (*character.Character, bool) {
	i := (center - 1) % ruleset.SideSize
	base := center - 1 - i
	for rank := 0; rank < i/sideRanks; rank++ {
		if c, ok := roster.AtPosition(base + rank*sideRanks + i%sideRanks + 1); ok {
			return c, true
		}
	}
	return nil, false
}
