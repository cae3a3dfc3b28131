package character

import "fmt"

// Roster is the arena every combat component addresses characters through.
// Queues and maps elsewhere store ids, never *Character.
//
// Invariant: ids are assigned in increasing order starting at 1 and never reused.
// Roster is not safe for concurrent use.
type Roster struct {
	byID   map[int]*Character
	order  []int
	nextID int
}

// NewRoster returns an empty Roster.
func NewRoster() *Roster {
	return &Roster{byID: make(map[int]*Character), nextID: 1}
}

// Add assigns c the next id and stores it.
//
// Precondition: c must be non-nil and not already in a roster (ID == 0).
// Postcondition: c.ID > 0 and Get(c.ID) returns c.
func (r *Roster) Add(c *Character) int {
	if c == nil || c.ID != 0 {
		panic("Roster.Add: precondition violated: character must be non-nil and unassigned")
	}
	c.ID = r.nextID
	r.nextID++
	r.byID[c.ID] = c
	r.order = append(r.order, c.ID)
	return c.ID
}

// Get returns the character with id.
func (r *Roster) Get(id int) (*Character, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// MustGet returns the character with id and panics if it is absent.
//
// Precondition: id must have been returned by Add.
func (r *Roster) MustGet(id int) *Character {
	c, ok := r.byID[id]
	if !ok {
		panic(fmt.Sprintf("Roster.MustGet: unknown character id %d", id))
	}
	return c
}

// Len returns the number of characters ever added.
func (r *Roster) Len() int { return len(r.order) }

// All returns every character in roster order, dead ones included.
func (r *Roster) All() []*Character {
	out := make([]*Character, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Living returns the living characters in roster order.
func (r *Roster) Living() []*Character {
	var out []*Character
	for _, id := range r.order {
		if c := r.byID[id]; !c.IsDead() {
			out = append(out, c)
		}
	}
	return out
}

// IsAlive reports whether id names a living character.
func (r *Roster) IsAlive(id int) bool {
	c, ok := r.byID[id]
	return ok && !c.IsDead()
}

// AtPosition returns the living character standing at position, if any.
func (r *Roster) AtPosition(position int) (*Character, bool) {
	for _, id := range r.order {
		c := r.byID[id]
		if c.Position == position && !c.IsDead() {
			return c, true
		}
	}
	return nil, false
}

// LivingAt resolves positions to living characters, in the order given. Empty or dead
// positions are skipped and a character is returned at most once.
func (r *Roster) LivingAt(positions []int) []*Character {
	var out []*Character
	seen := make(map[int]bool, len(positions))
	for _, p := range positions {
		c, ok := r.AtPosition(p)
		if !ok || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}

// SideAlive reports whether any character on the given side is alive.
func (r *Roster) SideAlive(players bool) bool {
	for _, c := range r.Living() {
		if c.IsPlayer == players {
			return true
		}
	}
	return false
}
