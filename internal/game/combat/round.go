package combat

import "github.com/cory-johannsen/skirmish/internal/game/character"

// Sequencer owns the round-robin turn order: the queue of characters still to act this
// round and the precomputed queue for the next one.
//
// Invariant: neither queue contains an id twice.
// Sequencer is not safe for concurrent use.
type Sequencer struct {
	roster  *character.Roster
	current []int
	next    []int
	round   int
	// frontRemoved records that the acting character was purged mid-turn, so EndTurn
	// must not drop the new front.
	frontRemoved bool
}

// NewSequencer builds both queues from the living characters in roster.
//
// Postcondition: Round() == 1 and CurrentRound() equals NextRound().
func NewSequencer(roster *character.Roster) *Sequencer {
	return &Sequencer{
		roster:  roster,
		current: DetermineTurnOrder(roster),
		next:    DetermineTurnOrder(roster),
		round:   1,
	}
}

// Current returns the id whose turn it is. It reports false when nobody is left.
func (s *Sequencer) Current() (int, bool) {
	if len(s.current) == 0 {
		return 0, false
	}
	return s.current[0], true
}

// CurrentRound returns the characters still to act this round, acting one first.
func (s *Sequencer) CurrentRound() []int { return append([]int(nil), s.current...) }

// NextRound returns the precomputed order for the next round.
func (s *Sequencer) NextRound() []int { return append([]int(nil), s.next...) }

// Round returns the round counter, starting at 1.
func (s *Sequencer) Round() int { return s.round }

// EndTurn finishes the front character's turn. When it was the last of the round the
// next round is promoted and a fresh next round computed; otherwise the front is dropped
// and dead entries culled.
//
// Postcondition: returns true iff a new round started.
func (s *Sequencer) EndTurn() (rolled bool) {
	if s.frontRemoved {
		s.frontRemoved = false
		if len(s.current) > 0 {
			s.cull(false)
			if len(s.current) > 0 {
				return false
			}
		}
		s.rollover()
		return true
	}
	if len(s.current) <= 1 {
		s.rollover()
		return true
	}
	s.cull(true)
	if len(s.current) == 0 {
		s.rollover()
		return true
	}
	return false
}

func (s *Sequencer) rollover() {
	s.current = s.next
	s.cull(false)
	s.next = DetermineTurnOrder(s.roster)
	s.round++
}

// cull compacts the current queue by scanning from the back and shifting living
// entries toward the end, optionally dropping the front first. Relative order is kept.
func (s *Sequencer) cull(dropFront bool) {
	q := s.current
	if dropFront && len(q) > 0 {
		q = q[1:]
	}
	w := len(q)
	for i := len(q) - 1; i >= 0; i-- {
		if s.roster.IsAlive(q[i]) {
			w--
			q[w] = q[i]
		}
	}
	s.current = q[w:]
}

// Remove purges id from both queues.
func (s *Sequencer) Remove(id int) {
	if len(s.current) > 0 && s.current[0] == id {
		s.frontRemoved = true
	}
	s.current = removeID(s.current, id)
	s.next = removeID(s.next, id)
}

// Wait moves the acting character to the back of the current round. A lone character
// cannot wait.
//
// Postcondition: returns false and changes nothing when one or fewer remain.
func (s *Sequencer) Wait() bool {
	if len(s.current) <= 1 {
		return false
	}
	front := s.current[0]
	s.current = append(s.current[1:len(s.current):len(s.current)], front)
	return true
}

func removeID(q []int, id int) []int {
	out := make([]int, 0, len(q))
	for _, e := range q {
		if e != id {
			out = append(out, e)
		}
	}
	return out
}
