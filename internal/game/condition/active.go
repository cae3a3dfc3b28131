package condition

import "github.com/cory-johannsen/skirmish/internal/game/ruleset"

// AppliedStatus tracks one status on one character.
//
// Invariant: 1 <= StackCount <= Template.MaxStacks().
type AppliedStatus struct {
	ApplicatorID int
	Template     *ruleset.StatusTemplate
	// TurnsRemaining is ignored for statuses that never expire.
	TurnsRemaining int
	StackCount     int
	Frozen         Frozen
}

// DelayedStatus is a status scheduled by a caster against grid positions.
type DelayedStatus struct {
	ApplicatorID   int
	Template       *ruleset.StatusTemplate
	Positions      []int
	TurnsRemaining int
	Frozen         Frozen
}

// ActiveSet tracks the statuses currently applied to one character, in application
// order. It is not safe for concurrent use; the caller must serialise access.
//
// Invariant: at most one entry per template id.
type ActiveSet struct {
	statuses []*AppliedStatus
}

// Get returns the entry for statusID.
func (s *ActiveSet) Get(statusID string) (*AppliedStatus, bool) {
	for _, as := range s.statuses {
		if as.Template.ID == statusID {
			return as, true
		}
	}
	return nil, false
}

// Has reports whether statusID is applied.
func (s *ActiveSet) Has(statusID string) bool {
	_, ok := s.Get(statusID)
	return ok
}

// Stacks returns the stack count for statusID, or 0 if not present.
func (s *ActiveSet) Stacks(statusID string) int {
	if as, ok := s.Get(statusID); ok {
		return as.StackCount
	}
	return 0
}

// Len returns the number of applied statuses.
func (s *ActiveSet) Len() int { return len(s.statuses) }

func (s *ActiveSet) add(as *AppliedStatus) {
	s.statuses = append(s.statuses, as)
}

func (s *ActiveSet) remove(as *AppliedStatus) {
	out := s.statuses[:0]
	for _, e := range s.statuses {
		if e != as {
			out = append(out, e)
		}
	}
	clear(s.statuses[len(out):])
	s.statuses = out
}

// All returns the entries in application order. The slice is a new allocation; the
// entries are shared and must not be modified.
func (s *ActiveSet) All() []*AppliedStatus {
	return append([]*AppliedStatus(nil), s.statuses...)
}
