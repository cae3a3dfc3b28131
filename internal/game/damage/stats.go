package damage

import "fmt"

// Stat names one primary combat stat.
type Stat int

const (
	Strength Stat = iota
	Stamina
	Intellect
	Agility
	Speed
)

// NumStats is the fixed width of a Stats block.
const NumStats = 5

var statNames = [NumStats]string{"strength", "stamina", "intellect", "agility", "speed"}

// String returns the lower-case stat name used in content files.
func (s Stat) String() string {
	if s < 0 || int(s) >= NumStats {
		return fmt.Sprintf("stat(%d)", int(s))
	}
	return statNames[s]
}

// ParseStat maps a content-file stat name to a Stat.
func ParseStat(name string) (Stat, error) {
	for i, n := range statNames {
		if n == name {
			return Stat(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stat %q", name)
}

// Stats holds one integer per primary stat.
type Stats [NumStats]int

// Get returns the value for stat s.
func (s Stats) Get(st Stat) int { return s[st] }

// With returns a copy of s with stat st set to n.
func (s Stats) With(st Stat, n int) Stats {
	s[st] = n
	return s
}

// Add returns s + o stat by stat.
func (s Stats) Add(o Stats) Stats {
	for i := range s {
		s[i] += o[i]
	}
	return s
}

// Scale returns s with every stat multiplied by n.
func (s Stats) Scale(n int) Stats {
	for i := range s {
		s[i] *= n
	}
	return s
}

// Dot returns Σ s[i]*o[i]; used to turn stat scalars into bonus points.
func (s Stats) Dot(o Stats) int {
	total := 0
	for i := range s {
		total += s[i] * o[i]
	}
	return total
}

// IsZero reports whether every stat is zero.
func (s Stats) IsZero() bool {
	return s == Stats{}
}

// Scalars holds per-channel stat scalars: Scalars[c][s] stat points of s convert into
// that many bonus points of channel c each.
type Scalars [NumChannels]Stats

// Any reports whether any scalar for channel c is nonzero.
func (sc Scalars) Any(c Channel) bool {
	return !sc[c].IsZero()
}

// With returns a copy of sc with the scalar for (c, st) set to n.
func (sc Scalars) With(c Channel, st Stat, n int) Scalars {
	sc[c][st] = n
	return sc
}
