package ruleset

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Battlefield geometry: two 3×3 sides, positions 1–9 for players and 10–18 for enemies.
const (
	MinPosition = 1
	MaxPosition = 18
	SideSize    = 9
)

// PlayerSide reports whether position lies on the player half of the battlefield.
func PlayerSide(position int) bool {
	return position >= MinPosition && position <= SideSize
}

// ValidPosition reports whether position is on the battlefield.
func ValidPosition(position int) bool {
	return position >= MinPosition && position <= MaxPosition
}

// Slot places one combatant at battle setup.
type Slot struct {
	Template string `yaml:"template"`
	Position int    `yaml:"position"`
	Player   bool   `yaml:"player"`
}

// Encounter is a battle setup: which templates fight, and where.
type Encounter struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Slots []Slot `yaml:"combatants"`
}

// Validate checks the encounter against reg.
//
// Postcondition: Returns nil iff every slot names a registered character template,
// positions are unique and on the side matching the Player flag, and both sides are
// represented.
func (e *Encounter) Validate(reg *Registry) error {
	var errs []error
	seen := make(map[int]bool, len(e.Slots))
	var players, enemies int
	for i, s := range e.Slots {
		if _, ok := reg.Character(s.Template); !ok {
			errs = append(errs, fmt.Errorf("encounter %q slot %d: unknown character template %q", e.ID, i, s.Template))
		}
		if !ValidPosition(s.Position) {
			errs = append(errs, fmt.Errorf("encounter %q slot %d: position must be %d-%d, got %d", e.ID, i, MinPosition, MaxPosition, s.Position))
			continue
		}
		if seen[s.Position] {
			errs = append(errs, fmt.Errorf("encounter %q slot %d: position %d is already occupied", e.ID, i, s.Position))
		}
		seen[s.Position] = true
		if PlayerSide(s.Position) != s.Player {
			errs = append(errs, fmt.Errorf("encounter %q slot %d: position %d is on the wrong side", e.ID, i, s.Position))
		}
		if s.Player {
			players++
		} else {
			enemies++
		}
	}
	if players == 0 || enemies == 0 {
		errs = append(errs, fmt.Errorf("encounter %q: both sides need at least one combatant", e.ID))
	}
	return errors.Join(errs...)
}

// LoadEncounter parses and validates the encounter file at path.
//
// Precondition: reg must be linked.
// Postcondition: Returns a validated *Encounter, or an error.
func LoadEncounter(path string, reg *Registry) (*Encounter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading encounter %q: %w", path, err)
	}
	var enc Encounter
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&enc); err != nil {
		return nil, fmt.Errorf("parsing encounter %q: %w", path, err)
	}
	if err := enc.Validate(reg); err != nil {
		return nil, err
	}
	return &enc, nil
}
