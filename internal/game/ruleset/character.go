package ruleset

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/damage"
)

// CharacterTemplate defines a reusable combatant archetype loaded from YAML.
type CharacterTemplate struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	MaxHealth   int          `yaml:"max_health"`
	MaxMana     int          `yaml:"max_mana"`
	Stats       damage.Stats `yaml:"stats"`
	// Modifiers are the template's base armor, bonuses and crit data.
	Modifiers        Modifiers `yaml:"modifiers"`
	ThreatMultiplier int       `yaml:"threat_multiplier"`
	Attacks          []string  `yaml:"attacks"`
	Spells           []string  `yaml:"spells"`
	Skills           []string  `yaml:"skills"`
	// Inventory lists item action ids; duplicates are separate consumables.
	Inventory []string `yaml:"inventory"`
	// AIDomain is the HTN domain id; empty uses the simple attack fallback.
	AIDomain string `yaml:"ai_domain"`
}

// KnownActions returns attacks, spells and skills in that order.
func (t *CharacterTemplate) KnownActions() []string {
	out := make([]string, 0, len(t.Attacks)+len(t.Spells)+len(t.Skills))
	out = append(out, t.Attacks...)
	out = append(out, t.Spells...)
	return append(out, t.Skills...)
}

// Validate checks the template invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, MaxHealth >= 1 and
// MaxMana >= 0.
func (t *CharacterTemplate) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("character: id must not be empty"))
	}
	if t.Name == "" {
		errs = append(errs, fmt.Errorf("character %q: name must not be empty", t.ID))
	}
	if t.MaxHealth < 1 {
		errs = append(errs, fmt.Errorf("character %q: max_health must be >= 1, got %d", t.ID, t.MaxHealth))
	}
	if t.MaxMana < 0 {
		errs = append(errs, fmt.Errorf("character %q: max_mana must be >= 0, got %d", t.ID, t.MaxMana))
	}
	return errors.Join(errs...)
}
