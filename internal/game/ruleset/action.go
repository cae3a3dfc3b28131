package ruleset

import (
	"errors"
	"fmt"
)

// ActionKind distinguishes the action families a character can know.
type ActionKind string

const (
	KindAttack ActionKind = "attack"
	KindSpell  ActionKind = "spell"
	KindSkill  ActionKind = "skill"
	// KindItem is a spell carried by a consumable.
	KindItem ActionKind = "item"
)

// Valid reports whether k is one of the known kinds.
func (k ActionKind) Valid() bool {
	switch k {
	case KindAttack, KindSpell, KindSkill, KindItem:
		return true
	}
	return false
}

// Magical reports whether actions of this kind scale with spell damage.
func (k ActionKind) Magical() bool {
	return k == KindSpell || k == KindItem
}

// Offset is a grid displacement from a target center. DX runs across the battlefield
// from the player side toward the enemy side; DY runs along the lanes.
type Offset struct {
	DX int `yaml:"dx"`
	DY int `yaml:"dy"`
}

// Targeting describes how a chosen center expands into a target set.
type Targeting struct {
	// Offsets around the center; empty means the center alone.
	Offsets []Offset `yaml:"offsets"`
	// CanRelocate lets the caster pick the center. When false the center is the caster.
	CanRelocate bool `yaml:"can_relocate"`
	// PassThrough lets the caster pick a center behind a living blocker.
	PassThrough bool `yaml:"pass_through"`
}

// ActionTemplate is an immutable attack, spell, skill or consumable definition.
type ActionTemplate struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Kind        ActionKind `yaml:"kind"`
	Payload     `yaml:",inline"`
	// Delay is the number of the caster's turns before the effect fires; 0 is instant.
	Delay      int       `yaml:"delay"`
	ManaCost   int       `yaml:"mana_cost"`
	StatusIDs  []string  `yaml:"statuses"`
	// CleanseIDs names statuses removed from surviving targets after StatusIDs apply.
	CleanseIDs []string  `yaml:"cleanses"`
	Targeting  Targeting `yaml:"targeting"`

	// Statuses is StatusIDs resolved by Registry.Link.
	Statuses []*StatusTemplate `yaml:"-"`
	// Cleanses is CleanseIDs resolved by Registry.Link.
	Cleanses []*StatusTemplate `yaml:"-"`
}

// Validate checks the template invariants and normalises Magical from Kind.
//
// Postcondition: Returns nil iff ID and Name are non-empty, Kind is valid, and Delay
// and ManaCost are non-negative. Spell and item actions always end up Magical.
func (a *ActionTemplate) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("action: id must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, fmt.Errorf("action %q: name must not be empty", a.ID))
	}
	if !a.Kind.Valid() {
		errs = append(errs, fmt.Errorf("action %q: kind must be one of [attack, spell, skill, item], got %q", a.ID, a.Kind))
	}
	if a.Delay < 0 {
		errs = append(errs, fmt.Errorf("action %q: delay must be >= 0, got %d", a.ID, a.Delay))
	}
	if a.ManaCost < 0 {
		errs = append(errs, fmt.Errorf("action %q: mana_cost must be >= 0, got %d", a.ID, a.ManaCost))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if a.Kind.Magical() {
		a.Magical = true
	}
	return nil
}
