package character

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// NewFromTemplate builds a full-health, full-mana Character from tmpl at position.
// The returned character has no ID until it is added to a Roster.
//
// Precondition: tmpl must be non-nil and valid.
// Postcondition: Returns an error iff position is off the battlefield or on the wrong
// side for isPlayer.
func NewFromTemplate(tmpl *ruleset.CharacterTemplate, position int, isPlayer bool) (*Character, error) {
	if !ruleset.ValidPosition(position) {
		return nil, fmt.Errorf("character %q: position must be %d-%d, got %d", tmpl.ID, ruleset.MinPosition, ruleset.MaxPosition, position)
	}
	if ruleset.PlayerSide(position) != isPlayer {
		return nil, fmt.Errorf("character %q: position %d is on the wrong side", tmpl.ID, position)
	}
	c := &Character{
		Name:             tmpl.Name,
		TemplateID:       tmpl.ID,
		IsPlayer:         isPlayer,
		Position:         position,
		MaxHealth:        tmpl.MaxHealth,
		MaxMana:          tmpl.MaxMana,
		CurrentMaxHealth: tmpl.MaxHealth,
		CurrentMaxMana:   tmpl.MaxMana,
		Stats:            tmpl.Stats,
		CurrentStats:     tmpl.Stats,
		ThreatMultiplier: tmpl.ThreatMultiplier,
		Attacks:          append([]string(nil), tmpl.Attacks...),
		Spells:           append([]string(nil), tmpl.Spells...),
		Skills:           append([]string(nil), tmpl.Skills...),
		Inventory:        append([]string(nil), tmpl.Inventory...),
	}
	// Template modifiers are base values, so they move the permanent fields too.
	c.ApplyPermanent(tmpl.Modifiers)
	c.CurrentHealth = c.CurrentMaxHealth
	c.CurrentMana = c.CurrentMaxMana
	return c, nil
}
