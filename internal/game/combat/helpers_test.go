package combat_test

import (
	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/damage"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// fixedSrc is a deterministic Source: every d100 rolls val+1.
type fixedSrc struct{ val int }

func (f fixedSrc) Intn(n int) int { return f.val % n }

func fighter(name string, position int, speed int) *character.Character {
	stats := damage.Stats{}.With(damage.Speed, speed)
	return &character.Character{
		Name:             name,
		IsPlayer:         ruleset.PlayerSide(position),
		Position:         position,
		MaxHealth:        100,
		CurrentMaxHealth: 100,
		CurrentHealth:    100,
		MaxMana:          20,
		CurrentMaxMana:   20,
		CurrentMana:      20,
		Stats:            stats,
		CurrentStats:     stats,
		Attacks:          []string{"strike"},
		Spells:           []string{"meteor"},
	}
}

func rosterOf(cs ...*character.Character) *character.Roster {
	r := character.NewRoster()
	for _, c := range cs {
		r.Add(c)
	}
	return r
}

func strike() *ruleset.ActionTemplate {
	return &ruleset.ActionTemplate{
		ID:   "strike",
		Name: "Strike",
		Kind: ruleset.KindAttack,
		Payload: ruleset.Payload{
			Damage:        damage.Vector{}.With(damage.Physical, 10),
			DamageScalars: damage.Scalars{}.With(damage.Physical, damage.Strength, 1),
		},
		Targeting: ruleset.Targeting{CanRelocate: true},
	}
}

func testRegistry() *ruleset.Registry {
	reg := ruleset.NewRegistry()
	weakened := &ruleset.StatusTemplate{
		ID: "weakened", Name: "Weakened", IsDebuff: true, Duration: 2,
		Modifiers: ruleset.Modifiers{Stats: damage.Stats{}.With(damage.Strength, -3)},
	}
	reg.RegisterStatus(weakened)
	reg.RegisterAction(strike())
	reg.RegisterAction(&ruleset.ActionTemplate{
		ID:       "meteor",
		Name:     "Meteor",
		Kind:     ruleset.KindSpell,
		Delay:    2,
		ManaCost: 15,
		Payload: ruleset.Payload{
			Damage:        damage.Vector{}.With(damage.Fire, 20),
			DamageScalars: damage.Scalars{}.With(damage.Fire, damage.Intellect, 2),
			Magical:       true,
		},
		StatusIDs: []string{"weakened"},
		Targeting: ruleset.Targeting{CanRelocate: true, PassThrough: true, Offsets: []ruleset.Offset{{}, {DY: 1}}},
	})
	reg.RegisterAction(&ruleset.ActionTemplate{
		ID:        "potion",
		Name:      "Healing Potion",
		Kind:      ruleset.KindItem,
		Payload:   ruleset.Payload{Heal: 30, Magical: true},
		Targeting: ruleset.Targeting{},
	})
	if err := reg.Link(); err != nil {
		panic(err)
	}
	return reg
}
