package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/damage"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/event"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

type fixedSrc struct{ val int }

func (f fixedSrc) Intn(n int) int { return f.val % n }

type fixture struct {
	roster *character.Roster
	engine *condition.Engine
	out    *event.Outbox
	caster *character.Character
	target *character.Character
}

func newCombatant(name string, position int, player bool) *character.Character {
	return &character.Character{
		Name:             name,
		IsPlayer:         player,
		Position:         position,
		MaxHealth:        100,
		CurrentMaxHealth: 100,
		CurrentHealth:    100,
	}
}

func newFixture(src dice.Source) *fixture {
	f := &fixture{roster: character.NewRoster(), out: &event.Outbox{}}
	f.caster = newCombatant("Mage", 1, true)
	f.target = newCombatant("Goblin", 10, false)
	f.roster.Add(f.caster)
	f.roster.Add(f.target)
	f.engine = condition.NewEngine(f.roster, dice.NewLoggedRoller(src, zap.NewNop()), f.out, zap.NewNop())
	return f
}

func poison() *ruleset.StatusTemplate {
	return &ruleset.StatusTemplate{
		ID:        "poison",
		Name:      "Poison",
		IsDebuff:  true,
		Duration:  3,
		Modifiers: ruleset.Modifiers{Armor: damage.Vector{}.With(damage.Physical, -5)},
		Payload: ruleset.Payload{
			Damage:        damage.Vector{}.With(damage.Physical, 10),
			DamageScalars: damage.Scalars{}.With(damage.Physical, damage.Strength, 1),
		},
	}
}

func kinds(events []event.Event) []event.Kind {
	out := make([]event.Kind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind())
	}
	return out
}

func TestApply_NewStatus(t *testing.T) {
	f := newFixture(fixedSrc{99})
	tmpl := poison()
	f.engine.Apply(f.caster.ID, tmpl, f.target.ID)

	applied := f.engine.Applied(f.target.ID)
	require.Len(t, applied, 1)
	assert.Equal(t, 1, applied[0].StackCount)
	assert.Equal(t, 3, applied[0].TurnsRemaining)
	assert.Equal(t, 10, applied[0].Frozen.Damage.Get(damage.Physical))
	assert.Equal(t, -5, f.target.Armor.Get(damage.Physical))
	assert.Equal(t, []*ruleset.StatusTemplate{tmpl}, f.target.Debuffs)

	events := f.out.Drain()
	require.Len(t, events, 1)
	ev := events[0].(event.StatusApplied)
	assert.Equal(t, []int{f.target.ID}, ev.IDs)
	assert.Equal(t, "poison", ev.StatusID)
}

func TestApply_NonStackableReapplyRefreshesAndReplaces(t *testing.T) {
	f := newFixture(fixedSrc{99})
	tmpl := poison()
	f.engine.Apply(f.caster.ID, tmpl, f.target.ID)
	f.engine.BeginStartTurn(f.target.ID)
	require.Equal(t, 2, f.engine.Applied(f.target.ID)[0].TurnsRemaining)

	f.caster.CurrentStats = f.caster.CurrentStats.With(damage.Strength, 5)
	f.engine.Apply(f.caster.ID, tmpl, f.target.ID)

	as := f.engine.Applied(f.target.ID)[0]
	assert.Equal(t, 3, as.TurnsRemaining, "duration resets")
	assert.Equal(t, 1, as.StackCount)
	assert.Equal(t, -5, f.target.Armor.Get(damage.Physical), "stat deltas are not doubled")
	assert.Equal(t, 15, as.Frozen.Damage.Get(damage.Physical), "frozen damage is replaced, not summed")
}

func TestApply_StackableAddsUntilMax(t *testing.T) {
	f := newFixture(fixedSrc{99})
	tmpl := poison()
	tmpl.Stackable = true
	tmpl.StackSize = 2

	for i := 0; i < 3; i++ {
		f.engine.Apply(f.caster.ID, tmpl, f.target.ID)
	}
	as := f.engine.Applied(f.target.ID)[0]
	assert.Equal(t, 2, as.StackCount)
	assert.Equal(t, 20, as.Frozen.Damage.Get(damage.Physical), "frozen totals add per stack only")
	assert.Equal(t, -10, f.target.Armor.Get(damage.Physical))
	assert.Len(t, f.target.Debuffs, 1)
}

func TestApplyMany_SingleEventSkipsDead(t *testing.T) {
	f := newFixture(fixedSrc{99})
	other := newCombatant("Orc", 11, false)
	corpse := newCombatant("Skeleton", 12, false)
	corpse.CurrentHealth = 0
	f.roster.Add(other)
	f.roster.Add(corpse)

	f.engine.ApplyMany(f.caster.ID, poison(), []int{f.target.ID, other.ID, corpse.ID})

	events := f.out.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, []int{f.target.ID, other.ID}, events[0].(event.StatusApplied).IDs)
	assert.Zero(t, f.engine.Stacks(corpse.ID, "poison"))
}

func TestBeginStartTurn_TicksAndExpires(t *testing.T) {
	f := newFixture(fixedSrc{99})
	tmpl := poison()
	tmpl.Duration = 1
	f.engine.Apply(f.caster.ID, tmpl, f.target.ID)
	f.out.Drain()

	died := f.engine.BeginStartTurn(f.target.ID)
	assert.False(t, died)
	// 10 damage against -5 armor: 15.
	assert.Equal(t, 85, f.target.CurrentHealth)
	assert.Zero(t, f.target.Armor.Get(damage.Physical), "expiry reverses the delta")
	assert.Empty(t, f.engine.Applied(f.target.ID))
	assert.Empty(t, f.target.Debuffs)
	assert.Positive(t, f.caster.Threat, "applicator gains threat")
	assert.Equal(t, []event.Kind{event.KindHealthChanged, event.KindStatusRemoved}, kinds(f.out.Drain()))
}

func TestBeginStartTurn_CritScalesTick(t *testing.T) {
	// fixedSrc{0} rolls 1 on a d100.
	f := newFixture(fixedSrc{0})
	tmpl := poison()
	tmpl.Modifiers = ruleset.Modifiers{}
	tmpl.CritChance = 10
	tmpl.CritMultiplier = 50
	f.engine.Apply(f.caster.ID, tmpl, f.target.ID)

	f.engine.BeginStartTurn(f.target.ID)
	assert.Equal(t, 85, f.target.CurrentHealth)
}

func TestBeginStartTurn_ExactlyLethalMultiStatus(t *testing.T) {
	f := newFixture(fixedSrc{99})
	burn := &ruleset.StatusTemplate{ID: "burn", Name: "Burn", IsDebuff: true, Duration: 3,
		Payload: ruleset.Payload{Damage: damage.Vector{}.With(damage.Fire, 50)}}
	bleed := &ruleset.StatusTemplate{ID: "bleed", Name: "Bleed", IsDebuff: true, Duration: 3,
		Payload: ruleset.Payload{Damage: damage.Vector{}.With(damage.Physical, 50)}}
	blessed := &ruleset.StatusTemplate{ID: "blessed", Name: "Blessed", Permanent: true,
		Modifiers: ruleset.Modifiers{Stats: damage.Stats{}.With(damage.Strength, 2)}}
	f.engine.Apply(f.caster.ID, blessed, f.target.ID)
	f.engine.Apply(f.caster.ID, burn, f.target.ID)
	f.engine.Apply(f.caster.ID, bleed, f.target.ID)
	f.out.Drain()

	died := f.engine.BeginStartTurn(f.target.ID)

	require.True(t, died)
	assert.Zero(t, f.target.CurrentHealth)
	assert.Empty(t, f.engine.Applied(f.target.ID), "death removes permanent statuses too")
	assert.Zero(t, f.target.CurrentStats.Get(damage.Strength))

	events := f.out.Drain()
	var health []event.HealthChanged
	for _, e := range events {
		if hc, ok := e.(event.HealthChanged); ok {
			health = append(health, hc)
		}
	}
	require.Len(t, health, 1, "one batched health mutation per tick")
	assert.Equal(t, -100, health[0].Changes[0].Delta)
	assert.Equal(t, event.KindCharactersDied, events[len(events)-1].Kind())
}

func TestRemoveAll_KeepsPermanentUnlessForced(t *testing.T) {
	f := newFixture(fixedSrc{99})
	blessed := &ruleset.StatusTemplate{ID: "blessed", Name: "Blessed", Permanent: true}
	f.engine.Apply(f.caster.ID, blessed, f.target.ID)
	f.engine.Apply(f.caster.ID, poison(), f.target.ID)

	assert.Equal(t, 1, f.engine.RemoveAll(f.target.ID, false))
	assert.False(t, f.engine.Remove(f.target.ID, "blessed"), "cleanse skips permanents")
	assert.Equal(t, 1, f.engine.Stacks(f.target.ID, "blessed"))
	assert.Equal(t, 1, f.engine.RemoveAll(f.target.ID, true))
	assert.Empty(t, f.target.Buffs)
}

func wither() *ruleset.StatusTemplate {
	return &ruleset.StatusTemplate{ID: "wither", Name: "Wither", IsDebuff: true, Duration: 3,
		Modifiers: ruleset.Modifiers{MaxHealth: -150}}
}

func vigor(duration int) *ruleset.StatusTemplate {
	return &ruleset.StatusTemplate{ID: "vigor", Name: "Vigor", Duration: duration,
		Modifiers: ruleset.Modifiers{MaxHealth: 200}}
}

func TestApply_MaxHealthDrainKills(t *testing.T) {
	f := newFixture(fixedSrc{99})
	f.engine.Apply(f.caster.ID, poison(), f.target.ID)
	f.out.Drain()

	died := f.engine.Apply(f.caster.ID, wither(), f.target.ID)

	assert.Equal(t, []int{f.target.ID}, died)
	assert.True(t, f.target.IsDead())
	assert.Empty(t, f.engine.Applied(f.target.ID), "the dead keep no statuses")
	assert.Equal(t, 100, f.target.CurrentMaxHealth, "stripping reverses the drain")
	assert.Zero(t, f.target.CurrentHealth, "reversal never revives")

	events := f.out.Drain()
	require.NotEmpty(t, events)
	last, ok := events[len(events)-1].(event.CharactersDied)
	require.True(t, ok)
	assert.Equal(t, []int{f.target.ID}, last.IDs)
}

func TestBeginStartTurn_ExpiryThatZeroesHealthKills(t *testing.T) {
	f := newFixture(fixedSrc{99})
	f.engine.Apply(f.caster.ID, vigor(1), f.target.ID)
	f.engine.Apply(f.caster.ID, wither(), f.target.ID)
	require.False(t, f.target.IsDead())
	f.out.Drain()

	require.True(t, f.engine.BeginStartTurn(f.target.ID))
	assert.True(t, f.target.IsDead())
	assert.Zero(t, f.engine.Stacks(f.target.ID, "wither"))
	events := f.out.Drain()
	assert.Equal(t, event.KindCharactersDied, events[len(events)-1].Kind())
}

func TestRemove_CleanseThatZeroesHealthKills(t *testing.T) {
	f := newFixture(fixedSrc{99})
	f.engine.Apply(f.caster.ID, vigor(5), f.target.ID)
	f.engine.Apply(f.caster.ID, wither(), f.target.ID)
	f.out.Drain()

	require.True(t, f.engine.Remove(f.target.ID, "vigor"))
	assert.True(t, f.target.IsDead())
	assert.Empty(t, f.engine.Applied(f.target.ID))
	assert.False(t, f.engine.Remove(f.target.ID, "wither"), "nothing to cleanse from the dead")
	events := f.out.Drain()
	assert.Equal(t, event.KindCharactersDied, events[len(events)-1].Kind())
}

func TestFinishStartTurn_ReportsDelayedKills(t *testing.T) {
	f := newFixture(fixedSrc{99})
	f.engine.CreateDelayed(f.caster.ID, wither(), []int{f.target.Position}, 1)

	assert.Equal(t, []int{f.target.ID}, f.engine.FinishStartTurn(f.caster.ID))
	assert.True(t, f.target.IsDead())
}

func TestDelayedStatus_FiresOnceWithCastTimeMagnitude(t *testing.T) {
	f := newFixture(fixedSrc{99})
	f.engine.CreateDelayed(f.caster.ID, poison(), []int{f.target.Position}, 2)
	f.caster.CurrentStats = f.caster.CurrentStats.With(damage.Strength, 50)

	f.engine.FinishStartTurn(f.caster.ID)
	require.Len(t, f.engine.Delayed(f.caster.ID), 1)
	assert.Zero(t, f.engine.Stacks(f.target.ID, "poison"))

	f.engine.FinishStartTurn(f.caster.ID)
	assert.Empty(t, f.engine.Delayed(f.caster.ID))
	applied := f.engine.Applied(f.target.ID)
	require.Len(t, applied, 1)
	assert.Equal(t, 10, applied[0].Frozen.Damage.Get(damage.Physical))

	f.engine.FinishStartTurn(f.caster.ID)
	assert.Equal(t, 1, f.engine.Stacks(f.target.ID, "poison"), "fires exactly once")
}

func TestPropertyApply_StackBound(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(fixedSrc{99})
		tmpl := poison()
		tmpl.Stackable = rapid.Bool().Draw(rt, "stackable")
		tmpl.StackSize = rapid.IntRange(1, 5).Draw(rt, "stack_size")
		n := rapid.IntRange(1, 10).Draw(rt, "applications")
		for i := 0; i < n; i++ {
			f.engine.Apply(f.caster.ID, tmpl, f.target.ID)
			assert.LessOrEqual(rt, f.engine.Stacks(f.target.ID, tmpl.ID), tmpl.MaxStacks())
		}
		assert.Equal(rt, min(n, tmpl.MaxStacks()), f.engine.Stacks(f.target.ID, tmpl.ID))
	})
}

func TestPropertyRemove_ReversesEveryStack(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(fixedSrc{99})
		tmpl := &ruleset.StatusTemplate{
			ID:        "hex",
			Name:      "Hex",
			IsDebuff:  rapid.Bool().Draw(rt, "debuff"),
			Stackable: true,
			StackSize: rapid.IntRange(1, 5).Draw(rt, "stack_size"),
			Duration:  3,
			Modifiers: ruleset.Modifiers{
				MaxHealth:        rapid.IntRange(-10, 10).Draw(rt, "max_health"),
				Stats:            damage.Stats{}.With(damage.Speed, rapid.IntRange(-3, 3).Draw(rt, "speed")),
				Armor:            damage.Vector{}.With(damage.Frost, rapid.IntRange(-10, 10).Draw(rt, "armor")),
				ArmorPercent:     damage.Vector{}.With(damage.Light, rapid.IntRange(-30, 30).Draw(rt, "armor_pct")),
				CritChance:       rapid.IntRange(-5, 5).Draw(rt, "crit"),
				ResistAllPercent: rapid.IntRange(-20, 20).Draw(rt, "resist_pct"),
			},
		}
		snapshot := *f.target
		n := rapid.IntRange(1, 7).Draw(rt, "applications")
		for i := 0; i < n; i++ {
			f.engine.Apply(f.caster.ID, tmpl, f.target.ID)
		}
		require.True(rt, f.engine.Remove(f.target.ID, tmpl.ID))

		got := *f.target
		assert.Equal(rt, snapshot.CurrentMaxHealth, got.CurrentMaxHealth)
		assert.Equal(rt, snapshot.CurrentStats, got.CurrentStats)
		assert.Equal(rt, snapshot.Armor, got.Armor)
		assert.Equal(rt, snapshot.ArmorPercent, got.ArmorPercent)
		assert.Equal(rt, snapshot.CritChance, got.CritChance)
		assert.Equal(rt, snapshot.ResistAllPercent, got.ResistAllPercent)
		assert.Empty(rt, got.Buffs)
		assert.Empty(rt, got.Debuffs)
	})
}
