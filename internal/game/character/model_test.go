package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/damage"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

func newKnight(t require.TestingT) *character.Character {
	c, err := character.NewFromTemplate(knightTemplate(), 2, true)
	require.NoError(t, err)
	return c
}

func TestChangeHealth_ClampsAtZero(t *testing.T) {
	c := newKnight(t)
	before, after := c.ChangeHealth(-1000)
	assert.Equal(t, 130, before)
	assert.Equal(t, 0, after)
	assert.True(t, c.IsDead())
}

func TestChangeHealth_ClampsAtCurrentMax(t *testing.T) {
	c := newKnight(t)
	c.ChangeHealth(-50)
	_, after := c.ChangeHealth(500)
	assert.Equal(t, c.CurrentMaxHealth, after)
}

func TestApplyModifiers_ReturnsSpeedDelta(t *testing.T) {
	c := newKnight(t)
	m := ruleset.Modifiers{Stats: damage.Stats{}.With(damage.Speed, -2)}
	assert.Equal(t, -4, c.ApplyModifiers(m, 2))
	assert.Equal(t, 2, c.Speed())
	assert.Equal(t, 6, c.Stats.Get(damage.Speed), "permanent stats are untouched")
}

func TestApplyModifiers_LoweringMaxClampsHealth(t *testing.T) {
	c := newKnight(t)
	c.ApplyModifiers(ruleset.Modifiers{MaxHealth: -30}, 1)
	assert.Equal(t, 100, c.CurrentMaxHealth)
	assert.Equal(t, 100, c.CurrentHealth)
}

func TestConsumeItem_RemovesOneCopy(t *testing.T) {
	c := newKnight(t)
	require.True(t, c.ConsumeItem("potion"))
	assert.True(t, c.HasItem("potion"))
	require.True(t, c.ConsumeItem("potion"))
	assert.False(t, c.HasItem("potion"))
	assert.False(t, c.ConsumeItem("potion"))
}

func TestAddDropStatus_SortsByDebuffFlag(t *testing.T) {
	c := newKnight(t)
	buff := &ruleset.StatusTemplate{ID: "fortified"}
	debuff := &ruleset.StatusTemplate{ID: "burning", IsDebuff: true}
	c.AddStatus(buff)
	c.AddStatus(debuff)
	assert.Equal(t, []*ruleset.StatusTemplate{buff}, c.Buffs)
	assert.Equal(t, []*ruleset.StatusTemplate{debuff}, c.Debuffs)
	c.DropStatus(debuff)
	assert.Empty(t, c.Debuffs)
	assert.Len(t, c.Statuses(), 1)
}

func randomModifiers(t *rapid.T) ruleset.Modifiers {
	var m ruleset.Modifiers
	m.MaxHealth = rapid.IntRange(-20, 20).Draw(t, "max_health")
	m.MaxMana = rapid.IntRange(-10, 10).Draw(t, "max_mana")
	for i := range m.Stats {
		m.Stats[i] = rapid.IntRange(-5, 5).Draw(t, "stat")
	}
	for i := range m.Armor {
		m.Armor[i] = rapid.IntRange(-10, 10).Draw(t, "armor")
		m.ArmorPercent[i] = rapid.IntRange(-50, 50).Draw(t, "armor_pct")
		m.DamageBonus[i] = rapid.IntRange(-10, 10).Draw(t, "bonus")
		m.DamageBonusPercent[i] = rapid.IntRange(-50, 50).Draw(t, "bonus_pct")
	}
	m.CritChance = rapid.IntRange(-10, 10).Draw(t, "crit")
	m.ResistAll = rapid.IntRange(-10, 10).Draw(t, "resist")
	m.ResistAllPercent = rapid.IntRange(-10, 10).Draw(t, "resist_pct")
	return m
}

func TestPropertyApplyModifiers_ReverseRestoresFields(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := newKnight(t)
		snapshot := *c
		m := randomModifiers(t)
		times := rapid.IntRange(1, 4).Draw(t, "times")
		c.ApplyModifiers(m, times)
		c.ApplyModifiers(m, -times)
		assert.Equal(t, snapshot.CurrentMaxHealth, c.CurrentMaxHealth)
		assert.Equal(t, snapshot.CurrentStats, c.CurrentStats)
		assert.Equal(t, snapshot.Armor, c.Armor)
		assert.Equal(t, snapshot.ArmorPercent, c.ArmorPercent)
		assert.Equal(t, snapshot.DamageBonus, c.DamageBonus)
		assert.Equal(t, snapshot.DamageBonusPercent, c.DamageBonusPercent)
		assert.Equal(t, snapshot.CritChance, c.CritChance)
		assert.Equal(t, snapshot.ResistAll, c.ResistAll)
		assert.Equal(t, snapshot.ResistAllPercent, c.ResistAllPercent)
	})
}

func TestPropertyChangeHealth_StaysInBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := newKnight(t)
		deltas := rapid.SliceOf(rapid.IntRange(-200, 200)).Draw(t, "deltas")
		for _, d := range deltas {
			c.ChangeHealth(d)
			assert.GreaterOrEqual(t, c.CurrentHealth, 0)
			assert.LessOrEqual(t, c.CurrentHealth, c.CurrentMaxHealth)
		}
	})
}
