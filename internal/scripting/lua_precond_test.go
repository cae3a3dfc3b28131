package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// repoRoot walks up from the test's working directory to find the module root.
func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	root := wd
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			return root
		}
		parent := filepath.Dir(root)
		if parent == root {
			t.Fatalf("could not find repo root from %s", wd)
		}
		root = parent
	}
}

func contentManager(t *testing.T, all []*scripting.CombatantInfo) *scripting.Manager {
	t.Helper()
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadGlobal(filepath.Join(repoRoot(t), "content", "scripts", "ai"), 0))
	wire(mgr, all)
	return mgr
}

func call(t *testing.T, mgr *scripting.Manager, hook string, id int) lua.LValue {
	t.Helper()
	ret, err := mgr.CallHook(scripting.GlobalScope, hook, lua.LNumber(id))
	require.NoError(t, err)
	return ret
}

func duo(heroHP, foeHP int) []*scripting.CombatantInfo {
	return []*scripting.CombatantInfo{
		{ID: 1, Name: "Hero", IsPlayer: true, Health: heroHP, MaxHealth: 100, Mana: 20},
		{ID: 2, Name: "Foe", Health: foeHP, MaxHealth: 100},
	}
}

func TestHasEnemy(t *testing.T) {
	assert.Equal(t, lua.LTrue, call(t, contentManager(t, duo(100, 10)), "has_enemy", 1))
	assert.Equal(t, lua.LFalse, call(t, contentManager(t, duo(100, 0)), "has_enemy", 1))
}

func TestEnemyBelowHalf(t *testing.T) {
	assert.Equal(t, lua.LTrue, call(t, contentManager(t, duo(100, 40)), "enemy_below_half", 1))
	assert.Equal(t, lua.LFalse, call(t, contentManager(t, duo(100, 50)), "enemy_below_half", 1))
}

func TestSelfBelowHalf(t *testing.T) {
	assert.Equal(t, lua.LTrue, call(t, contentManager(t, duo(49, 100)), "self_below_half", 1))
	assert.Equal(t, lua.LFalse, call(t, contentManager(t, duo(50, 100)), "self_below_half", 1))
	assert.Equal(t, lua.LFalse, call(t, contentManager(t, duo(50, 100)), "self_below_half", 99))
}

func TestAllyWounded(t *testing.T) {
	all := []*scripting.CombatantInfo{
		{ID: 1, IsPlayer: true, Health: 100, MaxHealth: 100},
		{ID: 2, IsPlayer: true, Health: 50, MaxHealth: 100},
		{ID: 3, Health: 100, MaxHealth: 100},
	}
	mgr := contentManager(t, all)
	assert.Equal(t, lua.LTrue, call(t, mgr, "ally_wounded", 1))
	assert.Equal(t, lua.LTrue, call(t, mgr, "ally_wounded", 2))
	assert.Equal(t, lua.LFalse, call(t, mgr, "ally_wounded", 3))
}

func TestCanCast(t *testing.T) {
	all := duo(100, 100)
	mgr := contentManager(t, all)
	assert.Equal(t, lua.LTrue, call(t, mgr, "can_cast", 1))
	all[0].Mana = 14
	assert.Equal(t, lua.LFalse, call(t, mgr, "can_cast", 1))
}

func TestShouldDrink(t *testing.T) {
	all := duo(30, 100)
	mgr := contentManager(t, all)
	assert.Equal(t, lua.LFalse, call(t, mgr, "should_drink", 1))
	all[0].Items = 1
	assert.Equal(t, lua.LTrue, call(t, mgr, "should_drink", 1))
	all[0].Health = 40
	assert.Equal(t, lua.LFalse, call(t, mgr, "should_drink", 1))
}

func TestProperty_Outnumbered(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		allies := rapid.IntRange(0, 4).Draw(rt, "allies")
		enemies := rapid.IntRange(0, 5).Draw(rt, "enemies")
		all := []*scripting.CombatantInfo{{ID: 1, IsPlayer: true, Health: 10, MaxHealth: 10}}
		for i := 0; i < allies; i++ {
			all = append(all, &scripting.CombatantInfo{ID: len(all) + 1, IsPlayer: true, Health: 10, MaxHealth: 10})
		}
		for i := 0; i < enemies; i++ {
			all = append(all, &scripting.CombatantInfo{ID: len(all) + 1, Health: 10, MaxHealth: 10})
		}
		mgr := contentManager(t, all)
		want := lua.LBool(enemies > allies+1)
		assert.Equal(rt, want, call(t, mgr, "outnumbered", 1))
	})
}

func TestNotEnraged(t *testing.T) {
	all := duo(100, 100)
	mgr := contentManager(t, all)
	assert.Equal(t, lua.LTrue, call(t, mgr, "not_enraged", 1))
	all[0].Statuses = []string{"warded", "enraged"}
	assert.Equal(t, lua.LFalse, call(t, mgr, "not_enraged", 1))
}
