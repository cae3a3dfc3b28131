package ai_test

import (
	"os"
	"path/filepath"
	"testing"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/damage"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

// repoRoot walks up from the test's working directory to find the module root.
func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
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

// hooks answers each precondition from a fixed table; unknown hooks are false.
type hooks map[string]bool

func (h hooks) CallHook(_, hook string, _ ...lua.LValue) (lua.LValue, error) {
	return lua.LBool(h[hook]), nil
}

// fixedSrc makes every d100 roll 100, so no crit ever lands.
type fixedSrc struct{}

func (fixedSrc) Intn(n int) int { return n - 1 }

// tacticianDomain drinks when wounded, bolts the weakest enemy when it can cast and
// otherwise strikes the nearest enemy.
func tacticianDomain() *ai.Domain {
	return &ai.Domain{
		ID:    "tactician",
		Tasks: []*ai.Task{{ID: ai.RootTask}, {ID: "fight"}},
		Methods: []*ai.Method{
			{TaskID: ai.RootTask, ID: "patch_up", Precondition: "wounded", Subtasks: []string{"drink", "fight"}},
			{TaskID: ai.RootTask, ID: "engage", Subtasks: []string{"fight"}},
			{TaskID: "fight", ID: "burn", Precondition: "can_cast", Subtasks: []string{"bolt_weakest", "strike_nearest"}},
			{TaskID: "fight", ID: "melee", Subtasks: []string{"strike_nearest"}},
		},
		Operators: []*ai.Operator{
			{ID: "drink", Action: "bandage", Target: ai.TargetSelf, Item: true},
			{ID: "bolt_weakest", Action: "firebolt", Target: ai.TargetWeakestEnemy},
			{ID: "strike_nearest", Action: "strike", Target: ai.TargetNearestEnemy},
		},
	}
}

func testRegistry() *ruleset.Registry {
	reg := ruleset.NewRegistry()
	reg.RegisterAction(&ruleset.ActionTemplate{
		ID: "strike", Name: "Strike", Kind: ruleset.KindAttack,
		Payload:   ruleset.Payload{Damage: damage.Vector{}.With(damage.Physical, 10)},
		Targeting: ruleset.Targeting{CanRelocate: true},
	})
	reg.RegisterAction(&ruleset.ActionTemplate{
		ID: "firebolt", Name: "Firebolt", Kind: ruleset.KindSpell, ManaCost: 10,
		Payload:   ruleset.Payload{Damage: damage.Vector{}.With(damage.Fire, 15), Magical: true},
		Targeting: ruleset.Targeting{CanRelocate: true},
	})
	reg.RegisterAction(&ruleset.ActionTemplate{
		ID: "bandage", Name: "Bandage", Kind: ruleset.KindItem,
		Payload: ruleset.Payload{Heal: 20, Magical: true},
	})
	reg.RegisterCharacter(&ruleset.CharacterTemplate{
		ID: "tactician", Name: "Tactician", MaxHealth: 100, MaxMana: 20,
		Attacks: []string{"strike"}, Spells: []string{"firebolt"}, Inventory: []string{"bandage"},
		AIDomain: "tactician",
	})
	reg.RegisterCharacter(&ruleset.CharacterTemplate{
		ID: "grunt", Name: "Grunt", MaxHealth: 60, Attacks: []string{"strike"},
	})
	reg.RegisterCharacter(&ruleset.CharacterTemplate{
		ID: "pacifist", Name: "Pacifist", MaxHealth: 60,
	})
	reg.RegisterCharacter(&ruleset.CharacterTemplate{
		ID: "lost", Name: "Lost", MaxHealth: 60, Attacks: []string{"strike"}, AIDomain: "nowhere",
	})
	if err := reg.Link(); err != nil {
		panic(err)
	}
	return reg
}

func battle(t *testing.T, slots ...ruleset.Slot) *combat.Battle {
	t.Helper()
	enc := &ruleset.Encounter{ID: "test", Slots: slots}
	b, err := combat.FromEncounter(testRegistry(), enc, fixedSrc{}, zap.NewNop())
	if err != nil {
		t.Fatalf("FromEncounter: %v", err)
	}
	return b
}

func slot(template string, position int) ruleset.Slot {
	return ruleset.Slot{Template: template, Position: position, Player: ruleset.PlayerSide(position)}
}

func oracle(t *testing.T, caller ai.ScriptCaller, logger *zap.Logger) *ai.Oracle {
	t.Helper()
	reg := ai.NewRegistry()
	if err := reg.Register(tacticianDomain(), caller); err != nil {
		t.Fatal(err)
	}
	return ai.NewOracle(reg, logger)
}
