package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// RegisterModules registers the engine table and its log, dice and combat sub-tables
// into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetField(engine, "combat", m.combatModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	mod := L.NewTable()
	for name, logFn := range levels {
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			logFn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	return mod
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "roll", L.NewFunction(func(L *lua.LState) int {
		expr, err := dice.Parse(L.CheckString(1))
		if err != nil {
			L.RaiseError("engine.dice.roll: %s", err.Error())
			return 0
		}
		result := m.roller.Roll(expr, "lua")
		sum := 0
		for _, d := range result.Dice {
			sum += d
		}
		t := L.NewTable()
		L.SetField(t, "total", lua.LNumber(result.Total()))
		L.SetField(t, "dice", lua.LNumber(sum))
		L.SetField(t, "modifier", lua.LNumber(result.Modifier))
		L.Push(t)
		return 1
	}))
	return mod
}

func (m *Manager) combatModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "query_combatant", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckInt(1)
		if m.GetCombatant == nil {
			L.Push(lua.LNil)
			return 1
		}
		c := m.GetCombatant(id)
		if c == nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(combatantToTable(L, c))
		return 1
	}))
	L.SetField(mod, "get_enemies", L.NewFunction(func(L *lua.LState) int {
		return m.pushSide(L, L.CheckInt(1), false)
	}))
	L.SetField(mod, "get_allies", L.NewFunction(func(L *lua.LState) int {
		return m.pushSide(L, L.CheckInt(1), true)
	}))
	L.SetField(mod, "enemy_count", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(len(m.side(L.CheckInt(1), false))))
		return 1
	}))
	L.SetField(mod, "ally_count", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(len(m.side(L.CheckInt(1), true))))
		return 1
	}))
	return mod
}

// side returns the living characters on id's side (allies, excluding id) or on the
// opposite side (enemies). Unknown ids have no side.
func (m *Manager) side(id int, allies bool) []*CombatantInfo {
	if m.GetCombatants == nil {
		return nil
	}
	all := m.GetCombatants()
	var self *CombatantInfo
	for _, c := range all {
		if c.ID == id {
			self = c
			break
		}
	}
	if self == nil {
		return nil
	}
	var out []*CombatantInfo
	for _, c := range all {
		if c.ID == id || c.Dead() {
			continue
		}
		if (c.IsPlayer == self.IsPlayer) == allies {
			out = append(out, c)
		}
	}
	return out
}

func (m *Manager) pushSide(L *lua.LState, id int, allies bool) int {
	if m.GetCombatants == nil {
		L.Push(lua.LNil)
		return 1
	}
	list := L.NewTable()
	for _, c := range m.side(id, allies) {
		list.Append(combatantToTable(L, c))
	}
	L.Push(list)
	return 1
}

func combatantToTable(L *lua.LState, c *CombatantInfo) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "id", lua.LNumber(c.ID))
	L.SetField(t, "name", lua.LString(c.Name))
	L.SetField(t, "is_player", lua.LBool(c.IsPlayer))
	L.SetField(t, "position", lua.LNumber(c.Position))
	L.SetField(t, "health", lua.LNumber(c.Health))
	L.SetField(t, "max_health", lua.LNumber(c.MaxHealth))
	L.SetField(t, "mana", lua.LNumber(c.Mana))
	L.SetField(t, "max_mana", lua.LNumber(c.MaxMana))
	L.SetField(t, "threat", lua.LNumber(c.Threat))
	L.SetField(t, "items", lua.LNumber(c.Items))
	statuses := L.NewTable()
	for _, s := range c.Statuses {
		statuses.Append(lua.LString(s))
	}
	L.SetField(t, "statuses", statuses)
	return t
}
