package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// GlobalScope is the reserved scope for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no scope VM is found.
const GlobalScope = "__global__"

// CombatantInfo is a snapshot of a character's state passed to Lua callbacks.
type CombatantInfo struct {
	ID        int
	Name      string
	IsPlayer  bool
	Position  int
	Health    int
	MaxHealth int
	Mana      int
	MaxMana   int
	Threat    int
	// Items counts consumables left in the inventory.
	Items     int
	Statuses  []string
}

// Dead reports whether the snapshot has no health left.
func (c *CombatantInfo) Dead() bool { return c.Health <= 0 }

type scope struct {
	mu    sync.Mutex
	L     *lua.LState
	limit int
}

// Manager owns one sandboxed LState per scope and exposes hook dispatch.
//
// Manager is safe for concurrent CallHook after all Load calls complete. Each scope's
// LState is single-threaded; a per-scope lock serializes calls into the same VM.
type Manager struct {
	mu     sync.RWMutex
	scopes map[string]*scope
	roller *dice.Roller
	logger *zap.Logger

	// Injected after construction. nil = engine.combat.* returns nil.
	GetCombatant  func(id int) *CombatantInfo
	GetCombatants func() []*CombatantInfo
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no scopes.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil || logger == nil {
		panic("scripting.NewManager: precondition violated: roller and logger must be non-nil")
	}
	return &Manager{
		scopes: make(map[string]*scope),
		roller: roller,
		logger: logger,
	}
}

// LoadScope creates a sandboxed VM for scopeID, registers the engine module, then
// executes every *.lua file in scriptDir in lexicographic order. Loading a scope again
// replaces its VM.
//
// Precondition: scopeID must be non-empty; scriptDir must be a readable directory.
// Postcondition: the scope VM is registered; returns error on Lua load failure.
func (m *Manager) LoadScope(scopeID, scriptDir string, instLimit int) error {
	if scopeID == "" {
		return fmt.Errorf("scripting: scope id must not be empty")
	}
	return m.loadInto(scopeID, scriptDir, instLimit)
}

// LoadScopes gives every id in ids that has a same-named subdirectory of root its own
// scope VM loaded from that subdirectory. Ids without one keep the GlobalScope fallback.
//
// Precondition: root must be a readable directory.
// Postcondition: returns the ids that received a scope VM, in input order.
func (m *Manager) LoadScopes(root string, ids []string, instLimit int) ([]string, error) {
	var loaded []string
	for _, id := range ids {
		dir := filepath.Join(root, id)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		if err := m.LoadScope(id, dir, instLimit); err != nil {
			return loaded, err
		}
		loaded = append(loaded, id)
	}
	return loaded, nil
}

// LoadGlobal creates the GlobalScope VM for shared scripts, reachable as a CallHook
// fallback from any scope.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: the global VM is registered; returns error on Lua load failure.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(GlobalScope, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)
	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}
	cancel()
	L.RemoveContext()

	m.mu.Lock()
	if old, ok := m.scopes[key]; ok {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.scopes[key] = &scope{L: L, limit: instLimit}
	m.mu.Unlock()
	m.logger.Debug("scripting: scope loaded", zap.String("scope", key), zap.Int("files", len(luaFiles)))
	return nil
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, s := range m.scopes {
		s.mu.Lock()
		s.L.Close()
		s.mu.Unlock()
		delete(m.scopes, key)
	}
}

// CallHook calls the named Lua global function in scopeID's VM. If the scope has no VM,
// the GlobalScope VM is tried as a fallback. Returns (LNil, nil) if the hook is not
// defined or no VM exists. Lua runtime errors, including an exhausted instruction
// budget, are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(scopeID, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	s, ok := m.scopes[scopeID]
	if !ok {
		s = m.scopes[GlobalScope]
	}
	m.mu.RUnlock()

	if s == nil {
		m.logger.Info("scripting: no VM for scope",
			zap.String("scope", scopeID),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	L := s.L

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	cancel := WithInstructionLimit(L, s.limit)
	defer func() {
		cancel()
		L.RemoveContext()
	}()
	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("scope", scopeID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}
