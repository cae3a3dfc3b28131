package ai

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// ScriptCaller is the interface required by the Planner to evaluate Lua preconditions.
type ScriptCaller interface {
	// CallHook calls a named Lua function in the given scope's VM.
	// Returns (LNil, nil) if the function is not defined.
	CallHook(scopeID, hook string, args ...lua.LValue) (lua.LValue, error)
}

// PlannedAction is one primitive step produced by the planner.
type PlannedAction struct {
	OperatorID string
	Action     string
	Item       bool
	Selector   string
	// Target is the combatant Selector resolved to; nil when it selects nobody.
	Target *CombatantState
}

// Planner evaluates an HTN domain for one character and produces an ordered list of
// candidate actions, best first.
//
// Invariant: domain and caller must not be nil.
type Planner struct {
	domain  *Domain
	caller  ScriptCaller
	scopeID string
}

// NewPlanner constructs a Planner.
//
// Precondition: domain and caller must not be nil.
func NewPlanner(domain *Domain, caller ScriptCaller, scopeID string) *Planner {
	if domain == nil {
		panic("ai.NewPlanner: domain must not be nil")
	}
	if caller == nil {
		panic("ai.NewPlanner: caller must not be nil")
	}
	return &Planner{domain: domain, caller: caller, scopeID: scopeID}
}

// Domain returns the planner's domain.
func (p *Planner) Domain() *Domain { return p.domain }

// Plan evaluates the HTN domain against state starting from RootTask.
//
// Precondition: state and state.Self must not be nil.
// Postcondition: returns non-nil slice (may be empty); Lua failures are treated as
// precondition-false, never as errors.
func (p *Planner) Plan(state *WorldState) ([]PlannedAction, error) {
	if state == nil || state.Self == nil {
		return nil, fmt.Errorf("ai.Planner.Plan: state and state.Self must not be nil")
	}

	taskQueue := []string{RootTask}
	result := []PlannedAction{}

	const maxDepth = 32
	steps := 0

	for len(taskQueue) > 0 && steps < maxDepth {
		steps++
		current := taskQueue[0]
		taskQueue = taskQueue[1:]

		if op, ok := p.domain.OperatorByID(current); ok {
			result = append(result, PlannedAction{
				OperatorID: op.ID,
				Action:     op.Action,
				Item:       op.Item,
				Selector:   op.Target,
				Target:     state.ResolveTarget(op.Target),
			})
			continue
		}

		method := p.findApplicableMethod(current, state)
		if method == nil {
			continue
		}
		taskQueue = append(append([]string(nil), method.Subtasks...), taskQueue...)
	}
	return result, nil
}

// findApplicableMethod returns the first Method for taskID whose precondition passes,
// or nil if none applies.
//
// Methods are tried in declaration order. An empty Precondition always passes.
func (p *Planner) findApplicableMethod(taskID string, state *WorldState) *Method {
	for _, m := range p.domain.MethodsForTask(taskID) {
		if m.Precondition == "" {
			return m
		}
		val, _ := p.caller.CallHook(p.scopeID, m.Precondition, lua.LNumber(state.Self.ID))
		if val == lua.LTrue {
			return m
		}
	}
	return nil
}
