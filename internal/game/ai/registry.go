package ai

import (
	"fmt"
	"sort"
)

// Registry maps AI domain ids, as named by character templates, to their Planners.
//
// Invariant: each domain ID is registered at most once.
type Registry struct {
	planners map[string]*Planner
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{planners: make(map[string]*Planner)}
}

// Register creates and stores a Planner for domain. Preconditions are looked up in the
// script scope named after the domain, falling back to the global scope.
//
// Precondition: domain and caller must not be nil.
// Postcondition: returns error on domain ID collision.
func (r *Registry) Register(domain *Domain, caller ScriptCaller) error {
	if _, exists := r.planners[domain.ID]; exists {
		return fmt.Errorf("ai.Registry: domain %q already registered", domain.ID)
	}
	r.planners[domain.ID] = NewPlanner(domain, caller, domain.ID)
	return nil
}

// RegisterAll registers every domain against the same caller, stopping at the first
// collision.
func (r *Registry) RegisterAll(domains []*Domain, caller ScriptCaller) error {
	for _, d := range domains {
		if err := r.Register(d, caller); err != nil {
			return err
		}
	}
	return nil
}

// PlannerFor returns the Planner for domainID, or false if not registered.
func (r *Registry) PlannerFor(domainID string) (*Planner, bool) {
	p, ok := r.planners[domainID]
	return p, ok
}

// IDs returns the registered domain ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.planners))
	for id := range r.planners {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered domains.
func (r *Registry) Len() int { return len(r.planners) }
