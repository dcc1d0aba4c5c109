package fuzzy

import (
	"fmt"
	"sync"
)

// Registry holds the process-wide fuzzy vocabulary: the declared kinds, the
// variables bound to them, and the currently selected fuzzy System. It is
// one of the explicit collections the reasoner context (§9 "Global state")
// gathers rather than exposing as package-level state.
type Registry struct {
	mu       sync.RWMutex
	system   System
	kinds    map[string]*Kind
	variable map[string]*Variable
}

// NewRegistry builds a Registry defaulted to the min-max fuzzy system, the
// default named by §6 when no "#fuzzy system" directive is seen.
func NewRegistry() *Registry {
	return &Registry{
		system:   MinMax{},
		kinds:    make(map[string]*Kind),
		variable: make(map[string]*Variable),
	}
}

// SetSystem installs the fuzzy operator family selected by a "#fuzzy
// system" directive.
func (r *Registry) SetSystem(sys System) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.system = sys
}

// System returns the currently selected fuzzy system.
func (r *Registry) System() System {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.system
}

// DeclareKind registers a fuzzy variable kind from a "#fuzzy kind"
// directive.
func (r *Registry) DeclareKind(k *Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[k.Name] = k
}

// Kind looks up a previously declared kind by name.
func (r *Registry) Kind(name string) (*Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.kinds[name]
	return k, ok
}

// BindVariable registers a "#fuzzy var NAME KIND" directive. It is an error
// (warn-and-ignore per §7) for KIND not to already exist.
func (r *Registry) BindVariable(name, kindName string) (*Variable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.kinds[kindName]
	if !ok {
		return nil, fmt.Errorf("fuzzy kind %q is not declared", kindName)
	}
	v := &Variable{Name: name, Kind: k}
	r.variable[name] = v
	return v, nil
}

// Variable looks up a fuzzy variable by attribute name — get_fuzzy_variable
// in the §9 matcher contract.
func (r *Registry) Variable(attr string) (*Variable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.variable[attr]
	return v, ok
}

// Variables returns every registered fuzzy variable, for defuzzification's
// "for every registered fuzzy variable v" iteration (§4.5 step 1). The
// variables are read from a map, so the order is not defined and may
// differ between calls.
func (r *Registry) Variables() []*Variable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Variable, 0, len(r.variable))
	for _, v := range r.variable {
		out = append(out, v)
	}
	return out
}
