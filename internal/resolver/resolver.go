// Package resolver implements C3, the Conflict Resolver: pluggable
// strategies that pick at most one ConflictItem to fire per cycle.
package resolver

import "github.com/dsouflis/rete-reasoner/internal/model"

// Strategy selects at most one conflict item to fire, given the current
// conflict set. Implementations may keep state across calls (the
// stratified-manual cursor does); such a strategy implements Resettable so
// that one value can be reused across runs, rearmed at the start of each.
type Strategy interface {
	Name() string
	// Select returns the chosen item and true, or ok=false if nothing in C
	// should fire (natural fixed point or exhausted strata).
	Select(conflictSet []model.ConflictItem) (item model.ConflictItem, ok bool)
}

// Resettable is implemented by strategies that carry state across calls to
// Select within one run and must be rearmed before the next. The cycle
// driver calls Reset at the start of every Run, so a strategy instance can
// be reused across a process's Run/Retract-triggered re-stabilization
// without carrying stratum exhaustion forward from a prior run.
type Resettable interface {
	Reset()
}

// FirstMatch implements the first-match strategy (§4.3): return the first
// item in declaration order (i.e. the order build_conflict_set produced).
type FirstMatch struct{}

func (FirstMatch) Name() string { return "first-match" }

func (FirstMatch) Select(conflictSet []model.ConflictItem) (model.ConflictItem, bool) {
	if len(conflictSet) == 0 {
		return model.ConflictItem{}, false
	}
	return conflictSet[0], true
}
