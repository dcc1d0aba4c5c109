// Package matcher defines the contract the core requires from the external
// pattern-matching engine (§9 Design Notes) and provides a reference
// implementation. The contract is the load-bearing part of this package;
// the reference implementation (a full-rescan join, not an incremental
// RETE network — see SPEC_FULL.md §4.6) is a replaceable body behind it.
package matcher

import (
	"github.com/dsouflis/rete-reasoner/internal/fuzzy"
	"github.com/dsouflis/rete-reasoner/internal/model"
)

// Production is the matcher's handle for one compiled production. It wraps
// a *model.Production with the incremental can_fire/will_fire verbs.
type Production interface {
	Spec() *model.Production
	// CanFire re-evaluates the LHS against current working memory and
	// reports the token delta since the last committed state, without
	// committing it.
	CanFire() (toAdd, toRemove []*model.Token)
	// WillFire is CanFire plus committing the new token set as the
	// baseline for the next cycle's diff. The cycle driver calls this
	// exactly once per selected item (§9 open question, resolved: always
	// WillFire, never CanFire, for the item actually applied).
	WillFire() (toAdd, toRemove []*model.Token)
}

// Matcher is the full contract §9 requires of the external engine.
type Matcher interface {
	// AddWME interns (id, attr, val), optionally as a FuzzyWME with degree
	// mu. Returns the canonical WME and whether it was newly created
	// (added) as opposed to already live (existing) — add_wmes_from_conditions'
	// single-triple case, used both for direct asserts and RHS
	// materialization.
	AddWME(key model.Key, mu *float64) (w *model.WME, added bool)
	// RemoveWME deletes a WME from working memory. Removing a WME that is
	// not present is a no-op.
	RemoveWME(key model.Key)
	// Get returns the live WME for a key, if any.
	Get(key model.Key) (*model.WME, bool)
	// Query implements query(conds, vars): every conjunctive binding of
	// conds against current working memory, projected to vars.
	Query(conds []model.Condition, vars []string) []map[string]string
	// AddProduction compiles a production's LHS into a matcher handle.
	AddProduction(p *model.Production) Production
	// AddFuzzyVariable and GetFuzzyVariable expose the fuzzy-variable
	// registry through the matcher, per the §9 contract, even though this
	// implementation simply delegates to a fuzzy.Registry it owns.
	AddFuzzyVariable(v *fuzzy.Variable)
	GetFuzzyVariable(attr string) (*fuzzy.Variable, bool)
	// WorkingMemory enumerates every live WME. Order is unspecified.
	WorkingMemory() []*model.WME
}
