package resolver

import "github.com/dsouflis/rete-reasoner/internal/model"

// StratifiedManual implements the stratified-manual strategy (§4.3): a
// monotonic cursor s, initially 0, that never decreases across the lifetime
// of a run. Once stratum s is abandoned (no conflict item in it on some
// call), productions in it are ignored for the rest of the run even if
// later activations re-enable them.
type StratifiedManual struct {
	numStrata int
	cursor    int
}

// NewStratifiedManual builds a resolver scoped to a rule set with the given
// number of strata (K in §4.3's termination condition "if s = K, return
// none").
func NewStratifiedManual(numStrata int) *StratifiedManual {
	return &StratifiedManual{numStrata: numStrata}
}

func (r *StratifiedManual) Name() string { return "stratified-manual" }

// Cursor returns the current stratum cursor value, exposed so the cycle
// driver can assert the monotonic-non-decreasing invariant in tests.
func (r *StratifiedManual) Cursor() int { return r.cursor }

// Reset rearms the cursor to 0, implementing resolver.Resettable. The
// monotonic-non-decreasing guarantee is scoped to a single run (§8); the
// cycle driver calls Reset at the start of every Run so that a later run
// (in particular interactive retract's re-stabilizing Run) is not born
// already exhausted by a prior run's stratum cursor.
func (r *StratifiedManual) Reset() { r.cursor = 0 }

func (r *StratifiedManual) Select(conflictSet []model.ConflictItem) (model.ConflictItem, bool) {
	for {
		if r.cursor >= r.numStrata {
			return model.ConflictItem{}, false
		}
		for _, item := range conflictSet {
			if item.Production.Stratum == r.cursor {
				return item, true
			}
		}
		r.cursor++
	}
}
