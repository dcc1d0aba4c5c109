// Package rules implements C2, the Rule Inventory & Stratification: the
// load-time bookkeeping that assigns every production to a stratum in
// declaration order.
package rules

import (
	"fmt"

	"github.com/dsouflis/rete-reasoner/internal/model"
)

// Inventory holds every production and the stratum it was compiled in. The
// loading cursor here is distinct from the conflict resolver's runtime
// stratum cursor (§4.3) — this one only ever moves forward at load time as
// "#stratum" directives are read, and never participates in conflict
// resolution itself.
type Inventory struct {
	strata  []*model.Stratum
	byName  map[string]*model.Production
	current int // load-time stratum cursor, starts at 0
}

// New builds an Inventory with a single open stratum (index 0), matching
// "the reader maintains a current-stratum cursor (starts at 0, ...)".
func New() *Inventory {
	inv := &Inventory{byName: make(map[string]*model.Production)}
	inv.strata = append(inv.strata, &model.Stratum{Index: 0})
	return inv
}

// OpenStratum implements the "#stratum" directive: increments the cursor and
// opens a new, initially empty stratum.
func (inv *Inventory) OpenStratum() {
	inv.current++
	inv.strata = append(inv.strata, &model.Stratum{Index: inv.current})
}

// CurrentStratum returns the index productions compiled right now will be
// assigned to.
func (inv *Inventory) CurrentStratum() int {
	return inv.current
}

// Add appends a production to the current stratum and to the global
// by-name index. A duplicate rule name is a fatal load error (§4.2).
func (inv *Inventory) Add(p *model.Production) error {
	if _, dup := inv.byName[p.Name]; dup {
		return fmt.Errorf("duplicate rule name %q", p.Name)
	}
	p.Stratum = inv.current
	inv.strata[inv.current].Productions = append(inv.strata[inv.current].Productions, p)
	inv.byName[p.Name] = p
	return nil
}

// All returns every production across all strata, in declaration order.
func (inv *Inventory) All() []*model.Production {
	var out []*model.Production
	for _, s := range inv.strata {
		out = append(out, s.Productions...)
	}
	return out
}

// Strata returns every stratum in declaration order.
func (inv *Inventory) Strata() []*model.Stratum {
	return inv.strata
}

// StratumCount returns K, the number of strata (§4.3's termination bound
// for the stratified-manual resolver).
func (inv *Inventory) StratumCount() int {
	return len(inv.strata)
}

// ByName looks up a production by its (unique) rule name.
func (inv *Inventory) ByName(name string) (*model.Production, bool) {
	p, ok := inv.byName[name]
	return p, ok
}
