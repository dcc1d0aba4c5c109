// Package reasoner implements C4, the Cycle Driver & TMS: the fire-assert-
// retract loop that mediates between the matcher, the justification store
// (C1), and the conflict resolver (C3), and triggers the fuzzy layer (C5)
// after every assertion batch. It gathers the process-wide collections
// (productions, strata, justifications, fuzzy registry) into one explicit
// Context value, per the "Global state" design note, rather than relying on
// ambient package-level state.
package reasoner

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dsouflis/rete-reasoner/internal/fuzzy"
	"github.com/dsouflis/rete-reasoner/internal/matcher"
	"github.com/dsouflis/rete-reasoner/internal/model"
	"github.com/dsouflis/rete-reasoner/internal/obslog"
	"github.com/dsouflis/rete-reasoner/internal/resolver"
	"github.com/dsouflis/rete-reasoner/internal/rules"
	"github.com/dsouflis/rete-reasoner/internal/tms"
)

// DefaultNMax is the fixed cycle limit of §4.4.
const DefaultNMax = 100

// Context is the explicit reasoner context: every collection the core
// operates on, gathered in one place and threaded through every operation
// instead of read from package-level globals.
type Context struct {
	Inventory *rules.Inventory
	Store     *tms.Store
	Matcher   matcher.Matcher
	Fuzzy     *fuzzy.Registry
	Strategy  resolver.Strategy
	NMax      int

	// NonDeterministicFixpoint is set once, at Compile time, when any LHS
	// contains a negative condition (§4.4's "Non-deterministic-fixpoint
	// flag"). It is reported to the user but never changes behavior.
	NonDeterministicFixpoint bool

	handles map[string]matcher.Production
}

// New builds a Context. strategy and nmax are typically supplied from CLI
// flags / config defaults; nmax <= 0 is normalized to DefaultNMax.
func New(inv *rules.Inventory, store *tms.Store, m matcher.Matcher, fzy *fuzzy.Registry, strategy resolver.Strategy, nmax int) *Context {
	if nmax <= 0 {
		nmax = DefaultNMax
	}
	return &Context{
		Inventory: inv,
		Store:     store,
		Matcher:   m,
		Fuzzy:     fzy,
		Strategy:  strategy,
		NMax:      nmax,
		handles:   make(map[string]matcher.Production),
	}
}

// Compile registers every production in the inventory with the matcher.
// Call it once, before the first Run. A production added to the inventory
// afterwards (an interactive "run" clause) is registered the first time
// buildConflictSet meets it.
func (c *Context) Compile() {
	for _, p := range c.Inventory.All() {
		c.handles[p.Name] = c.Matcher.AddProduction(p)
		if p.HasNegativeOrAggregate() {
			c.NonDeterministicFixpoint = true
		}
	}
}

// AssertAxiomatic implements a direct program-text or interactive assert: it
// interns the WME through the matcher and records a fresh Axiomatic
// justification unconditionally (see tms.Store.Record's doc comment for why
// this is not deduplicated).
func (c *Context) AssertAxiomatic(key model.Key, mu *float64) *model.WME {
	w, _ := c.Matcher.AddWME(key, mu)
	c.Store.Record(w, model.NewAxiomatic())
	return w
}

// AssertFact implements a direct assert clause's (id, attr, val) over the
// surface grammar: it always asserts the crisp WME axiomatically, and —
// since the justification taxonomy of §3 defines no fourth "fuzzification"
// kind distinct from Axiomatic/ProductionDerived/DefuzzificationDerived —
// when attr is a registered fuzzy variable and val parses as a finite
// number, it additionally derives and axiomatically asserts one FuzzyWME
// per value declared on the variable's kind (mu = value.Mu(val)). This is
// the mirror of Defuzzify: Defuzzify is the single place fuzzy-to-crisp
// conversion happens, and AssertFact is the single place crisp-to-fuzzy
// conversion happens (see DESIGN.md). Returns every WME asserted, crisp
// WME first.
func (c *Context) AssertFact(id, attr, val string) []*model.WME {
	crisp := c.AssertAxiomatic(model.Key{ID: id, Attr: attr, Val: val}, nil)
	out := []*model.WME{crisp}
	v, ok := c.Matcher.GetFuzzyVariable(attr)
	if !ok {
		return out
	}
	x, err := strconv.ParseFloat(val, 64)
	if err != nil || math.IsInf(x, 0) || math.IsNaN(x) {
		return out
	}
	for _, vd := range v.Kind.Values {
		mu := vd.Mu(x)
		w := c.AssertAxiomatic(model.Key{ID: id, Attr: attr, Val: vd.Name}, &mu)
		out = append(out, w)
	}
	return out
}

// RunResult reports how a Run terminated.
type RunResult struct {
	Cycles    int
	Converged bool
}

// buildConflictSet implements build_conflict_set(): calls CanFire once per
// production and collects non-empty items, in production-declaration order.
func (c *Context) buildConflictSet() []model.ConflictItem {
	var items []model.ConflictItem
	for _, p := range c.Inventory.All() {
		h, ok := c.handles[p.Name]
		if !ok {
			h = c.Matcher.AddProduction(p)
			c.handles[p.Name] = h
			if p.HasNegativeOrAggregate() {
				c.NonDeterministicFixpoint = true
			}
		}
		toAdd, toRemove := h.CanFire()
		if len(toAdd) == 0 && len(toRemove) == 0 {
			continue
		}
		items = append(items, model.ConflictItem{Production: p, ToAdd: toAdd, ToRemove: toRemove})
	}
	return items
}

// step runs one cycle: build the conflict set, let the strategy select,
// commit the winner's deltas via WillFire (called exactly once, resolving
// the §9 open question), and apply them. Returns false if nothing could be
// selected (natural fixed point).
func (c *Context) step() bool {
	items := c.buildConflictSet()
	if len(items) == 0 {
		return false
	}
	item, ok := c.Strategy.Select(items)
	if !ok {
		return false
	}
	h := c.handles[item.Production.Name]
	toAdd, toRemove := h.WillFire()
	c.apply(item.Production, toAdd, toRemove)
	return true
}

// Run drives the fire-assert-retract loop to a fixed point or N_MAX,
// whichever comes first (§4.4). The strategy is rearmed via Resettable at
// the start of every call, so a strategy carrying per-run state (the
// stratified-manual cursor) does not arrive pre-exhausted from an earlier
// Run — in particular Retract's re-stabilizing Run.
func (c *Context) Run() RunResult {
	if r, ok := c.Strategy.(resolver.Resettable); ok {
		r.Reset()
	}
	for cycle := 1; cycle <= c.NMax; cycle++ {
		if !c.step() {
			return RunResult{Cycles: cycle - 1, Converged: true}
		}
	}
	obslog.Reasoner.Warnf("cycle limit %d exceeded; run declared non-convergent", c.NMax)
	return RunResult{Cycles: c.NMax, Converged: false}
}

// Retract implements the interactive retract(id, attr, val) command of
// §4.4: remove one retractable justification, possibly remove the WME, then
// re-stabilize the knowledge base (defuzzify, run, defuzzify).
func (c *Context) Retract(id, attr, val string) error {
	key := model.Key{ID: id, Attr: attr, Val: val}
	j, ok := c.Store.FindRetractable(key)
	if !ok {
		return fmt.Errorf("%s has no axiomatic or defuzzification-derived justification to retract", key)
	}
	empty := c.Store.RemoveFirst(key, func(x model.Justification) bool { return x.Equal(j) })
	if empty {
		c.Matcher.RemoveWME(key)
	}
	c.Defuzzify()
	c.Run()
	c.Defuzzify()
	return nil
}
