package matcher

import (
	"sync"

	"github.com/dsouflis/rete-reasoner/internal/fuzzy"
	"github.com/dsouflis/rete-reasoner/internal/model"
)

// refMatcher is the reference matcher (SPEC_FULL.md §4.6): a
// sync.RWMutex-guarded working-memory map plus a from-scratch nested-loop
// join re-evaluated every cycle, rather than an incremental RETE network
// with shared alpha/beta memories. See DESIGN.md for why this tradeoff was
// made instead of wiring an existing Datalog engine.
type refMatcher struct {
	mu  sync.RWMutex
	wm  map[model.Key]*model.WME
	fzy *fuzzy.Registry
}

// New builds a reference Matcher backed by an in-memory working-memory
// table and the given fuzzy registry (so the reasoner and the matcher share
// one source of truth for fuzzy variables, satisfying the
// add_fuzzy_variable/get_fuzzy_variable contract verbs).
func New(fzy *fuzzy.Registry) Matcher {
	return &refMatcher{wm: make(map[model.Key]*model.WME), fzy: fzy}
}

func (m *refMatcher) AddWME(key model.Key, mu *float64) (*model.WME, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.wm[key]; ok {
		if mu != nil && existing.Fuzzy != nil {
			existing.Fuzzy.Mu = *mu
		}
		return existing, false
	}
	var w *model.WME
	if mu != nil {
		w = model.NewFuzzyWME(key.ID, key.Attr, key.Val, *mu)
	} else {
		w = model.NewWME(key.ID, key.Attr, key.Val)
	}
	m.wm[key] = w
	return w, true
}

func (m *refMatcher) RemoveWME(key model.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.wm, key)
}

func (m *refMatcher) Get(key model.Key) (*model.WME, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.wm[key]
	return w, ok
}

func (m *refMatcher) WorkingMemory() []*model.WME {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.WME, 0, len(m.wm))
	for _, w := range m.wm {
		out = append(out, w)
	}
	return out
}

func (m *refMatcher) AddFuzzyVariable(v *fuzzy.Variable) {
	// fuzzy.Registry.BindVariable is the authoritative mutator; this verb
	// exists on Matcher only to satisfy the §9 contract shape for callers
	// that only hold a Matcher handle (e.g. a future alternate matcher
	// without direct registry access). The reference implementation shares
	// the registry by reference, so this is a pass-through registration.
	m.fzy.DeclareKind(v.Kind)
	_, _ = m.fzy.BindVariable(v.Name, v.Kind.Name)
}

func (m *refMatcher) GetFuzzyVariable(attr string) (*fuzzy.Variable, bool) {
	return m.fzy.Variable(attr)
}

// snapshot returns a defensive copy of the working-memory table for the
// duration of a join, so concurrent readers never observe a join that
// straddles a concurrent AddWME/RemoveWME half-applied. The reasoner is
// single-threaded per §5, so this is belt-and-suspenders rather than load
// bearing.
func (m *refMatcher) snapshot() map[model.Key]*model.WME {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[model.Key]*model.WME, len(m.wm))
	for k, v := range m.wm {
		out[k] = v
	}
	return out
}

func (m *refMatcher) Query(conds []model.Condition, vars []string) []map[string]string {
	wm := m.snapshot()
	tokens := join(wm, conds)
	out := make([]map[string]string, 0, len(tokens))
	for _, t := range tokens {
		row := make(map[string]string, len(vars))
		for _, v := range vars {
			row[v] = t.Binding[v]
		}
		out = append(out, row)
	}
	return out
}

func (m *refMatcher) AddProduction(p *model.Production) Production {
	return &refProduction{m: m, spec: p, prev: make(map[string]*model.Token)}
}
