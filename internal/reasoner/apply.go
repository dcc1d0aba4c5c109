package reasoner

import (
	"github.com/dsouflis/rete-reasoner/internal/fuzzy"
	"github.com/dsouflis/rete-reasoner/internal/model"
	"github.com/dsouflis/rete-reasoner/internal/obslog"
)

// apply performs §4.4's apply(item), in order: (a) remove withdrawn tokens,
// then (b) assert the RHS for added tokens, then run defuzzification once.
func (c *Context) apply(prod *model.Production, toAdd, toRemove []*model.Token) {
	c.removeWithdrawnTokens(prod.Name, toRemove)
	if prod.RHS != nil {
		c.assertRHS(prod, toAdd)
	}
	c.Defuzzify()
}

// removeWithdrawnTokens implements step (a): for each withdrawn token,
// every WME-justification record holding a production-derived
// justification (rule, t) loses that justification; a record that becomes
// empty is removed from both the matcher and the store.
func (c *Context) removeWithdrawnTokens(rule string, toRemove []*model.Token) {
	for _, t := range toRemove {
		for _, key := range c.Store.Keys() {
			if !c.Store.HasProductionJustification(key, rule, t) {
				continue
			}
			empty := c.Store.WithdrawByToken(key, rule, t)
			if empty {
				c.Matcher.RemoveWME(key)
			}
		}
	}
}

// assertRHS implements step (b): bind the RHS pattern from each added
// token, materialize it through the matcher with the token's fuzzy degree
// (if any), and record the production-derived justification.
func (c *Context) assertRHS(prod *model.Production, toAdd []*model.Token) {
	sys := c.Fuzzy.System()
	for _, t := range toAdd {
		key, ok := prod.RHS.Instantiate(t.Binding)
		if !ok {
			obslog.Reasoner.Warnf("rule %q: RHS %v has an unbound variable in binding %v", prod.Name, *prod.RHS, t.Binding)
			continue
		}
		var muPtr *float64
		if mu, defined := fuzzy.TokenMu(sys, t); defined {
			muPtr = &mu
		}
		w, added := c.Matcher.AddWME(key, muPtr)
		if added {
			c.Store.Record(w, model.NewProductionDerived(prod.Name, t))
		} else if !c.Store.HasProductionJustification(key, prod.Name, t) {
			c.Store.Record(w, model.NewProductionDerived(prod.Name, t))
		}
		if w.IsFuzzy() {
			c.propagateDegree(w, make(map[model.Key]bool))
		}
	}
}
