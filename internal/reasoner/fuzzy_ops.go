package reasoner

import (
	"math"
	"strconv"

	"github.com/dsouflis/rete-reasoner/internal/fuzzy"
	"github.com/dsouflis/rete-reasoner/internal/model"
	"github.com/dsouflis/rete-reasoner/internal/obslog"
)

// propagateDegree implements §4.5's degree propagation: recompute w.mu as
// the disjunction, under the current fuzzy system, of token-to-mu for every
// defined production-derived justification of w. visited guards against
// re-entrance on the same WME within one propagation pass, per the design
// note, even though this flat (non-recursive) implementation only ever
// visits a given WME once per call site.
func (c *Context) propagateDegree(w *model.WME, visited map[model.Key]bool) {
	if visited[w.Key] {
		return
	}
	visited[w.Key] = true
	if !w.IsFuzzy() {
		return
	}
	sys := c.Fuzzy.System()
	var mus []float64
	for _, j := range c.Store.JustificationsOf(w.Key) {
		if j.Kind != model.ProductionDerived {
			continue
		}
		if mu, ok := fuzzy.TokenMu(sys, j.Token); ok {
			mus = append(mus, mu)
		}
	}
	if len(mus) == 0 {
		return
	}
	w.Fuzzy.Mu = sys.Disjunction(mus)
}

// Defuzzify implements §4.5's Defuzzification, run after every RHS
// assertion batch and after every interactive mutation.
func (c *Context) Defuzzify() {
	for _, v := range c.Fuzzy.Variables() {
		groups := map[string][]fuzzy.GroupMember{}
		for _, w := range c.Matcher.WorkingMemory() {
			if w.Attr != v.Name || !w.IsFuzzy() {
				continue
			}
			groups[w.ID] = append(groups[w.ID], fuzzy.GroupMember{Value: w.Val, Mu: w.Fuzzy.Mu, WME: w})
		}
		for id, group := range groups {
			c.defuzzifyGroup(v, id, group)
		}
	}
}

func (c *Context) defuzzifyGroup(v *fuzzy.Variable, id string, group []fuzzy.GroupMember) {
	x, err := fuzzy.Defuzzify(v, group)
	if err != nil {
		obslog.Fuzzy.Warnf("skipping defuzzification for (%s %s): %v", id, v.Name, err)
		return
	}

	var crisp []*model.WME
	for _, w := range c.Matcher.WorkingMemory() {
		if w.ID != id || w.Attr != v.Name || w.IsFuzzy() {
			continue
		}
		if f, err := strconv.ParseFloat(w.Val, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			crisp = append(crisp, w)
		}
	}
	if len(crisp) > 1 {
		obslog.Fuzzy.Warnf("more than one crisp WME present for (%s %s); leaving all but replacing none", id, v.Name)
	}
	if len(crisp) == 1 {
		n, _ := strconv.ParseFloat(crisp[0].Val, 64)
		if math.Abs(n-x) >= 1e-6 {
			c.retractDefuzzificationWME(crisp[0].Key)
		}
	}

	sources := make([]*model.WME, len(group))
	for i, m := range group {
		sources[i] = m.WME
	}
	key := model.Key{ID: id, Attr: v.Name, Val: formatCrisp(x)}
	w, _ := c.Matcher.AddWME(key, nil)
	j := model.NewDefuzzificationDerived(sources)
	for _, existing := range c.Store.JustificationsOf(key) {
		if existing.Equal(j) {
			return
		}
	}
	c.Store.Record(w, j)
}

// retractDefuzzificationWME implements "retract it via
// retractWMEandJustifications (which discards its defuzzification
// justification; if none remains, the matcher removes it)".
func (c *Context) retractDefuzzificationWME(key model.Key) {
	empty := c.Store.Withdraw(key, func(j model.Justification) bool {
		return j.Kind == model.DefuzzificationDerived
	})
	if empty {
		c.Matcher.RemoveWME(key)
	}
}

func formatCrisp(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
