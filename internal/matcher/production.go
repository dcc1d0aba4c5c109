package matcher

import (
	"github.com/dsouflis/rete-reasoner/internal/model"
	"github.com/dsouflis/rete-reasoner/internal/obslog"
)

// refProduction is the reference implementation's Production handle. prev
// holds the token set committed by the last WillFire call, keyed by
// model.Token.Key() purely for the add/remove diff — never exposed to the
// core as a substitute for pointer identity.
type refProduction struct {
	m    *refMatcher
	spec *model.Production
	prev map[string]*model.Token
}

func (p *refProduction) Spec() *model.Production { return p.spec }

// evaluate re-runs the join against current working memory and diffs it
// against prev, returning the current full token set alongside the delta.
//
// A token's *model.Token pointer is its identity throughout the TMS (§4.6,
// §9): a justification recorded against a token must still find that same
// pointer when the token is later withdrawn. join() has no memory of
// earlier cycles and always allocates fresh pointers, so for every key
// already present in prev this carries the existing pointer forward instead
// of adopting join's new one — only genuinely new keys get a new pointer.
func (p *refProduction) evaluate() (current map[string]*model.Token, toAdd, toRemove []*model.Token) {
	wm := p.m.snapshot()
	tokens := join(wm, p.spec.LHS)
	current = make(map[string]*model.Token, len(tokens))
	for _, t := range tokens {
		k := t.Key()
		if existing, ok := p.prev[k]; ok {
			current[k] = existing
			continue
		}
		current[k] = t
	}
	for k, t := range current {
		if _, ok := p.prev[k]; !ok {
			toAdd = append(toAdd, t)
		}
	}
	for k, t := range p.prev {
		if _, ok := current[k]; !ok {
			toRemove = append(toRemove, t)
		}
	}
	return current, toAdd, toRemove
}

func (p *refProduction) CanFire() (toAdd, toRemove []*model.Token) {
	_, toAdd, toRemove = p.evaluate()
	return toAdd, toRemove
}

func (p *refProduction) WillFire() (toAdd, toRemove []*model.Token) {
	current, add, remove := p.evaluate()
	p.prev = current
	for _, t := range add {
		obslog.Matcher.Debugf("rule %q: committing new token %s", p.spec.Name, t.DebugID)
	}
	for _, t := range remove {
		obslog.Matcher.Debugf("rule %q: withdrawing token %s", p.spec.Name, t.DebugID)
	}
	return add, remove
}
