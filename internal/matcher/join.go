package matcher

import (
	"github.com/google/uuid"

	"github.com/dsouflis/rete-reasoner/internal/model"
)

// join implements the nested-loop evaluation described in SPEC_FULL.md
// §4.6: conditions are matched left to right, each positive condition
// extending the binding and appending its matched WME to the token;
// negative conditions test "no WME matches" against the binding built so
// far and contribute no WME of their own.
func join(wm map[model.Key]*model.WME, conds []model.Condition) []*model.Token {
	var results []*model.Token
	var rec func(i int, binding map[string]string, wmes []*model.WME)
	rec = func(i int, binding map[string]string, wmes []*model.WME) {
		if i == len(conds) {
			final := make(map[string]string, len(binding))
			for k, v := range binding {
				final[k] = v
			}
			tok := &model.Token{WMEs: append([]*model.WME(nil), wmes...), Binding: final, DebugID: uuid.New().String()}
			results = append(results, tok)
			return
		}
		c := conds[i]
		if c.Negated {
			if anyMatches(wm, c, binding) {
				return // negative condition violated: prune this branch
			}
			rec(i+1, binding, wmes)
			return
		}
		for _, w := range wm {
			ext, ok := unify(c, w, binding)
			if !ok {
				continue
			}
			rec(i+1, ext, append(wmes, w))
		}
	}
	rec(0, map[string]string{}, nil)
	return results
}

// anyMatches reports whether some live WME satisfies condition c given
// binding, without extending binding for the caller — used for negative
// condition evaluation, which only needs existence.
func anyMatches(wm map[model.Key]*model.WME, c model.Condition, binding map[string]string) bool {
	for _, w := range wm {
		if _, ok := unify(c, w, binding); ok {
			return true
		}
	}
	return false
}

// unify attempts to match condition c against WME w given the binding
// accumulated so far, returning the extended binding (a fresh map; binding
// itself is never mutated) and whether the match succeeded.
func unify(c model.Condition, w *model.WME, binding map[string]string) (map[string]string, bool) {
	ext := make(map[string]string, len(binding)+3)
	for k, v := range binding {
		ext[k] = v
	}
	terms := [3]model.Term{c.ID, c.Attr, c.Val}
	vals := [3]string{w.ID, w.Attr, w.Val}
	for i, t := range terms {
		if t.IsVar {
			if bound, ok := ext[t.Literal]; ok {
				if bound != vals[i] {
					return nil, false
				}
			} else {
				ext[t.Literal] = vals[i]
			}
		} else if t.Literal != "_" && t.Literal != vals[i] {
			return nil, false
		}
	}
	return ext, true
}
