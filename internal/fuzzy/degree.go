package fuzzy

import (
	"fmt"

	"github.com/dsouflis/rete-reasoner/internal/model"
)

// TokenMu implements token-to-mu (§4.5): collect a token's FuzzyWME members
// and conjoin their degrees under sys. ok is false if the token carries no
// FuzzyWME, in which case mu is undefined.
func TokenMu(sys System, t *model.Token) (mu float64, ok bool) {
	if t == nil {
		return 0, false
	}
	var mus []float64
	for _, w := range t.WMEs {
		if m, isFuzzy := w.Mu(); isFuzzy {
			mus = append(mus, m)
		}
	}
	if len(mus) == 0 {
		return 0, false
	}
	return sys.Conjunction(mus), true
}

// GroupMember is one FuzzyWME contributing to a defuzzification group: the
// fuzzy value name it asserts and the source WME itself (kept for building
// the DefuzzificationDerived justification's Sources).
type GroupMember struct {
	Value string
	Mu    float64
	WME   *model.WME
}

// Defuzzify implements step 2 of §4.5's Defuzzification: given the fuzzy
// variable's kind and the group of FuzzyWMEs sharing one (id, attr), compute
// the crisp value as the mean of each member's inverse-sigmoid contribution.
// It returns an error if the kind is not Reversible (two opposite-slope
// sigmoids) — callers should treat that as "warn and skip" per §7.
func Defuzzify(v *Variable, group []GroupMember) (float64, error) {
	if !v.Kind.Reversible() {
		return 0, fmt.Errorf("fuzzy kind %q is not reversible (defuzzification requires exactly two opposite-slope sigmoids)", v.Kind.Name)
	}
	if len(group) == 0 {
		return 0, fmt.Errorf("empty defuzzification group for variable %q", v.Name)
	}
	var sum float64
	for _, m := range group {
		x, err := v.Kind.InverseSigmoid(m.Value, m.Mu)
		if err != nil {
			return 0, err
		}
		sum += x
	}
	return sum / float64(len(group)), nil
}
