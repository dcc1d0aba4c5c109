package model

// Production is a rule specification: a left-hand side of conditions, an
// optional right-hand-side assertion pattern, and the stratum it was
// declared in. The rule name doubles as the identity used in
// production-derived justifications and must be unique across all strata.
type Production struct {
	Name    string
	LHS     []Condition
	RHS     *RHSPattern
	Stratum int
}

// HasNegativeOrAggregate reports whether the production's LHS contains a
// negative condition. Only negation is modeled by this reasoner (no
// aggregate condition form is part of the surface grammar), but the flag is
// named generically because §4.4's non-deterministic-fixpoint note groups
// negative, positive, and aggregate conditions together.
func (p *Production) HasNegativeOrAggregate() bool {
	for _, c := range p.LHS {
		if c.Negated {
			return true
		}
	}
	return false
}

// Stratum is an ordered, declaration-order list of productions constituting
// one priority class.
type Stratum struct {
	Index       int
	Productions []*Production
}
