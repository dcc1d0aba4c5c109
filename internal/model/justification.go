package model

import "sort"

// JustificationKind is the tag of the Justification sum type. Implementers
// must not model the three kinds as a class hierarchy (design note); a
// closed enum plus the payload fields below is the whole representation.
type JustificationKind int

const (
	// Axiomatic justifications come from program text or an interactive
	// retract/run command.
	Axiomatic JustificationKind = iota
	// ProductionDerived justifications are identified by (rule-name,
	// supporting-token).
	ProductionDerived
	// DefuzzificationDerived justifications are identified by the ordered
	// set of FuzzyWMEs that were combined to produce the crisp value.
	DefuzzificationDerived
)

func (k JustificationKind) String() string {
	switch k {
	case Axiomatic:
		return "Axiomatic"
	case ProductionDerived:
		return "ProductionDerived"
	case DefuzzificationDerived:
		return "DefuzzificationDerived"
	default:
		return "Unknown"
	}
}

// Justification is a reason a WME remains in working memory. Equality is
// explicit per kind, not structural Go equality of the whole struct — use
// Equal, never ==, since Token is held by pointer and Sources by slice.
type Justification struct {
	Kind JustificationKind

	// ProductionDerived payload.
	Rule  string
	Token *Token

	// DefuzzificationDerived payload: the FuzzyWMEs combined to produce
	// the crisp value, in collection order.
	Sources []*WME
}

// NewAxiomatic builds an Axiomatic justification.
func NewAxiomatic() Justification {
	return Justification{Kind: Axiomatic}
}

// NewProductionDerived builds a ProductionDerived justification identified
// by the firing rule and the supporting token (compared by pointer).
func NewProductionDerived(rule string, token *Token) Justification {
	return Justification{Kind: ProductionDerived, Rule: rule, Token: token}
}

// NewDefuzzificationDerived builds a DefuzzificationDerived justification
// identified by the ordered set of contributing FuzzyWMEs.
func NewDefuzzificationDerived(sources []*WME) Justification {
	return Justification{Kind: DefuzzificationDerived, Sources: append([]*WME(nil), sources...)}
}

// Equal implements the §3 equality rule: two justifications are equal iff
// their kind and identifying payload are equal. Production-derived
// justifications compare by (rule-name, token-identity); token identity is
// pointer equality, never structural.
func (j Justification) Equal(o Justification) bool {
	if j.Kind != o.Kind {
		return false
	}
	switch j.Kind {
	case Axiomatic:
		return true
	case ProductionDerived:
		return j.Rule == o.Rule && j.Token == o.Token
	case DefuzzificationDerived:
		if len(j.Sources) != len(o.Sources) {
			return false
		}
		a := append([]*WME(nil), j.Sources...)
		b := append([]*WME(nil), o.Sources...)
		sort.Slice(a, func(i, k int) bool { return a[i].Key.String() < a[k].Key.String() })
		sort.Slice(b, func(i, k int) bool { return b[i].Key.String() < b[k].Key.String() })
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsRetractable reports whether a justification of this kind may be the
// target of an interactive retract — only Axiomatic and
// DefuzzificationDerived justifications qualify (§4.1 find_retractable).
func (j Justification) IsRetractable() bool {
	return j.Kind == Axiomatic || j.Kind == DefuzzificationDerived
}
