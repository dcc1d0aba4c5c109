package model

import "strings"

// Term is either a literal string or a reference to a variable bound during
// matching. Variables are written with a leading '?' in the surface syntax
// (e.g. "?x"); Literal never includes that prefix.
type Term struct {
	IsVar   bool
	Literal string
}

// Lit builds a literal term. The literal "_" is a wildcard: the matcher's
// unify accepts any value in its position, and schema registration (§6)
// reads it as unconstrained.
func Lit(s string) Term { return Term{Literal: s} }

// Var builds a variable term from a name without the '?' prefix.
func Var(name string) Term { return Term{IsVar: true, Literal: name} }

func (t Term) String() string {
	if t.IsVar {
		return "?" + t.Literal
	}
	return t.Literal
}

// ParseTerm reads a single surface-syntax token into a Term.
func ParseTerm(tok string) Term {
	if strings.HasPrefix(tok, "?") {
		return Var(strings.TrimPrefix(tok, "?"))
	}
	return Lit(tok)
}

// Resolve substitutes a term through a binding, returning the literal value
// and whether it was fully resolved (a variable missing from binding is
// unresolved).
func (t Term) Resolve(binding map[string]string) (string, bool) {
	if !t.IsVar {
		return t.Literal, true
	}
	v, ok := binding[t.Literal]
	return v, ok
}

// Condition is one triple of a production's left-hand side, or a query
// clause. Negated conditions require that no WME matches the pattern given
// the binding accumulated so far.
type Condition struct {
	ID, Attr, Val Term
	Negated       bool
}

func (c Condition) String() string {
	prefix := ""
	if c.Negated {
		prefix = "!"
	}
	return prefix + c.ID.String() + " " + c.Attr.String() + " " + c.Val.String()
}

// Variables returns the distinct variable names referenced by c, in
// ID/Attr/Val order.
func (c Condition) Variables() []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range []Term{c.ID, c.Attr, c.Val} {
		if t.IsVar && !seen[t.Literal] {
			seen[t.Literal] = true
			out = append(out, t.Literal)
		}
	}
	return out
}

// RHSPattern is the single triple a production asserts when it fires. A
// production with no RHS (a query-only or terminal rule) has RHS == nil.
type RHSPattern struct {
	ID, Attr, Val Term
}

// Instantiate substitutes binding into p, returning the concrete WME key.
// ok is false if any variable in p is unbound.
func (p RHSPattern) Instantiate(binding map[string]string) (Key, bool) {
	id, ok1 := p.ID.Resolve(binding)
	attr, ok2 := p.Attr.Resolve(binding)
	val, ok3 := p.Val.Resolve(binding)
	return Key{ID: id, Attr: attr, Val: val}, ok1 && ok2 && ok3
}
