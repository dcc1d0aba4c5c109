// Package model holds the data types shared by every core component: the
// working-memory element, token, justification, production, and fuzzy
// vocabulary described in the data model. Nothing in this package owns
// behavior beyond equality/formatting helpers — the components in tms,
// resolver, fuzzy, and reasoner own the operations.
package model

import "fmt"

// Key identifies a WME by its triple, independent of mutable fields such as
// a FuzzyWME's membership degree.
type Key struct {
	ID, Attr, Val string
}

func (k Key) String() string {
	return fmt.Sprintf("%s %s %s", k.ID, k.Attr, k.Val)
}

// WME is a working-memory element: an interned (id, attr, val) triple.
type WME struct {
	Key
	// Fuzzy is non-nil for FuzzyWMEs and carries the mutable membership
	// degree. A plain WME has Fuzzy == nil.
	Fuzzy *FuzzyDegree
}

// FuzzyDegree is the mutable membership-degree payload carried by a FuzzyWME.
type FuzzyDegree struct {
	Mu float64
}

// IsFuzzy reports whether w is a FuzzyWME.
func (w *WME) IsFuzzy() bool {
	return w != nil && w.Fuzzy != nil
}

// Mu returns the WME's membership degree, or false if w is not a FuzzyWME.
func (w *WME) Mu() (float64, bool) {
	if !w.IsFuzzy() {
		return 0, false
	}
	return w.Fuzzy.Mu, true
}

// NewWME constructs a plain (non-fuzzy) WME.
func NewWME(id, attr, val string) *WME {
	return &WME{Key: Key{ID: id, Attr: attr, Val: val}}
}

// NewFuzzyWME constructs a FuzzyWME with the given initial membership degree.
func NewFuzzyWME(id, attr, val string, mu float64) *WME {
	return &WME{Key: Key{ID: id, Attr: attr, Val: val}, Fuzzy: &FuzzyDegree{Mu: mu}}
}

func (w *WME) String() string {
	if w == nil {
		return "<nil WME>"
	}
	if w.IsFuzzy() {
		return fmt.Sprintf("(%s %s %s : %.4f)", w.ID, w.Attr, w.Val, w.Fuzzy.Mu)
	}
	return fmt.Sprintf("(%s %s %s)", w.ID, w.Attr, w.Val)
}
