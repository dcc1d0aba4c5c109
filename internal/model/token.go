package model

import (
	"sort"
	"strings"
)

// Token is an ordered binding of a production's left-hand side to specific
// WMEs. Tokens are produced and owned by the matcher; every other component
// holds them by identity (pointer equality) and must never deep-copy one —
// see the "Token identity" design note.
type Token struct {
	WMEs    []*WME
	Binding map[string]string
	// DebugID is a human-legible trace label, not an identity: the matcher
	// stamps it once at token-construction time so trace/debug logging can
	// refer to "this particular token" without printing its full WME list.
	// Equality and lifetime semantics are governed entirely by pointer
	// identity, never by DebugID.
	DebugID string
}

// Key returns a stable, order-independent identifier built from the token's
// WME keys. It exists solely so the reference matcher can diff "currently
// matching" token sets across cycles; it is never used as a substitute for
// pointer identity by the core.
func (t *Token) Key() string {
	if t == nil {
		return ""
	}
	keys := make([]string, len(t.WMEs))
	for i, w := range t.WMEs {
		keys[i] = w.Key.String()
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

func (t *Token) String() string {
	if t == nil {
		return "<nil token>"
	}
	parts := make([]string, len(t.WMEs))
	for i, w := range t.WMEs {
		parts[i] = w.String()
	}
	return strings.Join(parts, ", ")
}
