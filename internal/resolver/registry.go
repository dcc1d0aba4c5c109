package resolver

import (
	"fmt"
	"strings"
)

// Factory builds a fresh Strategy instance. Strategies can carry state (the
// stratified cursor), so the registry hands out constructors, not shared
// values; the cycle driver rearms a Resettable instance at each Run.
type Factory func(numStrata int) Strategy

var registry = map[string]Factory{
	"first-match": func(int) Strategy { return FirstMatch{} },
	"stratified-manual": func(numStrata int) Strategy {
		return NewStratifiedManual(numStrata)
	},
}

// Names returns the registered strategy names, for help text.
func Names() []string {
	return []string{"first-match", "stratified-manual"}
}

// Resolve implements the §4.3 strategy-selector: a user-supplied name is
// matched case-insensitively as a prefix of a registered strategy name.
// Unknown or ambiguous names fall back to first-match with a descriptive
// warning message (the caller logs it; Resolve never logs itself).
func Resolve(name string, numStrata int) (Strategy, string) {
	if name == "" {
		return FirstMatch{}, ""
	}
	lower := strings.ToLower(name)
	var matched []string
	for k := range registry {
		if strings.HasPrefix(k, lower) {
			matched = append(matched, k)
		}
	}
	if len(matched) == 1 {
		return registry[matched[0]](numStrata), ""
	}
	if len(matched) > 1 {
		return FirstMatch{}, fmt.Sprintf("strategy %q is ambiguous among %v, falling back to first-match", name, matched)
	}
	return FirstMatch{}, fmt.Sprintf("unrecognized strategy %q, falling back to first-match", name)
}
