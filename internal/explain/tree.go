// Package explain renders the justification tree behind a WME as the
// branch-drawing ASCII tree described in §6 "Explain output", grounded on
// the architectural teacher's internal/mangle/proof_tree.go
// RenderASCII/renderNodeASCII pattern (the same "├── "/"└── " connector
// style, adapted from Datalog derivations to TMS justifications).
package explain

import (
	"fmt"
	"strings"

	"github.com/dsouflis/rete-reasoner/internal/model"
	"github.com/dsouflis/rete-reasoner/internal/tms"
)

// Tree renders the justification tree rooted at a single WME.
func Tree(store *tms.Store, key model.Key) string {
	var sb strings.Builder
	w, ok := store.Get(key)
	if !ok {
		fmt.Fprintf(&sb, "%s — no record (not in working memory)\n", key)
		return sb.String()
	}
	fmt.Fprintf(&sb, "%s\n", w.WME)
	renderJustifications(&sb, store, key, "", map[model.Key]bool{key: true})
	return sb.String()
}

func renderJustifications(sb *strings.Builder, store *tms.Store, key model.Key, prefix string, visited map[model.Key]bool) {
	justs := store.JustificationsOf(key)
	for i, j := range justs {
		last := i == len(justs)-1
		connector := "├── "
		childPrefix := prefix + "│   "
		if last {
			connector = "└── "
			childPrefix = prefix + "    "
		}
		switch j.Kind {
		case model.Axiomatic:
			fmt.Fprintf(sb, "%s%s[Axiomatic]\n", prefix, connector)
		case model.ProductionDerived:
			fmt.Fprintf(sb, "%s%s%s\n", prefix, connector, StyleRule(j.Rule))
			renderWMEList(sb, store, j.Token.WMEs, childPrefix, visited)
		case model.DefuzzificationDerived:
			fmt.Fprintf(sb, "%s%s[Fuzzification of: %s]\n", prefix, connector, key)
			renderWMEList(sb, store, j.Sources, childPrefix, visited)
		}
	}
}

func renderWMEList(sb *strings.Builder, store *tms.Store, wmes []*model.WME, prefix string, visited map[model.Key]bool) {
	for i, w := range wmes {
		last := i == len(wmes)-1
		connector := "├── "
		childPrefix := prefix + "│   "
		if last {
			connector = "└── "
			childPrefix = prefix + "    "
		}
		if visited[w.Key] {
			fmt.Fprintf(sb, "%s%s%s\n", prefix, connector, StyleCycleBreak(fmt.Sprintf("%s (*)", w)))
			continue
		}
		fmt.Fprintf(sb, "%s%s%s\n", prefix, connector, w)
		nextVisited := make(map[model.Key]bool, len(visited)+1)
		for k := range visited {
			nextVisited[k] = true
		}
		nextVisited[w.Key] = true
		renderJustifications(sb, store, w.Key, childPrefix, nextVisited)
	}
}
