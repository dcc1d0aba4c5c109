// Package query formats the output of a deferred "? ID ATTR VAL" clause
// (§6 "Query output") against the matcher's current working memory.
package query

import (
	"fmt"
	"strings"

	"github.com/dsouflis/rete-reasoner/internal/explain"
	"github.com/dsouflis/rete-reasoner/internal/matcher"
	"github.com/dsouflis/rete-reasoner/internal/model"
)

// Run executes cond/vars against m and formats the result per §6: a styled
// "Yes." or "No." banner followed, for each binding i and variable k, by a
// line "i||k:v". Bindings are numbered from 1 in the order the matcher
// returns them.
func Run(m matcher.Matcher, cond []model.Condition, vars []string) string {
	rows := m.Query(cond, vars)
	var sb strings.Builder
	if len(rows) == 0 {
		sb.WriteString(explain.StyleNo() + "\n")
		return sb.String()
	}
	sb.WriteString(explain.StyleYes() + "\n")
	for i, row := range rows {
		for _, k := range vars {
			fmt.Fprintf(&sb, "%d||%s:%s\n", i+1, k, row[k])
		}
	}
	return sb.String()
}
