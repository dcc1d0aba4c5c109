// Package parser implements the surface clause and directive grammar of §6:
// asserts, productions, queries, and the "#"-prefixed directives. It is one
// of the "out of scope" external collaborators named by §1 — the core
// never imports this package — but SPEC_FULL.md specifies a concrete body
// so the module is runnable end to end.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dsouflis/rete-reasoner/internal/fuzzy"
	"github.com/dsouflis/rete-reasoner/internal/model"
	"github.com/dsouflis/rete-reasoner/internal/obslog"
	"github.com/dsouflis/rete-reasoner/internal/reasoner"
	"github.com/dsouflis/rete-reasoner/internal/rules"
	"github.com/dsouflis/rete-reasoner/internal/schema"
)

// Query is a parsed "? ID ATTR VAL" clause, deferred until after load so it
// runs against the fixed-point state the file reaches.
type Query struct {
	Line int
	LHS  []model.Condition
	Vars []string
}

// ParseError is fatal per §7's error taxonomy; it is the only error this
// package returns from Load — every other malformed construct is reported
// via obslog.Parser.Warnf and the offending directive/clause is ignored.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Msg)
}

// Loader holds the collections a file load populates: the rule inventory,
// the schema registry, and the fuzzy registry, plus the reasoner.Context
// used to assert axiomatic facts immediately as they are parsed.
type Loader struct {
	Inventory *rules.Inventory
	Schema    *schema.Registry
	Fuzzy     *fuzzy.Registry
	Ctx       *reasoner.Context

	autoRuleSeq int
	Queries     []Query
}

// NewLoader builds a Loader over the given collections.
func NewLoader(inv *rules.Inventory, sch *schema.Registry, fzy *fuzzy.Registry, ctx *reasoner.Context) *Loader {
	return &Loader{Inventory: inv, Schema: sch, Fuzzy: fzy, Ctx: ctx}
}

// Load reads r line by line, applying directives immediately and executing
// asserts/productions as they are encountered (deferring only queries,
// which run after the caller reaches fixpoint — see SPEC_FULL.md §6).
func (l *Loader) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if err := l.directive(lineNo, line); err != nil {
				return err
			}
			continue
		}
		if err := l.clause(lineNo, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return &ParseError{Line: lineNo, Msg: err.Error()}
	}
	return nil
}

func fields(s string) []string {
	return strings.Fields(s)
}

func (l *Loader) nextAutoName() string {
	l.autoRuleSeq++
	return fmt.Sprintf("rule-%d", l.autoRuleSeq)
}

// parseTerm reads a single surface-syntax token into a model.Term,
// recognizing the leading '?' variable marker.
func parseTerm(tok string) model.Term {
	return model.ParseTerm(tok)
}

// splitFirst splits s on the first run of whitespace, returning the head
// token and the (possibly empty) trimmed remainder. Used by the directive
// parsers, which need the raw remainder rather than a tokenized field list
// (the "#fuzzy kind" directive's value-definition list is comma-separated
// and must not be pre-split on whitespace).
func splitFirst(s string) (head, rest string) {
	s = strings.TrimSpace(s)
	idx := strings.IndexAny(s, " \t")
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimSpace(s[idx+1:])
}

// directive dispatches one "#"-prefixed line. Every malformed directive is
// warned-and-ignored per §7; only a fatal ParseError ever aborts loading,
// and no directive in this grammar produces one.
func (l *Loader) directive(lineNo int, line string) error {
	body := strings.TrimSpace(strings.TrimPrefix(line, "#"))
	head, rest := splitFirst(body)
	switch head {
	case "":
		obslog.Parser.Warnf("line %d: empty directive ignored", lineNo)
	case "stratum":
		l.Inventory.OpenStratum()
	case "schemacheck":
		l.schemacheckDirective(lineNo, rest)
	case "schema":
		l.schemaDirective(lineNo, rest)
	case "fuzzy":
		l.fuzzyDirective(lineNo, rest)
	default:
		obslog.Parser.Warnf("line %d: unrecognized directive %q, ignoring", lineNo, head)
	}
	return nil
}

func (l *Loader) schemacheckDirective(lineNo int, rest string) {
	switch rest {
	case "on":
		l.Schema.Enabled = true
	case "off":
		l.Schema.Enabled = false
	default:
		obslog.Parser.Warnf("line %d: malformed #schemacheck directive %q, ignoring", lineNo, rest)
	}
}

func (l *Loader) schemaDirective(lineNo int, rest string) {
	toks := fields(rest)
	if len(toks) < 3 {
		obslog.Parser.Warnf("line %d: malformed #schema directive, ignoring", lineNo)
		return
	}
	idPat, attr, valPat := toks[0], toks[1], toks[2]
	if attr == "_" {
		obslog.Parser.Warnf("line %d: #schema attribute must not be '_', ignoring", lineNo)
		return
	}
	l.Schema.Declare(idPat, attr, valPat)
}

func (l *Loader) fuzzyDirective(lineNo int, rest string) {
	head, tail := splitFirst(rest)
	switch head {
	case "system":
		sys, ok := fuzzy.SystemByName(tail)
		if !ok {
			obslog.Parser.Warnf("line %d: unrecognized fuzzy system %q, falling back to current system", lineNo, tail)
			return
		}
		l.Fuzzy.SetSystem(sys)
	case "kind":
		l.fuzzyKindDirective(lineNo, tail)
	case "var":
		toks := fields(tail)
		if len(toks) != 2 {
			obslog.Parser.Warnf("line %d: malformed #fuzzy var directive, ignoring", lineNo)
			return
		}
		if _, err := l.Fuzzy.BindVariable(toks[0], toks[1]); err != nil {
			obslog.Parser.Warnf("line %d: %v", lineNo, err)
		}
	default:
		obslog.Parser.Warnf("line %d: unrecognized #fuzzy directive %q, ignoring", lineNo, head)
	}
}

// fuzzyKindDirective parses "#fuzzy kind NAME VAL:sigmoid A C, VAL2:sigmoid A2 C2".
// Only the "sigmoid" fuzzy-value kind is accepted; anything else, or invalid
// numerics, is warned and that single value definition is skipped (the rest
// of the kind's value list is still processed).
func (l *Loader) fuzzyKindDirective(lineNo int, tail string) {
	name, defsPart := splitFirst(tail)
	if name == "" || defsPart == "" {
		obslog.Parser.Warnf("line %d: malformed #fuzzy kind directive, ignoring", lineNo)
		return
	}
	var values []fuzzy.ValueDef
	for _, part := range strings.Split(defsPart, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		colon := strings.Index(part, ":")
		if colon < 0 {
			obslog.Parser.Warnf("line %d: malformed fuzzy-value definition %q, skipping", lineNo, part)
			continue
		}
		valName := strings.TrimSpace(part[:colon])
		spec := fields(strings.TrimSpace(part[colon+1:]))
		if len(spec) != 3 || spec[0] != "sigmoid" {
			obslog.Parser.Warnf("line %d: unknown fuzzy-value kind in %q, only 'sigmoid' is accepted, skipping", lineNo, part)
			continue
		}
		a, errA := strconv.ParseFloat(spec[1], 64)
		c, errC := strconv.ParseFloat(spec[2], 64)
		if errA != nil || errC != nil {
			obslog.Parser.Warnf("line %d: invalid sigmoid numerics in %q, skipping", lineNo, part)
			continue
		}
		values = append(values, fuzzy.ValueDef{Name: valName, A: a, C: c})
	}
	if len(values) == 0 {
		obslog.Parser.Warnf("line %d: #fuzzy kind %q declared no usable values, ignoring", lineNo, name)
		return
	}
	l.Fuzzy.DeclareKind(&fuzzy.Kind{Name: name, Values: values})
}

// clause dispatches one non-directive, non-blank line to the assert,
// production, or query parser, per the three clause forms of §6.
func (l *Loader) clause(lineNo int, line string) error {
	toks := fields(line)
	if len(toks) > 0 && toks[0] == "?" {
		return l.queryClause(lineNo, toks)
	}
	if strings.Contains(line, "->") {
		return l.productionClause(lineNo, line)
	}
	return l.assertClause(lineNo, toks)
}

// assertClause implements "Assert: ID ATTR VAL — three literals; creates an
// axiomatic WME." Schema-check failures are warned and the WME is still
// added, per §7's "Schema-check failure" entry and scenario 6.
func (l *Loader) assertClause(lineNo int, toks []string) error {
	if len(toks) != 3 {
		return &ParseError{Line: lineNo, Msg: fmt.Sprintf("assert clause must have exactly 3 fields, got %d", len(toks))}
	}
	id, attr, val := toks[0], toks[1], toks[2]
	if !l.Schema.Check(id, attr, val) {
		obslog.Parser.Warnf("line %d: schema check failed for (%s %s %s)", lineNo, id, attr, val)
	}
	l.Ctx.AssertFact(id, attr, val)
	return nil
}

// queryClause implements "Query: ? ID ATTR VAL (any position may be a
// ?-prefixed variable)".
func (l *Loader) queryClause(lineNo int, toks []string) error {
	if len(toks) != 4 {
		return &ParseError{Line: lineNo, Msg: fmt.Sprintf("query clause must have exactly 4 fields (? id attr val), got %d", len(toks))}
	}
	cond := model.Condition{ID: parseTerm(toks[1]), Attr: parseTerm(toks[2]), Val: parseTerm(toks[3])}
	l.Queries = append(l.Queries, Query{Line: lineNo, LHS: []model.Condition{cond}, Vars: cond.Variables()})
	return nil
}

// productionClause implements "Production: ID ATTR VAL ... -> ID ATTR VAL
// with ?-prefixed tokens treated as variables ... and a leading ! on a
// condition marking it negated ...; conditions separated by ','. A rule
// name is supplied as a trailing '# name' comment-style suffix, or
// auto-generated as rule-<n> from declaration order if omitted."
func (l *Loader) productionClause(lineNo int, line string) error {
	body := line
	name := ""
	if idx := strings.LastIndex(line, " # "); idx >= 0 {
		body = strings.TrimSpace(line[:idx])
		name = strings.TrimSpace(line[idx+3:])
	}
	arrow := strings.Index(body, "->")
	if arrow < 0 {
		return &ParseError{Line: lineNo, Msg: "production clause missing '->'"}
	}
	lhsPart := strings.TrimSpace(body[:arrow])
	rhsPart := strings.TrimSpace(body[arrow+len("->"):])

	conds, err := parseConditions(lhsPart)
	if err != nil {
		return &ParseError{Line: lineNo, Msg: err.Error()}
	}

	var rhs *model.RHSPattern
	if rhsPart != "" {
		rtoks := fields(rhsPart)
		if len(rtoks) != 3 {
			return &ParseError{Line: lineNo, Msg: fmt.Sprintf("RHS must have exactly 3 fields, got %d", len(rtoks))}
		}
		rhs = &model.RHSPattern{ID: parseTerm(rtoks[0]), Attr: parseTerm(rtoks[1]), Val: parseTerm(rtoks[2])}
	}

	if name == "" {
		name = l.nextAutoName()
	}
	p := &model.Production{Name: name, LHS: conds, RHS: rhs}
	if err := l.Inventory.Add(p); err != nil {
		return &ParseError{Line: lineNo, Msg: err.Error()}
	}
	return nil
}

// parseConditions splits a production's LHS into comma-separated triples,
// each a space-separated (ID, ATTR, VAL) with an optional leading '!' on
// the ID token marking the condition negated.
func parseConditions(lhs string) ([]model.Condition, error) {
	if lhs == "" {
		return nil, fmt.Errorf("production LHS must not be empty")
	}
	var conds []model.Condition
	for _, seg := range strings.Split(lhs, ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		toks := fields(seg)
		if len(toks) != 3 {
			return nil, fmt.Errorf("condition %q must have exactly 3 fields, got %d", seg, len(toks))
		}
		first := toks[0]
		negated := strings.HasPrefix(first, "!")
		if negated {
			first = strings.TrimPrefix(first, "!")
		}
		conds = append(conds, model.Condition{
			ID:      parseTerm(first),
			Attr:    parseTerm(toks[1]),
			Val:     parseTerm(toks[2]),
			Negated: negated,
		})
	}
	if len(conds) == 0 {
		return nil, fmt.Errorf("production LHS must have at least one condition")
	}
	return conds, nil
}
