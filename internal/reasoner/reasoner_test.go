package reasoner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dsouflis/rete-reasoner/internal/fuzzy"
	"github.com/dsouflis/rete-reasoner/internal/matcher"
	"github.com/dsouflis/rete-reasoner/internal/model"
	"github.com/dsouflis/rete-reasoner/internal/resolver"
	"github.com/dsouflis/rete-reasoner/internal/rules"
	"github.com/dsouflis/rete-reasoner/internal/tms"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func cond(id, attr, val string, negated bool) model.Condition {
	return model.Condition{ID: model.ParseTerm(id), Attr: model.ParseTerm(attr), Val: model.ParseTerm(val), Negated: negated}
}

func rhs(id, attr, val string) *model.RHSPattern {
	return &model.RHSPattern{ID: model.ParseTerm(id), Attr: model.ParseTerm(attr), Val: model.ParseTerm(val)}
}

func newContext(strategy resolver.Strategy, nmax int) (*Context, *rules.Inventory) {
	inv := rules.New()
	store := tms.New()
	fzy := fuzzy.NewRegistry()
	m := matcher.New(fzy)
	return New(inv, store, m, fzy, strategy, nmax), inv
}

// Scenario 2 (§8): an unstratified rule whose RHS retracts its own LHS's
// negated precondition oscillates forever and the run is declared
// non-convergent once N_MAX is reached.
func TestUnstratifiedNegationOscillatesToNMax(t *testing.T) {
	ctx, inv := newContext(resolver.FirstMatch{}, 6)
	require.NoError(t, inv.Add(&model.Production{
		Name: "flip",
		LHS:  []model.Condition{cond("a", "state", "on", true)},
		RHS:  rhs("a", "state", "on"),
	}))
	ctx.Compile()
	assert.True(t, ctx.NonDeterministicFixpoint)

	res := ctx.Run()
	assert.False(t, res.Converged)
	assert.Equal(t, 6, res.Cycles)
}

// Scenario 1 (§8): the same kind of self-referential negation, but the
// defeater lives in a later stratum. The stratified-manual cursor abandons
// stratum 0 once it stops offering work and never revisits it, so the
// tentative conclusion it derived survives even after the defeater fires —
// a stable (if logically non-monotonic) fixed point instead of oscillation.
func TestStratifiedManualStabilizesWhereUnstratifiedWouldOscillate(t *testing.T) {
	ctx, inv := newContext(nil, 20)
	require.NoError(t, inv.Add(&model.Production{
		Name: "default-normal",
		LHS:  []model.Condition{cond("x", "abnormal", "yes", true)},
		RHS:  rhs("x", "normal", "yes"),
	}))
	inv.OpenStratum()
	require.NoError(t, inv.Add(&model.Production{
		Name: "defeater",
		LHS: []model.Condition{
			cond("x", "normal", "yes", false),
			cond("y", "contradicts", "x", false),
		},
		RHS: rhs("x", "abnormal", "yes"),
	}))
	ctx.AssertAxiomatic(model.Key{ID: "y", Attr: "contradicts", Val: "x"}, nil)

	ctx.Strategy = resolver.NewStratifiedManual(inv.StratumCount())
	ctx.Compile()

	res := ctx.Run()
	assert.True(t, res.Converged)

	_, stillNormal := ctx.Matcher.Get(model.Key{ID: "x", Attr: "normal", Val: "yes"})
	assert.True(t, stillNormal, "stratum 0's conclusion must not be revisited once abandoned")
	_, abnormalAsserted := ctx.Matcher.Get(model.Key{ID: "x", Attr: "abnormal", Val: "yes"})
	assert.True(t, abnormalAsserted)
}

// Scenario 3 (§8): retracting an axiomatic fact cascades through every
// production-derived WME whose justification ultimately traces back to it.
func TestCascadingAxiomaticRetraction(t *testing.T) {
	ctx, inv := newContext(resolver.FirstMatch{}, 10)
	require.NoError(t, inv.Add(&model.Production{
		Name: "derive-b",
		LHS:  []model.Condition{cond("?x", "is-a", "thing", false)},
		RHS:  rhs("?x", "derived", "b"),
	}))
	require.NoError(t, inv.Add(&model.Production{
		Name: "derive-c",
		LHS:  []model.Condition{cond("?x", "derived", "b", false)},
		RHS:  rhs("?x", "derived", "c"),
	}))
	ctx.Compile()
	ctx.AssertAxiomatic(model.Key{ID: "A", Attr: "is-a", Val: "thing"}, nil)
	res := ctx.Run()
	require.True(t, res.Converged)

	_, ok := ctx.Matcher.Get(model.Key{ID: "A", Attr: "derived", Val: "b"})
	require.True(t, ok)
	_, ok = ctx.Matcher.Get(model.Key{ID: "A", Attr: "derived", Val: "c"})
	require.True(t, ok)

	err := ctx.Retract("A", "is-a", "thing")
	require.NoError(t, err)

	for _, key := range []model.Key{
		{ID: "A", Attr: "is-a", Val: "thing"},
		{ID: "A", Attr: "derived", Val: "b"},
		{ID: "A", Attr: "derived", Val: "c"},
	} {
		_, ok := ctx.Matcher.Get(key)
		assert.False(t, ok, "%v should have cascaded away", key)
		assert.False(t, ctx.Store.Has(key), "%v should have no remaining justification", key)
	}
}

func TestRetractOfNonRetractableFactReturnsError(t *testing.T) {
	ctx, inv := newContext(resolver.FirstMatch{}, 10)
	require.NoError(t, inv.Add(&model.Production{
		Name: "derive-b",
		LHS:  []model.Condition{cond("?x", "is-a", "thing", false)},
		RHS:  rhs("?x", "derived", "b"),
	}))
	ctx.Compile()
	ctx.AssertAxiomatic(model.Key{ID: "A", Attr: "is-a", Val: "thing"}, nil)
	ctx.Run()

	err := ctx.Retract("A", "derived", "b")
	assert.Error(t, err, "a purely production-derived WME has no directly retractable justification")
}

// Scenario 4 (§8): fuzzy min-max conjunction. A production whose token
// carries two FuzzyWMEs asserts a new FuzzyWME whose degree is the minimum
// of its antecedents' degrees under the default min-max system.
func TestFuzzyMinMaxConjunction(t *testing.T) {
	ctx, inv := newContext(resolver.FirstMatch{}, 10)
	require.NoError(t, inv.Add(&model.Production{
		Name: "notable",
		LHS: []model.Condition{
			cond("B1", "size", "big", false),
			cond("B1", "weight", "heavy", false),
		},
		RHS: rhs("B1", "class", "notable"),
	}))
	ctx.Compile()

	muSize, muWeight := 0.8, 0.3
	ctx.AssertAxiomatic(model.Key{ID: "B1", Attr: "size", Val: "big"}, &muSize)
	ctx.AssertAxiomatic(model.Key{ID: "B1", Attr: "weight", Val: "heavy"}, &muWeight)

	res := ctx.Run()
	require.True(t, res.Converged)

	w, ok := ctx.Matcher.Get(model.Key{ID: "B1", Attr: "class", Val: "notable"})
	require.True(t, ok)
	got, isFuzzy := w.Mu()
	require.True(t, isFuzzy)
	assert.InDelta(t, 0.3, got, 1e-9)
}

// Scenario 5 (§8): fuzzy multiplicative disjunction. Two productions
// independently derive the same FuzzyWME; its degree converges to the
// multiplicative disjunction (probabilistic-OR) of both contributions.
func TestFuzzyMultiplicativeDisjunction(t *testing.T) {
	ctx, inv := newContext(resolver.FirstMatch{}, 10)
	ctx.Fuzzy.SetSystem(fuzzy.Multiplicative{})
	require.NoError(t, inv.Add(&model.Production{
		Name: "from-a",
		LHS:  []model.Condition{cond("A", "trig", "val", false)},
		RHS:  rhs("X", "notable", "yes"),
	}))
	require.NoError(t, inv.Add(&model.Production{
		Name: "from-b",
		LHS:  []model.Condition{cond("B", "trig", "val", false)},
		RHS:  rhs("X", "notable", "yes"),
	}))
	ctx.Compile()

	muA, muB := 0.5, 0.4
	ctx.AssertAxiomatic(model.Key{ID: "A", Attr: "trig", Val: "val"}, &muA)
	ctx.AssertAxiomatic(model.Key{ID: "B", Attr: "trig", Val: "val"}, &muB)

	res := ctx.Run()
	require.True(t, res.Converged)

	w, ok := ctx.Matcher.Get(model.Key{ID: "X", Attr: "notable", Val: "yes"})
	require.True(t, ok)
	got, isFuzzy := w.Mu()
	require.True(t, isFuzzy)
	// 1 - (1-0.5)(1-0.4) = 0.7
	assert.InDelta(t, 0.7, got, 1e-9)
}

func TestAssertFactDerivesFuzzyWMEsForRegisteredVariable(t *testing.T) {
	ctx, _ := newContext(resolver.FirstMatch{}, 10)
	k := &fuzzy.Kind{Name: "tipKind", Values: []fuzzy.ValueDef{
		{Name: "small", A: -1, C: 15},
		{Name: "big", A: 1, C: 15},
	}}
	ctx.Matcher.AddFuzzyVariable(&fuzzy.Variable{Name: "tip", Kind: k})

	out := ctx.AssertFact("B1", "tip", "20")
	require.Len(t, out, 3) // crisp + 2 fuzzy values

	big, ok := ctx.Matcher.Get(model.Key{ID: "B1", Attr: "tip", Val: "big"})
	require.True(t, ok)
	mu, isFuzzy := big.Mu()
	require.True(t, isFuzzy)
	assert.InDelta(t, k.Values[1].Mu(20), mu, 1e-9)
}

func TestAssertFactNonNumericValueSkipsFuzzification(t *testing.T) {
	ctx, _ := newContext(resolver.FirstMatch{}, 10)
	k := &fuzzy.Kind{Name: "tipKind", Values: []fuzzy.ValueDef{{Name: "big", A: 1, C: 15}}}
	ctx.Matcher.AddFuzzyVariable(&fuzzy.Variable{Name: "tip", Kind: k})

	out := ctx.AssertFact("B1", "tip", "not-a-number")
	assert.Len(t, out, 1)
}
