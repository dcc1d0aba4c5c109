package fuzzy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsouflis/rete-reasoner/internal/model"
)

func smallKind() *Kind {
	return &Kind{Name: "tipKind", Values: []ValueDef{
		{Name: "small", A: -1, C: 15},
		{Name: "big", A: 1, C: 15},
	}}
}

func TestValueDefMuAtCenterIsOneHalf(t *testing.T) {
	v := ValueDef{Name: "big", A: 1, C: 15}
	assert.InDelta(t, 0.5, v.Mu(15), 1e-9)
}

func TestValueDefMuMonotonic(t *testing.T) {
	v := ValueDef{Name: "big", A: 1, C: 15}
	assert.Less(t, v.Mu(5), v.Mu(15))
	assert.Less(t, v.Mu(15), v.Mu(25))
}

func TestValueDefInverseMuRoundTrips(t *testing.T) {
	v := ValueDef{Name: "big", A: 1, C: 15}
	for _, x := range []float64{3, 10, 15, 20, 27} {
		mu := v.Mu(x)
		back := v.InverseMu(mu)
		assert.InDelta(t, x, back, 1e-6)
	}
}

func TestKindReversibleRequiresExactlyTwoOppositeSlopes(t *testing.T) {
	assert.True(t, smallKind().Reversible())

	sameSlope := &Kind{Values: []ValueDef{{Name: "a", A: 1, C: 1}, {Name: "b", A: 2, C: 2}}}
	assert.False(t, sameSlope.Reversible())

	oneValue := &Kind{Values: []ValueDef{{Name: "a", A: 1, C: 1}}}
	assert.False(t, oneValue.Reversible())

	threeValues := &Kind{Values: []ValueDef{
		{Name: "a", A: -1, C: 1}, {Name: "b", A: 1, C: 2}, {Name: "c", A: 1, C: 3},
	}}
	assert.False(t, threeValues.Reversible())
}

func TestKindInverseSigmoidClampsAwayFromAsymptotes(t *testing.T) {
	k := smallKind()
	x0, err := k.InverseSigmoid("big", 0)
	require.NoError(t, err)
	assert.False(t, math.IsInf(x0, 0))

	x1, err := k.InverseSigmoid("big", 1)
	require.NoError(t, err)
	assert.False(t, math.IsInf(x1, 0))
}

func TestKindInverseSigmoidUnknownValueErrors(t *testing.T) {
	k := smallKind()
	_, err := k.InverseSigmoid("nonexistent", 0.5)
	assert.Error(t, err)
}

func TestMinMaxConjunctionIsMinimum(t *testing.T) {
	assert.InDelta(t, 0.2, MinMax{}.Conjunction([]float64{0.9, 0.2, 0.5}), 1e-9)
}

func TestMinMaxDisjunctionIsMaximum(t *testing.T) {
	assert.InDelta(t, 0.9, MinMax{}.Disjunction([]float64{0.9, 0.2, 0.5}), 1e-9)
}

func TestMultiplicativeConjunctionIsProduct(t *testing.T) {
	assert.InDelta(t, 0.5*0.4, Multiplicative{}.Conjunction([]float64{0.5, 0.4}), 1e-9)
}

func TestMultiplicativeDisjunctionIsComplementOfProductOfComplements(t *testing.T) {
	// 1 - (1-0.5)(1-0.4) = 1 - 0.5*0.6 = 0.7
	assert.InDelta(t, 0.7, Multiplicative{}.Disjunction([]float64{0.5, 0.4}), 1e-9)
}

func TestSystemByNameRecognizesExactSpellingsOnly(t *testing.T) {
	_, ok := SystemByName("min-max")
	assert.True(t, ok)
	_, ok = SystemByName("multiplicative")
	assert.True(t, ok)
	_, ok = SystemByName("minmax")
	assert.False(t, ok)
}

func TestTokenMuConjoinsOnlyFuzzyMembers(t *testing.T) {
	crisp := model.NewWME("B1", "size", "3")
	fuzzy1 := model.NewFuzzyWME("B1", "tip", "big", 0.8)
	fuzzy2 := model.NewFuzzyWME("B2", "tip", "big", 0.3)
	tok := &model.Token{WMEs: []*model.WME{crisp, fuzzy1, fuzzy2}}
	mu, ok := TokenMu(MinMax{}, tok)
	require.True(t, ok)
	assert.InDelta(t, 0.3, mu, 1e-9)
}

func TestTokenMuNoFuzzyMembersIsNotOK(t *testing.T) {
	tok := &model.Token{WMEs: []*model.WME{model.NewWME("a", "b", "c")}}
	_, ok := TokenMu(MinMax{}, tok)
	assert.False(t, ok)
}

func TestDefuzzifyMatchesMeanOfInverseSigmoidContributions(t *testing.T) {
	k := smallKind()
	v := &Variable{Name: "tip", Kind: k}
	group := []GroupMember{
		{Value: "small", Mu: 0.2},
		{Value: "big", Mu: 0.9},
	}
	want := 0.0
	for _, m := range group {
		x, err := k.InverseSigmoid(m.Value, m.Mu)
		require.NoError(t, err)
		want += x
	}
	want /= 2
	got, err := Defuzzify(v, group)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-9)
}

func TestDefuzzifyRejectsNonReversibleKind(t *testing.T) {
	k := &Kind{Values: []ValueDef{{Name: "a", A: 1, C: 1}}}
	v := &Variable{Name: "x", Kind: k}
	_, err := Defuzzify(v, []GroupMember{{Value: "a", Mu: 0.5}})
	assert.Error(t, err)
}

func TestRegistryDefaultsToMinMax(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, "min-max", r.System().Name())
}

func TestRegistryBindVariableRequiresDeclaredKind(t *testing.T) {
	r := NewRegistry()
	_, err := r.BindVariable("tip", "tipKind")
	assert.Error(t, err)

	r.DeclareKind(smallKind())
	v, err := r.BindVariable("tip", "tipKind")
	require.NoError(t, err)
	assert.Equal(t, "tip", v.Name)

	got, ok := r.Variable("tip")
	require.True(t, ok)
	assert.Same(t, v, got)
}

func TestRegistryVariablesListsAllBound(t *testing.T) {
	r := NewRegistry()
	r.DeclareKind(smallKind())
	_, err := r.BindVariable("tip", "tipKind")
	require.NoError(t, err)
	_, err = r.BindVariable("food", "tipKind")
	require.NoError(t, err)
	assert.Len(t, r.Variables(), 2)
}
