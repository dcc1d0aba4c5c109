package explain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dsouflis/rete-reasoner/internal/model"
	"github.com/dsouflis/rete-reasoner/internal/tms"
)

func TestTreeOfAbsentKeyReportsNoRecord(t *testing.T) {
	store := tms.New()
	out := Tree(store, model.Key{ID: "a", Attr: "b", Val: "c"})
	assert.Contains(t, out, "no record")
}

func TestTreeOfAxiomaticFactHasAxiomaticLeaf(t *testing.T) {
	store := tms.New()
	w := model.NewWME("duck", "is-a", "bird")
	store.Record(w, model.NewAxiomatic())
	out := Tree(store, w.Key)
	assert.Contains(t, out, "[Axiomatic]")
	assert.True(t, strings.HasPrefix(out, w.String()))
}

func TestTreeOfProductionDerivedFactNamesTheRuleAndSupportingWMEs(t *testing.T) {
	store := tms.New()
	support := model.NewWME("duck", "is-a", "bird")
	store.Record(support, model.NewAxiomatic())
	tok := &model.Token{WMEs: []*model.WME{support}}
	derived := model.NewWME("duck", "can", "fly")
	store.Record(derived, model.NewProductionDerived("can-fly", tok))

	out := Tree(store, derived.Key)
	assert.Contains(t, out, "can-fly")
	assert.Contains(t, out, support.String())
	assert.Contains(t, out, "[Axiomatic]")
}

func TestTreeOfDefuzzificationDerivedFactNamesTheFuzzySource(t *testing.T) {
	store := tms.New()
	src := model.NewFuzzyWME("B1", "tip", "big", 0.8)
	store.Record(src, model.NewAxiomatic())
	derived := model.NewWME("B1", "tip", "12")
	store.Record(derived, model.NewDefuzzificationDerived([]*model.WME{src}))

	out := Tree(store, derived.Key)
	assert.Contains(t, out, "Fuzzification of:")
	assert.Contains(t, out, src.String())
}

func TestTreeBreaksCyclesWithBackReferenceMarker(t *testing.T) {
	store := tms.New()
	// The store does not detect cycles, so two production-derived records
	// whose tokens hold each other's WME form one. The render function must
	// still terminate and mark re-visitation when a WME transitively
	// supports itself via two productions.
	a := model.NewWME("a", "x", "1")
	b := model.NewWME("b", "x", "1")
	tokA := &model.Token{WMEs: []*model.WME{b}}
	tokB := &model.Token{WMEs: []*model.WME{a}}
	store.Record(a, model.NewProductionDerived("r1", tokA))
	store.Record(b, model.NewProductionDerived("r2", tokB))

	out := Tree(store, a.Key)
	assert.Contains(t, out, "(*)")
}

func TestStyleYesAndNoProduceDistinctNonEmptyBanners(t *testing.T) {
	assert.Contains(t, StyleYes(), "Yes.")
	assert.Contains(t, StyleNo(), "No.")
}
