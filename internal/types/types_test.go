package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolKind(t *testing.T) {
	cases := []struct {
		name string
		sym  Symbol
		want SymbolKind
	}{
		{"relation", "IS_A", KindRelation},
		{"variable", "?x", KindVariable},
		{"env_ref", "$x", KindEnvRef},
		{"individual", "Dog", KindIndividual},
		{"concept", "animal", KindConcept},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.sym.Kind())
		})
	}
}

func TestExistenceStringNamesLevels(t *testing.T) {
	assert.Equal(t, "CERTAIN", Certain.String())
	assert.Equal(t, "IMPOSSIBLE", Impossible.String())
	assert.Equal(t, "CUSTOM", Existence(12).String())
}

func TestMaxExistenceNeverDowngrades(t *testing.T) {
	assert.Equal(t, Certain, MaxExistence(Certain, Possible))
	assert.Equal(t, Certain, MaxExistence(Possible, Certain))
	assert.Equal(t, Possible, MaxExistence(Possible, Impossible))
}

func TestFactCloneIsIndependent(t *testing.T) {
	f := &Fact{ID: "1", Subject: "Dog", Relation: "IS_A", Object: "mammal", Extra: []Symbol{"x"}}
	cp := f.Clone()
	cp.Extra[0] = "y"
	require.Equal(t, Symbol("x"), f.Extra[0])
	assert.Equal(t, Symbol("y"), cp.Extra[0])
}

func TestFactKeyIgnoresExtra(t *testing.T) {
	a := &Fact{Subject: "Dog", Relation: "IS_A", Object: "mammal", Extra: []Symbol{"x"}}
	b := &Fact{Subject: "Dog", Relation: "IS_A", Object: "mammal"}
	assert.Equal(t, a.Key(), b.Key())
}

func TestDiamondObserveWidensNeverShiftsCenter(t *testing.T) {
	d := &Diamond{}
	d.Observe([]float64{1, 1})
	center := append([]float64(nil), d.Center...)
	d.Observe([]float64{3, -1})
	assert.Equal(t, center, d.Center)
	assert.Equal(t, []float64{2, 2}, d.Radii)
}

func TestExprString(t *testing.T) {
	e := And(Pred("IS_A", "Dog", "mammal"), Not(Pred("IS_A", "Dog", "reptile")))
	assert.Equal(t, "And(IS_A(Dog,mammal),Not(IS_A(Dog,reptile)))", e.String())
}

func TestExprVarsDeduplicatesInOrder(t *testing.T) {
	e := And(Pred("IS_A", "?x", "mammal"), Pred("HAS", "?x", "?y"))
	assert.Equal(t, []Symbol{"?x", "?y"}, e.Vars())
}

func TestRuleRenameProducesFreshVariables(t *testing.T) {
	r := &Rule{
		Premise:    Pred("IS_A", "?x", "mammal"),
		Conclusion: Pred("IS_A", "?x", "animal"),
	}
	r1 := r.Rename("_1")
	r2 := r.Rename("_2")
	assert.NotEqual(t, r1.Premise.Args[0], r2.Premise.Args[0])
	assert.Equal(t, r1.Premise.Args[0], r1.Conclusion.Args[0])
}

func TestAnswerOf(t *testing.T) {
	sym, ok := AnswerOf(RawBinding{Symbol: "Fido"})
	require.True(t, ok)
	assert.Equal(t, Symbol("Fido"), sym)

	sym, ok = AnswerOf(AnswerBinding{Answer: "Fido", Value: "Dog"})
	require.True(t, ok)
	assert.Equal(t, Symbol("Fido"), sym)
}

func TestTheoryLayerIsEmpty(t *testing.T) {
	l := NewTheoryLayer("l1", "base", 1)
	assert.True(t, l.IsEmpty())
	l.Delta[FactKey{Subject: "Dog", Relation: "IS_A", Object: "mammal"}] = &Fact{}
	assert.False(t, l.IsEmpty())
}

func TestSymbolInterner(t *testing.T) {
	a := InternSymbol("IS_A")
	b := InternSymbol("IS_A")
	assert.Equal(t, a, b)
}
