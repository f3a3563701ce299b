package reasoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdcreason/internal/types"
)

func TestQueryDirectFactBinding(t *testing.T) {
	r, store := newTestReasoner(t)
	mustAddFact(t, store, "Dog", "IS_A", "animal", types.Certain)
	mustAddFact(t, store, "Cat", "IS_A", "animal", types.Certain)

	res := r.Query("IS_A ?x animal", Options{})
	require.True(t, res.Success)
	assert.Len(t, res.Matches, 2)
}

func TestQueryNoMatchesFails(t *testing.T) {
	r, _ := newTestReasoner(t)
	res := r.Query("IS_A ?x animal", Options{})
	assert.False(t, res.Success)
	assert.Empty(t, res.Matches)
}

func TestQueryDedupesIdenticalBindings(t *testing.T) {
	r, store := newTestReasoner(t)
	mustAddFact(t, store, "Dog", "IS_A", "animal", types.Certain)
	r.AddRule(types.NewRule("reflexive_alias").
		Premise(types.Pred("IS_A", "?x", "animal")).
		Conclusion(types.Pred("IS_A", "?x", "animal")).
		Build())

	res := r.Query("IS_A ?x animal", Options{})
	assert.Len(t, res.Matches, 1)
}

func TestQueryViaRuleBinding(t *testing.T) {
	r, store := newTestReasoner(t)
	mustAddFact(t, store, "Dog", "IS_A", "mammal", types.Certain)
	r.AddRule(types.NewRule("mammal_is_animal").
		Premise(types.Pred("IS_A", "?x", "mammal")).
		Conclusion(types.Pred("IS_A", "?x", "animal")).
		Build())

	res := r.Query("IS_A ?x animal", Options{})
	require.True(t, res.Success)
	found := false
	for _, m := range res.Matches {
		if b, ok := m.Bindings["?x"]; ok {
			if sym, ok := types.AnswerOf(b); ok && sym == "Dog" {
				found = true
			}
		}
	}
	assert.True(t, found)
}

func TestBindingsForOnlyIncludesGoalVariables(t *testing.T) {
	goal := parseGoalLine("IS_A ?x animal")
	e := env{"?x": "Dog"}
	m := bindingsFor(goal, e)
	assert.Len(t, m.Bindings, 1)
	sym, ok := types.AnswerOf(m.Bindings["?x"])
	require.True(t, ok)
	assert.Equal(t, types.Symbol("Dog"), sym)
}
