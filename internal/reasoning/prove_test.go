package reasoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdcreason/internal/storage"
	"hdcreason/internal/theory"
	"hdcreason/internal/types"
)

func newTestReasoner(t *testing.T) (*Reasoner, storage.Storage) {
	t.Helper()
	store := storage.NewConceptStore(storage.NoopEmitter{})
	stack := theory.NewTheoryStack(theory.DefaultMaxDepth)
	lattice := theory.NewLattice()
	r := NewReasoner(store, stack, lattice, nil, nil)
	return r, store
}

func mustAddFact(t *testing.T, store storage.Storage, subj, rel, obj types.Symbol, existence types.Existence) {
	t.Helper()
	_, err := store.AddFact(types.NewFact(subj, rel, obj).Existence(existence).Build())
	require.NoError(t, err)
}

func TestProveDirectLookupSucceeds(t *testing.T) {
	r, store := newTestReasoner(t)
	mustAddFact(t, store, "Dog", "IS_A", "animal", types.Certain)

	res := r.Prove("IS_A Dog animal", Options{})
	assert.True(t, res.Valid)
	assert.Equal(t, "direct", res.Method)
}

func TestProveDirectLookupFailsBelowDemonstrated(t *testing.T) {
	r, store := newTestReasoner(t)
	mustAddFact(t, store, "Dog", "IS_A", "animal", types.Possible)

	res := r.Prove("IS_A Dog animal", Options{})
	assert.False(t, res.Valid)
}

func TestProveRuleExpansionSucceeds(t *testing.T) {
	r, store := newTestReasoner(t)
	mustAddFact(t, store, "Dog", "IS_A", "mammal", types.Certain)
	r.AddRule(types.NewRule("mammal_is_animal").
		Premise(types.Pred("IS_A", "?x", "mammal")).
		Conclusion(types.Pred("IS_A", "?x", "animal")).
		Build())

	res := r.Prove("IS_A Dog animal", Options{IncludeSearchTrace: true})
	assert.True(t, res.Valid)
	assert.Equal(t, "modus_ponens", res.Method)
}

func TestProveTransitiveChainFindsShortestPath(t *testing.T) {
	r, store := newTestReasoner(t)
	mustAddFact(t, store, "a", "ANCESTOR_OF", "b", types.Certain)
	mustAddFact(t, store, "b", "ANCESTOR_OF", "c", types.Certain)
	mustAddFact(t, store, "a", "ANCESTOR_OF", "c", types.Certain) // direct shortcut also exists
	r.DeclareOperator("ANCESTOR_OF", OperatorMeta{Transitive: true})

	res := r.Prove("ANCESTOR_OF a c", Options{})
	assert.True(t, res.Valid)
	assert.Equal(t, "direct", res.Method) // direct lookup wins over chaining
}

func TestProveTransitiveChainWithoutDirectFact(t *testing.T) {
	r, store := newTestReasoner(t)
	mustAddFact(t, store, "a", "ANCESTOR_OF", "b", types.Certain)
	mustAddFact(t, store, "b", "ANCESTOR_OF", "c", types.Certain)
	r.DeclareOperator("ANCESTOR_OF", OperatorMeta{Transitive: true})

	res := r.Prove("ANCESTOR_OF a c", Options{IncludeSearchTrace: true})
	assert.True(t, res.Valid)
	assert.Equal(t, "transitivity", res.Method)
}

func TestProveLatticeDefaultInference(t *testing.T) {
	r, _ := newTestReasoner(t)
	require.NoError(t, r.latticeAddIsA(t, "Dog", "mammal"))
	require.NoError(t, r.latticeAddIsA(t, "mammal", "animal"))

	res := r.Prove("IS_A Dog animal", Options{})
	assert.True(t, res.Valid)
	assert.Equal(t, "default", res.Method)
}

func (r *Reasoner) latticeAddIsA(t *testing.T, child, parent types.Symbol) error {
	t.Helper()
	if err := r.lattice.AddConcept(child); err != nil {
		return err
	}
	if err := r.lattice.AddConcept(parent); err != nil {
		return err
	}
	return r.lattice.AddIsA(child, parent)
}

func TestProveFailsNoMatchingRule(t *testing.T) {
	r, _ := newTestReasoner(t)
	res := r.Prove("IS_A Dog animal", Options{})
	assert.False(t, res.Valid)
	assert.Equal(t, "no_matching_rule", res.Reason)
}

func TestProveCycleDetected(t *testing.T) {
	r, _ := newTestReasoner(t)
	r.AddRule(types.NewRule("self").
		Premise(types.Pred("P", "?x")).
		Conclusion(types.Pred("P", "?x")).
		Build())

	res := r.Prove("P a", Options{})
	assert.False(t, res.Valid)
	assert.Equal(t, "cycle_detected", res.Reason)
}

func TestProveNegationDirectLookup(t *testing.T) {
	r, store := newTestReasoner(t)
	mustAddFact(t, store, "Dog", "CAN_FLY", "yes", -types.Certain)

	goal := types.Not(types.Pred("CAN_FLY", "Dog", "yes"))
	result := r.proveExpr(goal, env{}, newBudget(0), false)
	assert.True(t, result.ok)
}

func TestProveNegationFailsWithoutCWA(t *testing.T) {
	r, _ := newTestReasoner(t)
	goal := types.Not(types.Pred("CAN_FLY", "Dog", "yes"))
	result := r.proveExpr(goal, env{}, newBudget(0), false)
	assert.False(t, result.ok)
	assert.Equal(t, "negation_as_failure_disabled", result.reason)
}

func TestProveNegationSucceedsWithCWA(t *testing.T) {
	r, _ := newTestReasoner(t)
	r.ClosedWorldAssumption = true
	goal := types.Not(types.Pred("CAN_FLY", "Dog", "yes"))
	result := r.proveExpr(goal, env{}, newBudget(0), false)
	assert.True(t, result.ok)
}

func TestProveCompoundAndRequiresAll(t *testing.T) {
	r, store := newTestReasoner(t)
	mustAddFact(t, store, "Dog", "IS_A", "animal", types.Certain)

	res := r.ProveCompound([]string{"IS_A Dog animal", "IS_A Dog plant"}, "And", Options{})
	assert.False(t, res.Valid)
	assert.Equal(t, "compound_goal_and", res.Method)
	assert.Len(t, res.Parts, 2)
}

func TestProveCompoundOrSucceedsOnOneBranch(t *testing.T) {
	r, store := newTestReasoner(t)
	mustAddFact(t, store, "Dog", "IS_A", "animal", types.Certain)

	res := r.ProveCompound([]string{"IS_A Dog plant", "IS_A Dog animal"}, "Or", Options{})
	assert.True(t, res.Valid)
}

func TestProveTieBreakPrefersFewerSteps(t *testing.T) {
	r, store := newTestReasoner(t)
	mustAddFact(t, store, "Dog", "SUBCLASS_OF", "mammal", types.Certain)
	mustAddFact(t, store, "mammal", "SUBCLASS_OF", "animal", types.Certain)
	r.AddRule(types.NewRule("direct_rule").
		Premise(types.Pred("SUBCLASS_OF", "?x", "mammal")).
		Conclusion(types.Pred("SUBCLASS_OF", "?x", "animal")).
		Build())
	r.AddRule(types.NewRule("long_rule").
		Premise(types.And(
			types.Pred("SUBCLASS_OF", "?x", "mammal"),
			types.Pred("SUBCLASS_OF", "mammal", "animal"),
		)).
		Conclusion(types.Pred("SUBCLASS_OF", "?x", "animal")).
		Build())

	res := r.Prove("SUBCLASS_OF Dog animal", Options{IncludeSearchTrace: true})
	assert.True(t, res.Valid)
	assert.Len(t, res.Steps, 2) // direct_rule: 1 fact step + 1 rule step
}
