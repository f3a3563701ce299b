// Package reasoning implements the prove/query backward-chaining engine:
// the "hardest subsystem" (§4.7), combining direct fact lookup, rule
// expansion, transitive-relation chaining, and taxonomic-lattice descent
// into one deterministic proof search.
package reasoning

import (
	"strings"
	"time"

	"hdcreason/internal/hdc"
	"hdcreason/internal/holographic"
	"hdcreason/internal/storage"
	"hdcreason/internal/theory"
	"hdcreason/internal/types"
)

// Priority selects whether a vector-based retrieval pre-check runs before
// symbolic proof search (§4.7.3).
type Priority string

const (
	PrioritySymbolic    Priority = "symbolic"
	PriorityHolographic Priority = "holographic"
)

const (
	// DefaultMaxChainDepth bounds transitive-relation chain search (§4.7.3
	// rule 2, "search up to maxChainDepth (default 8)").
	DefaultMaxChainDepth = 8
	// DefaultMaxLatticeDepth bounds taxonomic lattice ascent/descent
	// (§4.7.3 rule 2, "within maxDepth (default 10)").
	DefaultMaxLatticeDepth = 10
)

// OperatorMeta records the declared properties of a relation symbol
// (§6's `@rel:rel __Relation [transitive|symmetric|functional]`).
type OperatorMeta struct {
	Transitive bool
	Symmetric  bool
	Functional bool
}

// Options configure one Prove or Query call.
type Options struct {
	Timeout            time.Duration
	IncludeSearchTrace bool
	IgnoreNegation     bool
}

// Reasoner ties a concept store, theory stack, taxonomic lattice, and HDC
// strategy together into the prove/query algorithm.
type Reasoner struct {
	store    storage.Storage
	stack    *theory.TheoryStack
	lattice  *theory.Lattice
	strategy hdc.Strategy
	vocab    *hdc.VocabIndex

	rules     []*types.Rule
	operators map[types.Symbol]OperatorMeta

	holo *holographic.Index

	Priority              Priority
	MaxChainDepth         int
	MaxLatticeDepth       int
	ClosedWorldAssumption bool
}

// NewReasoner wires a Reasoner over the given collaborators. strategy and
// vocab may be nil when only HOLOGRAPHIC-priority features are unused.
func NewReasoner(store storage.Storage, stack *theory.TheoryStack, lattice *theory.Lattice, strategy hdc.Strategy, vocab *hdc.VocabIndex) *Reasoner {
	return &Reasoner{
		store:           store,
		stack:           stack,
		lattice:         lattice,
		strategy:        strategy,
		vocab:           vocab,
		operators:       make(map[types.Symbol]OperatorMeta),
		Priority:        PrioritySymbolic,
		MaxChainDepth:   DefaultMaxChainDepth,
		MaxLatticeDepth: DefaultMaxLatticeDepth,
	}
}

// AddRule registers a rule for backward chaining.
func (r *Reasoner) AddRule(rule *types.Rule) {
	r.rules = append(r.rules, rule)
}

// DeclareOperator records a relation's transitive/symmetric/functional
// properties, consulted during rule expansion (§4.7.3 rule 2).
func (r *Reasoner) DeclareOperator(relation types.Symbol, meta OperatorMeta) {
	r.operators[relation] = meta
}

func (r *Reasoner) operatorMeta(relation types.Symbol) OperatorMeta {
	return r.operators[relation]
}

// OperatorMeta reports relation's declared properties and whether it has
// been declared at all, so a caller auto-declaring an operator (§4.6 rule
// 4) can skip one that already carries real metadata instead of
// clobbering it with a bare zero value.
func (r *Reasoner) OperatorMeta(relation types.Symbol) (OperatorMeta, bool) {
	meta, ok := r.operators[relation]
	return meta, ok
}

// proofBudget tracks the deadline and visited-goal cycle set for one
// top-level Prove/Query call.
type proofBudget struct {
	deadline      time.Time
	hasLimit      bool
	visited       map[string]bool
	renameCounter int
}

func newBudget(timeout time.Duration) *proofBudget {
	b := &proofBudget{visited: make(map[string]bool)}
	if timeout > 0 {
		b.deadline = time.Now().Add(timeout)
		b.hasLimit = true
	}
	return b
}

func (b *proofBudget) expired() bool {
	return b.hasLimit && time.Now().After(b.deadline)
}

// parseGoalLine tokenizes a normalised "RELATION arg1 arg2 …" goal line
// (as produced by validation.GoalValidator) into a predicate Expr.
func parseGoalLine(goalLine string) *types.Expr {
	fields := strings.Fields(goalLine)
	if len(fields) == 0 {
		return nil
	}
	args := make([]types.Symbol, len(fields)-1)
	for i, f := range fields[1:] {
		args[i] = types.InternSymbol(types.Symbol(f))
	}
	return types.Pred(types.InternSymbol(types.Symbol(fields[0])), args...)
}

func goalKey(e *types.Expr) string {
	return e.String()
}
