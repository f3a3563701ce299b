package reasoning

import (
	"context"

	"hdcreason/internal/hdc"
	"hdcreason/internal/holographic"
	"hdcreason/internal/types"
)

// UseHolographicIndex wires a vector-similarity index into the reasoner
// for HOLOGRAPHIC-priority pre-checks (§4.7.3). Leaving it unset under
// SYMBOLIC priority is fine: holographicPreCheck never runs.
func (r *Reasoner) UseHolographicIndex(idx *holographic.Index) {
	r.holo = idx
}

// IndexFact records subject-relation-object's bound vector in the
// holographic index so a later HOLOGRAPHIC-priority goal against the same
// triple can short-circuit symbolic proof search. A no-op when no index,
// strategy, or vocab is wired.
func (r *Reasoner) IndexFact(subject, relation, object types.Symbol) {
	if r.holo == nil || r.strategy == nil || r.vocab == nil {
		return
	}
	vec := r.boundTripleVector(subject, relation, object)
	_ = r.holo.IndexConcept(context.Background(), tripleLabel(subject, relation, object), vec)
}

// boundTripleVector computes bind(s_vec, bind(r_vec, o_vec)), the goal
// encoding §4.7.3's HOLOGRAPHIC retrieval formula asks for.
func (r *Reasoner) boundTripleVector(subject, relation, object types.Symbol) hdc.Vector {
	sVec := r.vocab.Get(string(subject), "")
	rVec := r.vocab.Get(string(relation), "")
	oVec := r.vocab.Get(string(object), "")
	return r.strategy.Bind(sVec, r.strategy.Bind(rVec, oVec))
}

// tripleLabel is the index key a fact's bound vector is stored under, so
// a later lookup can confirm the nearest match is the same triple rather
// than merely a similar-looking one.
func tripleLabel(subject, relation, object types.Symbol) types.Symbol {
	return types.Symbol(string(subject) + "|" + string(relation) + "|" + string(object))
}

// holographicPreCheck implements §4.7.3's HOLOGRAPHIC-priority retrieval:
// compute the goal's bound vector, search the index for its nearest
// indexed triple, and short-circuit only when that match is the very
// same triple at STRONG_CONFIDENCE or better. Anything else — no index
// entry, a different nearest triple, or a similarity below threshold —
// falls through to symbolic proof, per "if vector retrieval is ambiguous
// or below threshold, fall through to symbolic."
func (r *Reasoner) holographicPreCheck(goal *types.Expr) (proofResult, bool) {
	if r.holo == nil || r.strategy == nil || r.vocab == nil {
		return proofResult{}, false
	}
	if len(goal.Args) != 2 || !isGround(goal) {
		return proofResult{}, false
	}

	subject, object := goal.Args[0], goal.Args[1]
	vec := r.boundTripleVector(subject, goal.Relation, object)
	matches, err := r.holo.Similar(context.Background(), vec, 1)
	if err != nil || len(matches) == 0 {
		return proofResult{}, false
	}

	best := matches[0]
	threshold := r.strategy.Thresholds().StrongConfidence
	if best.Label != tripleLabel(subject, goal.Relation, object) || float64(best.Similarity) < threshold {
		return proofResult{}, false
	}

	step := types.Step{Rule: "holographic", Fact: factString(&types.Fact{Subject: subject, Relation: goal.Relation, Object: object})}
	return axiomResult(step, types.Demonstrated), true
}
