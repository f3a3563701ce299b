package reasoning

import "hdcreason/internal/types"

// effectiveBestFact composes the theory stack's top-down view with the
// base store for a single (subject, relation, object) lookup (§4.4): a
// stack hit — live or tombstoned — wins over whatever the store holds for
// the same triple, since the stack may shadow a hypothetical retraction
// or assertion the store was never told about.
func (r *Reasoner) effectiveBestFact(subject, relation types.Symbol, object *types.Symbol) (*types.Fact, bool) {
	if r.stack != nil && object != nil {
		if f, ok := r.stack.LookupFact(subject, relation, *object); ok {
			if f.Deleted {
				return nil, false
			}
			return f, true
		}
	}
	return r.store.GetBestExistenceFact(subject, relation, object)
}

// effectiveFactsBySubjectAndRelation composes the stack's layered deltas
// onto the store's matching facts.
func (r *Reasoner) effectiveFactsBySubjectAndRelation(subject, relation types.Symbol, minExistence types.Existence) []*types.Fact {
	base := r.store.GetFactsBySubjectAndRelation(subject, relation, minExistence)
	if r.stack == nil {
		return base
	}
	return r.stack.Overlay(base, minExistence, func(f *types.Fact) bool {
		return f.Subject == subject && f.Relation == relation
	})
}

// effectiveSnapshotFacts composes the stack's layered deltas onto every
// fact the store holds, for query's unindexed pattern scan.
func (r *Reasoner) effectiveSnapshotFacts() []*types.Fact {
	base := r.store.SnapshotFacts()
	if r.stack == nil {
		return base
	}
	return r.stack.Overlay(base, types.Impossible, func(*types.Fact) bool { return true })
}
