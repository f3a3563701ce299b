package storage

import "hdcreason/internal/types"

// AuditEmitter receives a notification for every state-changing store
// operation. A store must work with a nil-safe default (NoopEmitter) so
// audit logging stays fully optional, per the spec's "absence of an audit
// log is a valid no-op" invariant.
type AuditEmitter interface {
	Emit(eventType string, payload map[string]any)
}

// NoopEmitter discards every event.
type NoopEmitter struct{}

func (NoopEmitter) Emit(string, map[string]any) {}

// FactRepository manages triple storage: assertion, soft-deletion,
// existence upgrade, and the lookups the reasoner needs.
type FactRepository interface {
	AddFact(f *types.Fact) (*types.Fact, error)
	RemoveFact(key types.FactKey) error
	UpgradeExistence(key types.FactKey, e types.Existence) (*types.Fact, error)
	GetFact(key types.FactKey) (*types.Fact, bool)
	GetFactsBySubject(subject types.Symbol) []*types.Fact
	GetFactsBySubjectAndRelation(subject, relation types.Symbol, minExistence types.Existence) []*types.Fact
	GetFactsByExistence(min types.Existence) []*types.Fact
	GetBestExistenceFact(subject, relation types.Symbol, object *types.Symbol) (*types.Fact, bool)
	SnapshotFacts() []*types.Fact
	RestoreFacts(facts []*types.Fact)
}

// ConceptRepository manages concept records and usage-driven recall.
type ConceptRepository interface {
	EnsureConcept(label types.Symbol) *types.Concept
	UpsertConcept(c *types.Concept)
	GetConcept(label types.Symbol) (*types.Concept, bool)
	RecordUsage(label types.Symbol, kind UsageKind)
	BoostUsage(label types.Symbol, amount int)
	GetConceptsByUsage(limit int) []*types.Concept
}

// ProtectionRepository guards concepts against Forget and performs the
// forgetting itself.
type ProtectionRepository interface {
	Protect(label types.Symbol)
	Unprotect(label types.Symbol)
	IsProtected(label types.Symbol) bool
	ListProtected() []types.Symbol
	Forget(opts ForgetOptions) (int, error)
}

// MetricsProvider provides point-in-time store counts.
type MetricsProvider interface {
	GetMetrics() *Metrics
}

// Storage combines all repository interfaces for unified access, the way
// the teacher's Storage interface composes Thought/Branch/Insight
// repositories into one type embedders can depend on.
type Storage interface {
	FactRepository
	ConceptRepository
	ProtectionRepository
	MetricsProvider
}

var _ Storage = (*ConceptStore)(nil)
