// Package storage provides the concept/triple store: thread-safe storage
// using a read-write mutex and deep copying to prevent data races, the
// same strategy the teacher's in-memory storage used for thoughts and
// branches, applied here to facts and concepts.
//
// Thread Safety:
// All methods are thread-safe through RWMutex protection. Read operations
// use RLock for concurrent access, while write operations use exclusive
// Lock.
package storage

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"hdcreason/internal/types"
)

// UsageKind distinguishes why a concept was touched, feeding the usage
// counters RecordUsage updates.
type UsageKind int

const (
	UsageAssert UsageKind = iota
	UsageQuery
	UsageInference
)

// recencyHalfLifeDays is the window over which recency decays to zero in
// the usage-priority formula.
const recencyHalfLifeDays = 30.0

// Metrics reports point-in-time counts, mirroring the teacher's
// MetricsProvider contract.
type Metrics struct {
	FactCount    int
	ConceptCount int
	ProtectCount int
	DeletedFacts int
}

// ConceptStore is the in-memory triple/concept store. All Get-style
// methods return deep copies (via Fact.Clone/Concept.Clone) so external
// mutation of a returned value never corrupts internal state.
type ConceptStore struct {
	mu       sync.RWMutex
	facts    map[types.FactKey]*types.Fact
	concepts map[types.Symbol]*types.Concept
	protect  map[types.Symbol]bool
	emitter  AuditEmitter
}

// NewConceptStore creates an empty store. A nil emitter is replaced with
// NoopEmitter so audit logging stays optional.
func NewConceptStore(emitter AuditEmitter) *ConceptStore {
	if emitter == nil {
		emitter = NoopEmitter{}
	}
	return &ConceptStore{
		facts:    make(map[types.FactKey]*types.Fact),
		concepts: make(map[types.Symbol]*types.Concept),
		protect:  make(map[types.Symbol]bool),
		emitter:  emitter,
	}
}

// EnsureConcept returns the concept record for label, creating an empty
// one on first use.
func (s *ConceptStore) EnsureConcept(label types.Symbol) *types.Concept {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.concepts[label]; ok {
		return c.Clone()
	}
	c := types.NewConcept(label).Build()
	s.concepts[label] = c
	return c.Clone()
}

// UpsertConcept stores a concept record wholesale, overwriting any
// existing one with the same label.
func (s *ConceptStore) UpsertConcept(c *types.Concept) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.concepts[c.Label] = c.Clone()
}

// GetConcept returns a deep copy of the concept record for label.
func (s *ConceptStore) GetConcept(label types.Symbol) (*types.Concept, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.concepts[label]
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// AddFact asserts f, deduplicating by triple key: if a fact with the same
// (subject, relation, object) already exists, its existence is upgraded
// to the max of old and new (never downgraded) and the incoming extra
// args/metadata are ignored in favor of the stored record's identity.
func (s *ConceptStore) AddFact(f *types.Fact) (*types.Fact, error) {
	if f.Subject == "" || f.Relation == "" {
		return nil, fmt.Errorf("storage: fact subject and relation cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := f.Key()
	now := time.Now()
	if existing, ok := s.facts[key]; ok && !existing.Deleted {
		existing.Existence = types.MaxExistence(existing.Existence, f.Existence)
		existing.UpdatedAt = now
		s.emitter.Emit("fact_upgraded", map[string]any{
			"subject": string(key.Subject), "relation": string(key.Relation),
			"object": string(key.Object), "existence": existing.Existence.String(),
		})
		return existing.Clone(), nil
	}

	stored := f.Clone()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.Deleted = false
	s.facts[key] = stored
	s.emitter.Emit("fact_asserted", map[string]any{
		"subject": string(key.Subject), "relation": string(key.Relation),
		"object": string(key.Object), "existence": stored.Existence.String(),
	})
	return stored.Clone(), nil
}

// RemoveFact soft-deletes the fact at key, leaving it in place (marked
// Deleted) so a TheoryLayer overlay can still shadow it rather than lose
// the record entirely.
func (s *ConceptStore) RemoveFact(key types.FactKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.facts[key]
	if !ok {
		return fmt.Errorf("storage: no such fact: %s %s %s", key.Subject, key.Relation, key.Object)
	}
	f.Deleted = true
	f.UpdatedAt = time.Now()
	s.emitter.Emit("fact_retracted", map[string]any{
		"subject": string(key.Subject), "relation": string(key.Relation), "object": string(key.Object),
	})
	return nil
}

// UpgradeExistence raises the existence level of the fact at key,
// refusing to downgrade it.
func (s *ConceptStore) UpgradeExistence(key types.FactKey, e types.Existence) (*types.Fact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.facts[key]
	if !ok || f.Deleted {
		return nil, fmt.Errorf("storage: no such fact: %s %s %s", key.Subject, key.Relation, key.Object)
	}
	f.Existence = types.MaxExistence(f.Existence, e)
	f.UpdatedAt = time.Now()
	return f.Clone(), nil
}

func (s *ConceptStore) GetFact(key types.FactKey) (*types.Fact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.facts[key]
	if !ok || f.Deleted {
		return nil, false
	}
	return f.Clone(), true
}

func (s *ConceptStore) GetFactsBySubject(subject types.Symbol) []*types.Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*types.Fact
	for _, f := range s.facts {
		if f.Subject == subject && !f.Deleted {
			out = append(out, f.Clone())
		}
	}
	sortFacts(out)
	return out
}

func (s *ConceptStore) GetFactsBySubjectAndRelation(subject, relation types.Symbol, minExistence types.Existence) []*types.Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*types.Fact
	for _, f := range s.facts {
		if f.Subject == subject && f.Relation == relation && !f.Deleted && f.Existence >= minExistence {
			out = append(out, f.Clone())
		}
	}
	sortFacts(out)
	return out
}

func (s *ConceptStore) GetFactsByExistence(min types.Existence) []*types.Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*types.Fact
	for _, f := range s.facts {
		if !f.Deleted && f.Existence >= min {
			out = append(out, f.Clone())
		}
	}
	sortFacts(out)
	return out
}

// GetBestExistenceFact returns the highest-existence matching fact. When
// object is nil, any object matches (subject, relation) and the object
// becomes part of the disambiguation among ties.
func (s *ConceptStore) GetBestExistenceFact(subject, relation types.Symbol, object *types.Symbol) (*types.Fact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *types.Fact
	for _, f := range s.facts {
		if f.Deleted || f.Subject != subject || f.Relation != relation {
			continue
		}
		if object != nil && f.Object != *object {
			continue
		}
		if best == nil || f.Existence > best.Existence ||
			(f.Existence == best.Existence && f.Object < best.Object) {
			best = f
		}
	}
	if best == nil {
		return nil, false
	}
	return best.Clone(), true
}

// SnapshotFacts returns a deep copy of every fact, including soft-deleted
// ones, for TheoryStack layer construction.
func (s *ConceptStore) SnapshotFacts() []*types.Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.Fact, 0, len(s.facts))
	for _, f := range s.facts {
		out = append(out, f.Clone())
	}
	sortFacts(out)
	return out
}

// RestoreFacts replaces the store's fact table wholesale, used when
// popping back to a prior theory layer's base state.
func (s *ConceptStore) RestoreFacts(facts []*types.Fact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts = make(map[types.FactKey]*types.Fact, len(facts))
	for _, f := range facts {
		s.facts[f.Key()] = f.Clone()
	}
}

// RecordUsage increments the usage counters of label's concept record
// (creating it if absent) and bumps LastUsedAt.
func (s *ConceptStore) RecordUsage(label types.Symbol, kind UsageKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.concepts[label]
	if !ok {
		c = types.NewConcept(label).Build()
		s.concepts[label] = c
	}
	c.Usage.UsageCount++
	switch kind {
	case UsageAssert:
		c.Usage.AssertCount++
	case UsageQuery:
		c.Usage.QueryCount++
	case UsageInference:
		c.Usage.InferenceCount++
	}
	c.Usage.LastUsedAt = time.Now()
}

// BoostUsage artificially raises a concept's usage count, e.g. after an
// explicit "pin" operation that should make it harder to forget.
func (s *ConceptStore) BoostUsage(label types.Symbol, amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.concepts[label]
	if !ok {
		c = types.NewConcept(label).Build()
		s.concepts[label] = c
	}
	c.Usage.UsageCount += amount
}

// usagePriority computes recency/frequency-weighted recall priority:
// recency decays linearly to 0 over recencyHalfLifeDays, frequency grows
// logarithmically so early uses matter more than later repeats.
func usagePriority(u types.UsageStats) float64 {
	daysSince := time.Since(u.LastUsedAt).Hours() / 24
	recency := 1 - daysSince/recencyHalfLifeDays
	if recency < 0 {
		recency = 0
	}
	frequency := math.Log10(float64(u.UsageCount)+1) / 3
	if frequency > 1 {
		frequency = 1
	}
	return 0.4*recency + 0.6*frequency
}

// GetConceptsByUsage returns up to limit concepts ordered by descending
// usage priority (recency + frequency weighted, see usagePriority).
func (s *ConceptStore) GetConceptsByUsage(limit int) []*types.Concept {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.Concept, 0, len(s.concepts))
	for _, c := range s.concepts {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := usagePriority(out[i].Usage), usagePriority(out[j].Usage)
		if pi != pj {
			return pi > pj
		}
		return out[i].Label < out[j].Label
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func (s *ConceptStore) Protect(label types.Symbol) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.protect[label] = true
	s.emitter.Emit("concept_protected", map[string]any{"label": string(label)})
}

func (s *ConceptStore) Unprotect(label types.Symbol) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.protect, label)
	s.emitter.Emit("concept_unprotected", map[string]any{"label": string(label)})
}

func (s *ConceptStore) IsProtected(label types.Symbol) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.protect[label]
}

func (s *ConceptStore) ListProtected() []types.Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Symbol, 0, len(s.protect))
	for label := range s.protect {
		out = append(out, label)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ForgetOptions selects which facts Forget removes. At least one
// selector should be set; a zero-value ForgetOptions matches nothing.
type ForgetOptions struct {
	Concept   types.Symbol     // exact subject or object match
	Pattern   string           // substring match against subject/relation/object
	Threshold *types.Existence // remove facts at or below this existence
	OlderThan time.Duration    // remove facts not updated within this window
	DryRun    bool
}

// Forget removes facts matching opts, skipping any fact whose subject or
// object is a protected concept. With DryRun set, it reports what would
// be removed without mutating the store.
func (s *ConceptStore) Forget(opts ForgetOptions) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var toRemove []types.FactKey
	for key, f := range s.facts {
		if f.Deleted {
			continue
		}
		if s.protect[f.Subject] || s.protect[f.Object] {
			continue
		}
		if !forgetMatches(f, opts, now) {
			continue
		}
		toRemove = append(toRemove, key)
	}

	if opts.DryRun {
		return len(toRemove), nil
	}
	for _, key := range toRemove {
		s.facts[key].Deleted = true
		s.facts[key].UpdatedAt = now
	}
	s.emitter.Emit("forget", map[string]any{"count": len(toRemove), "dry_run": false})
	return len(toRemove), nil
}

func forgetMatches(f *types.Fact, opts ForgetOptions, now time.Time) bool {
	matched := false
	if opts.Concept != "" {
		if f.Subject != opts.Concept && f.Object != opts.Concept {
			return false
		}
		matched = true
	}
	if opts.Pattern != "" {
		if !containsAny(opts.Pattern, string(f.Subject), string(f.Relation), string(f.Object)) {
			return false
		}
		matched = true
	}
	if opts.Threshold != nil {
		if f.Existence > *opts.Threshold {
			return false
		}
		matched = true
	}
	if opts.OlderThan > 0 {
		if now.Sub(f.UpdatedAt) < opts.OlderThan {
			return false
		}
		matched = true
	}
	return matched
}

func containsAny(pattern string, fields ...string) bool {
	for _, field := range fields {
		if strings.Contains(field, pattern) {
			return true
		}
	}
	return false
}

func (s *ConceptStore) GetMetrics() *Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := &Metrics{ConceptCount: len(s.concepts), ProtectCount: len(s.protect)}
	for _, f := range s.facts {
		if f.Deleted {
			m.DeletedFacts++
		} else {
			m.FactCount++
		}
	}
	return m
}

func sortFacts(facts []*types.Fact) {
	sort.Slice(facts, func(i, j int) bool {
		if facts[i].Subject != facts[j].Subject {
			return facts[i].Subject < facts[j].Subject
		}
		if facts[i].Relation != facts[j].Relation {
			return facts[i].Relation < facts[j].Relation
		}
		return facts[i].Object < facts[j].Object
	})
}
