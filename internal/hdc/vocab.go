package hdc

import "sync"

// vocabKey identifies a memoised vector by name and the theory it was
// constructed under (empty theoryID means "global", not tied to any
// overlay layer).
type vocabKey struct {
	name     string
	theoryID string
}

// VocabIndex memoises CreateFromName results for the lifetime of a
// session. Unlike pkg/resultcache's LRU, entries are never evicted: a
// concept's vector must stay byte-identical for as long as the session
// runs, since two reasoning steps computing "the same" vector from a
// fresh hash would silently diverge from bundles built earlier against
// the memoised one.
type VocabIndex struct {
	mu       sync.RWMutex
	strategy Strategy
	geometry int
	entries  map[vocabKey]Vector
}

// NewVocabIndex creates an index backed by the given strategy and
// geometry; all vectors it returns share that geometry.
func NewVocabIndex(strategy Strategy, geometry int) *VocabIndex {
	return &VocabIndex{
		strategy: strategy,
		geometry: geometry,
		entries:  make(map[vocabKey]Vector),
	}
}

// Get returns the memoised vector for (name, theoryID), constructing and
// storing it via the strategy's CreateFromName on first use.
func (idx *VocabIndex) Get(name, theoryID string) Vector {
	key := vocabKey{name: name, theoryID: theoryID}

	idx.mu.RLock()
	v, ok := idx.entries[key]
	idx.mu.RUnlock()
	if ok {
		return v.Clone()
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if v, ok := idx.entries[key]; ok {
		return v.Clone()
	}
	v = idx.strategy.CreateFromName(name, idx.geometry, theoryID)
	idx.entries[key] = v
	return v.Clone()
}

// Count returns the number of distinct (name, theoryID) pairs memoised.
func (idx *VocabIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}
