package resultcache

import (
	"time"

	"hdcreason/internal/types"
)

// Key identifies one cached reasoning outcome: a goal line evaluated
// against a specific theory-stack layer. Two calls with the same goal
// against different layers must not share an entry, since a pushed
// hypothetical layer can change what is provable.
type Key struct {
	Goal     string
	TheoryID string
}

// ResultCache memoises ReasoningResult by (goal, theoryId), backed by the
// generic LRU above. Zero value is not usable; use NewResultCache.
type ResultCache struct {
	lru *LRU[Key, *types.ReasoningResult]
}

// NewResultCache returns a cache bounded to maxEntries with the given TTL
// (0 disables expiry).
func NewResultCache(maxEntries int, ttl time.Duration) *ResultCache {
	return &ResultCache{lru: New[Key, *types.ReasoningResult](&Config{MaxEntries: maxEntries, TTL: ttl})}
}

// Get returns the cached result for (goal, theoryId), if present and
// unexpired.
func (c *ResultCache) Get(goal, theoryID string) (*types.ReasoningResult, bool) {
	return c.lru.Get(Key{Goal: goal, TheoryID: theoryID})
}

// Put stores result under (goal, theoryId).
func (c *ResultCache) Put(goal, theoryID string, result *types.ReasoningResult) {
	c.lru.Set(Key{Goal: goal, TheoryID: theoryID}, result)
}

// InvalidateTheory drops every cached entry for theoryID, for use after
// a layer is popped, committed, or otherwise mutated, since any of those
// can change what that theory proves.
func (c *ResultCache) InvalidateTheory(theoryID string) {
	for _, e := range c.lru.Entries() {
		if e.Key.TheoryID == theoryID {
			c.lru.Delete(e.Key)
		}
	}
}

// Stats exposes the underlying LRU's hit/miss/eviction counters.
func (c *ResultCache) Stats() map[string]interface{} {
	return c.lru.Stats()
}
