package hdc

import (
	"fmt"
	"sync"
)

// Registry holds the set of known HDC strategies, keyed by id. It mirrors
// the register/get/duplicate-rejection shape of the teacher's thinking-mode
// registry, applied to vector algebras instead of thinking modes.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Strategy)}
}

// Register adds a strategy under its own ID. Registering the same ID twice
// is an error, matching the teacher's "mode already registered" behavior.
func (r *Registry) Register(s Strategy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := s.ID()
	if id == "" {
		return fmt.Errorf("hdc: strategy has empty ID")
	}
	if _, exists := r.strategies[id]; exists {
		return fmt.Errorf("hdc: strategy already registered: %s", id)
	}
	r.strategies[id] = s
	return nil
}

// Get retrieves a strategy by id.
func (r *Registry) Get(id string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.strategies[id]
	if !exists {
		return nil, &UnknownStrategyError{ID: id}
	}
	return s, nil
}

// GetDefault returns the "dense-binary" strategy, the baseline algebra
// every installation is expected to register.
func (r *Registry) GetDefault() (Strategy, error) {
	return r.Get("dense-binary")
}

// List returns the ids of all registered strategies.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.strategies))
	for id := range r.strategies {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of registered strategies.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.strategies)
}

// DefaultRegistry builds a Registry pre-populated with the five strategies
// this module ships: dense-binary, sparse-polynomial, metric-affine,
// metric-affine-elastic and exact. Construction panics only on a
// programmer error (duplicate ID among our own built-ins), never on bad
// input.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	builtins := []Strategy{
		NewDenseBinary(),
		NewSparsePolynomial(),
		NewMetricAffine(),
		NewMetricAffineElastic(),
		NewExact(),
	}
	for _, s := range builtins {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
	return r
}
