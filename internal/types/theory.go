package types

// TheoryLayer is one overlay in a TheoryStack: a set of fact deltas plus
// optional per-dimension diamond overrides, chained to a parent layer.
// Layers with Readonly set reject writes with ReadonlyLayer (enforced by
// the theory package, not here).
type TheoryLayer struct {
	ID       string                  `json:"id"`
	ParentID string                  `json:"parent_id,omitempty"`
	Delta    map[FactKey]*Fact       `json:"-"`
	Readonly bool                    `json:"readonly"`
	Depth    int                     `json:"depth"`
	DimOverrides map[Symbol][]DimOverride `json:"dim_overrides,omitempty"`
}

// NewTheoryLayer returns an empty, writable layer at the given depth.
func NewTheoryLayer(id, parentID string, depth int) *TheoryLayer {
	return &TheoryLayer{
		ID:       id,
		ParentID: parentID,
		Delta:    make(map[FactKey]*Fact),
		Depth:    depth,
		DimOverrides: make(map[Symbol][]DimOverride),
	}
}

// IsEmpty reports whether the layer introduced no changes (invariant 5:
// "A layer's delta is empty iff the layer introduced no changes").
func (l *TheoryLayer) IsEmpty() bool {
	return len(l.Delta) == 0 && len(l.DimOverrides) == 0
}

// LayerSnapshot is the metadata §4.4's snapshot() returns for one layer.
type LayerSnapshot struct {
	ID         string `json:"id"`
	Depth      int    `json:"depth"`
	Readonly   bool   `json:"readonly"`
	FactCount  int    `json:"fact_count"`
}
