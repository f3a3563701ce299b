// Package theory implements the layered copy-on-write overlay of triple
// deltas ("TheoryStack") and the IS_A taxonomic lattice it composes views
// against.
package theory

import (
	"fmt"

	"github.com/google/uuid"

	"hdcreason/internal/types"
)

// ReadonlyLayer is returned when a write targets a layer marked Readonly.
type ReadonlyLayer struct {
	LayerID string
}

func (e *ReadonlyLayer) Error() string {
	return fmt.Sprintf("theory: layer %s is readonly", e.LayerID)
}

// LayerDepthExceeded is returned when Push would exceed the stack's
// configured depth limit.
type LayerDepthExceeded struct {
	MaxDepth int
}

func (e *LayerDepthExceeded) Error() string {
	return fmt.Sprintf("theory: stack depth limit %d exceeded", e.MaxDepth)
}

// TheoryStack is a non-empty ordered stack of layers: base at the bottom,
// writes always target the top layer, reads walk the parent chain
// top-down. It is the "hypothetical reasoning" mechanism — push a layer to
// try an assumption, pop to discard it, commit to fold it permanently into
// its parent.
type TheoryStack struct {
	layers   []*types.TheoryLayer // layers[0] is base, layers[len-1] is top
	maxDepth int
}

// DefaultMaxDepth bounds how many hypothetical layers can be nested before
// Push starts failing with LayerDepthExceeded.
const DefaultMaxDepth = 32

// NewTheoryStack returns a stack with a single, writable base layer.
func NewTheoryStack(maxDepth int) *TheoryStack {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	base := types.NewTheoryLayer(uuid.NewString(), "", 0)
	return &TheoryStack{layers: []*types.TheoryLayer{base}, maxDepth: maxDepth}
}

// Top returns the current top-of-stack layer.
func (s *TheoryStack) Top() *types.TheoryLayer {
	return s.layers[len(s.layers)-1]
}

// Depth returns the number of layers currently on the stack.
func (s *TheoryStack) Depth() int {
	return len(s.layers)
}

// Push creates a new writable layer on top of the stack, optionally marked
// readonly, and returns it. It fails with LayerDepthExceeded if the new
// layer would exceed the configured depth limit.
func (s *TheoryStack) Push(readonly bool) (*types.TheoryLayer, error) {
	if len(s.layers) >= s.maxDepth {
		return nil, &LayerDepthExceeded{MaxDepth: s.maxDepth}
	}
	top := s.Top()
	layer := types.NewTheoryLayer(uuid.NewString(), top.ID, top.Depth+1)
	layer.Readonly = readonly
	s.layers = append(s.layers, layer)
	return layer, nil
}

// Pop discards the top layer's delta and returns it. It fails if only the
// base layer remains.
func (s *TheoryStack) Pop() (*types.TheoryLayer, error) {
	if len(s.layers) <= 1 {
		return nil, fmt.Errorf("theory: cannot pop base layer")
	}
	top := s.layers[len(s.layers)-1]
	s.layers = s.layers[:len(s.layers)-1]
	return top, nil
}

// Commit folds the top layer's delta and dimension overrides into its
// parent, then discards the top layer — the hypothetical becomes
// permanent. It fails if only the base layer remains, or if the parent
// layer is readonly.
func (s *TheoryStack) Commit() error {
	if len(s.layers) <= 1 {
		return fmt.Errorf("theory: cannot commit base layer")
	}
	top := s.layers[len(s.layers)-1]
	parent := s.layers[len(s.layers)-2]
	if parent.Readonly {
		return &ReadonlyLayer{LayerID: parent.ID}
	}
	for key, fact := range top.Delta {
		parent.Delta[key] = fact
	}
	for sym, overrides := range top.DimOverrides {
		parent.DimOverrides[sym] = append(parent.DimOverrides[sym], overrides...)
	}
	s.layers = s.layers[:len(s.layers)-1]
	return nil
}

// PutFact writes a fact into the top layer's delta. It fails with
// ReadonlyLayer if the top layer is readonly.
func (s *TheoryStack) PutFact(f *types.Fact) error {
	top := s.Top()
	if top.Readonly {
		return &ReadonlyLayer{LayerID: top.ID}
	}
	top.Delta[f.Key()] = f
	return nil
}

// DeleteFact records a soft-deletion marker for key in the top layer,
// shadowing whatever a lower layer holds for the same key.
func (s *TheoryStack) DeleteFact(key types.FactKey) error {
	top := s.Top()
	if top.Readonly {
		return &ReadonlyLayer{LayerID: top.ID}
	}
	tomb := &types.Fact{Subject: key.Subject, Relation: key.Relation, Object: key.Object, Deleted: true}
	top.Delta[key] = tomb
	return nil
}

// LookupFact walks the stack top-down and returns the first entry found
// for (s,r,o), whether it is a live fact or a deletion tombstone. The
// caller distinguishes "not present in any layer" (ok=false, meaning fall
// through to the underlying ConceptStore) from "shadowed by a deletion"
// (ok=true, fact.Deleted=true).
func (s *TheoryStack) LookupFact(subject, relation, object types.Symbol) (*types.Fact, bool) {
	key := types.FactKey{Subject: subject, Relation: relation, Object: object}
	for i := len(s.layers) - 1; i >= 0; i-- {
		if f, ok := s.layers[i].Delta[key]; ok {
			return f, true
		}
	}
	return nil, false
}

// PutDimOverride adds a dimension override to the top layer for symbol.
func (s *TheoryStack) PutDimOverride(symbol types.Symbol, override types.DimOverride) error {
	top := s.Top()
	if top.Readonly {
		return &ReadonlyLayer{LayerID: top.ID}
	}
	top.DimOverrides[symbol] = append(top.DimOverrides[symbol], override)
	return nil
}

// Compose applies every layer's dimension overrides for symbol, in order
// bottom to top, onto a clone of base. It never mutates base.
func (s *TheoryStack) Compose(symbol types.Symbol, base *types.Diamond) *types.Diamond {
	result := base.Clone()
	if result == nil {
		result = &types.Diamond{}
	}
	for _, layer := range s.layers {
		for _, ov := range layer.DimOverrides[symbol] {
			applyOverride(result, ov)
		}
	}
	return result
}

func applyOverride(d *types.Diamond, ov types.DimOverride) {
	for len(d.Center) <= ov.Dim {
		d.Center = append(d.Center, 0)
		d.Radii = append(d.Radii, 0)
	}
	center := (ov.Min + ov.Max) / 2
	radius := ov.Max - center
	if ov.Radius > radius {
		radius = ov.Radius
	}
	d.Center[ov.Dim] = center
	d.Radii[ov.Dim] = radius
}

// Conflict describes one dimension where stacked overrides are mutually
// incompatible.
type Conflict struct {
	Symbol types.Symbol
	Dim    int
	Reason string
}

// Conflicts reports, for symbol, every dimension whose stacked overrides
// produce an empty intersection (min > max across layers).
func (s *TheoryStack) Conflicts(symbol types.Symbol) []Conflict {
	type bound struct{ min, max float64 }
	bounds := map[int]*bound{}
	var conflicts []Conflict
	for _, layer := range s.layers {
		for _, ov := range layer.DimOverrides[symbol] {
			b, ok := bounds[ov.Dim]
			if !ok {
				bounds[ov.Dim] = &bound{min: ov.Min, max: ov.Max}
				continue
			}
			newMin := ov.Min
			if b.min > newMin {
				newMin = b.min
			}
			newMax := ov.Max
			if b.max < newMax {
				newMax = b.max
			}
			if newMin > newMax {
				conflicts = append(conflicts, Conflict{
					Symbol: symbol,
					Dim:    ov.Dim,
					Reason: fmt.Sprintf("incompatible override on dim %d: [%v,%v] vs [%v,%v]", ov.Dim, b.min, b.max, ov.Min, ov.Max),
				})
				continue
			}
			b.min, b.max = newMin, newMax
		}
	}
	return conflicts
}

// Overlay composes this stack's layered deltas onto base, the result of
// some underlying store's own query: a key present in any layer replaces
// base's entry, or removes it when the layer holds a deletion tombstone;
// a key introduced only by a layer (not present in base at all) is
// appended, provided it passes match and minExistence. This is the
// "effective store view (theory-stack composed)" the reasoner proves
// against (§4.4) instead of reading the underlying store directly.
func (s *TheoryStack) Overlay(base []*types.Fact, minExistence types.Existence, match func(*types.Fact) bool) []*types.Fact {
	merged := map[types.FactKey]*types.Fact{}
	for _, layer := range s.layers {
		for k, f := range layer.Delta {
			merged[k] = f
		}
	}
	if len(merged) == 0 {
		return base
	}

	seen := make(map[types.FactKey]bool, len(base))
	out := make([]*types.Fact, 0, len(base))
	for _, f := range base {
		key := f.Key()
		seen[key] = true
		if ov, ok := merged[key]; ok {
			if ov.Deleted || ov.Existence < minExistence || !match(ov) {
				continue
			}
			out = append(out, ov)
			continue
		}
		out = append(out, f)
	}
	for key, f := range merged {
		if seen[key] || f.Deleted || f.Existence < minExistence || !match(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Snapshot returns layer metadata from base to top.
func (s *TheoryStack) Snapshot() []types.LayerSnapshot {
	out := make([]types.LayerSnapshot, len(s.layers))
	for i, layer := range s.layers {
		out[i] = types.LayerSnapshot{
			ID:        layer.ID,
			Depth:     layer.Depth,
			Readonly:  layer.Readonly,
			FactCount: len(layer.Delta),
		}
	}
	return out
}
