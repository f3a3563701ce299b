package theory

import (
	"fmt"

	"github.com/dominikbraun/graph"
	"golang.org/x/exp/slices"

	"hdcreason/internal/types"
)

// symbolHash identifies a types.Symbol vertex by itself — symbols are
// already unique strings, so no separate ID is needed.
func symbolHash(s types.Symbol) types.Symbol { return s }

// Lattice is the IS_A taxonomic lattice (and, reused unmodified, a rule
// dependency graph): a directed graph of Symbol vertices where an edge
// child -> parent means "child IS_A parent". Default/taxonomic reasoning
// walks this graph instead of an ad-hoc adjacency map.
type Lattice struct {
	g graph.Graph[types.Symbol, types.Symbol]
}

// NewLattice returns an empty taxonomic lattice.
func NewLattice() *Lattice {
	return &Lattice{g: graph.New(symbolHash, graph.Directed(), graph.PreventCycles())}
}

// AddConcept ensures a vertex exists for sym. It is a no-op if sym is
// already present.
func (l *Lattice) AddConcept(sym types.Symbol) error {
	err := l.g.AddVertex(sym)
	if err != nil && err != graph.ErrVertexAlreadyExists {
		return fmt.Errorf("theory: add concept %s: %w", sym, err)
	}
	return nil
}

// AddIsA records child IS_A parent. Both vertices are created if absent.
// Fails if the edge would close a cycle (a concept cannot be its own
// ancestor).
func (l *Lattice) AddIsA(child, parent types.Symbol) error {
	if err := l.AddConcept(child); err != nil {
		return err
	}
	if err := l.AddConcept(parent); err != nil {
		return err
	}
	if err := l.g.AddEdge(child, parent); err != nil {
		if err == graph.ErrEdgeAlreadyExists {
			return nil
		}
		return fmt.Errorf("theory: %s IS_A %s would create a cycle: %w", child, parent, err)
	}
	return nil
}

// Parents returns the direct IS_A parents of sym.
func (l *Lattice) Parents(sym types.Symbol) ([]types.Symbol, error) {
	adj, err := l.g.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	edges, ok := adj[sym]
	if !ok {
		return nil, fmt.Errorf("theory: concept not found: %s", sym)
	}
	out := make([]types.Symbol, 0, len(edges))
	for target := range edges {
		out = append(out, target)
	}
	slices.Sort(out)
	return out, nil
}

// Ancestors returns every concept reachable from sym by following IS_A
// edges transitively (sym's parents, grandparents, and so on), used by
// default/taxonomic reasoning to widen a goal to its supertypes.
func (l *Lattice) Ancestors(sym types.Symbol) ([]types.Symbol, error) {
	if _, err := l.g.Vertex(sym); err != nil {
		return nil, fmt.Errorf("theory: concept not found: %s", sym)
	}
	seen := map[types.Symbol]bool{sym: true}
	var out []types.Symbol
	err := graph.BFS(l.g, sym, func(v types.Symbol) bool {
		if v != sym && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
		return false
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// IsA reports whether child has parent anywhere in its ancestor chain
// (including child == parent, the reflexive case).
func (l *Lattice) IsA(child, parent types.Symbol) (bool, error) {
	if child == parent {
		return true, nil
	}
	ancestors, err := l.Ancestors(child)
	if err != nil {
		return false, err
	}
	for _, a := range ancestors {
		if a == parent {
			return true, nil
		}
	}
	return false, nil
}

// TopologicalOrder returns concepts ordered so that every concept precedes
// its ancestors — used to detect rule-dependency ordering when the same
// Lattice type is reused as a rule-dependency graph (an edge rule -> dep
// means "rule depends on dep").
func (l *Lattice) TopologicalOrder() ([]types.Symbol, error) {
	return graph.TopologicalSort(l.g)
}

// RemoveIsA deletes the child -> parent edge, if present.
func (l *Lattice) RemoveIsA(child, parent types.Symbol) error {
	if err := l.g.RemoveEdge(child, parent); err != nil && err != graph.ErrEdgeNotFound {
		return err
	}
	return nil
}

// Size returns the number of concepts in the lattice.
func (l *Lattice) Size() (int, error) {
	order, err := l.g.Order()
	if err != nil {
		return 0, err
	}
	return order, nil
}
