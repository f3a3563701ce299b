package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdcreason/internal/types"
)

func TestAddIsABuildsParentEdge(t *testing.T) {
	l := NewLattice()
	require.NoError(t, l.AddIsA("Dog", "mammal"))

	parents, err := l.Parents("Dog")
	require.NoError(t, err)
	assert.Equal(t, []types.Symbol{"mammal"}, parents)
}

func TestAncestorsWalksTransitiveChain(t *testing.T) {
	l := NewLattice()
	require.NoError(t, l.AddIsA("Dog", "mammal"))
	require.NoError(t, l.AddIsA("mammal", "animal"))

	ancestors, err := l.Ancestors("Dog")
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.Symbol{"mammal", "animal"}, ancestors)
}

func TestIsAReflexive(t *testing.T) {
	l := NewLattice()
	require.NoError(t, l.AddConcept("Dog"))
	ok, err := l.IsA("Dog", "Dog")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsATransitive(t *testing.T) {
	l := NewLattice()
	require.NoError(t, l.AddIsA("Dog", "mammal"))
	require.NoError(t, l.AddIsA("mammal", "animal"))

	ok, err := l.IsA("Dog", "animal")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAddIsARejectsCycle(t *testing.T) {
	l := NewLattice()
	require.NoError(t, l.AddIsA("Dog", "mammal"))
	require.NoError(t, l.AddIsA("mammal", "animal"))

	err := l.AddIsA("animal", "Dog")
	assert.Error(t, err)
}

func TestAddIsAIsIdempotent(t *testing.T) {
	l := NewLattice()
	require.NoError(t, l.AddIsA("Dog", "mammal"))
	require.NoError(t, l.AddIsA("Dog", "mammal"))

	size, err := l.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)
}

func TestRemoveIsADropsEdge(t *testing.T) {
	l := NewLattice()
	require.NoError(t, l.AddIsA("Dog", "mammal"))
	require.NoError(t, l.RemoveIsA("Dog", "mammal"))

	parents, err := l.Parents("Dog")
	require.NoError(t, err)
	assert.Empty(t, parents)
}

func TestTopologicalOrderPlacesDependentsFirst(t *testing.T) {
	l := NewLattice()
	require.NoError(t, l.AddIsA("Dog", "mammal"))
	require.NoError(t, l.AddIsA("mammal", "animal"))

	order, err := l.TopologicalOrder()
	require.NoError(t, err)

	index := map[types.Symbol]int{}
	for i, s := range order {
		index[s] = i
	}
	assert.Less(t, index["Dog"], index["mammal"])
	assert.Less(t, index["mammal"], index["animal"])
}
