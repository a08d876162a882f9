package leiden

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGraphRejectsMalformedInput(t *testing.T) {
	cases := []struct {
		name     string
		numNodes int
		edges    []Edge
	}{
		{"zero nodes", 0, nil},
		{"negative nodes", -3, nil},
		{"negative weight", 2, []Edge{{U: 0, V: 1, Weight: -1}}},
		{"nan weight", 2, []Edge{{U: 0, V: 1, Weight: math.NaN()}}},
		{"inf weight", 2, []Edge{{U: 0, V: 1, Weight: math.Inf(1)}}},
		{"node out of range", 2, []Edge{{U: 0, V: 2, Weight: 1}}},
		{"negative node", 2, []Edge{{U: -1, V: 1, Weight: 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGraph(tc.numNodes, tc.edges)
			require.ErrorIs(t, err, ErrMalformedGraph)
		})
	}
}

func TestNewGraphSumsDuplicateEdges(t *testing.T) {
	g, err := NewGraph(3, []Edge{
		{U: 0, V: 1, Weight: 1},
		{U: 1, V: 0, Weight: 2.5},
		{U: 2, V: 2, Weight: 0.5},
		{U: 2, V: 2, Weight: 0.5},
	})
	require.NoError(t, err)

	assert.Equal(t, 3.5, g.EdgeWeight(0, 1))
	assert.Equal(t, 3.5, g.EdgeWeight(1, 0))
	assert.Equal(t, 1.0, g.SelfWeight(2))
	assert.Equal(t, 4.5, g.TotalWeight())
}

func TestNewGraphStrictRejectsDuplicates(t *testing.T) {
	_, err := NewGraphStrict(2, []Edge{
		{U: 0, V: 1, Weight: 1},
		{U: 1, V: 0, Weight: 1},
	})
	require.ErrorIs(t, err, ErrMalformedGraph)

	_, err = NewGraphStrict(2, []Edge{{U: 0, V: 1, Weight: 1}})
	require.NoError(t, err)
}

func TestNeighborsExcludeSelfLoopsAndStaySorted(t *testing.T) {
	g, err := NewGraph(4, []Edge{
		{U: 0, V: 3, Weight: 1},
		{U: 0, V: 0, Weight: 2},
		{U: 0, V: 1, Weight: 1},
		{U: 0, V: 2, Weight: 1},
	})
	require.NoError(t, err)

	nodes, weights := g.Neighbors(0)
	assert.Equal(t, []int{1, 2, 3}, nodes)
	assert.Equal(t, []float64{1, 1, 1}, weights)
	assert.Equal(t, 2.0, g.SelfWeight(0))
	// Self-loop counts twice in the degree, once in the total weight.
	assert.Equal(t, 7.0, g.Degree(0))
	assert.Equal(t, 5.0, g.TotalWeight())

	// Re-iterable: a second call sees the same sequence.
	again, _ := g.Neighbors(0)
	assert.Equal(t, nodes, again)
}

func TestAggregatePreservesTotalWeight(t *testing.T) {
	g, err := NewGraph(6, twoTriangleEdges())
	require.NoError(t, err)

	p, err := NewPartition([]int{0, 0, 0, 1, 1, 1})
	require.NoError(t, err)

	agg := g.Aggregate(p)
	require.Equal(t, 2, agg.NumNodes())
	assert.Equal(t, g.TotalWeight(), agg.TotalWeight())
	// Each triangle's three internal edges become one self-loop.
	assert.Equal(t, 3.0, agg.SelfWeight(0))
	assert.Equal(t, 3.0, agg.SelfWeight(1))
	assert.Equal(t, 0.0, agg.EdgeWeight(0, 1))
}

func TestAggregateCrossEdgesAndSelfLoops(t *testing.T) {
	// Two pairs joined by one cross edge, plus a self-loop on node 0.
	g, err := NewGraph(4, []Edge{
		{U: 0, V: 1, Weight: 2},
		{U: 1, V: 2, Weight: 0.5},
		{U: 2, V: 3, Weight: 2},
		{U: 0, V: 0, Weight: 1},
	})
	require.NoError(t, err)

	p, err := NewPartition([]int{0, 0, 1, 1})
	require.NoError(t, err)

	agg := g.Aggregate(p)
	require.Equal(t, 2, agg.NumNodes())
	assert.Equal(t, 3.0, agg.SelfWeight(0)) // intra edge 2 + self-loop 1
	assert.Equal(t, 2.0, agg.SelfWeight(1))
	assert.Equal(t, 0.5, agg.EdgeWeight(0, 1))
	assert.Equal(t, g.TotalWeight(), agg.TotalWeight())
}

func TestAggregateDeterministicUnderEdgePermutation(t *testing.T) {
	edges := []Edge{
		{U: 0, V: 1, Weight: 1}, {U: 1, V: 2, Weight: 2}, {U: 2, V: 0, Weight: 3},
		{U: 3, V: 4, Weight: 4}, {U: 0, V: 3, Weight: 5}, {U: 1, V: 4, Weight: 6},
	}
	reversed := make([]Edge, len(edges))
	for i, e := range edges {
		reversed[len(edges)-1-i] = Edge{U: e.V, V: e.U, Weight: e.Weight}
	}

	p, err := NewPartition([]int{0, 0, 1, 1, 2})
	require.NoError(t, err)

	g1, err := NewGraph(5, edges)
	require.NoError(t, err)
	g2, err := NewGraph(5, reversed)
	require.NoError(t, err)

	a1, a2 := g1.Aggregate(p), g2.Aggregate(p)
	require.Equal(t, a1.NumNodes(), a2.NumNodes())
	for v := 0; v < a1.NumNodes(); v++ {
		n1, w1 := a1.Neighbors(v)
		n2, w2 := a2.Neighbors(v)
		assert.Equal(t, n1, n2)
		assert.Equal(t, w1, w2)
		assert.Equal(t, a1.SelfWeight(v), a2.SelfWeight(v))
	}
}

// twoTriangleEdges is the disjoint-triangles fixture reused across the
// package tests: {0,1,2} and {3,4,5}, all weights 1.
func twoTriangleEdges() []Edge {
	return []Edge{
		{U: 0, V: 1, Weight: 1}, {U: 1, V: 2, Weight: 1}, {U: 2, V: 0, Weight: 1},
		{U: 3, V: 4, Weight: 1}, {U: 4, V: 5, Weight: 1}, {U: 5, V: 3, Weight: 1},
	}
}
