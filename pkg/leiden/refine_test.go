package leiden

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A community that local moving could have left internally disconnected
// must come out of refinement split into its connected pieces.
func TestRefineSplitsDisconnectedCommunity(t *testing.T) {
	g, err := NewGraph(6, twoTriangleEdges())
	require.NoError(t, err)

	// Force both triangles into one community.
	coarse, err := NewPartition([]int{0, 0, 0, 0, 0, 0})
	require.NoError(t, err)

	refined, refinedToCoarse, err := refinePartition(context.Background(), g, coarse, 1.0, 0, 42, 2)
	require.NoError(t, err)

	require.Equal(t, 2, refined.NumCommunities())
	assert.Equal(t, []int{0, 0}, refinedToCoarse)
	assert.Equal(t, refined.Community(0), refined.Community(1))
	assert.Equal(t, refined.Community(0), refined.Community(2))
	assert.Equal(t, refined.Community(3), refined.Community(4))
	assert.Equal(t, refined.Community(3), refined.Community(5))
	assert.NotEqual(t, refined.Community(0), refined.Community(3))
}

// Refinement never crosses the input partition's community boundaries.
func TestRefineIsFinerThanInput(t *testing.T) {
	g, err := NewGraph(6, append(twoTriangleEdges(), Edge{U: 2, V: 3, Weight: 5}))
	require.NoError(t, err)

	coarse, err := NewPartition([]int{0, 0, 0, 1, 1, 1})
	require.NoError(t, err)

	refined, refinedToCoarse, err := refinePartition(context.Background(), g, coarse, 1.0, 0.05, 7, 4)
	require.NoError(t, err)

	for v := 0; v < g.NumNodes(); v++ {
		assert.Equal(t, coarse.Community(v), refinedToCoarse[refined.Community(v)],
			"node %d escaped its community", v)
	}
}

// The draw is seeded per community, so worker parallelism must not change
// the outcome.
func TestRefineIndependentOfWorkerCount(t *testing.T) {
	g, err := NewGraph(8, []Edge{
		{U: 0, V: 1, Weight: 1}, {U: 1, V: 2, Weight: 2}, {U: 2, V: 3, Weight: 1},
		{U: 4, V: 5, Weight: 1}, {U: 5, V: 6, Weight: 2}, {U: 6, V: 7, Weight: 1},
		{U: 3, V: 4, Weight: 0.5},
	})
	require.NoError(t, err)
	coarse, err := NewPartition([]int{0, 0, 0, 0, 1, 1, 1, 1})
	require.NoError(t, err)

	for _, theta := range []float64{0, 0.01, 0.5} {
		first, firstMap, err := refinePartition(context.Background(), g, coarse, 1.0, theta, 99, 1)
		require.NoError(t, err)
		for workers := 2; workers <= 8; workers *= 2 {
			again, againMap, err := refinePartition(context.Background(), g, coarse, 1.0, theta, 99, workers)
			require.NoError(t, err)
			assert.Equal(t, first.Assignments(), again.Assignments())
			assert.Equal(t, firstMap, againMap)
		}
	}
}

// With randomness zero the merge choice is the deterministic best gain;
// repeated runs with different seeds agree.
func TestRefineZeroRandomnessIgnoresSeed(t *testing.T) {
	g, err := NewGraph(6, twoTriangleEdges())
	require.NoError(t, err)
	coarse, err := NewPartition([]int{0, 0, 0, 1, 1, 1})
	require.NoError(t, err)

	base, _, err := refinePartition(context.Background(), g, coarse, 1.0, 0, 1, 1)
	require.NoError(t, err)
	require.Equal(t, 2, base.NumCommunities())

	for seed := int64(2); seed < 12; seed++ {
		p, _, err := refinePartition(context.Background(), g, coarse, 1.0, 0, seed, 1)
		require.NoError(t, err)
		assert.Equal(t, base.Assignments(), p.Assignments())
	}
}
