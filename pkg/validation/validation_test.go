package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphmining/leiden-engine/pkg/leiden"
)

func pathGraph(t *testing.T, n int) *leiden.Graph {
	t.Helper()
	var edges []leiden.Edge
	for i := 0; i < n-1; i++ {
		edges = append(edges, leiden.Edge{U: i, V: i + 1, Weight: 1})
	}
	g, err := leiden.NewGraph(n, edges)
	require.NoError(t, err)
	return g
}

func TestValidatePartition(t *testing.T) {
	require.NoError(t, ValidatePartition(4, []int{0, 1, 1, 0}))
	require.NoError(t, ValidatePartition(3, []int{0, 0, 0}))

	assert.Error(t, ValidatePartition(4, []int{0, 1}), "length mismatch")
	assert.Error(t, ValidatePartition(3, []int{0, -1, 1}), "negative id")
	assert.Error(t, ValidatePartition(3, []int{0, 2, 2}), "gap in ids")
}

func TestCheckCommunityConnectivity(t *testing.T) {
	g := pathGraph(t, 6)

	disconnected, err := CheckCommunityConnectivity(g, []int{0, 0, 0, 1, 1, 1})
	require.NoError(t, err)
	assert.Empty(t, disconnected)

	// Community 0 holds the two path endpoints with nothing in between.
	disconnected, err = CheckCommunityConnectivity(g, []int{0, 1, 1, 1, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, disconnected)
}

func TestCheckConnectivitySingletonsAlwaysPass(t *testing.T) {
	g, err := leiden.NewGraph(4, nil)
	require.NoError(t, err)
	disconnected, err := CheckCommunityConnectivity(g, []int{0, 1, 2, 3})
	require.NoError(t, err)
	assert.Empty(t, disconnected)
}

// Every level the engine emits must consist of internally connected
// communities.
func TestCheckHierarchyOnEngineOutput(t *testing.T) {
	var edges []leiden.Edge
	numCliques, cliqueSize := 6, 4
	for c := 0; c < numCliques; c++ {
		base := c * cliqueSize
		for i := 0; i < cliqueSize; i++ {
			for j := i + 1; j < cliqueSize; j++ {
				edges = append(edges, leiden.Edge{U: base + i, V: base + j, Weight: 1})
			}
		}
		next := ((c + 1) % numCliques) * cliqueSize
		edges = append(edges, leiden.Edge{U: base, V: next, Weight: 1})
	}
	g, err := leiden.NewGraph(numCliques*cliqueSize, edges)
	require.NoError(t, err)

	cfg := leiden.NewConfig()
	cfg.Set("algorithm.seed", int64(5))
	cfg.Set("logging.level", "error")

	result, err := leiden.Run(context.Background(), g, cfg)
	require.NoError(t, err)
	require.NoError(t, CheckHierarchy(g, result))
}
