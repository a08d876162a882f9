// Package validation provides structural checks over detection results:
// partition totality and the connectivity of every community's induced
// subgraph in the original graph.
package validation

import (
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/graphmining/leiden-engine/pkg/leiden"
)

// ValidatePartition checks that nodeToCommunity covers exactly numNodes
// nodes with dense community ids [0, k).
func ValidatePartition(numNodes int, nodeToCommunity []int) error {
	if len(nodeToCommunity) != numNodes {
		return fmt.Errorf("partition covers %d nodes, graph has %d", len(nodeToCommunity), numNodes)
	}
	seen := make(map[int]bool)
	maxID := -1
	for v, c := range nodeToCommunity {
		if c < 0 {
			return fmt.Errorf("node %d has negative community id %d", v, c)
		}
		seen[c] = true
		if c > maxID {
			maxID = c
		}
	}
	if maxID >= 0 && len(seen) != maxID+1 {
		return fmt.Errorf("community ids are not dense: %d distinct ids, max id %d", len(seen), maxID)
	}
	return nil
}

// CheckCommunityConnectivity verifies that every community induces a
// connected subgraph of g. Self-loops are irrelevant to connectivity and
// ignored. Returns the ids of disconnected communities, empty when all
// are connected.
func CheckCommunityConnectivity(g *leiden.Graph, nodeToCommunity []int) ([]int, error) {
	if err := ValidatePartition(g.NumNodes(), nodeToCommunity); err != nil {
		return nil, err
	}

	numCommunities := 0
	for _, c := range nodeToCommunity {
		if c+1 > numCommunities {
			numCommunities = c + 1
		}
	}

	var disconnected []int
	for c := 0; c < numCommunities; c++ {
		if !communityConnected(g, nodeToCommunity, c) {
			disconnected = append(disconnected, c)
		}
	}
	return disconnected, nil
}

// communityConnected builds community c's induced subgraph and counts its
// connected components.
func communityConnected(g *leiden.Graph, nodeToCommunity []int, c int) bool {
	induced := simple.NewWeightedUndirectedGraph(0, 0)
	size := 0
	for v := 0; v < g.NumNodes(); v++ {
		if nodeToCommunity[v] != c {
			continue
		}
		induced.AddNode(simple.Node(v))
		size++
	}
	if size <= 1 {
		return true
	}
	for v := 0; v < g.NumNodes(); v++ {
		if nodeToCommunity[v] != c {
			continue
		}
		nodes, weights := g.Neighbors(v)
		for i, u := range nodes {
			if u <= v || nodeToCommunity[u] != c {
				continue
			}
			induced.SetWeightedEdge(simple.WeightedEdge{
				F: simple.Node(v),
				T: simple.Node(u),
				W: weights[i],
			})
		}
	}
	return len(topo.ConnectedComponents(induced)) == 1
}

// CheckHierarchy runs partition and connectivity checks over every level
// of a result.
func CheckHierarchy(g *leiden.Graph, result *leiden.Result) error {
	for _, level := range result.Levels {
		disconnected, err := CheckCommunityConnectivity(g, level.NodeToCommunity)
		if err != nil {
			return fmt.Errorf("level %d: %w", level.Level, err)
		}
		if len(disconnected) > 0 {
			return fmt.Errorf("level %d: disconnected communities %v", level.Level, disconnected)
		}
	}
	return nil
}
