// Package leiden implements hierarchical community detection on weighted
// undirected graphs: queue-driven local moving of nodes between
// communities, a connectivity-repairing refinement pass with randomized
// objective-weighted merging, and recursive aggregation into
// progressively coarser graphs. The objective is modularity with a
// resolution parameter; runs are fully reproducible from a seed.
package leiden
