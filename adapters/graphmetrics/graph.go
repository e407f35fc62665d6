// Package graphmetrics implements the global graph-measure reducers on
// gonum's graph stack: Louvain community detection for modularity, all-pairs
// shortest paths for efficiency and characteristic path length, plus
// degree-based reducers computed directly on the adjacency.
package graphmetrics

import (
	"gonum.org/v1/gonum/graph/simple"

	"graphboot/domain/graphs"
)

// toGraph converts an adjacency into a gonum weighted undirected graph.
// Isolated nodes are kept: global measures average over all nodes.
func toGraph(adj *graphs.Adjacency) *simple.WeightedUndirectedGraph {
	g := simple.NewWeightedUndirectedGraph(0, 0)
	for i := 0; i < adj.N; i++ {
		g.AddNode(simple.Node(i))
	}
	for i := 0; i < adj.N; i++ {
		for j := i + 1; j < adj.N; j++ {
			if adj.HasEdge(i, j) {
				g.SetWeightedEdge(simple.WeightedEdge{
					F: simple.Node(i), T: simple.Node(j), W: adj.At(i, j),
				})
			}
		}
	}
	return g
}
