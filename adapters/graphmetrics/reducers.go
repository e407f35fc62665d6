package graphmetrics

import (
	"errors"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/stat"

	"graphboot/domain/graphs"
)

var (
	errNoEdges         = errors.New("graph has no edges")
	errNoReachablePair = errors.New("no reachable vertex pairs")
	errNoPartition     = errors.New("community detection produced no partition")
	errUndefinedAssort = errors.New("degree assortativity undefined (uniform endpoint degrees)")
)

// modularity runs Louvain community detection and returns the modularity
// score of the best partition found. The search is stochastic, so it draws
// from the replicate's seeded rng and stays reproducible.
func modularity(adj *graphs.Adjacency, rng *rand.Rand) (float64, error) {
	if adj.EdgeCount() == 0 {
		return 0, errNoEdges
	}
	g := toGraph(adj)
	reduced := community.Modularize(g, 1.0, rng)
	parts := reduced.Communities()
	if len(parts) == 0 {
		return 0, errNoPartition
	}
	q := community.Q(g, parts, 1.0)
	if math.IsNaN(q) {
		return 0, errNoPartition
	}
	return q, nil
}

// globalEfficiency is the mean over ordered node pairs of 1/d(u,v), with
// unreachable pairs contributing zero. Pairs at distance zero (possible after
// a weight transform maps a maximal edge to zero) are excluded rather than
// divided by.
func globalEfficiency(adj *graphs.Adjacency, _ *rand.Rand) (float64, error) {
	if adj.EdgeCount() == 0 {
		return 0, errNoEdges
	}
	g := toGraph(adj)
	paths := path.DijkstraAllPaths(g)

	n := adj.N
	sum := 0.0
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			if u == v {
				continue
			}
			d := paths.Weight(int64(u), int64(v))
			if !math.IsInf(d, 1) && d > 0 {
				sum += 1 / d
			}
		}
	}
	return sum / float64(n*(n-1)), nil
}

// meanShortestPath is the mean geodesic distance over reachable ordered
// pairs. Unreachable pairs are excluded from the average; a graph with no
// reachable pairs at all is a computation failure.
func meanShortestPath(adj *graphs.Adjacency, _ *rand.Rand) (float64, error) {
	if adj.EdgeCount() == 0 {
		return 0, errNoEdges
	}
	g := toGraph(adj)
	paths := path.DijkstraAllPaths(g)

	sum := 0.0
	count := 0
	for u := 0; u < adj.N; u++ {
		for v := 0; v < adj.N; v++ {
			if u == v {
				continue
			}
			d := paths.Weight(int64(u), int64(v))
			if !math.IsInf(d, 1) {
				sum += d
				count++
			}
		}
	}
	if count == 0 {
		return 0, errNoReachablePair
	}
	return sum / float64(count), nil
}

// clusteringCoefficient is the local-average transitivity: per node, the
// fraction of neighbor pairs that are themselves connected, averaged over
// all nodes. Nodes with degree below 2 contribute zero.
func clusteringCoefficient(adj *graphs.Adjacency, _ *rand.Rand) (float64, error) {
	if adj.EdgeCount() == 0 {
		return 0, errNoEdges
	}
	n := adj.N
	total := 0.0
	for i := 0; i < n; i++ {
		var neighbors []int
		for j := 0; j < n; j++ {
			if j != i && adj.HasEdge(i, j) {
				neighbors = append(neighbors, j)
			}
		}
		k := len(neighbors)
		if k < 2 {
			continue
		}
		links := 0
		for a := 0; a < k; a++ {
			for b := a + 1; b < k; b++ {
				if adj.HasEdge(neighbors[a], neighbors[b]) {
					links++
				}
			}
		}
		total += float64(links) / float64(k*(k-1)/2)
	}
	return total / float64(n), nil
}

// degreeAssortativity is the Pearson correlation of endpoint degrees across
// edges, each edge counted in both orientations.
func degreeAssortativity(adj *graphs.Adjacency, _ *rand.Rand) (float64, error) {
	if adj.EdgeCount() == 0 {
		return 0, errNoEdges
	}
	degrees := make([]float64, adj.N)
	for i := 0; i < adj.N; i++ {
		degrees[i] = float64(adj.Degree(i))
	}

	var xs, ys []float64
	for i := 0; i < adj.N; i++ {
		for j := i + 1; j < adj.N; j++ {
			if adj.HasEdge(i, j) {
				xs = append(xs, degrees[i], degrees[j])
				ys = append(ys, degrees[j], degrees[i])
			}
		}
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0, errUndefinedAssort
	}
	return r, nil
}

// meanStrength is the mean over nodes of summed incident edge weights.
func meanStrength(adj *graphs.Adjacency, _ *rand.Rand) (float64, error) {
	if adj.EdgeCount() == 0 {
		return 0, errNoEdges
	}
	sum := 0.0
	for i := 0; i < adj.N; i++ {
		sum += adj.Strength(i)
	}
	return sum / float64(adj.N), nil
}
