// Package graphs defines the thresholded adjacency structures exchanged
// between the correlation/threshold builder and the graph-measure reducers.
package graphs

// Adjacency is one symmetric adjacency matrix produced by thresholding a
// correlation matrix at a target edge density. For a binary adjacency every
// retained edge has weight 1; for a weighted one the retained edges keep the
// absolute correlation magnitude. Edge existence is tracked separately from
// the weight value: a weight transform can map an edge to zero without
// removing it. The diagonal is always zero.
type Adjacency struct {
	Density  float64
	N        int
	Weighted bool
	weights  []float64 // n*n row-major, symmetric
	present  []bool    // n*n row-major, symmetric
}

// NewAdjacency allocates an empty n-node adjacency at the given density.
func NewAdjacency(n int, density float64, weighted bool) *Adjacency {
	return &Adjacency{
		Density:  density,
		N:        n,
		Weighted: weighted,
		weights:  make([]float64, n*n),
		present:  make([]bool, n*n),
	}
}

// At returns the edge weight between i and j (0 for absent edges, but also
// for present edges whose transformed weight is zero; use HasEdge for
// existence).
func (a *Adjacency) At(i, j int) float64 { return a.weights[i*a.N+j] }

// HasEdge reports whether an edge between i and j exists.
func (a *Adjacency) HasEdge(i, j int) bool { return a.present[i*a.N+j] }

// SetEdge records an undirected edge with the given weight.
func (a *Adjacency) SetEdge(i, j int, w float64) {
	a.weights[i*a.N+j] = w
	a.weights[j*a.N+i] = w
	a.present[i*a.N+j] = true
	a.present[j*a.N+i] = true
}

// EdgeCount returns the number of undirected edges.
func (a *Adjacency) EdgeCount() int {
	count := 0
	for i := 0; i < a.N; i++ {
		for j := i + 1; j < a.N; j++ {
			if a.HasEdge(i, j) {
				count++
			}
		}
	}
	return count
}

// Degree returns the unweighted degree of node i.
func (a *Adjacency) Degree(i int) int {
	deg := 0
	for j := 0; j < a.N; j++ {
		if j != i && a.HasEdge(i, j) {
			deg++
		}
	}
	return deg
}

// Strength returns the sum of edge weights incident to node i.
func (a *Adjacency) Strength(i int) float64 {
	s := 0.0
	for j := 0; j < a.N; j++ {
		if j != i && a.HasEdge(i, j) {
			s += a.At(i, j)
		}
	}
	return s
}

// MaxWeight returns the largest edge weight, or 0 for an empty graph.
func (a *Adjacency) MaxWeight() float64 {
	max := 0.0
	for i := 0; i < a.N; i++ {
		for j := i + 1; j < a.N; j++ {
			if a.HasEdge(i, j) {
				if w := a.At(i, j); w > max {
					max = w
				}
			}
		}
	}
	return max
}

// TransformWeights returns a copy with fn applied to every edge weight.
// Structure (which edges exist) is preserved, even for edges fn maps to zero
// (e.g. -log of a maximal weight).
func (a *Adjacency) TransformWeights(fn func(w float64) float64) *Adjacency {
	out := NewAdjacency(a.N, a.Density, a.Weighted)
	for i := 0; i < a.N; i++ {
		for j := i + 1; j < a.N; j++ {
			if a.HasEdge(i, j) {
				out.SetEdge(i, j, fn(a.At(i, j)))
			}
		}
	}
	return out
}
