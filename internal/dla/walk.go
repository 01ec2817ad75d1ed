package dla

import "dla/internal/core"

// Seed samples a particle entry point on the lattice boundary. An edge is
// picked uniformly, then a position along it, given as (row, column):
//
//	edge 0: (0, [0, n-2])    edge 1: ([0, n-2], n-1)
//	edge 2: (n-1, [1, n-1])  edge 3: ([1, n-1], 0)
//
// The ranges overlap at the (0, n-1) and (n-1, 0) corners, so boundary cells
// are not equally likely.
func (e *Engine) Seed() core.Point {
	n := e.n
	if n == 1 {
		return core.Point{}
	}
	edge := int(e.rng.Float64() / 0.25)
	if edge > 3 {
		edge = 3
	}
	switch edge {
	case 0:
		return core.Point{X: e.rng.IntN(n - 1), Y: 0}
	case 1:
		return core.Point{X: n - 1, Y: e.rng.IntN(n - 1)}
	case 2:
		return core.Point{X: 1 + e.rng.IntN(n-1), Y: n - 1}
	default:
		return core.Point{X: 0, Y: 1 + e.rng.IntN(n-1)}
	}
}

// ShouldStick reports whether a particle at p freezes: p touches the
// cluster, a fresh draw falls below k, and p itself is free. The draw is
// taken only when p touches the cluster.
func (e *Engine) ShouldStick(p core.Point) bool {
	nb := core.NeighborsOf(p, e.n)
	touching := false
	for i := 0; i < nb.Len(); i++ {
		if e.grid.Occupied(nb.At(i)) {
			touching = true
			break
		}
	}
	if !touching {
		return false
	}
	if e.rng.Float64() >= e.opts.Stickiness {
		return false
	}
	return !e.grid.Occupied(p)
}

// Walk moves a particle to a uniformly chosen in-bounds neighbor of p.
func (e *Engine) Walk(p core.Point) core.Point {
	nb := core.NeighborsOf(p, e.n)
	if nb.Len() == 0 {
		return p
	}
	return nb.At(e.rng.IntN(nb.Len()))
}
