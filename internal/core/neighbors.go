package core

// Point addresses a lattice cell; X is the column and Y the row.
type Point struct {
	X, Y int
}

// Neighbors is a fixed-capacity set of up to eight lattice points.
type Neighbors struct {
	pts [8]Point
	n   int
}

// Len returns the number of neighbors in the set.
func (nb *Neighbors) Len() int { return nb.n }

// At returns the i-th neighbor.
func (nb *Neighbors) At(i int) Point { return nb.pts[i] }

// Points returns the neighbors as a slice backed by the set itself.
func (nb *Neighbors) Points() []Point { return nb.pts[:nb.n] }

// NeighborsOf returns the 8-connected neighbors of p that fall inside an
// n×n lattice, in row-major offset order.
func NeighborsOf(p Point, n int) Neighbors {
	var nb Neighbors
	for dy := -1; dy <= 1; dy++ {
		y := p.Y + dy
		if y < 0 || y >= n {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			x := p.X + dx
			if x < 0 || x >= n {
				continue
			}
			nb.pts[nb.n] = Point{X: x, Y: y}
			nb.n++
		}
	}
	return nb
}

// OccupiedNeighbors counts the occupied 8-neighbors of (x, y) inside g.
func (g *ByteGrid) OccupiedNeighbors(x, y int) int {
	total := 0
	for dy := -1; dy <= 1; dy++ {
		ny := y + dy
		if ny < 0 || ny >= g.H {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx := x + dx
			if nx < 0 || nx >= g.W {
				continue
			}
			if g.data[ny*g.W+nx] != 0 {
				total++
			}
		}
	}
	return total
}
