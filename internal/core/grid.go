package core

// ByteGrid stores a 2D grid of byte-sized cell values in row-major order.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a grid with the given dimensions.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// NewSquareGrid allocates an n×n grid.
func NewSquareGrid(n int) *ByteGrid { return NewByteGrid(n, n) }

// FromCells wraps an existing row-major buffer. It returns nil when the
// buffer does not match the dimensions.
func FromCells(w, h int, cells []uint8) *ByteGrid {
	if w <= 0 || h <= 0 || len(cells) != w*h {
		return nil
	}
	return &ByteGrid{W: w, H: h, data: cells}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *ByteGrid) Index(x, y int) int { return y*g.W + x }

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g *ByteGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// At returns the value stored at (x, y).
func (g *ByteGrid) At(x, y int) uint8 { return g.data[y*g.W+x] }

// Set stores v at (x, y).
func (g *ByteGrid) Set(x, y int, v uint8) { g.data[y*g.W+x] = v }

// Occupied reports whether the cell at p holds a non-zero value.
func (g *ByteGrid) Occupied(p Point) bool { return g.data[p.Y*g.W+p.X] != 0 }

// Count returns the number of non-zero cells.
func (g *ByteGrid) Count() int {
	n := 0
	for _, c := range g.data {
		if c != 0 {
			n++
		}
	}
	return n
}

// Sub copies the half-open rectangle [x0,x1)×[y0,y1) into a new grid.
// Callers must pass bounds inside the grid.
func (g *ByteGrid) Sub(x0, y0, x1, y1 int) *ByteGrid {
	w, h := x1-x0, y1-y0
	out := &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
	for y := 0; y < h; y++ {
		src := (y0+y)*g.W + x0
		copy(out.data[y*w:(y+1)*w], g.data[src:src+w])
	}
	return out
}

// Clone returns a deep copy of the grid.
func (g *ByteGrid) Clone() *ByteGrid {
	return &ByteGrid{W: g.W, H: g.H, data: append([]uint8(nil), g.data...)}
}

// Clear fills the grid with zeros.
func (g *ByteGrid) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}
