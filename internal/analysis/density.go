// Package analysis computes density and clustering statistics over finished
// aggregation grids. Every function treats its input as read-only.
package analysis

import (
	"math"

	"dla/internal/core"
)

// Defaults used when callers do not pick their own parameters.
const (
	DefaultCropDim      = 0.1
	DefaultMaskRadius   = 0.1
	DefaultCircleRadius = 30
	DefaultNeighborCrop = 0.5
)

// resolveDim turns a fractional dimension into an absolute one:
// values below 1 are taken as a fraction of n and floored.
func resolveDim(d float64, n int) float64 {
	if d < 1 {
		return math.Floor(d * float64(n))
	}
	return d
}

// MiddleCrop returns a copy of the square region centered on the grid.
// centerDim below 1 is a fraction of the grid side. The crop spans
// [mid-floor(d/2)-1, mid+floor(d/2)) with mid = ceil(n/2), so its side is
// 2*floor(d/2)+1.
func MiddleCrop(g *core.ByteGrid, centerDim float64) (*core.ByteGrid, error) {
	start, end, err := CropBounds(g.W, centerDim)
	if err != nil {
		return nil, err
	}
	if end > g.H {
		return nil, &core.BoundsError{Op: "middle crop", Start: start, End: end, Size: g.H}
	}
	return g.Sub(start, start, end, end), nil
}

// CropBounds returns the half-open index range MiddleCrop uses on both axes
// of an n×n grid.
func CropBounds(n int, centerDim float64) (start, end int, err error) {
	if math.IsNaN(centerDim) || centerDim < 0 {
		return 0, 0, &core.ConfigError{Field: "center_dim", Value: centerDim, Expected: ">= 0"}
	}
	d := resolveDim(centerDim, n)
	mid := (n + 1) / 2
	half := int(math.Floor(d / 2))
	start = mid - half - 1
	end = mid + half
	if start < 0 || end > n {
		return 0, 0, &core.BoundsError{Op: "middle crop", Start: start, End: end, Size: n}
	}
	return start, end, nil
}

// CenterDensityByCrop returns the mean occupancy of MiddleCrop(g, centerDim)
// together with the crop itself.
func CenterDensityByCrop(g *core.ByteGrid, centerDim float64) (float64, *core.ByteGrid, error) {
	crop, err := MiddleCrop(g, centerDim)
	if err != nil {
		return 0, nil, err
	}
	return meanOccupancy(crop), crop, nil
}

func meanOccupancy(g *core.ByteGrid) float64 {
	cells := g.Cells()
	if len(cells) == 0 {
		return 0
	}
	return float64(g.Count()) / float64(len(cells))
}

// Mask marks the cells of an n×n lattice selected by a region.
type Mask struct {
	N     int
	cells []bool
}

// Contains reports whether (x, y) lies inside the mask.
func (m *Mask) Contains(x, y int) bool { return m.cells[y*m.N+x] }

// Count returns the number of selected cells.
func (m *Mask) Count() int {
	total := 0
	for _, in := range m.cells {
		if in {
			total++
		}
	}
	return total
}

// Cells exposes the row-major selection buffer.
func (m *Mask) Cells() []bool { return m.cells }

// CircularMask selects the cells whose Euclidean distance to center is at
// most radius. A nil center means (int(n/2), int(n/2)); a radius below 1 is a
// fraction of n and floored.
func CircularMask(n int, center *core.Point, radius float64) (*Mask, error) {
	if n < 1 {
		return nil, &core.ConfigError{Field: "size", Value: n, Expected: ">= 1"}
	}
	if math.IsNaN(radius) || radius < 0 {
		return nil, &core.ConfigError{Field: "radius", Value: radius, Expected: ">= 0"}
	}
	c := core.Point{X: n / 2, Y: n / 2}
	if center != nil {
		c = *center
	}
	r := resolveDim(radius, n)
	m := &Mask{N: n, cells: make([]bool, n*n)}
	for y := 0; y < n; y++ {
		dy := float64(y - c.Y)
		for x := 0; x < n; x++ {
			dx := float64(x - c.X)
			m.cells[y*n+x] = math.Sqrt(dx*dx+dy*dy) <= r
		}
	}
	return m, nil
}

// CenterDensityByCircle returns the fraction of occupied cells inside a
// centered circular mask and the grid with everything outside the mask
// zeroed.
func CenterDensityByCircle(g *core.ByteGrid, radius float64) (float64, *core.ByteGrid, error) {
	mask, err := CircularMask(g.W, nil, radius)
	if err != nil {
		return 0, nil, err
	}
	masked := core.NewByteGrid(g.W, g.H)
	occupied, inside := 0, 0
	for i, in := range mask.Cells() {
		if !in {
			continue
		}
		inside++
		if v := g.Cells()[i]; v != 0 {
			masked.Cells()[i] = v
			occupied++
		}
	}
	if inside == 0 {
		return 0, masked, nil
	}
	return float64(occupied) / float64(inside), masked, nil
}

// NeighborStrength crops the grid with MiddleCrop and averages, over every
// crop cell, the number of occupied 8-neighbors inside the crop.
func NeighborStrength(g *core.ByteGrid, crop float64) (float64, error) {
	cropped, err := MiddleCrop(g, crop)
	if err != nil {
		return 0, err
	}
	total := 0
	for y := 0; y < cropped.H; y++ {
		for x := 0; x < cropped.W; x++ {
			total += cropped.OccupiedNeighbors(x, y)
		}
	}
	return float64(total) / float64(cropped.W*cropped.H), nil
}
