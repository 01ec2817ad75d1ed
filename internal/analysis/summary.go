package analysis

import (
	"fmt"
	"math"

	"dla/internal/core"
)

// Params selects the region sizes used by Summarize.
type Params struct {
	CropDim      float64 `json:"crop_dim" yaml:"crop"`
	CircleRadius float64 `json:"circle_radius" yaml:"radius"`
	NeighborCrop float64 `json:"neighbor_crop" yaml:"neighbor_crop"`
}

// DefaultParams mirrors the defaults of the individual functions.
func DefaultParams() Params {
	return Params{
		CropDim:      DefaultCropDim,
		CircleRadius: DefaultCircleRadius,
		NeighborCrop: DefaultNeighborCrop,
	}
}

// Summary bundles the scalar statistics of one grid.
type Summary struct {
	Size             int     `json:"size"`
	Occupied         int     `json:"occupied"`
	CropDensity      float64 `json:"crop_density"`
	CircleDensity    float64 `json:"circle_density"`
	NeighborStrength float64 `json:"neighbor_strength"`
	MaxRadius        float64 `json:"max_radius"`
}

// Summarize computes every statistic of the package for g.
func Summarize(g *core.ByteGrid, p Params) (Summary, error) {
	s := Summary{Size: g.W, Occupied: g.Count(), MaxRadius: MaxRadius(g)}

	var err error
	if s.CropDensity, _, err = CenterDensityByCrop(g, p.CropDim); err != nil {
		return s, fmt.Errorf("crop density: %w", err)
	}
	if s.CircleDensity, _, err = CenterDensityByCircle(g, p.CircleRadius); err != nil {
		return s, fmt.Errorf("circle density: %w", err)
	}
	if s.NeighborStrength, err = NeighborStrength(g, p.NeighborCrop); err != nil {
		return s, fmt.Errorf("neighbor strength: %w", err)
	}
	return s, nil
}

// MaxRadius is the distance from the seed cell, ceil(n/2)-1 on both axes,
// to the farthest occupied cell.
func MaxRadius(g *core.ByteGrid) float64 {
	c := (g.W+1)/2 - 1
	best := 0.0
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if g.At(x, y) == 0 {
				continue
			}
			if d := math.Hypot(float64(x-c), float64(y-c)); d > best {
				best = d
			}
		}
	}
	return best
}
