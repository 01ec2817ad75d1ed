// Package dla grows diffusion-limited aggregation clusters on a square,
// 8-connected lattice.
//
// A run owns its grid and its generator. Particles enter on the lattice
// boundary, random-walk over bounds-clipped neighbors and freeze next to the
// cluster with probability k per stop check. Particles are resolved one at a
// time; independent runs share nothing and may execute concurrently.
package dla

import (
	"log/slog"

	"dla/internal/core"
	"dla/internal/logging"
)

// Engine is one aggregation run.
type Engine struct {
	opts Options

	n        int
	grid     *core.ByteGrid
	arrivals []int32
	occupied int

	rng core.Source
	log *slog.Logger

	// lastErr holds the failure that stopped Step; AddPoints reports errors directly.
	lastErr error
}

// New returns an engine whose lattice holds the single center seed.
func New(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.StepBatch == 0 {
		opts.StepBatch = 1
	}
	e := &Engine{opts: opts, n: opts.Size, log: opts.Logger}
	if e.log == nil {
		e.log = logging.Discard()
	}
	e.rng = opts.Source
	if e.rng == nil {
		e.rng = core.NewRNG(opts.Seed)
	}
	e.resetGrid()
	return e, nil
}

func (e *Engine) resetGrid() {
	e.grid = core.NewSquareGrid(e.n)
	e.arrivals = make([]int32, e.n*e.n)
	e.occupied = 0
	e.lastErr = nil
	c := Center(e.n)
	e.commit(c)
}

// Center returns the seed cell of an n×n lattice, ceil(n/2)-1 on both axes.
func Center(n int) core.Point {
	c := (n+1)/2 - 1
	return core.Point{X: c, Y: c}
}

func (e *Engine) commit(p core.Point) {
	idx := e.grid.Index(p.X, p.Y)
	e.grid.Cells()[idx] = 1
	e.occupied++
	e.arrivals[idx] = int32(e.occupied)
}

// Grid exposes the occupancy lattice. Callers must treat it as read-only.
func (e *Engine) Grid() *core.ByteGrid { return e.grid }

// Arrivals reports, per cell, the 1-based order in which it froze; 0 marks
// an empty cell and 1 the initial seed.
func (e *Engine) Arrivals() []int32 { return e.arrivals }

// Occupied returns the number of occupied cells, seed included.
func (e *Engine) Occupied() int { return e.occupied }

// Stickiness returns the run's k.
func (e *Engine) Stickiness() float64 { return e.opts.Stickiness }

// Options returns the options the engine was built with.
func (e *Engine) Options() Options { return e.opts }

// Err returns the error that halted Step, if any.
func (e *Engine) Err() error { return e.lastErr }
