package dla

import (
	"context"

	"dla/internal/core"
)

// Name returns the simulation identifier.
func (e *Engine) Name() string { return "dla" }

// Size returns the lattice dimensions.
func (e *Engine) Size() core.Size { return core.Size{W: e.n, H: e.n} }

// Cells exposes the occupancy buffer.
func (e *Engine) Cells() []uint8 { return e.grid.Cells() }

// Reset clears the lattice back to the center seed and reseeds the
// generator. A zero seed reuses the configured one.
func (e *Engine) Reset(seed int64) {
	if seed == 0 {
		seed = e.opts.Seed
	}
	e.opts.Seed = seed
	e.rng = core.NewRNG(seed)
	e.resetGrid()
}

// Step adds one batch of particles. After a failure it does nothing until
// Reset; the failure is available from Err.
func (e *Engine) Step() {
	if e.lastErr != nil {
		return
	}
	if _, err := e.AddPoints(context.Background(), e.opts.StepBatch); err != nil {
		e.lastErr = err
		e.log.Warn("aggregation halted", "err", err)
	}
}

// Parameters reports the run configuration and live counters.
func (e *Engine) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Run",
			Params: []core.Parameter{
				core.IntParam("size", "Size", e.n),
				core.FloatParam("k", "Stickiness", e.opts.Stickiness),
				core.IntParam("max_steps", "Max steps", e.opts.MaxSteps),
				core.Int64Param("seed", "Seed", e.opts.Seed),
			},
		},
		{
			Name: "Growth",
			Params: []core.Parameter{
				core.IntParam("batch", "Particles per tick", e.opts.StepBatch),
				core.IntParam("occupied", "Occupied", e.occupied),
			},
		},
	}}
}

// ParameterControls lists the HUD-adjustable values. Stickiness is fixed for
// the lifetime of a run and therefore not adjustable.
func (e *Engine) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "batch", Label: "Particles per tick", Type: core.ParamTypeInt, Step: 5, Min: 1, Max: 5000, HasMin: true, HasMax: true},
	}
}

// SetIntParameter updates an integer control.
func (e *Engine) SetIntParameter(key string, value int) bool {
	switch key {
	case "batch":
		if value < 1 {
			return false
		}
		e.opts.StepBatch = value
		return true
	}
	return false
}

func init() {
	core.Register("dla", func(cfg map[string]string) (core.Sim, error) {
		e, err := New(OptionsFromMap(cfg))
		if err != nil {
			return nil, err
		}
		return e, nil
	})
}
