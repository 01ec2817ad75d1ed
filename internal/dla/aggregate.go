package dla

import (
	"context"
	"fmt"
	"time"

	"dla/internal/core"
	"dla/internal/logging"
)

// ctxCheckMask sets how often a long walk polls its context.
const ctxCheckMask = 4095

// WalkTimeoutError reports a particle that exceeded the step budget without
// freezing.
type WalkTimeoutError struct {
	Particle int
	Steps    int
	Last     core.Point
}

func (e *WalkTimeoutError) Error() string {
	return fmt.Sprintf("particle %d did not freeze within %d steps (last position %d,%d)",
		e.Particle, e.Steps, e.Last.X, e.Last.Y)
}

// AddPoints injects n particles one after another, walking each until it
// freezes. It returns how many particles were committed. Particles committed
// before a failure stay on the grid.
func (e *Engine) AddPoints(ctx context.Context, n int) (int, error) {
	if n < 0 {
		return 0, &core.ConfigError{Field: "particles", Value: n, Expected: ">= 0"}
	}
	if n == 0 {
		return 0, nil
	}
	if e.opts.Stickiness == 0 {
		return 0, &core.ConfigError{Field: "stickiness", Value: 0.0, Expected: "> 0 when adding particles, a walk with k=0 never freezes"}
	}

	start := time.Now()
	lap := start
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if e.occupied >= e.n*e.n {
			return i, core.ErrGridFull
		}
		p, err := e.walkParticle(ctx, e.occupied)
		if err != nil {
			return i, err
		}
		e.commit(p)
		if e.log.Enabled(ctx, logging.LevelTrace) {
			e.log.Log(ctx, logging.LevelTrace, "particle frozen", "particle", e.occupied-1, "x", p.X, "y", p.Y)
		}

		if every := e.opts.ProgressEvery; every > 0 && (i+1)%every == 0 {
			e.log.Debug("added particles", "count", i+1, "of", n, "lap", time.Since(lap).Round(time.Millisecond))
			lap = time.Now()
		}
	}
	e.log.Info("aggregation finished",
		"k", e.opts.Stickiness,
		"size", e.n,
		"added", n,
		"occupied", e.occupied,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return n, nil
}

// walkParticle runs one particle from the boundary until it freezes or
// exhausts the step budget.
func (e *Engine) walkParticle(ctx context.Context, index int) (core.Point, error) {
	p := e.Seed()
	limit := e.opts.MaxSteps
	for steps := 0; ; steps++ {
		if e.ShouldStick(p) {
			return p, nil
		}
		if limit > 0 && steps >= limit {
			return p, &WalkTimeoutError{Particle: index, Steps: steps, Last: p}
		}
		if steps&ctxCheckMask == ctxCheckMask {
			if err := ctx.Err(); err != nil {
				return p, err
			}
		}
		p = e.Walk(p)
	}
}
