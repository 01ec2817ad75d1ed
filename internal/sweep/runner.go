// Package sweep runs aggregation experiments: a single configured run, or a
// batch of independent runs over a set of stickiness values with replicate
// statistics and a density chart.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dla/internal/analysis"
	"dla/internal/catalog"
	"dla/internal/config"
	"dla/internal/dla"
	"dla/internal/logging"
	"dla/internal/output"
	"dla/internal/render"
)

// Job is one engine run.
type Job struct {
	Stickiness float64 `json:"stickiness"`
	Replicate  int     `json:"replicate"`
	Seed       int64   `json:"seed"`
	// Prefix overrides the configured output prefix when set.
	Prefix string `json:"-"`
}

// Result is the outcome of a Job.
type Result struct {
	Job       Job              `json:"job"`
	Added     int              `json:"added"`
	Summary   analysis.Summary `json:"summary"`
	Artifacts output.Artifacts `json:"artifacts"`
	Elapsed   time.Duration    `json:"elapsed_ns"`
	CatalogID int64            `json:"catalog_id,omitempty"`
}

// Runner executes jobs against a resolved configuration. Catalog is
// optional.
type Runner struct {
	Config  *config.Config
	Catalog *catalog.Store
	Logger  *slog.Logger
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return logging.Discard()
	}
	return r.Logger
}

// Run grows one cluster, analyses it, persists the grid and records it in
// the catalog. On a failed aggregation nothing is written.
func (r *Runner) Run(ctx context.Context, job Job) (Result, error) {
	cfg := r.Config
	log := r.logger().With("k", job.Stickiness, "replicate", job.Replicate)

	opts := cfg.EngineOptions(log)
	opts.Stickiness = job.Stickiness
	opts.Seed = job.Seed
	eng, err := dla.New(opts)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	added, err := eng.AddPoints(ctx, cfg.Run.Particles)
	res := Result{Job: job, Added: added, Elapsed: time.Since(start)}
	if err != nil {
		return res, fmt.Errorf("k=%g replicate %d: %w", job.Stickiness, job.Replicate, err)
	}

	if res.Summary, err = analysis.Summarize(eng.Grid(), cfg.Analysis); err != nil {
		return res, fmt.Errorf("k=%g replicate %d: %w", job.Stickiness, job.Replicate, err)
	}

	prefix := job.Prefix
	if prefix == "" {
		prefix = cfg.Run.OutputPrefix
	}
	var img *render.Options
	if cfg.Render.PNG {
		o := render.DefaultOptions()
		o.Scale = cfg.Render.Scale
		o.Colorize = cfg.Render.Colorize
		img = &o
	}
	res.Artifacts, err = output.Save(prefix, output.Run{
		Stickiness: job.Stickiness,
		Particles:  cfg.Run.Particles,
		Grid:       eng.Grid(),
		Arrivals:   eng.Arrivals(),
	}, img)
	if err != nil {
		return res, err
	}

	if r.Catalog != nil {
		res.CatalogID, err = r.Catalog.Record(ctx, catalog.Run{
			Stickiness: job.Stickiness,
			Particles:  cfg.Run.Particles,
			Seed:       job.Seed,
			Summary:    res.Summary,
			Elapsed:    res.Elapsed,
			NPYPath:    res.Artifacts.NPY,
			PNGPath:    res.Artifacts.PNG,
		})
		if err != nil {
			return res, err
		}
	}

	log.Info("run saved",
		"npy", res.Artifacts.NPY,
		"crop_density", res.Summary.CropDensity,
		"circle_density", res.Summary.CircleDensity)
	return res, nil
}
