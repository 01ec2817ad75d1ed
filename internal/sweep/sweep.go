package sweep

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"dla/internal/core"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Stat is a replicate mean with its sample standard deviation. StdDev is 0
// for a single replicate.
type Stat struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// Point aggregates the replicates of one stickiness value.
type Point struct {
	Stickiness       float64 `json:"stickiness"`
	Replicates       int     `json:"replicates"`
	Occupied         Stat    `json:"occupied"`
	CropDensity      Stat    `json:"crop_density"`
	CircleDensity    Stat    `json:"circle_density"`
	NeighborStrength Stat    `json:"neighbor_strength"`
	MaxRadius        Stat    `json:"max_radius"`
}

// Report is the outcome of a sweep.
type Report struct {
	Results []Result      `json:"results"`
	Points  []Point       `json:"points"`
	Chart   string        `json:"chart,omitempty"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Jobs expands the sweep section into one job per stickiness and replicate.
// Seeds are derived from the run seed so every job is independent and
// reproducible. With several replicates each one gets its own file prefix.
func Jobs(r *Runner) []Job {
	cfg := r.Config
	var jobs []Job
	for _, k := range cfg.Sweep.Stickiness {
		for rep := 0; rep < cfg.Sweep.Replicates; rep++ {
			job := Job{
				Stickiness: k,
				Replicate:  rep,
				Seed:       core.DeriveSeed(cfg.Run.Seed, len(jobs)),
			}
			if cfg.Sweep.Replicates > 1 {
				job.Prefix = fmt.Sprintf("%srep%02d_", cfg.Run.OutputPrefix, rep)
			}
			jobs = append(jobs, job)
		}
	}
	return jobs
}

// Sweep runs every job of the sweep section on a bounded worker pool. The
// first failure cancels the remaining jobs.
func (r *Runner) Sweep(ctx context.Context) (*Report, error) {
	if err := r.Config.ValidateSweep(); err != nil {
		return nil, err
	}
	jobs := Jobs(r)
	log := r.logger()
	log.Info("sweep started",
		"values", len(r.Config.Sweep.Stickiness),
		"replicates", r.Config.Sweep.Replicates,
		"workers", r.Config.Sweep.Workers,
		"particles", r.Config.Run.Particles)

	start := time.Now()
	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Config.Sweep.Workers)
	for i, job := range jobs {
		g.Go(func() error {
			res, err := r.Run(gctx, job)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Results: results, Points: Aggregate(results)}
	if path := r.Config.Sweep.Chart; path != "" {
		if err := WriteChart(path, report.Points); err != nil {
			return report, err
		}
		report.Chart = path
	}
	report.Elapsed = time.Since(start)
	log.Info("sweep finished", "runs", len(results), "elapsed", report.Elapsed.Round(time.Millisecond))
	return report, nil
}

// Aggregate groups results by stickiness, in ascending order of k.
func Aggregate(results []Result) []Point {
	groups := make(map[float64][]Result)
	var keys []float64
	for _, res := range results {
		k := res.Job.Stickiness
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], res)
	}
	slices.Sort(keys)

	points := make([]Point, 0, len(keys))
	for _, k := range keys {
		group := groups[k]
		column := func(f func(Result) float64) Stat {
			xs := make([]float64, len(group))
			for i, res := range group {
				xs[i] = f(res)
			}
			return meanStdDev(xs)
		}
		points = append(points, Point{
			Stickiness:       k,
			Replicates:       len(group),
			Occupied:         column(func(r Result) float64 { return float64(r.Summary.Occupied) }),
			CropDensity:      column(func(r Result) float64 { return r.Summary.CropDensity }),
			CircleDensity:    column(func(r Result) float64 { return r.Summary.CircleDensity }),
			NeighborStrength: column(func(r Result) float64 { return r.Summary.NeighborStrength }),
			MaxRadius:        column(func(r Result) float64 { return r.Summary.MaxRadius }),
		})
	}
	return points
}

func meanStdDev(xs []float64) Stat {
	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) < 2 || math.IsNaN(std) {
		std = 0
	}
	return Stat{Mean: mean, StdDev: std}
}
