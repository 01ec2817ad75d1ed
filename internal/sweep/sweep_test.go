package sweep

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dla/internal/catalog"
	"dla/internal/config"
	"dla/internal/core"
	"dla/internal/dla"
	"dla/internal/output"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Run.Size = 21
	cfg.Run.Particles = 15
	cfg.Run.Seed = 42
	cfg.Run.OutputPrefix = t.TempDir() + string(os.PathSeparator)
	cfg.Run.ProgressEvery = 0
	cfg.Render.PNG = false
	cfg.Sweep.Stickiness = []float64{1, 0.5}
	cfg.Sweep.Replicates = 2
	cfg.Sweep.Workers = 2
	return cfg
}

func TestRunPersistsAndCatalogs(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Render.PNG = true
	store, err := catalog.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	r := &Runner{Config: cfg, Catalog: store}
	res, err := r.Run(context.Background(), Job{Stickiness: 1, Seed: 3})
	require.NoError(t, err)

	assert.Equal(t, 15, res.Added)
	assert.Equal(t, 16, res.Summary.Occupied)
	assert.Equal(t, output.Stem(cfg.Run.OutputPrefix, 1, 21, 15)+".npy", res.Artifacts.NPY)
	assert.FileExists(t, res.Artifacts.PNG)
	assert.Positive(t, res.CatalogID)

	g, err := output.Load(res.Artifacts.NPY)
	require.NoError(t, err)
	assert.Equal(t, 16, g.Count())

	runs, err := store.List(context.Background(), catalog.Filter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.Artifacts.NPY, runs[0].NPYPath)
	assert.Equal(t, int64(3), runs[0].Seed)
}

func TestRunFailureWritesNothing(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Run.MaxSteps = 1
	r := &Runner{Config: cfg}

	_, err := r.Run(context.Background(), Job{Stickiness: 0.001, Seed: 1})
	var timeout *dla.WalkTimeoutError
	require.True(t, errors.As(err, &timeout), "got %v", err)

	entries, err := os.ReadDir(cfg.Run.OutputPrefix)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestJobsDeriveIndependentSeeds(t *testing.T) {
	cfg := smallConfig(t)
	jobs := Jobs(&Runner{Config: cfg})
	require.Len(t, jobs, 4)

	seen := map[int64]bool{}
	for i, job := range jobs {
		assert.Equal(t, core.DeriveSeed(cfg.Run.Seed, i), job.Seed)
		assert.False(t, seen[job.Seed], "duplicate seed")
		seen[job.Seed] = true
		assert.Contains(t, job.Prefix, "rep0")
	}
	assert.Equal(t, 1.0, jobs[0].Stickiness)
	assert.Equal(t, 1, jobs[1].Replicate)
	assert.Equal(t, 0.5, jobs[2].Stickiness)

	cfg.Sweep.Replicates = 1
	for _, job := range Jobs(&Runner{Config: cfg}) {
		assert.Empty(t, job.Prefix)
	}
}

func TestSweepAggregatesAndCharts(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Sweep.Chart = filepath.Join(t.TempDir(), "charts", "density.png")
	store, err := catalog.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	report, err := (&Runner{Config: cfg, Catalog: store}).Sweep(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Results, 4)
	require.Len(t, report.Points, 2)
	assert.Equal(t, 0.5, report.Points[0].Stickiness)
	assert.Equal(t, 1.0, report.Points[1].Stickiness)
	for _, p := range report.Points {
		assert.Equal(t, 2, p.Replicates)
		assert.Equal(t, 16.0, p.Occupied.Mean)
		assert.Zero(t, p.Occupied.StdDev)
	}
	for _, res := range report.Results {
		assert.FileExists(t, res.Artifacts.NPY)
	}
	assert.FileExists(t, report.Chart)

	runs, err := store.List(context.Background(), catalog.Filter{})
	require.NoError(t, err)
	assert.Len(t, runs, 4)
}

func TestSweepRequiresStickinessValues(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Sweep.Stickiness = nil
	_, err := (&Runner{Config: cfg}).Sweep(context.Background())
	var cfgErr *core.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "sweep.stickiness", cfgErr.Field)
}

func TestSweepRejectsRepeatedStickiness(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Sweep.Stickiness = []float64{0.5, 0.5}
	cfg.Sweep.Replicates = 1
	_, err := (&Runner{Config: cfg}).Sweep(context.Background())
	var cfgErr *core.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "sweep.stickiness", cfgErr.Field)

	entries, err := os.ReadDir(cfg.Run.OutputPrefix)
	require.NoError(t, err)
	assert.Empty(t, entries, "no run may start")
}

func TestJobStemsAreUnique(t *testing.T) {
	for _, reps := range []int{1, 3} {
		cfg := smallConfig(t)
		cfg.Sweep.Stickiness = []float64{1, 0.5, 0.25}
		cfg.Sweep.Replicates = reps
		require.NoError(t, cfg.ValidateSweep())

		stems := map[string]bool{}
		for _, job := range Jobs(&Runner{Config: cfg}) {
			prefix := job.Prefix
			if prefix == "" {
				prefix = cfg.Run.OutputPrefix
			}
			stem := output.Stem(prefix, job.Stickiness, cfg.Run.Size, cfg.Run.Particles)
			require.False(t, stems[stem], "replicates=%d: duplicate stem %s", reps, stem)
			stems[stem] = true
		}
		assert.Len(t, stems, 3*reps)
	}
}

func TestSweepStopsOnCancel(t *testing.T) {
	cfg := smallConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Runner{Config: cfg}).Sweep(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAggregateStatistics(t *testing.T) {
	mk := func(k, crop float64) Result {
		res := Result{Job: Job{Stickiness: k}}
		res.Summary.CropDensity = crop
		return res
	}
	points := Aggregate([]Result{mk(0.2, 0.1), mk(0.1, 0.5), mk(0.2, 0.3)})
	require.Len(t, points, 2)

	assert.Equal(t, 0.1, points[0].Stickiness)
	assert.Equal(t, 0.5, points[0].CropDensity.Mean)
	assert.Zero(t, points[0].CropDensity.StdDev)

	assert.InDelta(t, 0.2, points[1].CropDensity.Mean, 1e-12)
	assert.InDelta(t, 0.1414213562, points[1].CropDensity.StdDev, 1e-9)
}

func TestChartHandlesSinglePoint(t *testing.T) {
	_, err := Chart(nil)
	assert.ErrorIs(t, err, ErrNoPoints)

	path := filepath.Join(t.TempDir(), "one.png")
	require.NoError(t, WriteChart(path, []Point{{Stickiness: 0.5, Replicates: 1}}))
	assert.FileExists(t, path)
}
