package config

import (
	"github.com/spf13/pflag"
)

// BindRunFlags registers the single-run flags on fs. Defaults shown in help
// come from Default; only flags the user sets override loaded values.
func BindRunFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.Int("size", d.Run.Size, "lattice side length")
	fs.Float64("k", d.Run.Stickiness, "stickiness in (0, 1]")
	fs.Int("particles", d.Run.Particles, "particles to add")
	fs.Int64("seed", d.Run.Seed, "generator seed")
	fs.Int("max-steps", d.Run.MaxSteps, "walk step budget per particle (0 = unbounded)")
	fs.String("out", d.Run.OutputPrefix, "output prefix for .npy/.png files")
	fs.Bool("png", d.Render.PNG, "write a PNG rendering next to the grid")
	fs.Int("scale", d.Render.Scale, "PNG pixels per lattice cell")
	fs.Bool("colorize", d.Render.Colorize, "colour cells by arrival order")
	fs.String("catalog", d.Catalog.Path, "sqlite run catalog (empty disables)")
}

// BindAnalysisFlags registers the analysis region flags on fs.
func BindAnalysisFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.Float64("crop", d.Analysis.CropDim, "center crop side (fraction of size if < 1)")
	fs.Float64("radius", d.Analysis.CircleRadius, "center circle radius (fraction of size if < 1)")
	fs.Float64("neighbor-crop", d.Analysis.NeighborCrop, "crop used for neighbor strength")
}

// BindSweepFlags registers the batch flags on fs.
func BindSweepFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.Float64Slice("values", nil, "stickiness values to sweep (required)")
	fs.Int("replicates", d.Sweep.Replicates, "independent runs per stickiness value")
	fs.Int("workers", d.Sweep.Workers, "concurrent runs")
	fs.String("chart", d.Sweep.Chart, "write a density-vs-stickiness chart to this PNG path")
}

// ApplyFlags copies every flag the user set on fs into the config.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	set := func(name string, apply func() error) {
		if err != nil || fs.Lookup(name) == nil || !fs.Changed(name) {
			return
		}
		err = apply()
	}

	set("size", func() (e error) { c.Run.Size, e = fs.GetInt("size"); return })
	set("k", func() (e error) { c.Run.Stickiness, e = fs.GetFloat64("k"); return })
	set("particles", func() (e error) { c.Run.Particles, e = fs.GetInt("particles"); return })
	set("seed", func() (e error) { c.Run.Seed, e = fs.GetInt64("seed"); return })
	set("max-steps", func() (e error) { c.Run.MaxSteps, e = fs.GetInt("max-steps"); return })
	set("out", func() (e error) { c.Run.OutputPrefix, e = fs.GetString("out"); return })
	set("png", func() (e error) { c.Render.PNG, e = fs.GetBool("png"); return })
	set("scale", func() (e error) { c.Render.Scale, e = fs.GetInt("scale"); return })
	set("colorize", func() (e error) { c.Render.Colorize, e = fs.GetBool("colorize"); return })
	set("catalog", func() (e error) { c.Catalog.Path, e = fs.GetString("catalog"); return })

	set("crop", func() (e error) { c.Analysis.CropDim, e = fs.GetFloat64("crop"); return })
	set("radius", func() (e error) { c.Analysis.CircleRadius, e = fs.GetFloat64("radius"); return })
	set("neighbor-crop", func() (e error) { c.Analysis.NeighborCrop, e = fs.GetFloat64("neighbor-crop"); return })

	set("values", func() (e error) { c.Sweep.Stickiness, e = fs.GetFloat64Slice("values"); return })
	set("replicates", func() (e error) { c.Sweep.Replicates, e = fs.GetInt("replicates"); return })
	set("workers", func() (e error) { c.Sweep.Workers, e = fs.GetInt("workers"); return })
	set("chart", func() (e error) { c.Sweep.Chart, e = fs.GetString("chart"); return })

	set("log-level", func() (e error) { c.Logging.Level, e = fs.GetString("log-level"); return })
	return err
}
