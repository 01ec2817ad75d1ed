package app

import (
	"strconv"

	"github.com/spf13/pflag"
)

// Config holds the viewer's command-line parameters.
type Config struct {
	Sim      string
	Scale    int
	TPS      int
	Seed     int64
	HUDWidth int

	Size     int
	K        float64
	Batch    int
	MaxSteps int
	Colorize bool

	// Crop and Radius size the analysis overlays, as in `dla analyze`.
	Crop   float64
	Radius float64
}

// NewConfig returns a Config populated with the viewer defaults.
func NewConfig() *Config {
	return &Config{
		Sim:      "dla",
		Scale:    3,
		TPS:      60,
		Seed:     1337,
		HUDWidth: 260,
		Size:     201,
		K:        1,
		Batch:    25,
		Crop:     0.1,
		Radius:   30,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "HUD panel width in pixels (0 hides it)")
	fs.IntVar(&c.Size, "size", c.Size, "lattice side length")
	fs.Float64Var(&c.K, "k", c.K, "stickiness in (0, 1]")
	fs.IntVar(&c.Batch, "batch", c.Batch, "particles added per tick")
	fs.IntVar(&c.MaxSteps, "max-steps", c.MaxSteps, "walk step budget per particle (0 = engine default)")
	fs.BoolVar(&c.Colorize, "colorize", c.Colorize, "colour cells by arrival order")
	fs.Float64Var(&c.Crop, "crop", c.Crop, "crop overlay side (fraction of size if < 1)")
	fs.Float64Var(&c.Radius, "radius", c.Radius, "circle overlay radius (fraction of size if < 1)")
}

// SimOptions renders the simulation settings as the flag-style map that
// registered factories accept.
func (c *Config) SimOptions() map[string]string {
	opts := map[string]string{
		"size":  strconv.Itoa(c.Size),
		"k":     strconv.FormatFloat(c.K, 'g', -1, 64),
		"seed":  strconv.FormatInt(c.Seed, 10),
		"batch": strconv.Itoa(c.Batch),
	}
	if c.MaxSteps > 0 {
		opts["max_steps"] = strconv.Itoa(c.MaxSteps)
	}
	return opts
}
