package dla

import (
	"log/slog"
	"math"
	"strconv"

	"dla/internal/core"
)

// Options controls a single aggregation run.
type Options struct {
	// Size is the side length of the square lattice.
	Size int
	// Stickiness is the probability that a particle touching the cluster
	// freezes on a given stop check.
	Stickiness float64
	// MaxSteps bounds the walk of a single particle. Zero leaves walks unbounded.
	MaxSteps int
	// Seed initialises the run's generator when Source is nil.
	Seed int64
	// Source overrides the seeded generator, mainly for tests.
	Source core.Source

	// StepBatch is the number of particles added per Step call.
	StepBatch int
	// ProgressEvery controls how often AddPoints logs progress. Zero disables it.
	ProgressEvery int
	Logger        *slog.Logger
}

// DefaultOptions returns the standard configuration.
func DefaultOptions() Options {
	return Options{
		Size:          251,
		Stickiness:    1,
		MaxSteps:      DefaultMaxSteps,
		Seed:          1337,
		StepBatch:     25,
		ProgressEvery: 1000,
	}
}

// DefaultMaxSteps is generous enough for k ≥ 0.005 on lattices of a few
// hundred cells while still failing runs that cannot terminate.
const DefaultMaxSteps = 50_000_000

// Validate checks the options against their accepted ranges.
func (o Options) Validate() error {
	if o.Size < 1 {
		return &core.ConfigError{Field: "size", Value: o.Size, Expected: ">= 1"}
	}
	if math.IsNaN(o.Stickiness) || o.Stickiness < 0 || o.Stickiness > 1 {
		return &core.ConfigError{Field: "stickiness", Value: o.Stickiness, Expected: "in [0, 1]"}
	}
	if o.MaxSteps < 0 {
		return &core.ConfigError{Field: "max_steps", Value: o.MaxSteps, Expected: ">= 0 (0 = unbounded)"}
	}
	if o.StepBatch < 0 {
		return &core.ConfigError{Field: "batch", Value: o.StepBatch, Expected: ">= 0"}
	}
	return nil
}

// OptionsFromMap populates options from a string map (flag-style key/value pairs).
// Unparseable values keep their defaults; range checks happen in Validate.
func OptionsFromMap(cfg map[string]string) Options {
	o := DefaultOptions()
	if cfg == nil {
		return o
	}
	if v, ok := cfg["size"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			o.Size = parsed
		}
	}
	if v, ok := cfg["k"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			o.Stickiness = parsed
		}
	}
	if v, ok := cfg["max_steps"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			o.MaxSteps = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			o.Seed = parsed
		}
	}
	if v, ok := cfg["batch"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			o.StepBatch = parsed
		}
	}
	return o
}
