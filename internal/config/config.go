// Package config loads run, analysis and sweep settings for the dla tools.
// Values are resolved in order: defaults, YAML file, environment, flags.
package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"runtime"
	"strconv"

	"dla/internal/analysis"
	"dla/internal/core"
	"dla/internal/dla"
	"dla/internal/logging"

	"gopkg.in/yaml.v3"
)

// Config contains every setting the command line tools understand.
type Config struct {
	Run      RunConfig       `yaml:"run"`
	Analysis analysis.Params `yaml:"analysis"`
	Render   RenderConfig    `yaml:"render"`
	Sweep    SweepConfig     `yaml:"sweep"`
	Catalog  CatalogConfig   `yaml:"catalog"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// RunConfig describes a single aggregation run.
type RunConfig struct {
	Size       int     `yaml:"size"`
	Stickiness float64 `yaml:"stickiness"`
	Particles  int     `yaml:"particles"`
	Seed       int64   `yaml:"seed"`

	// MaxSteps bounds each particle's walk; 0 disables the bound.
	MaxSteps int `yaml:"max_steps"`

	// OutputPrefix is prepended verbatim to "<k>_<size>_<particles>" to name
	// the persisted grid and image. A trailing slash makes it a directory.
	OutputPrefix string `yaml:"output_prefix"`

	ProgressEvery int `yaml:"progress_every"`
}

// RenderConfig controls the PNG written next to each grid.
type RenderConfig struct {
	PNG      bool `yaml:"png"`
	Scale    int  `yaml:"scale"`
	Colorize bool `yaml:"colorize"`
}

// SweepConfig drives batches of independent runs.
type SweepConfig struct {
	// Stickiness lists the k values to sweep. It has no default.
	Stickiness []float64 `yaml:"stickiness"`
	Replicates int       `yaml:"replicates"`
	Workers    int       `yaml:"workers"`
	// Chart is the path of the density-vs-stickiness chart; empty skips it.
	Chart string `yaml:"chart"`
}

// CatalogConfig locates the run catalog database. An empty path disables it.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures operational logging.
type LoggingConfig struct {
	// Level is one of "warn", "info" (default), "debug" or "trace".
	Level string `yaml:"level"`
}

// Default returns a Config with the standard experiment settings.
func Default() *Config {
	return &Config{
		Run: RunConfig{
			Size:          251,
			Stickiness:    1,
			Particles:     15000,
			Seed:          1337,
			MaxSteps:      dla.DefaultMaxSteps,
			OutputPrefix:  "./simulation_outputs/",
			ProgressEvery: 1000,
		},
		Analysis: analysis.DefaultParams(),
		Render: RenderConfig{
			PNG:   true,
			Scale: 2,
		},
		Sweep: SweepConfig{
			Replicates: 1,
			Workers:    runtime.NumCPU(),
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load resolves defaults, the optional YAML file at path and environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		cfg = fileCfg
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file on top of the
// defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// applyEnvOverrides applies DLA_* environment variables to the config.
func applyEnvOverrides(c *Config) {
	if v := os.Getenv("DLA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("DLA_OUTPUT_PREFIX"); v != "" {
		c.Run.OutputPrefix = v
	}
	if v := os.Getenv("DLA_CATALOG"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("DLA_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Sweep.Workers = n
		}
	}
}

// Validate checks run, render and logging settings. Sweep settings are
// checked separately by ValidateSweep.
func (c *Config) Validate() error {
	if err := c.EngineOptions(nil).Validate(); err != nil {
		return err
	}
	if c.Run.Particles < 0 {
		return &core.ConfigError{Field: "particles", Value: c.Run.Particles, Expected: ">= 0"}
	}
	if c.Run.Stickiness == 0 && c.Run.Particles > 0 {
		return &core.ConfigError{Field: "stickiness", Value: c.Run.Stickiness, Expected: "> 0 when particles > 0"}
	}
	if c.Render.Scale < 1 {
		return &core.ConfigError{Field: "render.scale", Value: c.Render.Scale, Expected: ">= 1"}
	}
	for field, v := range map[string]float64{
		"analysis.crop":          c.Analysis.CropDim,
		"analysis.radius":        c.Analysis.CircleRadius,
		"analysis.neighbor_crop": c.Analysis.NeighborCrop,
	} {
		if math.IsNaN(v) || v < 0 {
			return &core.ConfigError{Field: field, Value: v, Expected: ">= 0"}
		}
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return &core.ConfigError{Field: "logging.level", Value: c.Logging.Level, Expected: "warn, info, debug or trace"}
	}
	return nil
}

// ValidateSweep checks the sweep section on top of Validate. Stickiness
// values must be distinct: the value is part of every artifact name, so a
// repeat would overwrite another run's files. Use replicates instead.
func (c *Config) ValidateSweep() error {
	if len(c.Sweep.Stickiness) == 0 {
		return &core.ConfigError{Field: "sweep.stickiness", Value: "[]", Expected: "at least one value"}
	}
	seen := make(map[float64]bool, len(c.Sweep.Stickiness))
	for _, k := range c.Sweep.Stickiness {
		if math.IsNaN(k) || k <= 0 || k > 1 {
			return &core.ConfigError{Field: "sweep.stickiness", Value: k, Expected: "in (0, 1]"}
		}
		if seen[k] {
			return &core.ConfigError{Field: "sweep.stickiness", Value: k, Expected: "distinct values (use --replicates to repeat a value)"}
		}
		seen[k] = true
	}
	if c.Sweep.Replicates < 1 {
		return &core.ConfigError{Field: "sweep.replicates", Value: c.Sweep.Replicates, Expected: ">= 1"}
	}
	if c.Sweep.Workers < 1 {
		return &core.ConfigError{Field: "sweep.workers", Value: c.Sweep.Workers, Expected: ">= 1"}
	}
	return nil
}

// EngineOptions converts the run section into engine options.
func (c *Config) EngineOptions(logger *slog.Logger) dla.Options {
	opts := dla.DefaultOptions()
	opts.Size = c.Run.Size
	opts.Stickiness = c.Run.Stickiness
	opts.MaxSteps = c.Run.MaxSteps
	opts.Seed = c.Run.Seed
	opts.ProgressEvery = c.Run.ProgressEvery
	opts.Logger = logger
	return opts
}
