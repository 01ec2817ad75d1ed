package app

import (
	"testing"

	"dla/internal/core"
	"dla/internal/dla"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindParsesFlags(t *testing.T) {
	cfg := NewConfig()
	fs := pflag.NewFlagSet("dla-view", pflag.ContinueOnError)
	cfg.Bind(fs)

	require.NoError(t, fs.Parse([]string{"--size", "99", "--k", "0.3", "--batch", "7", "--colorize", "--scale", "2"}))
	assert.Equal(t, 99, cfg.Size)
	assert.Equal(t, 0.3, cfg.K)
	assert.Equal(t, 7, cfg.Batch)
	assert.True(t, cfg.Colorize)
	assert.Equal(t, 2, cfg.Scale)
	assert.Equal(t, "dla", cfg.Sim)
}

func TestSimOptionsBuildRegisteredEngine(t *testing.T) {
	cfg := NewConfig()
	cfg.Size = 31
	cfg.K = 0.5
	cfg.Seed = 11
	cfg.MaxSteps = 1000

	opts := cfg.SimOptions()
	assert.Equal(t, "1000", opts["max_steps"])

	factory, ok := core.Sims()[cfg.Sim]
	require.True(t, ok, "dla must be registered")
	sim, err := factory(opts)
	require.NoError(t, err)
	assert.Equal(t, core.Size{W: 31, H: 31}, sim.Size())

	eng, ok := sim.(*dla.Engine)
	require.True(t, ok)
	assert.Equal(t, 0.5, eng.Stickiness())
	assert.Equal(t, int64(11), eng.Options().Seed)
	assert.Equal(t, 1000, eng.Options().MaxSteps)

	cfg.MaxSteps = 0
	_, present := cfg.SimOptions()["max_steps"]
	assert.False(t, present)
}
