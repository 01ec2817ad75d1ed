package dla

import (
	"bytes"
	"context"
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"dla/internal/core"
	"dla/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource replays fixed draws and falls back to a seeded generator.
type scriptedSource struct {
	floats   []float64
	ints     []int
	fallback *core.RNG
}

func newScripted(floats []float64, ints []int) *scriptedSource {
	return &scriptedSource{floats: floats, ints: ints, fallback: core.NewRNG(1)}
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return s.fallback.Float64()
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) IntN(n int) int {
	if len(s.ints) == 0 {
		return s.fallback.IntN(n)
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func newEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e, err := New(opts)
	require.NoError(t, err)
	return e
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Options)
		field string
	}{
		{"zero size", func(o *Options) { o.Size = 0 }, "size"},
		{"negative stickiness", func(o *Options) { o.Stickiness = -0.1 }, "stickiness"},
		{"stickiness above one", func(o *Options) { o.Stickiness = 1.5 }, "stickiness"},
		{"nan stickiness", func(o *Options) { o.Stickiness = math.NaN() }, "stickiness"},
		{"negative max steps", func(o *Options) { o.MaxSteps = -1 }, "max_steps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Size = 11
			tt.mod(&opts)
			_, err := New(opts)
			var cfgErr *core.ConfigError
			require.True(t, errors.As(err, &cfgErr), "want ConfigError, got %v", err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestCenterSeed(t *testing.T) {
	for _, tc := range []struct{ n, want int }{{1, 0}, {2, 0}, {4, 1}, {5, 2}, {251, 125}} {
		assert.Equal(t, core.Point{X: tc.want, Y: tc.want}, Center(tc.n), "n=%d", tc.n)
	}

	opts := DefaultOptions()
	opts.Size = 5
	e := newEngine(t, opts)
	assert.Equal(t, 1, e.Occupied())
	assert.Equal(t, 1, e.Grid().Count())
	assert.Equal(t, uint8(1), e.Grid().At(2, 2))
	assert.Equal(t, int32(1), e.Arrivals()[e.Grid().Index(2, 2)])
}

func TestSingleParticleNextToCenter(t *testing.T) {
	// edge 0 gives row 0, column 2; not touching, the walk picks (2,1)
	// which touches (2,2); the stickiness draw 0.5 < 1 freezes it.
	src := newScripted([]float64{0.0, 0.5}, []int{2, 3})
	opts := DefaultOptions()
	opts.Size = 5
	opts.Stickiness = 1
	opts.Source = src
	e := newEngine(t, opts)

	added, err := e.AddPoints(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, 2, e.Occupied())
	assert.Equal(t, 2, e.Grid().Count())
	assert.Equal(t, uint8(1), e.Grid().At(2, 1))

	adjacent := false
	nb := core.NeighborsOf(core.Point{X: 2, Y: 2}, 5)
	for _, q := range nb.Points() {
		if q == (core.Point{X: 2, Y: 1}) {
			adjacent = true
		}
	}
	assert.True(t, adjacent)
	assert.Equal(t, int32(2), e.Arrivals()[e.Grid().Index(2, 1)])
}

func TestAddPointsCountExact(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 21
	opts.Seed = 5
	e := newEngine(t, opts)

	added, err := e.AddPoints(context.Background(), 60)
	require.NoError(t, err)
	assert.Equal(t, 60, added)
	assert.Equal(t, 61, e.Occupied())
	assert.Equal(t, 61, e.Grid().Count())
}

func TestAddPointsMonotonicAndAdjacent(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 31
	opts.Seed = 11
	e := newEngine(t, opts)
	w := e.Grid().W

	for i := 0; i < 80; i++ {
		before := e.Grid().Clone()
		_, err := e.AddPoints(context.Background(), 1)
		require.NoError(t, err)

		var fresh []core.Point
		for idx, v := range e.Grid().Cells() {
			prev := before.Cells()[idx]
			require.False(t, prev == 1 && v == 0, "cell %d was cleared", idx)
			require.LessOrEqual(t, v, uint8(1))
			if prev == 0 && v == 1 {
				fresh = append(fresh, core.Point{X: idx % w, Y: idx / w})
			}
		}
		require.Len(t, fresh, 1, "particle %d", i)
		p := fresh[0]
		assert.Positive(t, before.OccupiedNeighbors(p.X, p.Y), "frozen cell %v had no occupied neighbor", p)
	}
}

func TestSeedOnlyReturnsBoundaryPoints(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 7
	opts.Seed = 3
	e := newEngine(t, opts)
	n := opts.Size

	edges := map[string]int{}
	for i := 0; i < 20000; i++ {
		p := e.Seed()
		require.True(t, p.X >= 0 && p.X < n && p.Y >= 0 && p.Y < n, "out of bounds %v", p)
		onEdge := p.X == 0 || p.X == n-1 || p.Y == 0 || p.Y == n-1
		require.True(t, onEdge, "interior seed %v", p)
		switch {
		case p.X == 0:
			edges["x0"]++
		case p.X == n-1:
			edges["xn"]++
		case p.Y == 0:
			edges["y0"]++
		default:
			edges["yn"]++
		}
	}
	assert.Len(t, edges, 4)
}

func TestSeedEdgesUseRowColumnLayout(t *testing.T) {
	// Points are (column X, row Y); the .npy rows are Y, so edge 0 is the top row.
	tests := []struct {
		name string
		edge float64
		pos  int
		want core.Point
	}{
		{"edge 0 top row", 0.0, 0, core.Point{X: 0, Y: 0}},
		{"edge 0 top row far end", 0.1, 5, core.Point{X: 5, Y: 0}},
		{"edge 1 right column", 0.3, 0, core.Point{X: 6, Y: 0}},
		{"edge 2 bottom row", 0.6, 5, core.Point{X: 6, Y: 6}},
		{"edge 3 left column", 0.9, 0, core.Point{X: 0, Y: 1}},
		{"draw of one clamps to edge 3", 1.0, 5, core.Point{X: 0, Y: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Size = 7
			opts.Source = newScripted([]float64{tt.edge}, []int{tt.pos})
			e := newEngine(t, opts)
			assert.Equal(t, tt.want, e.Seed())
		})
	}
}

func TestSeedSingleCellLattice(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 1
	e := newEngine(t, opts)
	assert.Equal(t, core.Point{}, e.Seed())
}

func TestShouldStickRequiresFreeTouchingCell(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 5
	opts.Stickiness = 0.5
	opts.Source = newScripted([]float64{0.4, 0.6, 0.1}, nil)
	e := newEngine(t, opts)

	far := core.Point{X: 0, Y: 0}
	assert.False(t, e.ShouldStick(far), "no occupied neighbor")

	near := core.Point{X: 1, Y: 1}
	assert.True(t, e.ShouldStick(near), "draw 0.4 < 0.5")
	assert.False(t, e.ShouldStick(near), "draw 0.6 >= 0.5")

	e.Grid().Set(1, 1, 1)
	assert.False(t, e.ShouldStick(near), "cell already occupied")
}

func TestWalkStaysInBounds(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 4
	e := newEngine(t, opts)
	p := core.Point{X: 0, Y: 0}
	for i := 0; i < 5000; i++ {
		next := e.Walk(p)
		require.True(t, e.Grid().InBounds(next.X, next.Y))
		require.NotEqual(t, p, next)
		require.LessOrEqual(t, abs(next.X-p.X), 1)
		require.LessOrEqual(t, abs(next.Y-p.Y), 1)
		p = next
	}
}

func TestZeroStickinessRejectedOnEntry(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 9
	opts.Stickiness = 0
	e := newEngine(t, opts)

	added, err := e.AddPoints(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, added)

	_, err = e.AddPoints(context.Background(), 1)
	var cfgErr *core.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "stickiness", cfgErr.Field)
	assert.Equal(t, 1, e.Occupied())
}

func TestWalkTimeoutReported(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 51
	opts.MaxSteps = 10
	e := newEngine(t, opts)

	added, err := e.AddPoints(context.Background(), 3)
	assert.Zero(t, added)
	var timeout *WalkTimeoutError
	require.True(t, errors.As(err, &timeout), "got %v", err)
	assert.Equal(t, 1, timeout.Particle)
	assert.Equal(t, 10, timeout.Steps)
	assert.Equal(t, 1, e.Occupied())
}

func TestGridFull(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 1
	e := newEngine(t, opts)
	_, err := e.AddPoints(context.Background(), 1)
	assert.ErrorIs(t, err, core.ErrGridFull)

	opts.Size = 2
	e = newEngine(t, opts)
	added, err := e.AddPoints(context.Background(), 5)
	assert.ErrorIs(t, err, core.ErrGridFull)
	assert.Equal(t, 3, added)
	assert.Equal(t, 4, e.Occupied())
}

func TestAddPointsHonoursCancellation(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 15
	e := newEngine(t, opts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	added, err := e.AddPoints(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, added)
}

func TestAddPointsNegativeCount(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 5
	e := newEngine(t, opts)
	_, err := e.AddPoints(context.Background(), -1)
	var cfgErr *core.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestRunsDeterministicPerSeed(t *testing.T) {
	run := func(seed int64) []uint8 {
		opts := DefaultOptions()
		opts.Size = 25
		opts.Stickiness = 0.6
		opts.Seed = seed
		e := newEngine(t, opts)
		_, err := e.AddPoints(context.Background(), 40)
		require.NoError(t, err)
		return append([]uint8(nil), e.Cells()...)
	}
	a, b := run(77), run(77)
	assert.True(t, slices.Equal(a, b), "same seed must reproduce the cluster")
	assert.False(t, slices.Equal(a, run(78)), "different seeds should diverge")
}

func TestTraceLogsEveryParticle(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Size = 15
	opts.Logger = logging.NewLogger("trace", &buf)
	e := newEngine(t, opts)
	_, err := e.AddPoints(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(buf.String(), "particle frozen"))
	assert.Contains(t, buf.String(), "level=TRACE")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
