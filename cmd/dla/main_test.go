package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dla/internal/core"
	"dla/internal/output"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv clears DLA_* variables so the host environment cannot leak
// into command tests.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DLA_LOG_LEVEL", "DLA_OUTPUT_PREFIX", "DLA_CATALOG", "DLA_WORKERS"} {
		t.Setenv(k, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "dla version "+version))

	out, err = execute(t, "version", "--json")
	require.NoError(t, err)
	var v map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, version, v["version"])
}

func TestRunCmdWritesGrid(t *testing.T) {
	isolateEnv(t)
	prefix := t.TempDir() + string(os.PathSeparator)

	out, err := execute(t, "run", "--json", "--size", "15", "--k", "1", "--particles", "10",
		"--seed", "9", "--out", prefix, "--log-level", "warn")
	require.NoError(t, err)

	var res struct {
		Added   int `json:"added"`
		Summary struct {
			Occupied int `json:"occupied"`
		} `json:"summary"`
		Artifacts output.Artifacts `json:"artifacts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 10, res.Added)
	assert.Equal(t, 11, res.Summary.Occupied)
	assert.Equal(t, prefix+"1_15_10.npy", res.Artifacts.NPY)
	assert.FileExists(t, res.Artifacts.NPY)
	assert.FileExists(t, prefix+"1_15_10.png")
}

func TestRunCmdRejectsZeroStickiness(t *testing.T) {
	isolateEnv(t)
	_, err := execute(t, "run", "--size", "9", "--k", "0", "--particles", "3", "--out", t.TempDir()+"/")
	var cfgErr *core.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "stickiness", cfgErr.Field)
}

func TestUnknownLogLevel(t *testing.T) {
	isolateEnv(t)
	_, err := execute(t, "run", "--log-level", "loud")
	assert.ErrorContains(t, err, "loud")
}

func TestCatalogRoundTrip(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.db")
	prefix := dir + string(os.PathSeparator)

	for _, k := range []string{"1", "0.5"} {
		_, err := execute(t, "run", "--size", "13", "--k", k, "--particles", "5",
			"--out", prefix, "--png=false", "--catalog", db, "--log-level", "warn")
		require.NoError(t, err)
	}

	out, err := execute(t, "runs", "--catalog", db, "--json")
	require.NoError(t, err)
	var listed struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	assert.Equal(t, 2, listed.Count)

	out, err = execute(t, "runs", "--catalog", db, "--k", "0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "0.5_13_5.npy")
	assert.NotContains(t, out, "1_13_5.npy")
}

func TestRunsCmdNeedsCatalog(t *testing.T) {
	isolateEnv(t)
	_, err := execute(t, "runs")
	assert.ErrorContains(t, err, "no catalog")
}

func TestSweepCmd(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	chart := filepath.Join(dir, "chart.png")

	out, err := execute(t, "sweep", "--values", "1,0.5", "--replicates", "2", "--workers", "2",
		"--size", "13", "--particles", "5", "--out", dir+string(os.PathSeparator),
		"--png=false", "--chart", chart, "--log-level", "warn")
	require.NoError(t, err)
	assert.Contains(t, out, "4 runs")
	assert.FileExists(t, chart)
	assert.FileExists(t, filepath.Join(dir, "rep01_0.5_13_5.npy"))
}

func TestSweepCmdRequiresValues(t *testing.T) {
	isolateEnv(t)
	_, err := execute(t, "sweep", "--size", "9", "--particles", "1", "--out", t.TempDir()+"/")
	var cfgErr *core.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "sweep.stickiness", cfgErr.Field)
}

func TestAnalyzeCmd(t *testing.T) {
	isolateEnv(t)
	g := core.NewSquareGrid(11)
	for x := 3; x <= 7; x++ {
		g.Set(x, 5, 1)
	}
	art, err := output.Save(t.TempDir()+"/", output.Run{Stickiness: 1, Particles: 4, Grid: g}, nil)
	require.NoError(t, err)

	out, err := execute(t, "analyze", art.NPY, "--json", "--radius", "3")
	require.NoError(t, err)
	var got []struct {
		Path     string  `json:"path"`
		Occupied int     `json:"occupied"`
		Radius   float64 `json:"max_radius"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, art.NPY, got[0].Path)
	assert.Equal(t, 5, got[0].Occupied)
	assert.InDelta(t, 2.0, got[0].Radius, 1e-9)

	_, err = execute(t, "analyze", filepath.Join(t.TempDir(), "missing.npy"))
	var perr *output.PersistenceError
	assert.ErrorAs(t, err, &perr)
}

func TestAnalyzeCmdRejectsHugeShape(t *testing.T) {
	isolateEnv(t)
	header := "{'descr': '|u1', 'fortran_order': False, 'shape': (4294967296, 4294967296), }"
	header += strings.Repeat(" ", 63-(10+len(header))%64) + "\n"
	data := append([]byte("\x93NUMPY\x01\x00"), byte(len(header)), byte(len(header)>>8))
	data = append(data, header...)
	path := filepath.Join(t.TempDir(), "huge.npy")
	require.NoError(t, os.WriteFile(path, data, 0600))

	_, err := execute(t, "analyze", path)
	var perr *output.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "decode", perr.Op)
	assert.ErrorIs(t, err, output.ErrNPYFormat)
}
