// Package output persists finished aggregation runs: the occupancy grid as
// a .npy array and, optionally, a PNG rendering with the same stem.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"dla/internal/core"
	"dla/internal/render"
)

// PersistenceError reports a failed write or read of a run artifact.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Stem names a run's artifacts: prefix followed by "<k>_<size>_<particles>".
// The prefix is used verbatim, so "out/" yields a file inside out and
// "out/run-" a file named run-... inside out.
func Stem(prefix string, k float64, size, particles int) string {
	return prefix + strconv.FormatFloat(k, 'g', -1, 64) + "_" + strconv.Itoa(size) + "_" + strconv.Itoa(particles)
}

// Artifacts lists the files written for one run.
type Artifacts struct {
	NPY string `json:"npy"`
	PNG string `json:"png,omitempty"`
}

// Run bundles what Save needs from a finished run.
type Run struct {
	Stickiness float64
	Particles  int
	Grid       *core.ByteGrid
	Arrivals   []int32
}

// Save writes the grid and, when img is non-nil, its rendering.
func Save(prefix string, run Run, img *render.Options) (Artifacts, error) {
	stem := Stem(prefix, run.Stickiness, run.Grid.W, run.Particles)
	if dir := filepath.Dir(stem); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Artifacts{}, &PersistenceError{Op: "create directory", Path: dir, Err: err}
		}
	}

	art := Artifacts{NPY: stem + ".npy"}
	if err := writeFile(art.NPY, func(f *os.File) error { return WriteNPY(f, run.Grid) }); err != nil {
		return Artifacts{}, err
	}
	if img != nil {
		art.PNG = stem + ".png"
		if err := writeFile(art.PNG, func(f *os.File) error { return render.WritePNG(f, run.Grid, run.Arrivals, *img) }); err != nil {
			return art, err
		}
	}
	return art, nil
}

// Load reads a grid written by Save or by NumPy.
func Load(path string) (*core.ByteGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &PersistenceError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	g, err := ReadNPY(f)
	if err != nil {
		return nil, &PersistenceError{Op: "decode", Path: path, Err: err}
	}
	return g, nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return &PersistenceError{Op: "create", Path: path, Err: err}
	}
	if err := write(f); err != nil {
		f.Close()
		return &PersistenceError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &PersistenceError{Op: "close", Path: path, Err: err}
	}
	return nil
}
