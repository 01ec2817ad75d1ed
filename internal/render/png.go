// Package render turns occupancy grids into images.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"dla/internal/core"

	"golang.org/x/image/draw"
)

// Options controls image output.
type Options struct {
	// Scale is the number of pixels per lattice cell.
	Scale int
	// Colorize colours cells by arrival order instead of plain white.
	Colorize bool

	On  color.Color
	Off color.Color
}

// DefaultOptions renders white cells on black at one pixel per cell.
func DefaultOptions() Options {
	return Options{Scale: 1, On: color.White, Off: color.Black}
}

// Image renders g. arrivals is optional and only used when Colorize is set.
func Image(g *core.ByteGrid, arrivals []int32, opts Options) *image.RGBA {
	if opts.On == nil {
		opts.On = color.White
	}
	if opts.Off == nil {
		opts.Off = color.Black
	}
	src := image.NewRGBA(image.Rect(0, 0, g.W, g.H))
	if opts.Colorize && len(arrivals) == len(g.Cells()) {
		var last int32
		for _, o := range arrivals {
			if o > last {
				last = o
			}
		}
		fillArrivalRGBA(src.Pix, arrivals, last, HuePalette(paletteSize), opts.Off)
	} else {
		fillBinaryRGBA(src.Pix, g.Cells(), opts.On, opts.Off)
	}
	if opts.Scale <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, g.W*opts.Scale, g.H*opts.Scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// WritePNG encodes the rendering of g as PNG.
func WritePNG(w io.Writer, g *core.ByteGrid, arrivals []int32, opts Options) error {
	if err := png.Encode(w, Image(g, arrivals, opts)); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}
