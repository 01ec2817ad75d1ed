package render

import (
	"image/color"

	"github.com/crazy3lf/colorconv"
)

// paletteSize is the number of hue steps used for arrival colouring.
const paletteSize = 1024

// HuePalette sweeps hue from red through blue, oldest particles first.
// Hue stops short of a full turn so the newest cells do not wrap back to red.
func HuePalette(n int) []color.RGBA {
	if n <= 0 {
		return nil
	}
	out := make([]color.RGBA, n)
	for i := range out {
		hue := 0.0
		if n > 1 {
			hue = 280 * float64(i) / float64(n-1)
		}
		r, g, b, err := colorconv.HSVToRGB(hue, 1, 1)
		if err != nil {
			r, g, b = 255, 255, 255
		}
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}
