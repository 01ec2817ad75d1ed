//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"dla/internal/analysis"
	"dla/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type gridProvider interface {
	Grid() *core.ByteGrid
}

// Overlay draws the analysis regions on top of the lattice: the center crop
// box, the circular density mask and the cluster's current radius.
type Overlay struct {
	sim    core.Sim
	scale  int
	crop   float64
	radius float64

	showCrop   bool
	showCircle bool
	showRadius bool

	maskImg *ebiten.Image
	maskBuf []byte
	maskN   int

	pixel *ebiten.Image
}

// NewOverlay constructs an overlay for the given analysis parameters.
func NewOverlay(sim core.Sim, scale int, crop, radius float64) *Overlay {
	if scale <= 0 {
		scale = 1
	}
	o := &Overlay{sim: sim, scale: scale, crop: crop, radius: radius}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles overlays: 1 crop box, 2 circle mask, 3 cluster radius.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showCrop = !o.showCrop
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showCircle = !o.showCircle
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showRadius = !o.showRadius
	}
}

// Draw renders the enabled overlays onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.W != size.H {
		return
	}
	n := size.W
	if o.showCircle {
		o.drawCircleMask(screen, n)
	}
	if o.showCrop {
		if start, end, err := analysis.CropBounds(n, o.crop); err == nil {
			o.drawRect(screen, start, end, color.RGBA{R: 255, G: 200, B: 40, A: 220})
		}
	}
	if o.showRadius {
		if gp, ok := o.sim.(gridProvider); ok {
			c := (n+1)/2 - 1
			o.drawRing(screen, float64(c)+0.5, float64(c)+0.5, analysis.MaxRadius(gp.Grid()), color.RGBA{R: 120, G: 220, B: 140, A: 200})
		}
	}
}

// drawCircleMask tints the cells inside the circular mask. The mask only
// depends on n and the radius, so it is built once per lattice size.
func (o *Overlay) drawCircleMask(screen *ebiten.Image, n int) {
	if o.maskImg == nil || o.maskN != n {
		mask, err := analysis.CircularMask(n, nil, o.radius)
		if err != nil {
			return
		}
		// Premultiplied, as WritePixels expects.
		tint := color.RGBA{R: 22, G: 58, B: 79, A: 90}
		o.maskBuf = make([]byte, 4*n*n)
		for i, in := range mask.Cells() {
			if !in {
				continue
			}
			base := i * 4
			o.maskBuf[base+0] = tint.R
			o.maskBuf[base+1] = tint.G
			o.maskBuf[base+2] = tint.B
			o.maskBuf[base+3] = tint.A
		}
		o.maskImg = ebiten.NewImage(n, n)
		o.maskImg.WritePixels(o.maskBuf)
		o.maskN = n
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	screen.DrawImage(o.maskImg, op)
}

func (o *Overlay) drawRect(screen *ebiten.Image, start, end int, col color.RGBA) {
	s := float64(o.scale)
	x0, x1 := float64(start)*s, float64(end)*s
	thickness := math.Max(1, s/2)
	o.drawLine(screen, x0, x0, x1, x0, thickness, col)
	o.drawLine(screen, x1, x0, x1, x1, thickness, col)
	o.drawLine(screen, x1, x1, x0, x1, thickness, col)
	o.drawLine(screen, x0, x1, x0, x0, thickness, col)
}

func (o *Overlay) drawRing(screen *ebiten.Image, cx, cy, r float64, col color.RGBA) {
	if r <= 0 {
		return
	}
	s := float64(o.scale)
	segments := int(math.Max(24, math.Min(180, r*s/2)))
	step := 2 * math.Pi / float64(segments)
	px, py := (cx+r)*s, cy*s
	for i := 1; i <= segments; i++ {
		a := float64(i) * step
		x, y := (cx+r*math.Cos(a))*s, (cy+r*math.Sin(a))*s
		o.drawLine(screen, px, py, x, y, math.Max(1, s/2), col)
		px, py = x, y
	}
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	screen.DrawImage(o.pixel, op)
}
