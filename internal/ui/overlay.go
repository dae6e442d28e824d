//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"regionmap/internal/core"
	"regionmap/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/lucasb-eyer/go-colorful"
)

type regionMaskProvider interface {
	RegionMask(outline bool) []uint8
}

type riverProvider interface {
	Rivers() int
	RiverPath(i int) []core.Coord
}

type heightProvider interface {
	Heights() []float64
}

// Overlay draws optional debugging layers on top of the base map: region
// masks, river centerlines and the raw height field.
type Overlay struct {
	sim         core.Sim
	showRegions bool
	outline     bool
	showRivers  bool
	showHeight  bool

	maskImg *ebiten.Image
	maskBuf []byte
	pixel   *ebiten.Image
}

// NewOverlay constructs an overlay for sim.
func NewOverlay(sim core.Sim) *Overlay {
	o := &Overlay{sim: sim}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles layers: 1 regions, 2 outline or filled regions, 3 river
// centerlines, 4 height field.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showRegions = !o.showRegions
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.outline = !o.outline
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showRivers = !o.showRivers
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit4) {
		o.showHeight = !o.showHeight
	}
}

// Draw renders the enabled layers with geo mapping grid cells to screen
// pixels.
func (o *Overlay) Draw(screen *ebiten.Image, geo ebiten.GeoM) {
	size := o.sim.Size()
	total := size.W * size.H
	if total == 0 {
		return
	}
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != size.W || o.maskImg.Bounds().Dy() != size.H {
		o.maskImg = ebiten.NewImage(size.W, size.H)
		o.maskBuf = make([]byte, 4*total)
	}

	if o.showHeight {
		if p, ok := o.sim.(heightProvider); ok {
			o.drawHeights(screen, p.Heights(), size, geo)
		}
	}
	if o.showRegions {
		if p, ok := o.sim.(regionMaskProvider); ok {
			o.drawMask(screen, p.RegionMask(o.outline), regionTint, geo)
		}
	}
	if o.showRivers {
		if p, ok := o.sim.(riverProvider); ok {
			o.drawRivers(screen, p, geo)
		}
	}
}

func regionTint(v uint8) color.RGBA {
	c := colorful.Hsv(float64(v)*137.5, 0.8, 1)
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 170}
}

func (o *Overlay) drawMask(screen *ebiten.Image, mask []uint8, tint func(uint8) color.RGBA, geo ebiten.GeoM) {
	if len(mask) != len(o.maskBuf)/4 {
		return
	}
	render.FillMask(o.maskBuf, mask, tint)
	o.maskImg.WritePixels(o.maskBuf)
	screen.DrawImage(o.maskImg, &ebiten.DrawImageOptions{GeoM: geo})
}

func (o *Overlay) drawHeights(screen *ebiten.Image, field []float64, size core.Size, geo ebiten.GeoM) {
	if len(field) != size.W*size.H || len(field) == 0 {
		return
	}
	lo, hi := field[0], field[0]
	for _, v := range field {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	for i, v := range field {
		col := elevationColor((v - lo) / span)
		base := i * 4
		o.maskBuf[base+0] = col.R
		o.maskBuf[base+1] = col.G
		o.maskBuf[base+2] = col.B
		o.maskBuf[base+3] = col.A
	}
	o.maskImg.WritePixels(o.maskBuf)
	screen.DrawImage(o.maskImg, &ebiten.DrawImageOptions{GeoM: geo})
}

func (o *Overlay) drawRivers(screen *ebiten.Image, p riverProvider, geo ebiten.GeoM) {
	line := color.RGBA{R: 255, G: 255, B: 255, A: 220}
	thickness := math.Max(geo.Element(0, 0)*0.35, 1)
	for i := 0; i < p.Rivers(); i++ {
		path := p.RiverPath(i)
		for j := 1; j < len(path); j++ {
			x1, y1 := geo.Apply(float64(path[j-1].X)+0.5, float64(path[j-1].Y)+0.5)
			x2, y2 := geo.Apply(float64(path[j].X)+0.5, float64(path[j].Y)+0.5)
			o.drawLine(screen, x1, y1, x2, y2, thickness, line)
		}
	}
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 || thickness <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func elevationColor(t float64) color.RGBA {
	t = clamp01(t)
	stops := []struct {
		t   float64
		col color.RGBA
	}{
		{0.0, color.RGBA{R: 40, G: 60, B: 120, A: 150}},
		{0.25, color.RGBA{R: 70, G: 105, B: 160, A: 165}},
		{0.5, color.RGBA{R: 90, G: 150, B: 100, A: 185}},
		{0.75, color.RGBA{R: 190, G: 160, B: 80, A: 205}},
		{1.0, color.RGBA{R: 240, G: 235, B: 215, A: 215}},
	}
	for i := 1; i < len(stops); i++ {
		curr := stops[i]
		if t <= curr.t {
			prev := stops[i-1]
			return lerpRGBA(prev.col, curr.col, (t-prev.t)/(curr.t-prev.t))
		}
	}
	return stops[len(stops)-1].col
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	t = clamp01(t)
	lerp := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
