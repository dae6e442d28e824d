//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads palette-encoded cells into a single image and draws it
// through a caller-supplied transform.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Blit uploads cells and draws them onto dst with geo applied.
func (gp *GridPainter) Blit(dst *ebiten.Image, cells []uint8, palette []color.RGBA, geo ebiten.GeoM) {
	if len(cells) != gp.w*gp.h {
		return
	}
	FillPalette(gp.buf, cells, palette)
	gp.img.WritePixels(gp.buf)

	op := &ebiten.DrawImageOptions{GeoM: geo}
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
