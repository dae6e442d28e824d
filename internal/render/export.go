package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// ExportOptions controls how a grid is rasterized for export.
type ExportOptions struct {
	Scale        int
	Outline      []uint8
	OutlineColor color.RGBA
	Caption      string
}

const captionHeight = 18

// Rasterize draws palette-encoded cells into an image, scaling every cell to
// Scale*Scale pixels. Equal neighbouring cells on a row are merged into one
// rectangle.
func Rasterize(cells []uint8, size int, palette []color.RGBA, opts ExportOptions) image.Image {
	scale := max(opts.Scale, 1)
	extra := 0
	if opts.Caption != "" {
		extra = captionHeight
	}
	dc := gg.NewContext(size*scale, size*scale+extra)
	dc.SetRGBA(0, 0, 0, 1)
	dc.Clear()

	s := float64(scale)
	for y := 0; y < size; y++ {
		row := cells[y*size : (y+1)*size]
		for x := 0; x < size; {
			run := x + 1
			for run < size && row[run] == row[x] {
				run++
			}
			if len(palette) > 0 {
				col := palette[min(int(row[x]), len(palette)-1)]
				dc.SetRGBA255(int(col.R), int(col.G), int(col.B), int(col.A))
				dc.DrawRectangle(float64(x)*s, float64(y)*s, float64(run-x)*s, s)
				dc.Fill()
			}
			x = run
		}
	}

	if len(opts.Outline) == len(cells) {
		oc := opts.OutlineColor
		dc.SetRGBA255(int(oc.R), int(oc.G), int(oc.B), int(oc.A))
		for i, v := range opts.Outline {
			if v == 0 {
				continue
			}
			dc.DrawRectangle(float64(i%size)*s, float64(i/size)*s, s, s)
		}
		dc.Fill()
	}

	if opts.Caption != "" {
		dc.SetRGBA(1, 1, 1, 1)
		dc.DrawString(opts.Caption, 4, float64(size*scale+extra-5))
	}
	return dc.Image()
}

// ExportPNG rasterizes cells and writes the result to path.
func ExportPNG(path string, cells []uint8, size int, palette []color.RGBA, opts ExportOptions) error {
	if size <= 0 || len(cells) != size*size {
		return fmt.Errorf("export %s: %d cells do not form a %dx%d grid", path, len(cells), size, size)
	}
	img := Rasterize(cells, size, palette, opts)
	dc := gg.NewContextForImage(img)
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}
