package render

import "image/color"

// FillPalette converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func FillPalette(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// FillMask writes colorFor(v) for every non-zero mask value and transparent
// black elsewhere.
func FillMask(buf []byte, mask []uint8, colorFor func(v uint8) color.RGBA) {
	for i, v := range mask {
		base := i * 4
		if v == 0 {
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
			continue
		}
		col := colorFor(v)
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// Tint returns a constant color function for FillMask.
func Tint(c color.RGBA) func(uint8) color.RGBA {
	return func(uint8) color.RGBA { return c }
}
