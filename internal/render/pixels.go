package render

import "image/color"

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		for i := range cells {
			base := i * 4
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
		}
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

// fillMaskRGBA writes a translucent tint whose alpha follows the mask value.
// Used by overlays drawn on top of the palette image.
func fillMaskRGBA(buf []byte, mask []float32, tint color.RGBA) {
	for i, v := range mask {
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		// Premultiplied alpha, as WritePixels expects.
		a := v * float32(tint.A) / 255
		base := i * 4
		buf[base+0] = uint8(float32(tint.R)*a + 0.5)
		buf[base+1] = uint8(float32(tint.G)*a + 0.5)
		buf[base+2] = uint8(float32(tint.B)*a + 0.5)
		buf[base+3] = uint8(255*a + 0.5)
	}
}
