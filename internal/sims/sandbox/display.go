package sandbox

import "image/color"

// Display byte layout: low 5 bits select a material swatch, bits 5-6 select a
// heat band. The renderer indexes the palette directly with the display value.
const (
	displaySlotMask  = 0x1f
	displayBandShift = 5
	displayBandCount = 4
)

// Heat band boundaries in Kelvin.
var heatBands = [displayBandCount - 1]uint16{400, 800, 1400}

var sandboxPalette = buildSandboxPalette()

// Palette exposes the color palette used for rendering the sandbox world.
func (w *World) Palette() []color.RGBA {
	return sandboxPalette
}

// displaySlot maps a material to its swatch index. Registered materials get
// distinct swatches; everything else falls back to a category swatch.
func displaySlot(m MaterialKind) uint8 {
	switch m {
	case MaterialEmpty:
		return 0
	case MaterialWall:
		return 1
	case MaterialBedrock:
		return 2
	case MaterialSand:
		return 3
	case MaterialDirt:
		return 4
	case MaterialGravel:
		return 5
	case MaterialSnow:
		return 6
	case MaterialSalt:
		return 7
	case MaterialWater:
		return 8
	case MaterialOil:
		return 9
	case MaterialLava:
		return 10
	case MaterialAcid:
		return 11
	case MaterialSteam:
		return 12
	case MaterialSmoke:
		return 13
	}
	switch m.Category() {
	case CategoryStatic:
		return 1
	case CategorySolid:
		return 3
	case CategoryLiquid:
		return 8
	case CategoryGas:
		return 12
	case CategoryEntity:
		return 14
	default:
		return 0
	}
}

func heatBand(t uint16) uint8 {
	for i, limit := range heatBands {
		if t < limit {
			return uint8(i)
		}
	}
	return displayBandCount - 1
}

func encodeDisplayValue(m MaterialKind, t uint16) uint8 {
	return displaySlot(m)&displaySlotMask | heatBand(t)<<displayBandShift
}

func buildSandboxPalette() []color.RGBA {
	base := map[uint8]color.RGBA{
		0:  {R: 12, G: 12, B: 16, A: 255},   // empty
		1:  {R: 110, G: 110, B: 118, A: 255}, // wall
		2:  {R: 70, G: 66, B: 72, A: 255},   // bedrock
		3:  {R: 216, G: 184, B: 108, A: 255}, // sand
		4:  {R: 120, G: 86, B: 52, A: 255},  // dirt
		5:  {R: 150, G: 144, B: 136, A: 255}, // gravel
		6:  {R: 235, G: 240, B: 248, A: 255}, // snow
		7:  {R: 228, G: 222, B: 214, A: 255}, // salt
		8:  {R: 52, G: 110, B: 205, A: 255}, // water
		9:  {R: 92, G: 72, B: 36, A: 255},   // oil
		10: {R: 240, G: 92, B: 36, A: 255},  // lava
		11: {R: 132, G: 212, B: 72, A: 255}, // acid
		12: {R: 196, G: 206, B: 216, A: 255}, // steam
		13: {R: 90, G: 90, B: 96, A: 255},   // smoke
		14: {R: 220, G: 60, B: 140, A: 255}, // entity
	}
	palette := make([]color.RGBA, 32*displayBandCount)
	for slot := 0; slot < 32; slot++ {
		c, ok := base[uint8(slot)]
		if !ok {
			c = base[0]
		}
		for band := 0; band < displayBandCount; band++ {
			palette[band<<displayBandShift|slot] = heatTint(c, band)
		}
	}
	return palette
}

// heatTint shifts a swatch toward incandescent orange as the band rises.
func heatTint(c color.RGBA, band int) color.RGBA {
	if band == 0 {
		return c
	}
	t := float64(band) / float64(displayBandCount-1)
	glow := color.RGBA{R: 255, G: 140, B: 40, A: 255}
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-t*0.7) + float64(b)*t*0.7 + 0.5)
	}
	return color.RGBA{R: mix(c.R, glow.R), G: mix(c.G, glow.G), B: mix(c.B, glow.B), A: 255}
}

func (w *World) rebuildDisplay() {
	out := w.display.Cells()
	for i, c := range w.cellsCurr {
		out[i] = encodeDisplayValue(c.Type, c.Temp)
	}
}
