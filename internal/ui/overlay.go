//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"sandfall/internal/core"
	"sandfall/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type heatProvider interface {
	AmbientHeat() []float32
}

type forceFieldProvider interface {
	ForceAt(x, y int) (float32, float32)
}

// Overlay draws optional debugging visuals on top of the base simulation.
type Overlay struct {
	sim   core.Sim
	scale int

	showHeat  bool
	showForce bool

	pixel *ebiten.Image

	forceSamples []forceSample
	forceCacheW  int
	forceCacheH  int
}

type forceSample struct {
	gx int
	gy int
	sx float64
	sy float64
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles overlay layers from the keyboard.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showHeat = !o.showHeat
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showForce = !o.showForce
	}
}

// Draw renders enabled overlay layers onto the screen.
func (o *Overlay) Draw(screen *ebiten.Image, painter *render.GridPainter) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}

	if o.showHeat {
		if provider, ok := o.sim.(heatProvider); ok {
			painter.BlitMask(screen, provider.AmbientHeat(), color.RGBA{R: 255, G: 110, B: 30, A: 160}, scale)
		}
	}

	if o.showForce {
		if provider, ok := o.sim.(forceFieldProvider); ok {
			o.drawForceField(screen, provider, size, scale)
		}
	}
}

func (o *Overlay) drawForceField(screen *ebiten.Image, provider forceFieldProvider, size core.Size, scale int) {
	if o.pixel == nil {
		return
	}
	o.ensureForceSamples(size, scale)

	const (
		calmThreshold = 0.02
		headAngle     = math.Pi / 6
	)

	span := float64(forceSpacing(size)) * float64(scale)
	maxLength := span * 0.7

	for _, sample := range o.forceSamples {
		rawX, rawY := provider.ForceAt(sample.gx, sample.gy)
		fx, fy := float64(rawX), float64(rawY)
		mag := math.Hypot(fx, fy)
		if mag < calmThreshold {
			o.drawPoint(screen, sample.sx, sample.sy, float64(scale)*0.75, color.RGBA{R: 90, G: 130, B: 170, A: 120})
			continue
		}

		nx := fx / mag
		ny := fy / mag
		length := maxLength * clamp01(mag)
		if length < float64(scale) {
			length = float64(scale)
		}
		headLength := length * 0.3
		tipX := sample.sx + nx*length*0.5
		tipY := sample.sy + ny*length*0.5
		tailX := sample.sx - nx*length*0.5
		tailY := sample.sy - ny*length*0.5

		thickness := float64(scale) * 0.8
		if thickness < 1 {
			thickness = 1
		}

		col := forceColor(clamp01(mag))
		o.drawLine(screen, tailX, tailY, tipX-nx*headLength, tipY-ny*headLength, thickness, col)

		angle := math.Atan2(ny, nx)
		leftX := tipX - math.Cos(angle+headAngle)*headLength
		leftY := tipY - math.Sin(angle+headAngle)*headLength
		rightX := tipX - math.Cos(angle-headAngle)*headLength
		rightY := tipY - math.Sin(angle-headAngle)*headLength
		o.drawLine(screen, tipX, tipY, leftX, leftY, thickness*0.85, col)
		o.drawLine(screen, tipX, tipY, rightX, rightY, thickness*0.85, col)
	}
}

func forceSpacing(size core.Size) int {
	const (
		targetSamples = 360.0
		minSpacing    = 6
		maxSpacing    = 20
	)
	area := float64(size.W * size.H)
	spacing := int(math.Sqrt(area / targetSamples))
	if spacing < minSpacing {
		spacing = minSpacing
	}
	if spacing > maxSpacing {
		spacing = maxSpacing
	}
	return spacing
}

func (o *Overlay) ensureForceSamples(size core.Size, scale int) {
	if o.forceCacheW == size.W && o.forceCacheH == size.H && len(o.forceSamples) > 0 {
		return
	}
	spacing := forceSpacing(size)

	o.forceSamples = o.forceSamples[:0]
	for y := spacing / 2; y < size.H; y += spacing {
		for x := spacing / 2; x < size.W; x += spacing {
			sx := (float64(x) + 0.5) * float64(scale)
			sy := (float64(y) + 0.5) * float64(scale)
			o.forceSamples = append(o.forceSamples, forceSample{gx: x, gy: y, sx: sx, sy: sy})
		}
	}
	o.forceCacheW = size.W
	o.forceCacheH = size.H
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	if size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if thickness <= 0 {
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

func forceColor(t float64) color.RGBA {
	r := uint8(math.Round(80 + 150*t))
	g := uint8(math.Round(170 + 40*t))
	b := uint8(math.Round(230 - 80*t))
	a := uint8(math.Round(150 + 90*t))
	return color.RGBA{R: r, G: g, B: b, A: a}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
