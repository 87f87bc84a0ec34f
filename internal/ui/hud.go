//go:build ebiten

package ui

import (
	"fmt"
	"image/color"
	"strconv"

	"sandfall/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type particleCounter interface {
	ActiveParticles() int
}

type tickCounter interface {
	Tick() uint64
}

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

// HUD draws the status line and drives keyboard parameter adjustment:
// Tab cycles the selected control, +/- nudges it by its step.
type HUD struct {
	sim core.Sim

	controls    []core.ParameterControl
	values      []float64
	selected    int
	intSetter   core.IntParameterSetter
	floatSetter core.FloatParameterSetter
}

// NewHUD constructs a HUD for the provided simulation.
func NewHUD(sim core.Sim) *HUD {
	h := &HUD{sim: sim}
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		h.controls = provider.ParameterControls()
		h.values = make([]float64, len(h.controls))
		h.seedValues()
	}
	if setter, ok := sim.(core.IntParameterSetter); ok {
		h.intSetter = setter
	}
	if setter, ok := sim.(core.FloatParameterSetter); ok {
		h.floatSetter = setter
	}
	return h
}

// seedValues pulls the current parameter values out of the sim snapshot so
// the HUD starts from the live configuration.
func (h *HUD) seedValues() {
	provider, ok := h.sim.(parameterProvider)
	if !ok {
		return
	}
	snapshot := provider.Parameters()
	byKey := map[string]string{}
	for _, group := range snapshot.Groups {
		for _, p := range group.Params {
			byKey[p.Key] = p.Value
		}
	}
	for i, ctrl := range h.controls {
		if raw, ok := byKey[ctrl.Key]; ok {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				h.values[i] = v
			}
		}
	}
}

// Update handles the adjustment keys.
func (h *HUD) Update() {
	if len(h.controls) == 0 {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		h.selected = (h.selected + 1) % len(h.controls)
	}
	dir := 0
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		dir = 1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		dir = -1
	}
	if dir == 0 {
		return
	}
	h.adjust(dir)
}

func (h *HUD) adjust(dir int) {
	ctrl := h.controls[h.selected]
	value := ctrl.Clamp(h.values[h.selected] + float64(dir)*ctrl.Step)
	applied := false
	switch ctrl.Type {
	case core.ParamTypeInt:
		if h.intSetter != nil {
			applied = h.intSetter.SetIntParameter(ctrl.Key, int(value))
		}
	default:
		if h.floatSetter != nil {
			applied = h.floatSetter.SetFloatParameter(ctrl.Key, value)
		}
	}
	if applied {
		h.values[h.selected] = value
	}
}

// Draw renders the status line and the selected control.
func (h *HUD) Draw(screen *ebiten.Image, paused bool) {
	status := h.sim.Name()
	if tc, ok := h.sim.(tickCounter); ok {
		status += fmt.Sprintf("  tick %d", tc.Tick())
	}
	if pc, ok := h.sim.(particleCounter); ok {
		status += fmt.Sprintf("  dyn %d", pc.ActiveParticles())
	}
	if paused {
		status += "  [paused]"
	}
	face := basicfont.Face7x13
	text.Draw(screen, status, face, 4, 14, color.White)

	if len(h.controls) > 0 {
		ctrl := h.controls[h.selected]
		line := fmt.Sprintf("%s: %s  (tab next, +/- adjust)", ctrl.Label, h.formatValue(ctrl, h.values[h.selected]))
		text.Draw(screen, line, face, 4, 30, color.RGBA{R: 200, G: 220, B: 255, A: 255})
	}
}

func (h *HUD) formatValue(ctrl core.ParameterControl, value float64) string {
	if ctrl.Type == core.ParamTypeInt {
		return strconv.Itoa(int(value))
	}
	return strconv.FormatFloat(value, 'f', 2, 64)
}
