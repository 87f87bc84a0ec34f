//go:build ebiten

package app

import (
	"image/color"
	"log"
	"os"
	"time"

	"sandfall/internal/core"
	"sandfall/internal/render"
	"sandfall/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// paletteProvider is implemented by sims that render through a color palette.
type paletteProvider interface {
	Palette() []color.RGBA
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay

	palette []color.RGBA

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, scale int, seed int64) *Game {
	size := sim.Size()
	g := &Game{
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H),
		hud:     ui.NewHUD(sim),
		overlay: ui.NewOverlay(sim, scale),
		scale:   scale,
		seed:    seed,
	}
	if pp, ok := sim.(paletteProvider); ok {
		g.palette = pp.Palette()
	}
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.saveSnapshot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		g.loadSnapshot()
	}

	g.hud.Update()
	g.overlay.Update()

	if !g.paused || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	return nil
}

func (g *Game) snapshotPath() string {
	return g.sim.Name() + ".snapshot"
}

func (g *Game) saveSnapshot() {
	snap, ok := g.sim.(core.Snapshotter)
	if !ok {
		return
	}
	f, err := os.Create(g.snapshotPath())
	if err != nil {
		log.Printf("save snapshot: %v", err)
		return
	}
	defer f.Close()
	if err := snap.WriteSnapshot(f); err != nil {
		log.Printf("save snapshot: %v", err)
		return
	}
	log.Printf("saved %s", g.snapshotPath())
}

func (g *Game) loadSnapshot() {
	snap, ok := g.sim.(core.Snapshotter)
	if !ok {
		return
	}
	f, err := os.Open(g.snapshotPath())
	if err != nil {
		log.Printf("load snapshot: %v", err)
		return
	}
	defer f.Close()
	if err := snap.ReadSnapshot(f); err != nil {
		log.Printf("load snapshot: %v", err)
		return
	}
	log.Printf("loaded %s", g.snapshotPath())
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.palette, g.scale)
	g.overlay.Draw(screen, g.painter)
	g.hud.Draw(screen, g.paused)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W * g.scale, s.H * g.scale
}
