package sandbox

import (
	"sandfall/internal/core"
	pkgcore "sandfall/pkg/core"
)

// World owns every piece of simulation state: the double-buffered cell grid,
// the double-buffered ambient field, the material table, and the dynamic
// particle buffer. There are no package-level singletons; passes receive the
// world they operate on.
type World struct {
	cfg Config

	w, h int

	table *Table

	cellsCurr []Cell
	cellsNext []Cell
	ambCurr   []AmbientCell
	ambNext   []AmbientCell

	dyn *DynamicBuffer

	buildables []Buildable

	display *core.ByteGrid
	// seed is the effective seed of the last Reset; all in-tick randomness
	// derives from it, not from the configured default.
	seed    int64
	tick    uint64
	workers int

	rng *pkgcore.RNG
}

// New returns a sandbox simulation with the provided dimensions using
// defaults.
func New(w, h int) *World {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns a sandbox world configured from the provided options.
func NewWithConfig(cfg Config) *World {
	total := cfg.Width * cfg.Height
	if total < 0 {
		total = 0
	}
	w := &World{
		cfg:       cfg,
		w:         cfg.Width,
		h:         cfg.Height,
		table:     NewTable(),
		cellsCurr: make([]Cell, total),
		cellsNext: make([]Cell, total),
		ambCurr:   make([]AmbientCell, total),
		ambNext:   make([]AmbientCell, total),
		dyn:       NewDynamicBuffer(cfg.Params.MaxDynamic),
		display:   core.NewByteGrid(cfg.Width, cfg.Height),
		seed:      cfg.Seed,
		workers:   cfg.Workers,
		rng:       pkgcore.NewRNG(cfg.Seed),
	}
	return w
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "sandbox" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.w, H: w.h} }

// Cells exposes the current display buffer.
func (w *World) Cells() []uint8 { return w.display.Cells() }

// Grid exposes the current cell generation.
func (w *World) Grid() []Cell { return w.cellsCurr }

// Ambient exposes the current ambient generation.
func (w *World) Ambient() []AmbientCell { return w.ambCurr }

// Dynamic exposes the dynamic particle buffer.
func (w *World) Dynamic() *DynamicBuffer { return w.dyn }

// Materials exposes the material table.
func (w *World) Materials() *Table { return w.table }

// Tick reports the number of completed simulation ticks since Reset.
func (w *World) Tick() uint64 { return w.tick }

// ActiveParticles reports how many dynamic buffer slots are occupied.
func (w *World) ActiveParticles() int { return w.dyn.ActiveCount() }

// AmbientHeat returns a normalized view of the ambient temperature field for
// overlays: 0 at the equilibrium temperature, 1 at 1000K or more above it.
func (w *World) AmbientHeat() []float32 {
	eq := w.cfg.Params.EquilibriumTemp
	out := make([]float32, len(w.ambCurr))
	for i, a := range w.ambCurr {
		v := (float64(a.Temp) - eq) / 1000
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		out[i] = float32(v)
	}
	return out
}

// SetCell writes a cell into the current generation. Intended for tooling and
// tests; out-of-bounds writes are ignored.
func (w *World) SetCell(x, y int, c Cell) {
	if x < 0 || x >= w.w || y < 0 || y >= w.h {
		return
	}
	w.cellsCurr[y*w.w+x] = c
}

// PlaceMaterial writes a material at its default temperature.
func (w *World) PlaceMaterial(x, y int, m MaterialKind) {
	w.SetCell(x, y, Cell{Type: m, Temp: w.table.Lookup(m).DefaultTemp})
}

// Reset prepares the initial world using deterministic randomness: clean
// buffers at equilibrium temperature, a bedrock floor, scattered walls, sand
// piles, and a water pool.
func (w *World) Reset(seed int64) {
	if w.w == 0 || w.h == 0 {
		return
	}
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.rng = pkgcore.NewRNG(effective)
	w.seed = effective
	w.tick = 0
	w.dyn.Clear()

	eq := clampTemp(w.cfg.Params.EquilibriumTemp)
	total := w.w * w.h
	for i := 0; i < total; i++ {
		w.cellsCurr[i] = Cell{Type: MaterialEmpty, Temp: eq}
		w.ambCurr[i] = AmbientCell{Temp: eq}
	}

	w.seedTerrain()

	copy(w.cellsNext, w.cellsCurr)
	copy(w.ambNext, w.ambCurr)
	w.rebuildDisplay()
}

func (w *World) seedTerrain() {
	p := w.cfg.Params

	// Bedrock floor.
	for x := 0; x < w.w; x++ {
		w.PlaceMaterial(x, w.h-1, MaterialBedrock)
	}

	// Scattered wall fragments.
	if p.WallChance > 0 {
		for y := 0; y < w.h-1; y++ {
			for x := 0; x < w.w; x++ {
				if w.rng.Float64() < p.WallChance {
					w.PlaceMaterial(x, y, MaterialWall)
				}
			}
		}
	}

	// Sand piles.
	for i := 0; i < p.SandPileCount; i++ {
		cx := w.rng.IntN(w.w)
		cy := w.rng.IntN(w.h * 3 / 4)
		r := p.SandPileRadius
		r2 := r * r
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx*dx+dy*dy > r2 {
					continue
				}
				x, y := cx+dx, cy+dy
				if x < 0 || x >= w.w || y < 0 || y >= w.h-1 {
					continue
				}
				if w.cellsCurr[y*w.w+x].Type == MaterialEmpty {
					w.PlaceMaterial(x, y, MaterialSand)
				}
			}
		}
	}

	// Water pool in the bottom-left corner.
	if p.WaterPoolWidth > 0 {
		depth := 6
		for y := w.h - 1 - depth; y < w.h-1; y++ {
			if y < 0 {
				continue
			}
			for x := 0; x < p.WaterPoolWidth && x < w.w; x++ {
				if w.cellsCurr[y*w.w+x].Type == MaterialEmpty {
					w.PlaceMaterial(x, y, MaterialWater)
				}
			}
		}
	}
}

// Step advances the world one full tick: buildables pre-pass, the automaton
// generations, the two thermal passes, then the dynamic particle pipeline.
// Each pass reads a frozen generation and writes a fresh one; in-tick
// randomness derives only from position and the tick seed, so identical
// inputs produce identical outputs.
func (w *World) Step() {
	if w.w == 0 || w.h == 0 {
		return
	}

	tickSeed := pkgcore.Mix64(uint64(w.seed)) ^ pkgcore.Mix64(w.tick)

	w.applyBuildables(tickSeed)

	gens := w.cfg.Params.Generations
	if gens < 1 {
		gens = 1
	}
	for g := 0; g < gens; g++ {
		phase := int((w.tick*uint64(gens) + uint64(g)) % 4)
		w.stepMargolus(phase, tickSeed^pkgcore.Mix64(uint64(g)+1))
	}

	w.stepAmbient(tickSeed)
	w.stepThermal()
	w.stepDynamic(w.tick)

	w.tick++
	w.rebuildDisplay()
}

func init() {
	core.Register("sandbox", func(cfg map[string]string) core.Sim {
		c := FromMap(cfg)
		return NewWithConfig(c)
	})
}
