package sandbox

import pkgcore "sandfall/pkg/core"

// BuildableKind enumerates the external emitter/absorber record types applied
// as a pre-pass before each tick.
type BuildableKind uint8

const (
	// BuildSource spawns Material into empty cells.
	BuildSource BuildableKind = iota
	// BuildSink deletes non-static occupants.
	BuildSink
	// BuildHeatSource raises cell temperature proportional to Intensity.
	BuildHeatSource
	// BuildColdSource lowers cell temperature proportional to Intensity.
	BuildColdSource
)

// Buildable is one active placement record. Lifetime bookkeeping and record
// expiry belong to the caller; the simulation only consumes the effect.
type Buildable struct {
	Kind     BuildableKind
	X, Y     int
	Radius   int
	Material MaterialKind
	// Intensity scales heat/cold sources, in Kelvin per tick at rate 1.
	Intensity float64
	// Rate is the per-tick application probability for sources and sinks,
	// and a straight multiplier for thermal records.
	Rate float64
}

const saltBuildable = 0x626c6470

// SetBuildables replaces the list of records applied before each tick.
func (w *World) SetBuildables(list []Buildable) {
	w.buildables = list
}

// applyBuildables mutates the current generation in place before the
// automaton runs. Randomness is position- and tick-derived so the pre-pass is
// as reproducible as the passes behind it.
func (w *World) applyBuildables(seed uint64) {
	for ri, rec := range w.buildables {
		r := rec.Radius
		if r < 0 {
			r = 0
		}
		r2 := r * r
		recSeed := seed ^ pkgcore.Mix64(uint64(ri)+saltBuildable)
		for dy := -r; dy <= r; dy++ {
			y := rec.Y + dy
			if y < 0 || y >= w.h {
				continue
			}
			for dx := -r; dx <= r; dx++ {
				if dx*dx+dy*dy > r2 {
					continue
				}
				x := rec.X + dx
				if x < 0 || x >= w.w {
					continue
				}
				idx := y*w.w + x
				cell := &w.cellsCurr[idx]
				switch rec.Kind {
				case BuildSource:
					if cell.Type != MaterialEmpty {
						continue
					}
					if pkgcore.Unit(x, y, recSeed) < rec.Rate {
						*cell = Cell{Type: rec.Material, Temp: w.table.Lookup(rec.Material).DefaultTemp}
					}
				case BuildSink:
					cat := cell.Type.Category()
					if cat == CategoryEmpty || cat == CategoryStatic || cat == CategoryEntity {
						continue
					}
					if pkgcore.Unit(x, y, recSeed) < rec.Rate {
						*cell = Cell{Type: MaterialEmpty, Temp: cell.Temp}
					}
				case BuildHeatSource:
					cell.Temp = clampTemp(float64(cell.Temp) + rec.Intensity*rec.Rate)
				case BuildColdSource:
					cell.Temp = clampTemp(float64(cell.Temp) - rec.Intensity*rec.Rate)
				}
			}
		}
	}
}
