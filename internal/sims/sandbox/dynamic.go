package sandbox

import (
	"math"

	"sandfall/internal/core"
)

// ParticleFlags records the lifecycle state of a dynamic particle slot.
type ParticleFlags uint8

const (
	// FlagActive marks an occupied slot.
	FlagActive ParticleFlags = 1 << iota
	// FlagJustSpawned marks a particle extracted this tick; it carries the
	// extraction metadata for the confirm-then-clear pass and is dropped on
	// the first simulation step.
	FlagJustSpawned
	// FlagFromMomentum marks particles spawned by impact splashes rather
	// than field extraction.
	FlagFromMomentum
	// FlagSettling marks a particle whose speed fell below the settle
	// threshold; it waits for an empty target cell.
	FlagSettling
	// flagWritten marks a settled particle already copied into the grid,
	// awaiting the confirm pass that clears its slot.
	flagWritten
)

// Particle is one slot of the fixed-capacity dynamic buffer. An inactive slot
// is fully zeroed; an active slot's position lies inside world bounds.
type Particle struct {
	X, Y     float32
	VX, VY   float32
	Material MaterialKind
	Temp     uint16
	Flags    ParticleFlags
	Lifetime uint32
}

// Speed returns the particle's velocity magnitude.
func (p *Particle) Speed() float64 {
	return math.Hypot(float64(p.VX), float64(p.VY))
}

// Active reports whether the slot is occupied.
func (p *Particle) Active() bool { return p.Flags&FlagActive != 0 }

// DynamicBuffer is the fixed-capacity pool of particles simulated outside the
// grid. Grid positions hash to slots; a saturated slot silently drops new
// extractions.
type DynamicBuffer struct {
	slots []Particle
}

// NewDynamicBuffer allocates a buffer with the given capacity.
func NewDynamicBuffer(capacity int) *DynamicBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &DynamicBuffer{slots: make([]Particle, capacity)}
}

// Slots exposes the backing slice. Readers must treat it as a snapshot.
func (b *DynamicBuffer) Slots() []Particle { return b.slots }

// ActiveCount returns the number of occupied slots.
func (b *DynamicBuffer) ActiveCount() int {
	n := 0
	for i := range b.slots {
		if b.slots[i].Active() {
			n++
		}
	}
	return n
}

// Clear zeroes every slot.
func (b *DynamicBuffer) Clear() {
	for i := range b.slots {
		b.slots[i] = Particle{}
	}
}

// slotFor maps a grid position to its assigned buffer slot.
func (b *DynamicBuffer) slotFor(idx int) int {
	return idx % len(b.slots)
}

// stepDynamic runs the full out-of-grid pipeline for one tick. Each phase
// reads the state the previous phase froze and writes its own outputs; the
// confirm phases re-read the buffer before touching the grid so sparse
// sampling can never lose or duplicate a particle.
func (w *World) stepDynamic(tick uint64) {
	w.extract(tick)
	w.confirmExtractions()
	w.simulateParticles()
	w.collideParticles()
	w.reintegrate(tick)
	w.confirmReintegrations()
}

// extract scans the grid for cells whose local force exceeds the ejection
// threshold and spawns them into their hash slot. Scanning the full grid
// every tick is prohibitive, so each slot samples only every strideth
// candidate, with the offset rotating by tick; over stride ticks every
// candidate is visited.
func (w *World) extract(tick uint64) {
	stride := w.cfg.Params.SampleStride
	if stride <= 0 {
		stride = 1
	}
	offset := int(tick) % stride
	n := len(w.dyn.slots)
	total := w.w * w.h

	core.ParallelRows(n, w.workers, func(s int) {
		slot := &w.dyn.slots[s]
		if slot.Active() {
			return
		}
		for k := offset; ; k += stride {
			idx := s + k*n
			if idx >= total {
				break
			}
			if !w.extractable(idx) {
				continue
			}
			cell := w.cellsCurr[idx]
			a := w.ambCurr[idx]
			vx := float64(a.FX) * w.cfg.Params.ExtractSpeed
			vy := float64(a.FY) * w.cfg.Params.ExtractSpeed
			if speed := math.Hypot(vx, vy); speed > w.cfg.Params.ExtractSpeedMax && speed > 0 {
				scale := w.cfg.Params.ExtractSpeedMax / speed
				vx *= scale
				vy *= scale
			}
			*slot = Particle{
				X:        float32(idx%w.w) + 0.5,
				Y:        float32(idx/w.w) + 0.5,
				VX:       float32(vx),
				VY:       float32(vy),
				Material: cell.Type,
				Temp:     cell.Temp,
				Flags:    FlagActive | FlagJustSpawned,
			}
			return
		}
	})
}

// confirmExtractions re-reads the buffer and clears the grid cell behind each
// JustSpawned particle, but only if the cell still holds the sampled
// material. A mismatch means extraction raced something else; the slot is
// dropped so the particle is never represented twice.
func (w *World) confirmExtractions() {
	for s := range w.dyn.slots {
		slot := &w.dyn.slots[s]
		if slot.Flags&FlagJustSpawned == 0 {
			continue
		}
		x := int(slot.X)
		y := int(slot.Y)
		if x < 0 || x >= w.w || y < 0 || y >= w.h {
			*slot = Particle{}
			continue
		}
		idx := y*w.w + x
		if w.cellsCurr[idx].Type != slot.Material {
			*slot = Particle{}
			continue
		}
		w.cellsCurr[idx] = Cell{Type: MaterialEmpty, Temp: w.cellsCurr[idx].Temp}
	}
}

// simulateParticles integrates every ballistic particle: gravity, local
// force-field coupling, drag, and an elastic bounce off the world boundary.
func (w *World) simulateParticles() {
	p := w.cfg.Params
	core.ParallelRows(len(w.dyn.slots), w.workers, func(s int) {
		slot := &w.dyn.slots[s]
		if !slot.Active() || slot.Flags&(FlagSettling|flagWritten) != 0 {
			return
		}
		slot.Flags &^= FlagJustSpawned

		fx, fy := w.ForceAt(int(slot.X), int(slot.Y))
		vx := float64(slot.VX) + float64(fx)*p.ForceCoupling
		vy := float64(slot.VY) + p.Gravity + float64(fy)*p.ForceCoupling
		vx *= p.Drag
		vy *= p.Drag

		x := float64(slot.X) + vx
		y := float64(slot.Y) + vy

		maxX := float64(w.w) - 1e-3
		maxY := float64(w.h) - 1e-3
		if x < 0 {
			x = -x
			vx = -vx * p.Restitution
		} else if x >= maxX {
			x = 2*maxX - x
			vx = -vx * p.Restitution
		}
		if y < 0 {
			y = -y
			vy = -vy * p.Restitution
		} else if y >= maxY {
			y = 2*maxY - y
			vy = -vy * p.Restitution
		}
		if x < 0 {
			x = 0
		} else if x >= maxX {
			x = maxX
		}
		if y < 0 {
			y = 0
		} else if y >= maxY {
			y = maxY
		}

		slot.X = float32(x)
		slot.Y = float32(y)
		slot.VX = float32(vx)
		slot.VY = float32(vy)
		slot.Lifetime++
	})
}

// collideParticles ray-marches each particle's last displacement against the
// grid. Static hits reflect about an estimated surface normal scaled by the
// restitution coefficient; hits on movable occupants just damp the velocity.
// Particles slower than the settle threshold stop and wait for reintegration.
func (w *World) collideParticles() {
	p := w.cfg.Params
	core.ParallelRows(len(w.dyn.slots), w.workers, func(s int) {
		slot := &w.dyn.slots[s]
		if !slot.Active() || slot.Flags&(FlagSettling|flagWritten) != 0 {
			return
		}

		vx := float64(slot.VX)
		vy := float64(slot.VY)
		speed := math.Hypot(vx, vy)
		if speed > p.MaxTraversal && speed > 0 {
			scale := p.MaxTraversal / speed
			vx *= scale
			vy *= scale
			speed = p.MaxTraversal
		}

		steps := int(math.Ceil(speed))
		if steps < 1 {
			steps = 1
		}
		if steps > p.MaxSubSteps {
			steps = p.MaxSubSteps
		}

		// March backwards from the integrated position across the
		// displacement segment, stopping at the first occupied sample.
		startX := float64(slot.X) - vx
		startY := float64(slot.Y) - vy
		stepX := vx / float64(steps)
		stepY := vy / float64(steps)
		freeX, freeY := startX, startY
		hit := MaterialEmpty
		for i := 1; i <= steps; i++ {
			sx := startX + stepX*float64(i)
			sy := startY + stepY*float64(i)
			c := w.cellAt(int(sx), int(sy))
			if c.Type == MaterialEmpty || c.Type.Category() == CategoryGas {
				freeX, freeY = sx, sy
				continue
			}
			hit = c.Type
			break
		}

		if hit != MaterialEmpty {
			cat := hit.Category()
			if cat == CategoryStatic || cat == CategoryEntity {
				nx, ny := w.surfaceNormal(int(freeX), int(freeY))
				dot := vx*nx + vy*ny
				vx = (vx - 2*dot*nx) * p.Restitution
				vy = (vy - 2*dot*ny) * p.Restitution
			} else {
				// No momentum transfer against loose occupants,
				// only damping.
				vx *= 0.5
				vy *= 0.5
			}
			slot.X = clampCoord(freeX, float64(w.w))
			slot.Y = clampCoord(freeY, float64(w.h))
			slot.VX = float32(vx)
			slot.VY = float32(vy)
		}

		if math.Hypot(vx, vy) < p.SettleSpeed {
			slot.Flags |= FlagSettling
			slot.VX = 0
			slot.VY = 0
		}
	})
}

// surfaceNormal estimates the local surface normal at a free cell by
// averaging the directions away from occupied neighbors. Falls back to
// straight up, the dominant case for particles landing on terrain.
func (w *World) surfaceNormal(x, y int) (float64, float64) {
	var nx, ny float64
	for _, n := range [8][2]int{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	} {
		c := w.cellAt(x+n[0], y+n[1])
		if c.Type != MaterialEmpty && c.Type.Category() != CategoryGas {
			nx -= float64(n[0])
			ny -= float64(n[1])
		}
	}
	mag := math.Hypot(nx, ny)
	if mag < 1e-6 {
		return 0, -1
	}
	return nx / mag, ny / mag
}

func clampCoord(v, limit float64) float32 {
	if v < 0 {
		v = 0
	} else if v >= limit-1e-3 {
		v = limit - 1e-3
	}
	return float32(v)
}

// reintegrate writes settling particles back into the grid. Only a rotating
// subset of slots is attempted per tick, and only Empty or Gas cells are ever
// overwritten. The slot itself is cleared by the confirm pass that follows.
func (w *World) reintegrate(tick uint64) {
	stride := w.cfg.Params.SampleStride
	if stride <= 0 {
		stride = 1
	}
	for s := range w.dyn.slots {
		if (s+int(tick))%stride != 0 {
			continue
		}
		slot := &w.dyn.slots[s]
		if !slot.Active() || slot.Flags&FlagSettling == 0 || slot.Flags&flagWritten != 0 {
			continue
		}
		x := int(slot.X)
		y := int(slot.Y)
		if x < 0 || x >= w.w || y < 0 || y >= w.h {
			continue
		}
		idx := y*w.w + x
		target := w.cellsCurr[idx].Type
		if target != MaterialEmpty && target.Category() != CategoryGas {
			// Occupied; stay active and retry on a later tick.
			continue
		}
		w.cellsCurr[idx] = Cell{Type: slot.Material, Temp: slot.Temp}
		slot.Flags |= flagWritten
	}
}

// confirmReintegrations clears slots whose grid write is visible in the
// current generation. The two-step clear mirrors extraction: the buffer is
// only released once the grid provably owns the particle.
func (w *World) confirmReintegrations() {
	for s := range w.dyn.slots {
		slot := &w.dyn.slots[s]
		if slot.Flags&flagWritten == 0 {
			continue
		}
		x := int(slot.X)
		y := int(slot.Y)
		idx := y*w.w + x
		if w.cellsCurr[idx].Type == slot.Material {
			*slot = Particle{}
			continue
		}
		// The write is gone; surrender the flag and keep settling.
		slot.Flags &^= flagWritten
	}
}
