package sandbox

import (
	"math"

	"sandfall/internal/core"
	pkgcore "sandfall/pkg/core"
)

const (
	saltJitterX = 0x6a783031
	saltJitterY = 0x6a793032

	ambientDiffusionRadius = 2
)

// stepAmbient advances the environmental layer one pass: emission from
// occupied cells, inverse-distance diffusion with positional jitter, and
// relaxation toward the equilibrium temperature. Force vectors pass through
// untouched.
func (w *World) stepAmbient(seed uint64) {
	p := w.cfg.Params

	core.ParallelRows(w.h, w.workers, func(y int) {
		for x := 0; x < w.w; x++ {
			idx := y*w.w + x
			cur := w.ambCurr[idx]
			t := float64(cur.Temp)
			cell := w.cellsCurr[idx]
			occupied := cell.Type != MaterialEmpty

			// Emission: blend toward the particle temperature rather
			// than copying it, for numerical stability.
			if occupied {
				d := w.table.Lookup(cell.Type)
				t += (float64(cell.Temp) - t) * d.Conductivity * p.EmissionRate
			}

			// Diffusion: radius-2 neighborhood, inverse-distance
			// weights, jittered sample center to break up
			// axis-aligned banding.
			jx := pkgcore.Unit(x, y, seed^saltJitterX) - 0.5
			jy := pkgcore.Unit(x, y, seed^saltJitterY) - 0.5
			var sum, wsum float64
			for dy := -ambientDiffusionRadius; dy <= ambientDiffusionRadius; dy++ {
				ny := y + dy
				if ny < 0 || ny >= w.h {
					continue
				}
				for dx := -ambientDiffusionRadius; dx <= ambientDiffusionRadius; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx := x + dx
					if nx < 0 || nx >= w.w {
						continue
					}
					dist := math.Hypot(float64(dx)+jx, float64(dy)+jy)
					if dist < 1e-6 {
						dist = 1e-6
					}
					wgt := 1 / dist
					sum += wgt * float64(w.ambCurr[ny*w.w+nx].Temp)
					wsum += wgt
				}
			}
			if wsum > 0 {
				rate := 0.9 * p.DiffusionRate
				if occupied {
					rate = 0.5 * p.DiffusionRate
				}
				t += (sum/wsum - t) * rate
			}

			// Equilibrium decay, capped per tick.
			delta := (p.EquilibriumTemp - t) * p.EquilibriumRate
			if delta > p.MaxAmbientDelta {
				delta = p.MaxAmbientDelta
			} else if delta < -p.MaxAmbientDelta {
				delta = -p.MaxAmbientDelta
			}
			t += delta

			w.ambNext[idx] = AmbientCell{
				Temp: quantizeToward(t, p.EquilibriumTemp),
				FX:   cur.FX,
				FY:   cur.FY,
			}
		}
	})

	w.ambCurr, w.ambNext = w.ambNext, w.ambCurr
}

// quantizeToward rounds a temperature in the direction of target. Rounding to
// nearest would cancel sub-degree decay deltas once |t-target| gets small and
// leave the field stuck a few Kelvin off equilibrium.
func quantizeToward(t, target float64) uint16 {
	if t > target {
		return clampTemp(math.Floor(t))
	}
	if t < target {
		return clampTemp(math.Ceil(t))
	}
	return clampTemp(t)
}

// clampTemp clamps a temperature to the representable 16-bit Kelvin range.
func clampTemp(t float64) uint16 {
	if t <= 0 {
		return 0
	}
	if t >= 65535 {
		return 65535
	}
	return uint16(t + 0.5)
}
