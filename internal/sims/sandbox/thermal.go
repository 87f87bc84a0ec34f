package sandbox

import "sandfall/internal/core"

// stepThermal updates per-particle temperatures: exchange with the ambient
// field attenuated by thermal capacity, then conduction with the four
// immediate neighbors. Empty cells pass through unchanged. Material ids are
// never modified by this pass.
func (w *World) stepThermal() {
	p := w.cfg.Params

	core.ParallelRows(w.h, w.workers, func(y int) {
		for x := 0; x < w.w; x++ {
			idx := y*w.w + x
			cur := w.cellsCurr[idx]
			if cur.Type == MaterialEmpty {
				w.cellsNext[idx] = cur
				continue
			}

			d := w.table.Lookup(cur.Type)
			t := float64(cur.Temp)

			// Ambient exchange: high-capacity materials give up
			// little of the delta.
			amb := float64(w.ambCurr[idx].Temp)
			t += (amb - t) * p.ExchangeRate * (1 - d.Capacity)

			// Neighbor conduction. Same-material contact diffuses
			// fast; a material boundary is governed by the worse
			// conductor.
			var acc float64
			for _, n := range [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}} {
				nc := w.cellAt(x+n[0], y+n[1])
				if nc.Type == MaterialEmpty {
					continue
				}
				var rate float64
				if nc.Type == cur.Type {
					rate = 0.3 + 0.5*d.Conductivity
				} else {
					nd := w.table.Lookup(nc.Type)
					rate = 0.2 * minFloat(d.Conductivity, nd.Conductivity)
				}
				acc += rate * (float64(nc.Temp) - t)
			}
			// Averaged over the four neighbors so the summed pull can
			// never overshoot the neighborhood mean.
			t += acc * 0.25

			w.cellsNext[idx] = Cell{Type: cur.Type, Temp: clampTemp(t)}
		}
	})

	w.cellsCurr, w.cellsNext = w.cellsNext, w.cellsCurr
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
