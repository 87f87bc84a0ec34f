package sandbox

import "math"

// ForceAt returns the ambient force vector at (x, y). Out-of-bounds positions
// carry no force.
func (w *World) ForceAt(x, y int) (float32, float32) {
	if x < 0 || x >= w.w || y < 0 || y >= w.h {
		return 0, 0
	}
	a := w.ambCurr[y*w.w+x]
	return a.FX, a.FY
}

// SetForce writes the ambient force vector at (x, y) into both generations so
// the value survives the next buffer swap. Components clamp to [-1, 1], the
// range the byte encoding can represent.
func (w *World) SetForce(x, y int, fx, fy float32) {
	if x < 0 || x >= w.w || y < 0 || y >= w.h {
		return
	}
	fx = decodeForce(encodeForce(fx))
	fy = decodeForce(encodeForce(fy))
	idx := y*w.w + x
	w.ambCurr[idx].FX, w.ambCurr[idx].FY = fx, fy
	w.ambNext[idx].FX, w.ambNext[idx].FY = fx, fy
}

// forceMagnitude returns |force| at a linear grid index.
func (w *World) forceMagnitude(idx int) float64 {
	a := w.ambCurr[idx]
	return math.Hypot(float64(a.FX), float64(a.FY))
}

// extractable reports whether the cell at a linear index may be ejected into
// the dynamic buffer: a movable material under sufficient force.
func (w *World) extractable(idx int) bool {
	if !w.cellsCurr[idx].Type.Movable() {
		return false
	}
	return w.forceMagnitude(idx) >= w.cfg.Params.EjectionThreshold
}
