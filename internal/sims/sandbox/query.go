package sandbox

// Hazard is a bitmask of environmental dangers at a grid position, derived
// from the material table and the current generation.
type Hazard uint8

const (
	HazardHot Hazard = 1 << iota
	HazardCold
	HazardCorrosive

	HazardNone Hazard = 0
)

// Hazard temperature thresholds in Kelvin.
const (
	hazardHotTemp  = 773
	hazardColdTemp = 240
)

// Classification is the read-only answer to a collision query. External
// consumers (player controllers, NPCs) use it without ever touching the grid.
type Classification struct {
	Blocking bool
	Density  float32
	Hazard   Hazard
}

// Classify reports how the cell at (x, y) interacts with an external body.
// Out-of-bounds positions classify as a solid boundary.
func (w *World) Classify(x, y int) Classification {
	if x < 0 || x >= w.w || y < 0 || y >= w.h {
		return Classification{Blocking: true, Density: float32(w.table.Lookup(MaterialBedrock).Density)}
	}
	cell := w.cellsCurr[y*w.w+x]
	cat := cell.Type.Category()

	c := Classification{
		Blocking: cat == CategoryStatic || cat == CategorySolid || cat == CategoryEntity,
		Density:  float32(w.table.EffectiveDensity(cell.Type, cell.Temp)),
	}
	if cell.Temp >= hazardHotTemp {
		c.Hazard |= HazardHot
	}
	if cell.Temp <= hazardColdTemp && cell.Type != MaterialEmpty {
		c.Hazard |= HazardCold
	}
	if cell.Type == MaterialAcid {
		c.Hazard |= HazardCorrosive
	}
	return c
}
