package sandbox

// MaterialKind identifies the material occupying a grid cell. Ids are grouped
// into contiguous category ranges so that every id in [0, 255] resolves to a
// descriptor: unregistered ids fall back to their category base.
type MaterialKind uint8

// Category classifies materials by gross physical behavior.
type Category uint8

const (
	CategoryEmpty Category = iota
	CategoryStatic
	CategorySolid
	CategoryLiquid
	CategoryGas
	// CategoryEntity is reserved for externally controlled occupants. The
	// automaton treats entity cells exactly like static ones.
	CategoryEntity
)

// Category id ranges.
const (
	staticFirst MaterialKind = 1
	staticLast  MaterialKind = 31
	solidFirst  MaterialKind = 32
	solidLast   MaterialKind = 95
	liquidFirst MaterialKind = 96
	liquidLast  MaterialKind = 159
	gasFirst    MaterialKind = 160
	gasLast     MaterialKind = 223
	entityFirst MaterialKind = 224
)

// Registered materials. Each category's first id doubles as its base
// descriptor slot.
const (
	MaterialEmpty MaterialKind = 0

	MaterialWall    MaterialKind = 1
	MaterialBedrock MaterialKind = 2

	MaterialSand   MaterialKind = 32
	MaterialDirt   MaterialKind = 33
	MaterialGravel MaterialKind = 34
	MaterialSnow   MaterialKind = 35
	MaterialSalt   MaterialKind = 36

	MaterialWater MaterialKind = 96
	MaterialOil   MaterialKind = 97
	MaterialLava  MaterialKind = 98
	MaterialAcid  MaterialKind = 99

	MaterialSteam MaterialKind = 160
	MaterialSmoke MaterialKind = 161
)

// Category returns the physical category for a material id.
func (m MaterialKind) Category() Category {
	switch {
	case m == MaterialEmpty:
		return CategoryEmpty
	case m <= staticLast:
		return CategoryStatic
	case m <= solidLast:
		return CategorySolid
	case m <= liquidLast:
		return CategoryLiquid
	case m <= gasLast:
		return CategoryGas
	default:
		return CategoryEntity
	}
}

// Movable reports whether the automaton may displace this material.
func (m MaterialKind) Movable() bool {
	c := m.Category()
	return c == CategorySolid || c == CategoryLiquid
}

// Descriptor holds the static physical constants for one material.
type Descriptor struct {
	Name string
	// Density in arbitrary mass units; ordering is what matters for
	// buoyancy swaps.
	Density float64
	// Friction is the base used for topple probability. Higher values
	// topple less readily.
	Friction float64
	// Conductivity in [0, 1] scales how fast heat crosses this material.
	Conductivity float64
	// Capacity in [0, 1]; high-capacity materials retain emitted heat and
	// lose little per ambient exchange.
	Capacity float64
	// DefaultTemp, MeltPoint and BoilPoint are in Kelvin.
	DefaultTemp uint16
	MeltPoint   uint16
	BoilPoint   uint16
}

// Table resolves every material id to a descriptor.
type Table struct {
	desc [256]Descriptor
}

// NewTable builds the default material table: category bases for all 256 ids,
// then the registered materials on top.
func NewTable() *Table {
	t := &Table{}

	empty := Descriptor{Name: "empty", DefaultTemp: 298}
	static := Descriptor{Name: "static", Density: 10, Friction: 1, Conductivity: 0.3, Capacity: 0.8, DefaultTemp: 298, MeltPoint: 2000, BoilPoint: 4000}
	solid := Descriptor{Name: "solid", Density: 2.0, Friction: 0.6, Conductivity: 0.3, Capacity: 0.5, DefaultTemp: 298, MeltPoint: 1500, BoilPoint: 3000}
	liquid := Descriptor{Name: "liquid", Density: 1.0, Friction: 0.05, Conductivity: 0.6, Capacity: 0.7, DefaultTemp: 298, MeltPoint: 273, BoilPoint: 373}
	gas := Descriptor{Name: "gas", Density: 0.05, Friction: 0.0, Conductivity: 0.1, Capacity: 0.1, DefaultTemp: 330, MeltPoint: 0, BoilPoint: 0}
	entity := Descriptor{Name: "entity", Density: 5, Friction: 1, Conductivity: 0.2, Capacity: 0.9, DefaultTemp: 310, MeltPoint: 65535, BoilPoint: 65535}

	for i := 0; i < 256; i++ {
		switch MaterialKind(i).Category() {
		case CategoryEmpty:
			t.desc[i] = empty
		case CategoryStatic:
			t.desc[i] = static
		case CategorySolid:
			t.desc[i] = solid
		case CategoryLiquid:
			t.desc[i] = liquid
		case CategoryGas:
			t.desc[i] = gas
		default:
			t.desc[i] = entity
		}
	}

	t.Register(MaterialWall, Descriptor{Name: "wall", Density: 12, Friction: 1, Conductivity: 0.2, Capacity: 0.85, DefaultTemp: 298, MeltPoint: 2200, BoilPoint: 5000})
	t.Register(MaterialBedrock, Descriptor{Name: "bedrock", Density: 15, Friction: 1, Conductivity: 0.15, Capacity: 0.9, DefaultTemp: 298, MeltPoint: 3000, BoilPoint: 6000})

	t.Register(MaterialSand, Descriptor{Name: "sand", Density: 2.2, Friction: 0.55, Conductivity: 0.25, Capacity: 0.45, DefaultTemp: 298, MeltPoint: 1970, BoilPoint: 3200})
	t.Register(MaterialDirt, Descriptor{Name: "dirt", Density: 1.8, Friction: 0.75, Conductivity: 0.2, Capacity: 0.5, DefaultTemp: 298, MeltPoint: 1800, BoilPoint: 3000})
	t.Register(MaterialGravel, Descriptor{Name: "gravel", Density: 2.6, Friction: 0.85, Conductivity: 0.3, Capacity: 0.55, DefaultTemp: 298, MeltPoint: 1900, BoilPoint: 3100})
	t.Register(MaterialSnow, Descriptor{Name: "snow", Density: 0.4, Friction: 0.35, Conductivity: 0.1, Capacity: 0.2, DefaultTemp: 263, MeltPoint: 273, BoilPoint: 373})
	t.Register(MaterialSalt, Descriptor{Name: "salt", Density: 2.1, Friction: 0.5, Conductivity: 0.2, Capacity: 0.4, DefaultTemp: 298, MeltPoint: 1074, BoilPoint: 1686})

	t.Register(MaterialWater, Descriptor{Name: "water", Density: 1.0, Friction: 0.02, Conductivity: 0.65, Capacity: 0.75, DefaultTemp: 298, MeltPoint: 273, BoilPoint: 373})
	t.Register(MaterialOil, Descriptor{Name: "oil", Density: 0.85, Friction: 0.04, Conductivity: 0.3, Capacity: 0.6, DefaultTemp: 298, MeltPoint: 220, BoilPoint: 570})
	t.Register(MaterialLava, Descriptor{Name: "lava", Density: 3.1, Friction: 0.3, Conductivity: 0.8, Capacity: 0.95, DefaultTemp: 1500, MeltPoint: 1000, BoilPoint: 3500})
	t.Register(MaterialAcid, Descriptor{Name: "acid", Density: 1.2, Friction: 0.03, Conductivity: 0.55, Capacity: 0.65, DefaultTemp: 298, MeltPoint: 235, BoilPoint: 383})

	t.Register(MaterialSteam, Descriptor{Name: "steam", Density: 0.03, Friction: 0, Conductivity: 0.4, Capacity: 0.15, DefaultTemp: 380, MeltPoint: 273, BoilPoint: 373})
	t.Register(MaterialSmoke, Descriptor{Name: "smoke", Density: 0.02, Friction: 0, Conductivity: 0.15, Capacity: 0.1, DefaultTemp: 400, MeltPoint: 0, BoilPoint: 0})

	return t
}

// Register overwrites the descriptor for a material id.
func (t *Table) Register(m MaterialKind, d Descriptor) {
	t.desc[m] = d
}

// Lookup returns the descriptor for a material id. Every id resolves; ids
// without an explicit registration carry their category base.
func (t *Table) Lookup(m MaterialKind) *Descriptor {
	return &t.desc[m]
}

// Thermal expansion coefficients per category, applied per Kelvin of
// deviation from the material's default temperature. Gases expand most.
const (
	expansionSolid  = 0.0002
	expansionLiquid = 0.0008
	expansionGas    = 0.0030

	effectiveDensityMin = 0.2
	effectiveDensityMax = 3.5
)

// EffectiveDensity adjusts a material's base density for its current
// temperature. The result is clamped to [0.2, 3.5] times base density.
func (t *Table) EffectiveDensity(m MaterialKind, temp uint16) float64 {
	d := t.Lookup(m)
	var coeff float64
	switch m.Category() {
	case CategorySolid:
		coeff = expansionSolid
	case CategoryLiquid:
		coeff = expansionLiquid
	case CategoryGas:
		coeff = expansionGas
	default:
		return d.Density
	}
	dev := float64(temp) - float64(d.DefaultTemp)
	denom := 1 + coeff*dev
	scale := effectiveDensityMax
	if denom > 0 {
		scale = 1 / denom
	}
	if scale < effectiveDensityMin {
		scale = effectiveDensityMin
	} else if scale > effectiveDensityMax {
		scale = effectiveDensityMax
	}
	return d.Density * scale
}
