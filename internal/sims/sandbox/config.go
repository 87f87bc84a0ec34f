package sandbox

import "strconv"

// Params holds the tunable constants for the sandbox simulation.
type Params struct {
	// Automaton.
	Generations        int
	FrictionAmplifier  float64
	LateralSpreadBoost float64

	// Ambient heat field.
	EmissionRate    float64
	DiffusionRate   float64
	EquilibriumTemp float64
	EquilibriumRate float64
	MaxAmbientDelta float64

	// Particle thermal exchange.
	ExchangeRate float64

	// Force field / extraction.
	EjectionThreshold float64
	ExtractSpeed      float64
	ExtractSpeedMax   float64
	SampleStride      int

	// Dynamic particles.
	MaxDynamic    int
	Gravity       float64
	ForceCoupling float64
	Drag          float64
	Restitution   float64
	SettleSpeed   float64
	MaxSubSteps   int
	MaxTraversal  float64

	// Reset-time terrain seeding.
	WallChance     float64
	SandPileCount  int
	SandPileRadius int
	WaterPoolWidth int
}

// Config controls the sandbox simulation dimensions and tunables.
type Config struct {
	Width  int
	Height int

	Seed int64

	Workers int

	Params Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  256,
		Height: 256,
		Seed:   1337,
		Params: Params{
			Generations:        2,
			FrictionAmplifier:  1.0,
			LateralSpreadBoost: 1.0,

			EmissionRate:    0.35,
			DiffusionRate:   0.5,
			EquilibriumTemp: 298,
			EquilibriumRate: 0.02,
			MaxAmbientDelta: 40,

			ExchangeRate: 0.25,

			EjectionThreshold: 0.55,
			ExtractSpeed:      2.5,
			ExtractSpeedMax:   4.0,
			SampleStride:      4,

			MaxDynamic:    1024,
			Gravity:       0.35,
			ForceCoupling: 0.6,
			Drag:          0.98,
			Restitution:   0.45,
			SettleSpeed:   0.08,
			MaxSubSteps:   8,
			MaxTraversal:  6,

			WallChance:     0.015,
			SandPileCount:  8,
			SandPileRadius: 10,
			WaterPoolWidth: 48,
		},
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["generations"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.Generations = parsed
		}
	}
	if v, ok := cfg["friction_amplifier"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.FrictionAmplifier = parsed
		}
	}
	if v, ok := cfg["emission_rate"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.EmissionRate = parsed
		}
	}
	if v, ok := cfg["diffusion_rate"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.DiffusionRate = parsed
		}
	}
	if v, ok := cfg["equilibrium_temp"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.EquilibriumTemp = parsed
		}
	}
	if v, ok := cfg["equilibrium_rate"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.EquilibriumRate = parsed
		}
	}
	if v, ok := cfg["exchange_rate"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.ExchangeRate = parsed
		}
	}
	if v, ok := cfg["ejection_threshold"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.EjectionThreshold = parsed
		}
	}
	if v, ok := cfg["max_dynamic"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.MaxDynamic = parsed
		}
	}
	if v, ok := cfg["gravity"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Params.Gravity = parsed
		}
	}
	if v, ok := cfg["restitution"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Params.Restitution = parsed
		}
	}
	if v, ok := cfg["settle_speed"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.SettleSpeed = parsed
		}
	}
	if v, ok := cfg["sample_stride"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.SampleStride = parsed
		}
	}
	if v, ok := cfg["wall_chance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.WallChance = parsed
		}
	}
	if v, ok := cfg["sand_pile_count"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.SandPileCount = parsed
		}
	}
	if v, ok := cfg["water_pool_width"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.WaterPoolWidth = parsed
		}
	}
	return c
}
