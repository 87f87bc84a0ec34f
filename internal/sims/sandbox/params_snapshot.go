package sandbox

import (
	"strconv"

	"sandfall/internal/core"
)

// Parameters captures the full set of tunables for display and logging.
func (w *World) Parameters() core.ParameterSnapshot {
	params := w.cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				int64Param("seed", "Seed", w.cfg.Seed),
				intParam("generations", "Generations per tick", params.Generations),
			},
		},
		{
			Name: "Automaton",
			Params: []core.Parameter{
				floatParam("friction_amplifier", "Friction amplifier", params.FrictionAmplifier),
				floatParam("lateral_spread_boost", "Lateral spread boost", params.LateralSpreadBoost),
			},
		},
		{
			Name: "Heat",
			Params: []core.Parameter{
				floatParam("emission_rate", "Ambient emission rate", params.EmissionRate),
				floatParam("diffusion_rate", "Ambient diffusion rate", params.DiffusionRate),
				floatParam("equilibrium_temp", "Equilibrium temperature", params.EquilibriumTemp),
				floatParam("equilibrium_rate", "Equilibrium decay rate", params.EquilibriumRate),
				floatParam("max_ambient_delta", "Max ambient delta", params.MaxAmbientDelta),
				floatParam("exchange_rate", "Particle exchange rate", params.ExchangeRate),
			},
		},
		{
			Name: "Dynamics",
			Params: []core.Parameter{
				floatParam("ejection_threshold", "Ejection threshold", params.EjectionThreshold),
				intParam("max_dynamic", "Dynamic capacity", params.MaxDynamic),
				floatParam("gravity", "Gravity", params.Gravity),
				floatParam("drag", "Drag", params.Drag),
				floatParam("restitution", "Restitution", params.Restitution),
				floatParam("settle_speed", "Settle speed", params.SettleSpeed),
				intParam("sample_stride", "Sample stride", params.SampleStride),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the tunables adjustable from the HUD.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "friction_amplifier", Label: "Friction amp", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 4, HasMin: true, HasMax: true},
		{Key: "emission_rate", Label: "Emission", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "equilibrium_temp", Label: "Equilibrium K", Type: core.ParamTypeFloat, Step: 10, Min: 0, Max: 2000, HasMin: true, HasMax: true},
		{Key: "ejection_threshold", Label: "Eject thresh", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1.5, HasMin: true, HasMax: true},
		{Key: "gravity", Label: "Gravity", Type: core.ParamTypeFloat, Step: 0.05, Min: -1, Max: 2, HasMin: true, HasMax: true},
		{Key: "generations", Label: "Generations", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 8, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates a float tunable by key, clamping to its control
// bounds. It reports whether the key was recognized.
func (w *World) SetFloatParameter(key string, value float64) bool {
	clamp := func(v, lo, hi float64) float64 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	switch key {
	case "friction_amplifier":
		w.cfg.Params.FrictionAmplifier = clamp(value, 0, 4)
	case "lateral_spread_boost":
		w.cfg.Params.LateralSpreadBoost = clamp(value, 0, 1)
	case "emission_rate":
		w.cfg.Params.EmissionRate = clamp(value, 0, 1)
	case "diffusion_rate":
		w.cfg.Params.DiffusionRate = clamp(value, 0, 1)
	case "equilibrium_temp":
		w.cfg.Params.EquilibriumTemp = clamp(value, 0, 2000)
	case "equilibrium_rate":
		w.cfg.Params.EquilibriumRate = clamp(value, 0, 1)
	case "max_ambient_delta":
		w.cfg.Params.MaxAmbientDelta = clamp(value, 0, 65535)
	case "exchange_rate":
		w.cfg.Params.ExchangeRate = clamp(value, 0, 1)
	case "ejection_threshold":
		w.cfg.Params.EjectionThreshold = clamp(value, 0, 1.5)
	case "gravity":
		w.cfg.Params.Gravity = clamp(value, -1, 2)
	case "drag":
		w.cfg.Params.Drag = clamp(value, 0, 1)
	case "restitution":
		w.cfg.Params.Restitution = clamp(value, 0, 1)
	case "settle_speed":
		w.cfg.Params.SettleSpeed = clamp(value, 0, 2)
	default:
		return false
	}
	return true
}

// SetIntParameter updates an integer tunable by key. It reports whether the
// key was recognized.
func (w *World) SetIntParameter(key string, value int) bool {
	switch key {
	case "generations":
		if value < 1 {
			value = 1
		} else if value > 8 {
			value = 8
		}
		w.cfg.Params.Generations = value
	case "sample_stride":
		if value < 1 {
			value = 1
		}
		w.cfg.Params.SampleStride = value
	default:
		return false
	}
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
