package powder

import "powder-ca/pkg/core"

// Parameters reports the world's tunables grouped for presentation.
func (w *World) Parameters() core.ParameterSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p := w.params
	width, height := w.grid.Dimensions()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				core.IntParam("w", "Width", width),
				core.IntParam("h", "Height", height),
				core.Int64Param("seed", "Seed", w.cfg.Seed),
				core.StringParam("boundary", "Boundary", w.table.Get(w.boundary.Element).Name),
				core.IntParam("workers", "Thermal workers", p.Workers),
			},
		},
		{
			Name: "Thermal",
			Params: []core.Parameter{
				core.FloatParam("ambient", "Ambient temperature", p.AmbientTemp),
				core.FloatParam("heat_scale", "Heat output scale", p.HeatScale),
				core.BoolParam("air_diffusion", "Air diffusion", p.AirDiffusion),
			},
		},
		{
			Name: "Electrical",
			Params: []core.Parameter{
				core.IntParam("cooldown", "Discharge cooldown", p.Cooldown),
			},
		},
		{
			Name: "Reactions",
			Params: []core.Parameter{
				core.IntParam("fire_spread", "Fire spread %", p.FireSpread),
				core.IntParam("acid_strength", "Acid strength %", p.AcidStrength),
				core.IntParam("actor_sight", "Actor sight", p.ActorSight),
			},
		},
	}}
}

// Ambient returns the current ambient temperature.
func (w *World) Ambient() float32 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.ambient()
}

// ParameterControls lists the tunables a host may step while the world runs.
// Bounds mirror the checks in SetIntParameter and SetFloatParameter.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "ambient", Label: "Ambient °C", Type: core.ParamTypeFloat, Step: 5, Min: float64(minTemp), Max: float64(maxTemp), HasMin: true, HasMax: true},
		{Key: "heat_scale", Label: "Heat scale", Type: core.ParamTypeFloat, Step: 0.1, Min: 0, HasMin: true},
		{Key: "cooldown", Label: "Cooldown", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 255, HasMin: true, HasMax: true},
		{Key: "fire_spread", Label: "Fire spread %", Type: core.ParamTypeInt, Step: 10, Min: 0, HasMin: true},
		{Key: "acid_strength", Label: "Acid strength %", Type: core.ParamTypeInt, Step: 5, Min: 0, Max: 100, HasMin: true, HasMax: true},
		{Key: "actor_sight", Label: "Actor sight", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: MaxActorSight, HasMin: true, HasMax: true},
	}
}

// SetIntParameter adjusts an integer tunable between ticks. It reports false
// for unknown keys, out-of-range values and while a tick is running.
func (w *World) SetIntParameter(key string, value int) bool {
	if !w.mu.TryLock() {
		return false
	}
	defer w.mu.Unlock()
	switch key {
	case "cooldown":
		if value < 0 || value > 255 {
			return false
		}
		w.params.Cooldown = value
	case "fire_spread":
		if value < 0 {
			return false
		}
		w.params.FireSpread = value
	case "acid_strength":
		if value < 0 || value > 100 {
			return false
		}
		w.params.AcidStrength = value
	case "actor_sight":
		if value < 0 || value > MaxActorSight {
			return false
		}
		w.params.ActorSight = value
	case "workers":
		if value <= 0 {
			return false
		}
		w.params.Workers = value
	default:
		return false
	}
	return true
}

// SetFloatParameter adjusts a floating point tunable between ticks.
func (w *World) SetFloatParameter(key string, value float64) bool {
	if !w.mu.TryLock() {
		return false
	}
	defer w.mu.Unlock()
	switch key {
	case "ambient":
		if value < float64(minTemp) || value > float64(maxTemp) {
			return false
		}
		w.params.AmbientTemp = value
		w.boundary.Temp = w.ambient()
		w.grid.boundary = w.boundary
	case "heat_scale":
		if value < 0 {
			return false
		}
		w.params.HeatScale = value
	default:
		return false
	}
	return true
}
