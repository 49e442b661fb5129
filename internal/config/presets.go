package config

import (
	"maps"
	"math"
	"slices"
)

var ground = EventSpec{Name: "ground", Kind: "component", Index: 1, Value: 0, Direction: "falling", Terminal: true, Expected: true}

var escape = EventSpec{Name: "escape", Kind: "radius", Value: 50, Direction: "rising", Terminal: true}

var presets = map[string]map[string]*Scenario{
	"lorentz": {
		"cyclotron": {
			Model: "lorentz", Integrator: "rk4", Dt: 0.001, Duration: 4 * math.Pi,
			Params:    map[string]float64{"charge": 1, "mass": 1, "bz": 1},
			InitState: []float64{0, 0, 1, 0},
		},
		"exb_drift": {
			Model: "lorentz", Integrator: "rk4", Dt: 0.001, Duration: 6 * math.Pi,
			Params:    map[string]float64{"charge": 1, "mass": 1, "bz": 1, "ey": 0.1},
			InitState: []float64{0, 0, 1, 0},
		},
		"helix": {
			Model: "lorentz", Integrator: "rk4", Dt: 0.001, Duration: 4 * math.Pi,
			Params:    map[string]float64{"dim": 3, "charge": 1, "mass": 1, "bz": 1},
			InitState: []float64{0, 0, 0, 1, 0, 0.2},
		},
	},
	"two_body": {
		"circular": {
			Model: "two_body", Integrator: "rk4", Dt: 0.01, Duration: 4 * math.Pi,
			Params:    map[string]float64{"gm": 1},
			InitState: []float64{1, 0, 0, 1},
		},
		"elliptical": {
			Model: "two_body", Integrator: "rk4", Dt: 0.01, Duration: 20,
			Params:    map[string]float64{"gm": 1},
			InitState: []float64{1, 0, 0, 0.8},
		},
		"parabolic": {
			Model: "two_body", Integrator: "rk4", Dt: 0.01, Duration: 100,
			Params:    map[string]float64{"gm": 1},
			InitState: []float64{1, 0, 0, math.Sqrt2},
			Events:    []EventSpec{escape},
		},
		"hyperbolic": {
			Model: "two_body", Integrator: "rk4", Dt: 0.01, Duration: 100,
			Params:    map[string]float64{"gm": 1},
			InitState: []float64{1, 0, 0, 1.7},
			Events:    []EventSpec{escape},
		},
	},
	"pendulum": {
		"simple": {
			Model: "pendulum", Integrator: "rk4", Dt: 0.01, Duration: 50,
			InitState: []float64{0.2, 1.0},
		},
		"damped": {
			Model: "pendulum", Integrator: "rk4", Dt: 0.01, Duration: 30,
			Params:    map[string]float64{"damping": 0.5},
			InitState: []float64{0.2, 1.0},
		},
		"forced": {
			Model: "pendulum", Integrator: "rk4", Dt: 0.01, Duration: 100,
			Params:    map[string]float64{"damping": 0.5, "force_amp": 1.2, "force_freq": 2.0 / 3.0},
			InitState: []float64{0.2, 0},
		},
	},
	"projectile": {
		"vacuum": {
			Model: "projectile", Integrator: "rk4", Dt: 0.01, Duration: 10,
			InitState: []float64{0, 0, 20 * math.Cos(math.Pi/4), 20 * math.Sin(math.Pi/4)},
			Events:    []EventSpec{ground},
		},
		"drag": {
			Model: "projectile", Integrator: "rk4", Dt: 0.01, Duration: 10,
			Params:    map[string]float64{"drag": 0.1},
			InitState: []float64{0, 0, 20 * math.Cos(math.Pi/4), 20 * math.Sin(math.Pi/4)},
			Events:    []EventSpec{ground},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Scenario {
	s, ok := presets[model][preset]
	if !ok {
		return nil
	}
	c := s.Clone()
	c.Name = model + "/" + preset
	return c
}

func ListPresets(model string) []string {
	group, ok := presets[model]
	if !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(group))
}

// PresetModels lists the models that have presets.
func PresetModels() []string {
	return slices.Sorted(maps.Keys(presets))
}
