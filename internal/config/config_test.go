package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/events"
)

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, "pendulum", s.Model)
	assert.Equal(t, "rk4", s.Integrator)
	assert.NoError(t, s.RunConfig().Validate())
}

func TestParseKeepsDefaults(t *testing.T) {
	s, err := Parse([]byte("model: two_body\ninit_state: [1, 0, 0, 1]\nparams:\n  gm: 2\n"))
	require.NoError(t, err)

	assert.Equal(t, "two_body", s.Model)
	assert.Equal(t, "rk4", s.Integrator)
	assert.Equal(t, DefaultDt, s.Dt)
	assert.Equal(t, []float64{1, 0, 0, 1}, s.InitState)
	assert.Equal(t, 2.0, s.Params["gm"])
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse([]byte("dt: [not a number"))
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	want := GetPreset("projectile", "drag")
	require.NotNil(t, want)

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConditions(t *testing.T) {
	s := Default()
	s.Events = []EventSpec{
		{Name: "ground", Kind: "component", Index: 1, Direction: "falling", Terminal: true},
		{Name: "escape", Kind: "radius", Value: 10, Direction: "rising", Expected: true},
		{Name: "checkpoint", Kind: "time", Value: 2.5},
	}
	conds, err := s.Conditions(4)
	require.NoError(t, err)
	require.Len(t, conds, 3)

	assert.Equal(t, events.Falling, conds[0].Direction)
	assert.True(t, conds[0].Terminal)
	assert.Equal(t, -2.0, conds[0].Func(0, dynamo.State{0, -2, 0, 0}))

	assert.True(t, conds[1].Expected)
	assert.InDelta(t, -5.0, conds[1].Func(0, dynamo.State{3, 4, 100, 100}), 1e-12)

	assert.Equal(t, events.Rising, conds[2].Direction)
	assert.Equal(t, 0.5, conds[2].Func(3, nil))
}

func TestConditionsRejectBadSpecs(t *testing.T) {
	tests := []struct {
		name string
		spec EventSpec
		dim  int
	}{
		{"index out of range", EventSpec{Name: "a", Index: 4}, 4},
		{"negative index", EventSpec{Name: "a", Index: -1}, 4},
		{"unknown kind", EventSpec{Name: "a", Kind: "spiral"}, 4},
		{"unknown direction", EventSpec{Name: "a", Direction: "sideways"}, 4},
		{"radius on odd state", EventSpec{Name: "a", Kind: "radius", Value: 1}, 3},
		{"missing name", EventSpec{Kind: "time", Value: 1}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			s.Events = []EventSpec{tt.spec}
			_, err := s.Conditions(tt.dim)
			assert.ErrorIs(t, err, dynamo.ErrConfiguration)
		})
	}
}

func TestPresets(t *testing.T) {
	assert.Equal(t, []string{"lorentz", "pendulum", "projectile", "two_body"}, PresetModels())
	assert.Equal(t, []string{"damped", "forced", "simple"}, ListPresets("pendulum"))
	assert.Equal(t, []string{"circular", "elliptical", "hyperbolic", "parabolic"}, ListPresets("two_body"))
	assert.Nil(t, ListPresets("nonexistent"))

	for _, model := range PresetModels() {
		for _, name := range ListPresets(model) {
			s := GetPreset(model, name)
			require.NotNil(t, s, "%s/%s", model, name)
			assert.Equal(t, model, s.Model)
			assert.Equal(t, model+"/"+name, s.Name)
			assert.NoError(t, s.RunConfig().Validate(), "%s/%s", model, name)
		}
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	a := GetPreset("pendulum", "damped")
	a.Params["damping"] = 99
	a.InitState[0] = 99

	b := GetPreset("pendulum", "damped")
	assert.Equal(t, 0.5, b.Params["damping"])
	assert.Equal(t, 0.2, b.InitState[0])

	assert.Nil(t, GetPreset("pendulum", "nonexistent"))
	assert.Nil(t, GetPreset("nonexistent", "simple"))
}
