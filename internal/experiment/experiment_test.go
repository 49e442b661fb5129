package experiment

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/trajsim/internal/config"
	"github.com/san-kum/trajsim/internal/diagnostics"
	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/integrators"
	"github.com/san-kum/trajsim/internal/physics"
	"github.com/san-kum/trajsim/internal/sim"
)

func TestRegistryLists(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"lorentz", "pendulum", "projectile", "two_body"}, r.ListModels())
	assert.Equal(t, []string{"euler", "rk4", "rk45"}, r.ListIntegrators())
}

func TestGetModelAppliesParams(t *testing.T) {
	r := NewRegistry()

	m, err := r.GetModel("lorentz", map[string]float64{"dim": 3, "charge": -2, "bz": 0.5})
	require.NoError(t, err)
	l := m.(*physics.Lorentz)
	assert.Equal(t, 3, l.Dim)
	assert.Equal(t, -2.0, l.Charge)
	assert.Equal(t, [3]float64{0, 0, 0.5}, l.B)
	assert.Equal(t, 6, m.StateDim())

	m, err = r.GetModel("pendulum", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, m.StateDim())
}

func TestGetModelErrors(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		name   string
		model  string
		params map[string]float64
	}{
		{"unknown model", "spaceship", nil},
		{"unknown param", "two_body", map[string]float64{"mass": 1}},
		{"fractional dim", "projectile", map[string]float64{"dim": 2.5}},
		{"bad dim", "projectile", map[string]float64{"dim": 4}},
		{"invalid value", "pendulum", map[string]float64{"length": -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.GetModel(tt.model, tt.params)
			assert.ErrorIs(t, err, dynamo.ErrConfiguration)
		})
	}

	_, err := r.GetIntegrator("leapfrog")
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("heavy_projectile", func(dim int) Model {
		p := physics.NewProjectile(dim)
		p.Mass = 10
		return p
	})
	m, err := r.GetModel("heavy_projectile", nil)
	require.NoError(t, err)
	assert.Equal(t, 10.0, m.Params()["mass"])
}

func TestNewUsesDefaultState(t *testing.T) {
	s := config.Default()
	s.Model = "two_body"
	e, err := New(NewRegistry(), s)
	require.NoError(t, err)
	assert.Equal(t, dynamo.State{1, 0, 0, 1}, e.X0)
	assert.Equal(t, "two_body", e.Name())
}

func TestNewRejectsBadScenarios(t *testing.T) {
	r := NewRegistry()

	s := config.Default()
	s.InitState = []float64{1, 2, 3}
	_, err := New(r, s)
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)

	s = config.Default()
	s.Dt = 0
	_, err = New(r, s)
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)

	s = config.Default()
	s.Integrator = "magic"
	_, err = New(r, s)
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)

	s = config.Default()
	s.Events = []config.EventSpec{{Name: "x", Kind: "component", Index: 7}}
	_, err = New(r, s)
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)
}

func TestRunPresets(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	t.Run("vacuum projectile", func(t *testing.T) {
		e, err := New(r, config.GetPreset("projectile", "vacuum"))
		require.NoError(t, err)
		out, err := e.Run(ctx)
		require.NoError(t, err)

		assert.Equal(t, sim.Terminated, out.Result.Status)
		assert.Equal(t, "projectile/vacuum", out.Name)
		assert.InDelta(t, out.Diagnostics["flight.closed_form_range"], out.Diagnostics["flight.range"], 1e-6)
		assert.InDelta(t, diagnostics.ClosedFormRange(20, math.Pi/4, physics.DefaultGravity), out.Diagnostics["flight.range"], 1e-6)
	})

	t.Run("drag projectile has no closed form", func(t *testing.T) {
		e, err := New(r, config.GetPreset("projectile", "drag"))
		require.NoError(t, err)
		out, err := e.Run(ctx)
		require.NoError(t, err)
		_, ok := out.Diagnostics["flight.closed_form_range"]
		assert.False(t, ok)
	})

	t.Run("hyperbolic orbit escapes", func(t *testing.T) {
		e, err := New(r, config.GetPreset("two_body", "hyperbolic"))
		require.NoError(t, err)
		out, err := e.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, sim.Terminated, out.Result.Status)
		assert.Equal(t, "escape", out.Result.Stop.Name)
		assert.Equal(t, float64(diagnostics.Hyperbolic), out.Diagnostics["orbit.orbit_class"])
	})

	t.Run("cyclotron", func(t *testing.T) {
		e, err := New(r, config.GetPreset("lorentz", "cyclotron"))
		require.NoError(t, err)
		out, err := e.Run(ctx)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, out.Diagnostics["gyro.larmor_radius"], 1e-12)
		assert.Less(t, out.Diagnostics["gyro.radius_error"], 1e-8)
	})
}

func TestRunKeepsFailedOutcome(t *testing.T) {
	s := config.Default()
	s.Model = "two_body"
	s.InitState = []float64{0, 0, 1, 0}

	e, err := New(NewRegistry(), s)
	require.NoError(t, err)
	out, err := e.Run(context.Background())
	assert.ErrorIs(t, err, dynamo.ErrSingularity)
	require.NotNil(t, out)
	assert.Equal(t, sim.Failed, out.Result.Status)
	assert.Equal(t, 1.0, out.Diagnostics["points"])
}

func TestDiagnosePendulum(t *testing.T) {
	p := physics.NewPendulum()
	res, err := sim.New(p, integrators.NewRK4()).Run(context.Background(), dynamo.State{0.2, 1}, dynamo.Config{Dt: 0.01, Duration: 1})
	require.NoError(t, err)

	set, err := Diagnose(p, res.Trajectory)
	require.NoError(t, err)
	assert.Equal(t, 101.0, set["points"])
	assert.Contains(t, set, "pendulum.energy_drift")
}

func TestRunShortPendulum(t *testing.T) {
	s := config.Default()
	s.Model = "pendulum"
	s.Dt, s.Duration = 0.01, 0.02

	e, err := New(NewRegistry(), s)
	require.NoError(t, err)
	out, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sim.Completed, out.Result.Status)
	assert.Equal(t, 3.0, out.Diagnostics["points"])
	assert.NotContains(t, out.Diagnostics, "pendulum.dominant_frequency")
}

func TestSweep(t *testing.T) {
	base := config.GetPreset("pendulum", "damped")
	base.Duration = 5
	values := []float64{0, 0.5, 1.0, -1}

	outs, err := Sweep(context.Background(), NewRegistry(), base, "damping", values, 2)
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)
	require.Len(t, outs, len(values))
	assert.Nil(t, outs[3])

	// more damping leaves less energy
	prev := math.Inf(1)
	for i, out := range outs[:3] {
		require.NotNil(t, out, "value %v", values[i])
		assert.Equal(t, sim.Completed, out.Result.Status)
		final := out.Diagnostics["pendulum.energy_final"]
		assert.Less(t, final, prev)
		prev = final
	}
	assert.Equal(t, "pendulum[damping=0.5]", outs[1].Name)
}

func TestLyapunovOfDampedPendulum(t *testing.T) {
	e, err := New(NewRegistry(), config.GetPreset("pendulum", "damped"))
	require.NoError(t, err)
	lambda, err := e.Lyapunov(1e-8)
	require.NoError(t, err)
	// small oscillations contract at damping/2
	assert.InDelta(t, -0.25, lambda, 0.15)

	_, err = e.Lyapunov(0)
	assert.ErrorIs(t, err, dynamo.ErrConfiguration)
}
