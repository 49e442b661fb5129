package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/trajsim/internal/dynamo"
)

func TestPendulumEquilibrium(t *testing.T) {
	p := NewPendulum()

	dx, err := p.Derive(0, dynamo.State{0, 0})
	require.NoError(t, err)

	assert.InDelta(t, 0, dx[0], 1e-10, "velocity at equilibrium")
	assert.InDelta(t, 0, dx[1], 1e-10, "acceleration at equilibrium")
}

func TestPendulumGravity(t *testing.T) {
	p := NewPendulum()
	p.Length = 2.0

	dx, err := p.Derive(0, dynamo.State{math.Pi / 2, 0})
	require.NoError(t, err)

	assert.InDelta(t, -p.Gravity/p.Length, dx[1], 1e-12)
}

func TestPendulumDampingAndForcing(t *testing.T) {
	p := NewPendulum()
	p.Damping = 0.5
	p.ForceAmp = 1.2
	p.ForceFreq = 2.0

	tm := 0.7
	dx, err := p.Derive(tm, dynamo.State{0, 2.0})
	require.NoError(t, err)

	assert.InDelta(t, -0.5*2.0+1.2*math.Cos(2.0*tm), dx[1], 1e-12)
}

func TestPendulumEnergy(t *testing.T) {
	p := NewPendulum()
	theta := math.Pi / 4

	expected := p.Gravity * (1 - math.Cos(theta))
	assert.InDelta(t, expected, p.Energy(dynamo.State{theta, 0}), 1e-12)
	assert.InDelta(t, 0.5, p.Energy(dynamo.State{0, 1}), 1e-12)
}

func TestPendulumValidate(t *testing.T) {
	require.NoError(t, NewPendulum().Validate())

	tests := []struct {
		name  string
		param string
		value float64
	}{
		{"zero length", "length", 0},
		{"negative mass", "mass", -1},
		{"zero gravity", "gravity", 0},
		{"negative damping", "damping", -0.1},
		{"NaN forcing", "force_amp", math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPendulum()
			require.NoError(t, p.SetParam(tt.param, tt.value))
			assert.ErrorIs(t, p.Validate(), dynamo.ErrConfiguration)
		})
	}
}

func TestPendulumParams(t *testing.T) {
	p := NewPendulum()
	require.NoError(t, p.SetParam("force_freq", 3.0))
	assert.Equal(t, 3.0, p.Params()["force_freq"])
	assert.ErrorIs(t, p.SetParam("bogus", 1), dynamo.ErrConfiguration)
	assert.InDelta(t, math.Sqrt(9.81), p.NaturalFrequency(), 1e-12)
}
