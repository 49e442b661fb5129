package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/trajsim/internal/dynamo"
)

func TestProjectileDrag(t *testing.T) {
	p := NewProjectile(2)
	p.Drag = 0.5
	p.Mass = 2.0

	dx, err := p.Derive(0, dynamo.State{0, 10, 4, -8})
	require.NoError(t, err)

	assert.Equal(t, dynamo.State{4, -8, -1, -DefaultGravity + 2}, dx)
}

func TestProjectileVacuum(t *testing.T) {
	p := NewProjectile(3)

	dx, err := p.Derive(0, dynamo.State{0, 0, 0, 1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, dynamo.State{1, 2, 3, 0, 0, -DefaultGravity}, dx)
	assert.Equal(t, 2, p.VerticalAxis())
}

func TestProjectileLaunch(t *testing.T) {
	p := NewProjectile(2)
	x := p.Launch(10, math.Pi/6)

	assert.InDelta(t, 10*math.Cos(math.Pi/6), x[2], 1e-12)
	assert.InDelta(t, 5.0, x[3], 1e-12)
	assert.InDelta(t, 50.0, p.Energy(x), 1e-12)
}

func TestProjectileValidate(t *testing.T) {
	require.NoError(t, NewProjectile(2).Validate())

	p := NewProjectile(2)
	p.Drag = -1
	assert.ErrorIs(t, p.Validate(), dynamo.ErrConfiguration)

	p = NewProjectile(2)
	p.Mass = 0
	assert.ErrorIs(t, p.Validate(), dynamo.ErrConfiguration)

	p = NewProjectile(2)
	require.NoError(t, p.SetParam("gz", -1))
	assert.ErrorIs(t, p.Validate(), dynamo.ErrConfiguration)
}
