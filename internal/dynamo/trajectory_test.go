package dynamo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrajectory_Append(t *testing.T) {
	tr := NewTrajectory(2)
	x := State{1, 2}

	require.NoError(t, tr.Append(Point{T: 0, X: x}))
	x[0] = 99
	assert.Equal(t, 1.0, tr.At(0).X[0], "append must copy the state")

	err := tr.Append(Point{T: 0, X: State{3, 4}})
	assert.ErrorIs(t, err, ErrNonMonotonicTime)

	require.NoError(t, tr.Append(Point{T: 0.1, X: State{3, 4}}))
	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, 2, tr.Dim())

	tr.Freeze()
	assert.ErrorIs(t, tr.Append(Point{T: 0.2, X: State{5, 6}}), ErrTrajectoryFrozen)
}

func TestTrajectory_Accessors(t *testing.T) {
	tr := NewTrajectory(0)
	_, ok := tr.Last()
	assert.False(t, ok)
	assert.Equal(t, 0, tr.Dim())

	for i := 0; i < 3; i++ {
		require.NoError(t, tr.Append(Point{T: float64(i), X: State{float64(i), float64(i * 10)}}))
	}

	first, _ := tr.First()
	last, _ := tr.Last()
	assert.Equal(t, 0.0, first.T)
	assert.Equal(t, 2.0, last.T)
	assert.Equal(t, []float64{0, 1, 2}, tr.Times())
	assert.Equal(t, []float64{0, 10, 20}, tr.Component(1))
	assert.Equal(t, []float64{2, 2, 20}, tr.Rows()[2])
	assert.Len(t, tr.Points(), 3)
}
