package diagnostics

import (
	"errors"
	"math"
)

var errEmpty = errors.New("empty trajectory")

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func embed(s []float64) [3]float64 {
	var v [3]float64
	copy(v[:], s)
	return v
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func norm(v [3]float64) float64 {
	return math.Sqrt(dot(v[:], v[:]))
}
