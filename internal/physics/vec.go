package physics

import (
	"math"

	"github.com/san-kum/trajsim/internal/dynamo"
)

const (
	DefaultMass    = 1.0
	DefaultGravity = 9.81
)

type vec3 [3]float64

func cross(a, b vec3) vec3 {
	return vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// embed lifts the first dim components of s into 3-space.
func embed(s dynamo.State, dim int) vec3 {
	var v vec3
	copy(v[:dim], s[:dim])
	return v
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func checkDim(model string, dim int) error {
	if dim != 2 && dim != 3 {
		return dynamo.Invalid(model+".dim", "spatial dimension must be 2 or 3, got %d", dim)
	}
	return nil
}

func unknownParam(model, name string) error {
	return dynamo.Invalid(model+".param", "unknown param: %s", name)
}

// setVec handles the "<prefix>x", "<prefix>y", "<prefix>z" parameter names.
func setVec(v *[3]float64, prefix, name string, value float64) bool {
	for i, axis := range []string{"x", "y", "z"} {
		if name == prefix+axis {
			v[i] = value
			return true
		}
	}
	return false
}

func putVec(m map[string]float64, prefix string, v [3]float64) {
	m[prefix+"x"] = v[0]
	m[prefix+"y"] = v[1]
	m[prefix+"z"] = v[2]
}

func fixedDim(model string) error {
	return dynamo.Invalid(model+".dim", "spatial dimension is fixed at construction")
}
