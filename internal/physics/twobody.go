package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/trajsim/internal/dynamo"
)

// DefaultMinRadius is the separation below which TwoBody reports a singularity.
const DefaultMinRadius = 1e-12

// TwoBody is a test payload around a fixed central mass:
// a = -GM r / |r|^3.
type TwoBody struct {
	GM        float64
	Dim       int
	MinRadius float64
}

func NewTwoBody(dim int) *TwoBody {
	return &TwoBody{
		GM:        1.0,
		Dim:       dim,
		MinRadius: DefaultMinRadius,
	}
}

func (tb *TwoBody) Name() string  { return "two_body" }
func (tb *TwoBody) StateDim() int { return 2 * tb.Dim }

func (tb *TwoBody) Validate() error {
	if err := checkDim("two_body", tb.Dim); err != nil {
		return err
	}
	if !(tb.GM > 0) || !finite(tb.GM) {
		return dynamo.Invalid("two_body.gm", "must be positive, got %v", tb.GM)
	}
	if tb.MinRadius < 0 || !finite(tb.MinRadius) {
		return dynamo.Invalid("two_body.min_radius", "must not be negative, got %v", tb.MinRadius)
	}
	return nil
}

func (tb *TwoBody) Derive(t float64, x dynamo.State) (dynamo.State, error) {
	n := tb.Dim
	r := tb.radius(x)
	if r <= tb.MinRadius {
		return nil, &dynamo.SingularityError{
			Model:  tb.Name(),
			Time:   t,
			Detail: fmt.Sprintf("zero separation (|r|=%g)", r),
		}
	}

	dx := make(dynamo.State, 2*n)
	copy(dx[:n], x[n:])
	k := -tb.GM / (r * r * r)
	for i := 0; i < n; i++ {
		dx[n+i] = k * x[i]
	}
	return dx, nil
}

func (tb *TwoBody) radius(x dynamo.State) float64 {
	sum := 0.0
	for i := 0; i < tb.Dim; i++ {
		sum += x[i] * x[i]
	}
	return math.Sqrt(sum)
}

// Energy is the specific orbital energy v^2/2 - GM/r.
func (tb *TwoBody) Energy(x dynamo.State) float64 {
	n := tb.Dim
	v2 := 0.0
	for i := 0; i < n; i++ {
		v2 += x[n+i] * x[n+i]
	}
	r := tb.radius(x)
	if r == 0 {
		return math.Inf(-1)
	}
	return 0.5*v2 - tb.GM/r
}

// CircularSpeed is the speed of a circular orbit at radius r.
func (tb *TwoBody) CircularSpeed(r float64) float64 {
	return math.Sqrt(tb.GM / r)
}

// EscapeSpeed is the parabolic speed at radius r.
func (tb *TwoBody) EscapeSpeed(r float64) float64 {
	return math.Sqrt(2 * tb.GM / r)
}

// DefaultState is a circular orbit of unit radius.
func (tb *TwoBody) DefaultState() dynamo.State {
	x := make(dynamo.State, 2*tb.Dim)
	x[0] = 1.0
	x[tb.Dim+1] = tb.CircularSpeed(1.0)
	return x
}

func (tb *TwoBody) Params() map[string]float64 {
	return map[string]float64{
		"gm":         tb.GM,
		"dim":        float64(tb.Dim),
		"min_radius": tb.MinRadius,
	}
}

func (tb *TwoBody) SetParam(name string, value float64) error {
	switch name {
	case "gm":
		tb.GM = value
	case "dim":
		return fixedDim(tb.Name())
	case "min_radius":
		tb.MinRadius = value
	default:
		return unknownParam(tb.Name(), name)
	}
	return nil
}
