package physics

import (
	"math"

	"github.com/san-kum/trajsim/internal/dynamo"
)

// Lorentz moves a point charge through uniform fields:
// a = (q/m)(E + v x B). A 2D state lives in the xy plane, which requires
// B along z and E in the plane.
type Lorentz struct {
	Charge float64
	Mass   float64
	E      [3]float64
	B      [3]float64
	Dim    int
}

func NewLorentz(dim int) *Lorentz {
	return &Lorentz{
		Charge: 1.0,
		Mass:   DefaultMass,
		B:      [3]float64{0, 0, 1},
		Dim:    dim,
	}
}

func (l *Lorentz) Name() string  { return "lorentz" }
func (l *Lorentz) StateDim() int { return 2 * l.Dim }

func (l *Lorentz) Validate() error {
	if err := checkDim("lorentz", l.Dim); err != nil {
		return err
	}
	if !(l.Mass > 0) || !finite(l.Mass) {
		return dynamo.Invalid("lorentz.mass", "must be positive, got %v", l.Mass)
	}
	if l.Charge == 0 || !finite(l.Charge) {
		return dynamo.Invalid("lorentz.charge", "must be non-zero and finite, got %v", l.Charge)
	}
	if !finite(l.E[:]...) || !finite(l.B[:]...) {
		return dynamo.Invalid("lorentz.fields", "E and B must be finite")
	}
	if l.Dim == 2 && (l.B[0] != 0 || l.B[1] != 0 || l.E[2] != 0) {
		return dynamo.Invalid("lorentz.fields", "planar motion needs B along z and E in the xy plane")
	}
	return nil
}

func (l *Lorentz) Derive(t float64, x dynamo.State) (dynamo.State, error) {
	n := l.Dim
	v := embed(x[n:], n)
	f := cross(v, l.B)
	qm := l.Charge / l.Mass

	dx := make(dynamo.State, 2*n)
	copy(dx[:n], x[n:])
	for i := 0; i < n; i++ {
		dx[n+i] = qm * (l.E[i] + f[i])
	}
	return dx, nil
}

// Energy is kinetic plus electric potential energy, -q E.r. The magnetic
// force does no work, so the total is conserved.
func (l *Lorentz) Energy(x dynamo.State) float64 {
	n := l.Dim
	r := embed(x[:n], n)
	v := embed(x[n:], n)
	return 0.5*l.Mass*dot(v, v) - l.Charge*dot(vec3(l.E), r)
}

// FieldStrength returns |B|.
func (l *Lorentz) FieldStrength() float64 {
	b := vec3(l.B)
	return math.Sqrt(dot(b, b))
}

// DefaultState starts at the origin moving along x with unit speed.
func (l *Lorentz) DefaultState() dynamo.State {
	x := make(dynamo.State, 2*l.Dim)
	x[l.Dim] = 1.0
	return x
}

func (l *Lorentz) Params() map[string]float64 {
	m := map[string]float64{
		"charge": l.Charge,
		"mass":   l.Mass,
		"dim":    float64(l.Dim),
	}
	putVec(m, "e", l.E)
	putVec(m, "b", l.B)
	return m
}

func (l *Lorentz) SetParam(name string, value float64) error {
	switch name {
	case "charge":
		l.Charge = value
	case "mass":
		l.Mass = value
	case "dim":
		return fixedDim(l.Name())
	default:
		if setVec(&l.E, "e", name, value) || setVec(&l.B, "b", name, value) {
			return nil
		}
		return unknownParam(l.Name(), name)
	}
	return nil
}
