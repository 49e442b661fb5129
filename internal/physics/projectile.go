package physics

import (
	"math"

	"github.com/san-kum/trajsim/internal/dynamo"
)

// Projectile is a point mass under uniform gravity with linear drag:
// a = g - (k/m) v. The vertical axis is y in 2D and z in 3D.
type Projectile struct {
	Mass    float64
	Drag    float64
	Gravity [3]float64
	Dim     int
}

func NewProjectile(dim int) *Projectile {
	p := &Projectile{Mass: DefaultMass, Dim: dim}
	if dim == 3 {
		p.Gravity = [3]float64{0, 0, -DefaultGravity}
	} else {
		p.Gravity = [3]float64{0, -DefaultGravity, 0}
	}
	return p
}

func (p *Projectile) Name() string  { return "projectile" }
func (p *Projectile) StateDim() int { return 2 * p.Dim }

// VerticalAxis is the state index of the height coordinate.
func (p *Projectile) VerticalAxis() int { return p.Dim - 1 }

func (p *Projectile) Validate() error {
	if err := checkDim("projectile", p.Dim); err != nil {
		return err
	}
	if !(p.Mass > 0) || !finite(p.Mass) {
		return dynamo.Invalid("projectile.mass", "must be positive, got %v", p.Mass)
	}
	if p.Drag < 0 || !finite(p.Drag) {
		return dynamo.Invalid("projectile.drag", "must not be negative, got %v", p.Drag)
	}
	if !finite(p.Gravity[:]...) {
		return dynamo.Invalid("projectile.gravity", "must be finite")
	}
	if p.Dim == 2 && p.Gravity[2] != 0 {
		return dynamo.Invalid("projectile.gravity", "planar motion needs gravity in the xy plane")
	}
	return nil
}

func (p *Projectile) Derive(t float64, x dynamo.State) (dynamo.State, error) {
	n := p.Dim
	km := p.Drag / p.Mass

	dx := make(dynamo.State, 2*n)
	copy(dx[:n], x[n:])
	for i := 0; i < n; i++ {
		dx[n+i] = p.Gravity[i] - km*x[n+i]
	}
	return dx, nil
}

// Energy is kinetic plus gravitational potential energy; it decays when
// Drag is positive.
func (p *Projectile) Energy(x dynamo.State) float64 {
	n := p.Dim
	r := embed(x[:n], n)
	v := embed(x[n:], n)
	return 0.5*p.Mass*dot(v, v) - p.Mass*dot(vec3(p.Gravity), r)
}

// Launch builds an initial state at the origin with speed v0 and elevation
// angle theta (radians) in the x-vertical plane.
func (p *Projectile) Launch(v0, theta float64) dynamo.State {
	x := make(dynamo.State, 2*p.Dim)
	x[p.Dim] = v0 * math.Cos(theta)
	x[p.Dim+p.VerticalAxis()] = v0 * math.Sin(theta)
	return x
}

func (p *Projectile) DefaultState() dynamo.State {
	return p.Launch(20.0, math.Pi/4)
}

func (p *Projectile) Params() map[string]float64 {
	m := map[string]float64{
		"mass": p.Mass,
		"drag": p.Drag,
		"dim":  float64(p.Dim),
	}
	putVec(m, "g", p.Gravity)
	return m
}

func (p *Projectile) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		p.Mass = value
	case "drag":
		p.Drag = value
	case "dim":
		return fixedDim(p.Name())
	default:
		if setVec(&p.Gravity, "g", name, value) {
			return nil
		}
		return unknownParam(p.Name(), name)
	}
	return nil
}
