package physics

import (
	"math"

	"github.com/san-kum/trajsim/internal/dynamo"
)

// Pendulum covers the simple, damped, forced and forced-damped cases:
//
//	alpha = -(g/l) sin(theta) - damping*omega + forceAmp*cos(forceFreq*t)
//
// Zeroing Damping and ForceAmp gives the conservative pendulum. State is
// (theta, omega).
type Pendulum struct {
	Mass      float64
	Length    float64
	Gravity   float64
	Damping   float64
	ForceAmp  float64
	ForceFreq float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Mass:    DefaultMass,
		Length:  1.0,
		Gravity: DefaultGravity,
	}
}

func (p *Pendulum) Name() string  { return "pendulum" }
func (p *Pendulum) StateDim() int { return 2 }

func (p *Pendulum) Validate() error {
	if !(p.Mass > 0) || !finite(p.Mass) {
		return dynamo.Invalid("pendulum.mass", "must be positive, got %v", p.Mass)
	}
	if !(p.Length > 0) || !finite(p.Length) {
		return dynamo.Invalid("pendulum.length", "must be positive, got %v", p.Length)
	}
	if !(p.Gravity > 0) || !finite(p.Gravity) {
		return dynamo.Invalid("pendulum.gravity", "must be positive, got %v", p.Gravity)
	}
	if p.Damping < 0 || !finite(p.Damping) {
		return dynamo.Invalid("pendulum.damping", "must not be negative, got %v", p.Damping)
	}
	if !finite(p.ForceAmp, p.ForceFreq) {
		return dynamo.Invalid("pendulum.forcing", "amplitude and frequency must be finite")
	}
	return nil
}

func (p *Pendulum) Derive(t float64, x dynamo.State) (dynamo.State, error) {
	theta := x[0]
	omega := x[1]

	alpha := -(p.Gravity/p.Length)*math.Sin(theta) - p.Damping*omega
	if p.ForceAmp != 0 {
		alpha += p.ForceAmp * math.Cos(p.ForceFreq*t)
	}

	return dynamo.State{omega, alpha}, nil
}

func (p *Pendulum) Energy(x dynamo.State) float64 {
	// KE = 0.5 * m * (L*omega)^2
	// PE = m * g * L * (1 - cos(theta))
	v := p.Length * x[1]
	ke := 0.5 * p.Mass * v * v
	pe := p.Mass * p.Gravity * p.Length * (1.0 - math.Cos(x[0]))
	return ke + pe
}

// NaturalFrequency is the small-angle angular frequency sqrt(g/l).
func (p *Pendulum) NaturalFrequency() float64 {
	return math.Sqrt(p.Gravity / p.Length)
}

func (p *Pendulum) DefaultState() dynamo.State {
	return dynamo.State{0.2, 1.0}
}

func (p *Pendulum) Params() map[string]float64 {
	return map[string]float64{
		"mass":       p.Mass,
		"length":     p.Length,
		"gravity":    p.Gravity,
		"damping":    p.Damping,
		"force_amp":  p.ForceAmp,
		"force_freq": p.ForceFreq,
	}
}

func (p *Pendulum) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		p.Mass = value
	case "length":
		p.Length = value
	case "gravity":
		p.Gravity = value
	case "damping":
		p.Damping = value
	case "force_amp":
		p.ForceAmp = value
	case "force_freq":
		p.ForceFreq = value
	default:
		return unknownParam(p.Name(), name)
	}
	return nil
}
