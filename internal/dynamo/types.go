package dynamo

import (
	"fmt"
	"math"
)

// State is an ordered tuple: position-like components first, then the
// matching velocity-like components. States are treated as immutable once
// handed to a Trajectory.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	return s.firstInvalid() < 0
}

func (s State) firstInvalid() int {
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Split returns the position and velocity halves of s as views.
func (s State) Split() (pos, vel State) {
	half := len(s) / 2
	return s[:half:half], s[half:]
}

// System is a dynamics model: a pure function from (t, x) to dx/dt.
// Implementations return a SingularityError where the law is undefined.
type System interface {
	Derive(t float64, x State) (State, error)
	StateDim() int
}

// Hamiltonian is implemented by systems with a conserved (or tracked) energy.
type Hamiltonian interface {
	Energy(x State) float64
}

// Validator is implemented by systems whose parameters can be malformed.
type Validator interface {
	Validate() error
}

// Configurable exposes a model's constants by name. Parameters are set
// before a run and stay fixed for its lifetime.
type Configurable interface {
	Name() string
	Params() map[string]float64
	SetParam(name string, value float64) error
}

type Integrator interface {
	Step(sys System, t float64, x State, dt float64) (State, error)
}

// AdaptiveIntegrator controls the step size from a local error estimate.
// StepAdaptive returns the accepted state, the step actually taken and the
// proposed next step.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, t float64, x State, dt, tol float64) (next State, taken, proposed float64, err error)
}

type Observer interface {
	OnStep(p Point)
}

// Config holds the fixed-step schedule of one run.
type Config struct {
	T0       float64
	Dt       float64
	// Duration is covered by floor(Duration/Dt) whole steps, so a Duration
	// that is not a multiple of Dt ends the grid at T0 + Steps()*Dt, short of
	// T0 + Duration by less than one step.
	Duration float64
	// MaxSteps caps the number of steps when positive.
	MaxSteps int
	// EventTolerance is the absolute time tolerance for crossing refinement.
	// Zero selects Dt * DefaultEventScale.
	EventTolerance float64
}

// MaxGridSteps bounds Duration/Dt so that step indices and grid times stay
// exact in float64.
const MaxGridSteps = 1 << 53

// DefaultEventScale relates the default event tolerance to the step size.
const DefaultEventScale = 1e-6

func DefaultConfig() Config {
	return Config{
		Dt:       0.01,
		Duration: 10.0,
	}
}

func (c Config) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return Invalid("dt", "must be positive and finite, got %v", c.Dt)
	}
	if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
		return Invalid("duration", "must be positive and finite, got %v", c.Duration)
	}
	if c.Duration < c.Dt {
		return Invalid("duration", "%v is shorter than one step of %v", c.Duration, c.Dt)
	}
	if c.Duration/c.Dt > MaxGridSteps {
		return Invalid("duration", "%v spans more than %d steps of %v", c.Duration, MaxGridSteps, c.Dt)
	}
	if math.IsNaN(c.T0) || math.IsInf(c.T0, 0) {
		return Invalid("t0", "must be finite, got %v", c.T0)
	}
	if c.MaxSteps < 0 {
		return Invalid("max_steps", "must not be negative, got %d", c.MaxSteps)
	}
	if c.EventTolerance < 0 || math.IsNaN(c.EventTolerance) {
		return Invalid("event_tolerance", "must not be negative, got %v", c.EventTolerance)
	}
	return nil
}

// Steps returns the number of fixed steps covering Duration, honoring MaxSteps.
func (c Config) Steps() int {
	n := int(math.Floor(c.Duration/c.Dt + 1e-9))
	if c.MaxSteps > 0 && n > c.MaxSteps {
		n = c.MaxSteps
	}
	return n
}

// TimeAt returns the grid time of step i. Times are computed from T0 rather
// than accumulated, so the spacing is exactly Dt.
func (c Config) TimeAt(i int) float64 {
	return c.T0 + float64(i)*c.Dt
}

func (c Config) Tolerance() float64 {
	if c.EventTolerance > 0 {
		return c.EventTolerance
	}
	return c.Dt * DefaultEventScale
}

// CheckDim verifies x matches the system dimension and is finite.
func CheckDim(sys System, x State) error {
	if len(x) != sys.StateDim() {
		return fmt.Errorf("%w: state has %d components, system expects %d", ErrDimensionMismatch, len(x), sys.StateDim())
	}
	if !x.IsValid() {
		return Invalid("init_state", "must be finite, got %v", []float64(x))
	}
	return nil
}
