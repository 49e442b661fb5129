package experiment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/trajsim/internal/config"
	"github.com/san-kum/trajsim/internal/diagnostics"
	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/events"
	"github.com/san-kum/trajsim/internal/physics"
	"github.com/san-kum/trajsim/internal/sim"
)

// Experiment is a scenario resolved against a registry: a validated model,
// initial state, time grid and event conditions.
type Experiment struct {
	Scenario   *config.Scenario
	Model      Model
	X0         dynamo.State
	Config     dynamo.Config
	Conditions []events.Condition

	reg *Registry
}

// Outcome pairs a run result with its diagnostics.
type Outcome struct {
	Name        string
	Result      *sim.Result
	Diagnostics diagnostics.Set
}

func New(reg *Registry, s *config.Scenario) (*Experiment, error) {
	m, err := reg.GetModel(s.Model, s.Params)
	if err != nil {
		return nil, err
	}
	if _, err := reg.GetIntegrator(s.Integrator); err != nil {
		return nil, err
	}

	x0 := dynamo.State(s.InitState).Clone()
	if len(x0) == 0 {
		x0 = m.DefaultState()
	}
	if err := dynamo.CheckDim(m, x0); err != nil {
		if errors.Is(err, dynamo.ErrDimensionMismatch) {
			return nil, dynamo.Invalid("init_state", "%v", err)
		}
		return nil, err
	}

	cfg := s.RunConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	conds, err := s.Conditions(m.StateDim())
	if err != nil {
		return nil, err
	}

	return &Experiment{
		Scenario:   s,
		Model:      m,
		X0:         x0,
		Config:     cfg,
		Conditions: conds,
		reg:        reg,
	}, nil
}

func (e *Experiment) Name() string {
	if e.Scenario.Name != "" {
		return e.Scenario.Name
	}
	return e.Scenario.Model
}

// Simulator builds a fresh simulator with its own integrator instance.
func (e *Experiment) Simulator(opts ...sim.Option) (*sim.Simulator, error) {
	integ, err := e.reg.GetIntegrator(e.Scenario.Integrator)
	if err != nil {
		return nil, err
	}
	opts = append([]sim.Option{sim.WithEvents(e.Conditions...)}, opts...)
	return sim.New(e.Model, integ, opts...), nil
}

// Job packages the experiment for a sim.Batch.
func (e *Experiment) Job(opts ...sim.Option) sim.Job {
	return sim.Job{
		Name:   e.Name(),
		Build:  func() (*sim.Simulator, error) { return e.Simulator(opts...) },
		X0:     e.X0,
		Config: e.Config,
	}
}

// Lyapunov estimates the largest Lyapunov exponent along the scenario's own
// grid, starting from a separation of d0 in the first component.
func (e *Experiment) Lyapunov(d0 float64) (float64, error) {
	integ, err := e.reg.GetIntegrator(e.Scenario.Integrator)
	if err != nil {
		return 0, err
	}
	return diagnostics.Lyapunov(e.Model, integ, e.X0, e.Config.T0, e.Config.Dt, e.Config.Steps(), d0)
}

// Run integrates the scenario and computes diagnostics. A failed or
// canceled run still returns its Outcome alongside the error.
func (e *Experiment) Run(ctx context.Context, opts ...sim.Option) (*Outcome, error) {
	s, err := e.Simulator(opts...)
	if err != nil {
		return nil, err
	}
	res, runErr := s.Run(ctx, e.X0, e.Config)
	if res == nil {
		return nil, runErr
	}
	return e.outcome(res, runErr)
}

func (e *Experiment) outcome(res *sim.Result, runErr error) (*Outcome, error) {
	out := &Outcome{Name: e.Name(), Result: res}
	set, err := Diagnose(e.Model, res.Trajectory)
	if runErr != nil {
		out.Diagnostics = set
		return out, runErr
	}
	if err != nil {
		return out, fmt.Errorf("diagnostics: %w", err)
	}
	out.Diagnostics = set
	return out, nil
}

// Diagnose picks the diagnostics that apply to m. Trajectories with a
// single point only get the generic step count.
func Diagnose(m Model, traj *dynamo.Trajectory) (diagnostics.Set, error) {
	set := diagnostics.Set{"points": float64(traj.Len())}
	if traj.Len() < 2 {
		return set, nil
	}

	switch m := m.(type) {
	case *physics.TwoBody:
		o, err := diagnostics.Orbit(traj, m.GM)
		if err != nil {
			return nil, err
		}
		set.Merge("orbit", o.Set())
	case *physics.Lorentz:
		if m.FieldStrength() == 0 {
			set.Merge("", diagnostics.Energy(traj, m))
			break
		}
		g, err := diagnostics.Gyro(traj, m)
		if err != nil {
			return nil, err
		}
		set.Merge("gyro", g)
	case *physics.Pendulum:
		p, err := diagnostics.PendulumEnergy(traj, m)
		if err != nil {
			return nil, err
		}
		set.Merge("pendulum", p)
	case *physics.Projectile:
		f, err := diagnostics.Projectile(traj, m.VerticalAxis())
		if err != nil {
			return nil, err
		}
		set.Merge("flight", f.Set())
		if m.Drag == 0 {
			if r, ok := closedFormRange(m, traj); ok {
				set["flight.closed_form_range"] = r
			}
		}
	default:
		if h, ok := m.(dynamo.Hamiltonian); ok {
			set.Merge("", diagnostics.Energy(traj, h))
		}
	}
	return set, nil
}

// closedFormRange applies only to launches from ground level under
// vertical gravity.
func closedFormRange(p *physics.Projectile, traj *dynamo.Trajectory) (float64, bool) {
	first, _ := traj.First()
	n, up := p.Dim, p.VerticalAxis()
	for i := 0; i < 3; i++ {
		if i != up && p.Gravity[i] != 0 {
			return 0, false
		}
	}
	if first.X[up] != 0 || p.Gravity[up] >= 0 {
		return 0, false
	}
	for i := 1; i < n; i++ {
		if i != up && first.X[n+i] != 0 {
			return 0, false
		}
	}
	vx, vy := first.X[n], first.X[n+up]
	v0 := math.Hypot(vx, vy)
	return diagnostics.ClosedFormRange(v0, math.Atan2(vy, vx), -p.Gravity[up]), true
}
