package sim

import (
	"context"
	"errors"
	"log/slog"

	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/events"
)

// Simulator owns the step loop of one dynamics model. It keeps no state
// between runs other than its configuration, but the integrator may hold
// scratch buffers, so a Simulator must not run concurrently with itself.
type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	conditions []events.Condition
	observers  []dynamo.Observer
	logger     *slog.Logger
}

// initialCapacity bounds the up-front trajectory allocation; longer runs grow
// by append.
const initialCapacity = 1 << 16

type Option func(*Simulator)

func WithEvents(conds ...events.Condition) Option {
	return func(s *Simulator) { s.conditions = append(s.conditions, conds...) }
}

func WithObserver(o dynamo.Observer) Option {
	return func(s *Simulator) { s.observers = append(s.observers, o) }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(dyn dynamo.System, integrator dynamo.Integrator, opts ...Option) *Simulator {
	s := &Simulator{
		dyn:        dyn,
		integrator: integrator,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run integrates from x0 on the fixed grid cfg.T0 + i*cfg.Dt.
//
// Configuration problems return a nil Result and a *dynamo.ConfigurationError
// before any step is taken. Failed and Canceled runs return both the Result,
// holding the trajectory up to the last valid point, and its Err.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg dynamo.Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}
	det, err := events.NewDetector(cfg.Tolerance(), s.conditions...)
	if err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	traj := dynamo.NewTrajectory(min(steps+1, initialCapacity))
	result := &Result{Status: Running, Trajectory: traj}

	x := x0.Clone()
	t := cfg.T0
	if err := s.record(traj, dynamo.Point{T: t, X: x}); err != nil {
		return nil, err
	}

	log := s.logger.With("steps", steps, "dt", cfg.Dt)
	log.Debug("run started", "t0", cfg.T0, "events", det.Len())

	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return s.abort(result, Canceled, ReasonCanceled, i, t, x, err)
		}

		tNext := cfg.TimeAt(i + 1)
		next, err := s.integrator.Step(s.dyn, t, x, tNext-t)
		if err != nil {
			return s.abort(result, Failed, failureReason(err), i, t, x, err)
		}

		prev := dynamo.Point{T: t, X: x}
		curr := dynamo.Point{T: tNext, X: next}
		found, err := det.Check(prev, curr, s.propagator(prev))
		if err != nil {
			return s.abort(result, Failed, failureReason(err), i, t, x, err)
		}
		result.Events = append(result.Events, found...)

		if n := len(found); n > 0 && found[n-1].Terminal {
			stop := found[n-1]
			if err := s.record(traj, stop.Point); err != nil {
				return s.abort(result, Failed, ReasonModel, i, t, x, err)
			}
			result.StepsTaken++
			result.Stop = &stop
			result.Status = Terminated
			result.Reason = ReasonEvent
			result.Warnings = det.Ambiguities(cfg.T0, stop.Point.T)
			traj.Freeze()
			log.Info("run terminated by event", "event", stop.Name, "t", stop.Point.T)
			return result, nil
		}

		if err := s.record(traj, curr); err != nil {
			return s.abort(result, Failed, ReasonModel, i, t, x, err)
		}
		x, t = next, tNext
		result.StepsTaken++
	}

	result.Status = Completed
	result.Reason = ReasonDuration
	unlimited := cfg
	unlimited.MaxSteps = 0
	if steps < unlimited.Steps() {
		result.Reason = ReasonStepLimit
	}
	result.Warnings = det.Ambiguities(cfg.T0, t)
	for _, w := range result.Warnings {
		log.Warn("event ambiguity", "error", w)
	}
	traj.Freeze()
	log.Debug("run completed", "t", t, "reason", result.Reason)
	return result, nil
}

func (s *Simulator) validate(x0 dynamo.State, cfg dynamo.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if v, ok := s.dyn.(dynamo.Validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if err := dynamo.CheckDim(s.dyn, x0); err != nil {
		if errors.Is(err, dynamo.ErrDimensionMismatch) {
			return dynamo.Invalid("init_state", "%v", err)
		}
		return err
	}
	return nil
}

// propagator re-integrates a partial step from prev, giving event refinement
// the integrator's own accuracy inside the step.
func (s *Simulator) propagator(prev dynamo.Point) events.Propagator {
	return func(tau float64) (dynamo.State, error) {
		return s.integrator.Step(s.dyn, prev.T, prev.X, tau-prev.T)
	}
}

func (s *Simulator) record(traj *dynamo.Trajectory, p dynamo.Point) error {
	if err := traj.Append(p); err != nil {
		return err
	}
	for _, obs := range s.observers {
		obs.OnStep(p)
	}
	return nil
}

func (s *Simulator) abort(result *Result, status Status, reason string, step int, t float64, x dynamo.State, cause error) (*Result, error) {
	result.Status = status
	result.Reason = reason
	result.Err = &dynamo.SimulationError{Step: step, Time: t, State: x.Clone(), Wrapped: cause}
	result.Trajectory.Freeze()
	s.logger.Warn("run stopped", "status", status.String(), "reason", reason, "step", step, "t", t, "error", cause)
	return result, result.Err
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, dynamo.ErrSingularity):
		return ReasonSingularity
	case errors.Is(err, dynamo.ErrNumericalInstability):
		return ReasonInstability
	case errors.Is(err, dynamo.ErrDimensionMismatch):
		return ReasonDimension
	default:
		return ReasonModel
	}
}
