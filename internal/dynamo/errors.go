package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrConfiguration indicates malformed parameters, rejected before any stepping.
	ErrConfiguration = errors.New("dynamo: invalid configuration")

	// ErrSingularity indicates the dynamics are undefined at the evaluated state.
	ErrSingularity = errors.New("dynamo: dynamics undefined at state")

	// ErrNumericalInstability indicates a step produced NaN or Inf.
	ErrNumericalInstability = errors.New("dynamo: simulation unstable (non-finite state)")

	// ErrEventAmbiguity indicates an expected event never crossed zero.
	ErrEventAmbiguity = errors.New("dynamo: expected event never occurred")

	// ErrDimensionMismatch indicates mismatched state and system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrNonMonotonicTime indicates a trajectory point that does not advance time.
	ErrNonMonotonicTime = errors.New("dynamo: trajectory time must strictly increase")

	// ErrTrajectoryFrozen indicates an append after ownership was handed off.
	ErrTrajectoryFrozen = errors.New("dynamo: trajectory is read-only")
)

// ConfigurationError describes a parameter rejected during validation.
type ConfigurationError struct {
	Field  string
	Reason string
}

// Invalid builds a ConfigurationError for field.
func Invalid(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("dynamo: invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// SingularityError reports a state at which a model is mathematically undefined.
type SingularityError struct {
	Model  string
	Time   float64
	Detail string
}

func (e *SingularityError) Error() string {
	return fmt.Sprintf("dynamo: %s singular at t=%.6g: %s", e.Model, e.Time, e.Detail)
}

func (e *SingularityError) Unwrap() error { return ErrSingularity }

// NumericalInstabilityError reports the first non-finite component of a step.
type NumericalInstabilityError struct {
	Time  float64
	Index int
	Value float64
}

func (e *NumericalInstabilityError) Error() string {
	return fmt.Sprintf("dynamo: non-finite component x[%d]=%v at t=%.6g", e.Index, e.Value, e.Time)
}

func (e *NumericalInstabilityError) Unwrap() error { return ErrNumericalInstability }

// EventAmbiguityWarning is non-fatal: the run completes and the warning is
// attached to the result.
type EventAmbiguityWarning struct {
	Condition string
	From, To  float64
}

func (e *EventAmbiguityWarning) Error() string {
	return fmt.Sprintf("dynamo: event %q had no sign change over [%.6g, %.6g]", e.Condition, e.From, e.To)
}

func (e *EventAmbiguityWarning) Unwrap() error { return ErrEventAmbiguity }

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// CheckFinite returns a NumericalInstabilityError for the first NaN or Inf in x.
func CheckFinite(x State, t float64) error {
	if i := x.firstInvalid(); i >= 0 {
		return &NumericalInstabilityError{Time: t, Index: i, Value: x[i]}
	}
	return nil
}
