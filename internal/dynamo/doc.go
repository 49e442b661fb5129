// Package dynamo provides the core primitives shared by the trajectory engine.
//
// The package defines the data model and the contracts every other engine
// package is written against:
//
//   - [State]: ordered position/velocity tuple of fixed dimension
//   - [Point], [Trajectory]: time-stamped states, append-only during a run
//   - [System]: a dynamics model, dX/dt = f(t, X)
//   - [Integrator]: advances a state by one step of a System
//   - [Config]: step size, horizon and limits for one run
//
// # Errors
//
// Failures are reported with typed errors that wrap a sentinel, so callers
// can branch with errors.Is and inspect details with errors.As:
//
//	if errors.Is(err, dynamo.ErrSingularity) {
//	    var se *dynamo.SingularityError
//	    errors.As(err, &se)
//	}
//
// Nothing in this package performs I/O.
package dynamo
