// Package physics provides the dynamics models driven by the simulator.
//
// Each model implements [dynamo.System], defining the differential law that
// maps (t, x) to dx/dt:
//
//   - [Lorentz]: charged particle in uniform E and B fields
//   - [TwoBody]: payload in a central inverse-square gravity field
//   - [Pendulum]: simple, damped, forced or forced-damped pendulum
//   - [Projectile]: uniform gravity with linear (velocity-proportional) drag
//
// All models also implement [dynamo.Validator], [dynamo.Configurable] and
// [dynamo.Hamiltonian]. Derive is pure; models hold only their constants.
//
// # Singularities
//
// TwoBody is undefined at zero separation. Rather than clamping the radius,
// Derive returns a [dynamo.SingularityError] and the run fails with its
// trajectory intact:
//
//	dyn := physics.NewTwoBody(2)
//	_, err := dyn.Derive(0, dynamo.State{0, 0, 1, 0})
//	errors.Is(err, dynamo.ErrSingularity) // true
package physics
