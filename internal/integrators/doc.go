// Package integrators implements single-step ODE solvers behind the
// [dynamo.Integrator] contract.
//
//   - [RK4]: classical fourth-order Runge-Kutta, the default
//   - [RK45]: Dormand-Prince 5(4) with an embedded error estimate
//   - [Euler]: first-order forward Euler, kept as a convergence reference
//
// Every Step either returns a finite state or an error. Errors from the
// dynamics (for example a singularity) are returned unchanged; a non-finite
// result is reported as a [dynamo.NumericalInstabilityError].
//
// Integrators with scratch buffers are not safe for concurrent use; build
// one per simulation.
package integrators
