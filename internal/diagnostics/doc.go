// Package diagnostics turns finished trajectories into named scalar metrics.
//
// Every function here is pure: it reads a [dynamo.Trajectory] (or a sample
// series) and returns either a typed summary or a [Set]. Nothing writes
// files or renders.
//
// # Streaming metrics
//
// [EnergyDrift] and [Boundedness] implement [dynamo.Observer] so they can be
// attached to a simulator and read after the run:
//
//	drift := diagnostics.NewEnergyDrift(pendulum)
//	s := sim.New(pendulum, integrators.NewRK4(), sim.WithObserver(drift))
//	_, _ = s.Run(ctx, x0, cfg)
//	fmt.Println(drift.Value())
package diagnostics
