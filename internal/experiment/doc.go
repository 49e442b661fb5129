// Package experiment resolves scenarios into runnable simulations.
//
// A [Registry] maps model and integrator names to constructors. [New]
// checks a [config.Scenario] against it and returns an [Experiment] that
// can run once, produce a [sim.Job] for a batch, or be swept over a
// parameter with [Sweep].
package experiment
