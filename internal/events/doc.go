// Package events detects zero crossings of scalar functions of state.
//
// A [Condition] pairs a function g(t, x) with a required crossing
// [Direction] and a terminal flag. The [Detector] compares consecutive
// trajectory points, refines every crossing by bisection to an absolute time
// tolerance and returns the crossings ordered by refined time. Only the
// first terminal crossing in that order halts a run; later crossings in the
// same step are dropped.
//
// A function that is exactly zero at the earlier point does not count as a
// new crossing, so a projectile launched from y=0 is not stopped at launch.
package events
