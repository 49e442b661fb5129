package diagnostics

import (
	"fmt"
	"math"

	"github.com/san-kum/trajsim/internal/dynamo"
)

// Lyapunov estimates the largest Lyapunov exponent by following a reference
// and a perturbed copy of x0 for steps fixed steps of dt, renormalizing the
// separation back to d0 after each step. A positive value indicates chaos.
//
// The integrator is shared between both copies, so it must not be in use
// elsewhere.
func Lyapunov(sys dynamo.System, integ dynamo.Integrator, x0 dynamo.State, t0, dt float64, steps int, d0 float64) (float64, error) {
	if err := dynamo.CheckDim(sys, x0); err != nil {
		return 0, err
	}
	if !(dt > 0) || steps <= 0 || !(d0 > 0) {
		return 0, dynamo.Invalid("lyapunov", "need dt > 0, steps > 0 and d0 > 0")
	}

	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += d0

	sumLog := 0.0
	for i := 0; i < steps; i++ {
		t := t0 + float64(i)*dt
		next, err := integ.Step(sys, t, x, dt)
		if err != nil {
			return 0, fmt.Errorf("lyapunov step %d: %w", i, err)
		}
		nextp, err := integ.Step(sys, t, xp, dt)
		if err != nil {
			return 0, fmt.Errorf("lyapunov step %d: %w", i, err)
		}

		sep := nextp.Sub(next).Norm()
		if sep == 0 {
			return math.Inf(-1), nil
		}
		sumLog += math.Log(sep / d0)

		scale := d0 / sep
		for j := range nextp {
			nextp[j] = next[j] + (nextp[j]-next[j])*scale
		}
		x, xp = next, nextp
	}
	return sumLog / (float64(steps) * dt), nil
}
