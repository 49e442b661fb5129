package diagnostics

import (
	"math"

	"github.com/san-kum/trajsim/internal/dynamo"
)

// PoincareSection samples traj stroboscopically at start + k*period,
// interpolating linearly between grid points. For a forced pendulum, period
// is the forcing period 2π/Ω.
func PoincareSection(traj *dynamo.Trajectory, start, period float64) ([]dynamo.Point, error) {
	if !(period > 0) || math.IsInf(period, 0) {
		return nil, dynamo.Invalid("period", "must be positive, got %v", period)
	}
	pts := traj.Points()
	if len(pts) < 2 {
		return nil, nil
	}

	var out []dynamo.Point
	j := 0
	end := pts[len(pts)-1].T
	for k := 0; ; k++ {
		at := start + float64(k)*period
		if at > end {
			break
		}
		if at < pts[0].T {
			continue
		}
		for j+1 < len(pts)-1 && pts[j+1].T < at {
			j++
		}
		a, b := pts[j], pts[j+1]
		s := (at - a.T) / (b.T - a.T)
		x := make(dynamo.State, len(a.X))
		for i := range x {
			x[i] = a.X[i] + s*(b.X[i]-a.X[i])
		}
		out = append(out, dynamo.Point{T: at, X: x})
	}
	return out, nil
}
