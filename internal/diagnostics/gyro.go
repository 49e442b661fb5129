package diagnostics

import (
	"fmt"
	"math"

	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/physics"
)

// LarmorRadius is m v⊥ / (|q| B).
func LarmorRadius(mass, charge, vPerp, b float64) float64 {
	return mass * vPerp / (math.Abs(charge) * b)
}

// CyclotronPeriod is 2πm / (|q| B).
func CyclotronPeriod(mass, charge, b float64) float64 {
	return 2 * math.Pi * mass / (math.Abs(charge) * b)
}

// DriftVelocity is E×B / |B|².
func DriftVelocity(e, b [3]float64) [3]float64 {
	b2 := dot(b[:], b[:])
	d := cross(e, b)
	for i := range d {
		d[i] /= b2
	}
	return d
}

// DriftSpeed is |E×B| / |B|², which reduces to |E|/|B| for perpendicular
// fields.
func DriftSpeed(e, b [3]float64) float64 {
	return norm(DriftVelocity(e, b))
}

// Gyro compares a charged particle trajectory against guiding-center
// theory. radius_error is the largest deviation of the distance to the
// drifting guiding center from the Larmor radius, measured perpendicular
// to B.
func Gyro(traj *dynamo.Trajectory, l *physics.Lorentz) (Set, error) {
	first, ok := traj.First()
	if !ok {
		return nil, fmt.Errorf("gyro: %w", errEmpty)
	}
	b := l.FieldStrength()
	if b == 0 {
		return nil, dynamo.Invalid("lorentz.b", "gyro diagnostics need a magnetic field")
	}
	bhat := l.B
	for i := range bhat {
		bhat[i] /= b
	}
	vd := DriftVelocity(l.E, l.B)

	r0, v0 := first.X.Split()
	w := sub(embed(v0), vd)
	wPerp := perp(w, bhat)
	rL := LarmorRadius(l.Mass, l.Charge, norm(wPerp), b)

	// guiding center R = r + m/(qB²) (w × B)
	k := l.Mass / (l.Charge * b * b)
	wxb := cross(wPerp, l.B)
	center := embed(r0)
	for i := range center {
		center[i] += k * wxb[i]
	}

	worst := 0.0
	for _, p := range traj.Points() {
		pos, _ := p.X.Split()
		rel := embed(pos)
		dt := p.T - first.T
		for i := range rel {
			rel[i] -= center[i] + vd[i]*dt
		}
		worst = math.Max(worst, math.Abs(norm(perp(rel, bhat))-rL))
	}

	out := Set{
		"larmor_radius":    rL,
		"cyclotron_period": CyclotronPeriod(l.Mass, l.Charge, b),
		"drift_speed":      norm(vd),
		"radius_error":     worst,
	}
	out.Merge("", Energy(traj, l))
	return out, nil
}

func sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// perp removes the component of v along the unit vector n.
func perp(v, n [3]float64) [3]float64 {
	s := dot(v[:], n[:])
	return [3]float64{v[0] - s*n[0], v[1] - s*n[1], v[2] - s*n[2]}
}
