package diagnostics

import (
	"fmt"
	"math"

	"github.com/san-kum/trajsim/internal/dynamo"
)

type OrbitClass int

const (
	Elliptical OrbitClass = iota
	Parabolic
	Hyperbolic
)

func (c OrbitClass) String() string {
	switch c {
	case Elliptical:
		return "elliptical"
	case Parabolic:
		return "parabolic"
	case Hyperbolic:
		return "hyperbolic"
	default:
		return "unknown"
	}
}

// SpecificEnergy is v²/2 - gm/r for a relative state (r, v) of dimension
// 2*dim.
func SpecificEnergy(x dynamo.State, gm float64) float64 {
	r, v := x.Split()
	return 0.5*dot(v, v) - gm/math.Sqrt(dot(r, r))
}

// ClassifyOrbit treats |energy| <= tol as parabolic.
func ClassifyOrbit(energy, tol float64) OrbitClass {
	switch {
	case math.Abs(energy) <= tol:
		return Parabolic
	case energy < 0:
		return Elliptical
	default:
		return Hyperbolic
	}
}

type OrbitSummary struct {
	Class         OrbitClass
	EnergyInitial float64
	EnergyFinal   float64
	EnergyDrift   float64
	// SemiMajorAxis is NaN unless the orbit is elliptical.
	SemiMajorAxis float64
	Eccentricity  float64
	MinRadius     float64
	MaxRadius     float64
}

func (o OrbitSummary) Set() Set {
	return Set{
		"energy_initial":  o.EnergyInitial,
		"energy_final":    o.EnergyFinal,
		"energy_drift":    o.EnergyDrift,
		"semi_major_axis": o.SemiMajorAxis,
		"eccentricity":    o.Eccentricity,
		"min_radius":      o.MinRadius,
		"max_radius":      o.MaxRadius,
		"orbit_class":     float64(o.Class),
	}
}

// ClassTolerance is the specific energy band classified as parabolic.
const ClassTolerance = 1e-9

// Orbit classifies a two-body trajectory from its initial state and reports
// how well the integration held energy.
func Orbit(traj *dynamo.Trajectory, gm float64) (OrbitSummary, error) {
	first, ok := traj.First()
	if !ok {
		return OrbitSummary{}, fmt.Errorf("orbit: %w", errEmpty)
	}
	if len(first.X)%2 != 0 {
		return OrbitSummary{}, fmt.Errorf("orbit: %w: odd state dimension %d", dynamo.ErrDimensionMismatch, len(first.X))
	}
	last, _ := traj.Last()

	eps := SpecificEnergy(first.X, gm)
	o := OrbitSummary{
		Class:         ClassifyOrbit(eps, ClassTolerance),
		EnergyInitial: eps,
		EnergyFinal:   SpecificEnergy(last.X, gm),
		SemiMajorAxis: math.NaN(),
		MinRadius:     math.Inf(1),
	}
	o.EnergyDrift = relative(o.EnergyFinal, o.EnergyInitial)
	if o.Class == Elliptical {
		// vis-viva
		o.SemiMajorAxis = -gm / (2 * eps)
	}

	r, v := first.X.Split()
	h := cross(embed(r), embed(v))
	h2 := dot(h[:], h[:])
	o.Eccentricity = math.Sqrt(math.Max(0, 1+2*eps*h2/(gm*gm)))

	for _, p := range traj.Points() {
		pos, _ := p.X.Split()
		rad := math.Sqrt(dot(pos, pos))
		o.MinRadius = math.Min(o.MinRadius, rad)
		o.MaxRadius = math.Max(o.MaxRadius, rad)
	}
	return o, nil
}
