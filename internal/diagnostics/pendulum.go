package diagnostics

import (
	"fmt"
	"math"

	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/physics"
)

// minSpectrumSamples is the shortest series DominantFrequency accepts.
const minSpectrumSamples = 4

// PendulumEnergy reports initial, final and worst relative energy drift
// plus the dominant angular oscillation frequency in Hz. The frequency is
// left out for series too short to transform. Forced pendulums also get a
// stroboscopic section at the forcing period.
func PendulumEnergy(traj *dynamo.Trajectory, p *physics.Pendulum) (Set, error) {
	if traj.Len() < 2 {
		return nil, fmt.Errorf("pendulum: %w", errEmpty)
	}
	out := Energy(traj, p)
	out["natural_frequency"] = p.NaturalFrequency()

	if traj.Len() >= minSpectrumSamples {
		times := traj.Times()
		f, err := DominantFrequency(traj.Component(0), times[1]-times[0])
		if err != nil {
			return nil, err
		}
		out["dominant_frequency"] = f
	}

	if p.ForceAmp != 0 && p.ForceFreq != 0 {
		first, _ := traj.First()
		section, err := PoincareSection(traj, first.T, 2*math.Pi/math.Abs(p.ForceFreq))
		if err != nil {
			return nil, err
		}
		out["section_points"] = float64(len(section))
		if len(section) > 0 {
			out["section_omega_spread"] = spread(section, 1)
		}
	}
	return out, nil
}

// spread is max-min of component i over pts. A period-1 response collapses
// to a single section point, so its spread tends to zero.
func spread(pts []dynamo.Point, i int) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		lo = math.Min(lo, p.X[i])
		hi = math.Max(hi, p.X[i])
	}
	return hi - lo
}
