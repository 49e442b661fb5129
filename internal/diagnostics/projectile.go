package diagnostics

import (
	"fmt"
	"math"

	"github.com/san-kum/trajsim/internal/dynamo"
)

type FlightSummary struct {
	Range      float64
	Apex       float64
	FlightTime float64
}

func (f FlightSummary) Set() Set {
	return Set{"range": f.Range, "apex": f.Apex, "flight_time": f.FlightTime}
}

// Projectile measures range along x, apex height along the vertical axis
// and elapsed time. Range is the horizontal distance from the launch point
// to the last point, so a run stopped by a ground event gives the landing
// range.
func Projectile(traj *dynamo.Trajectory, vertical int) (FlightSummary, error) {
	first, ok := traj.First()
	if !ok {
		return FlightSummary{}, fmt.Errorf("projectile: %w", errEmpty)
	}
	if vertical <= 0 || vertical >= len(first.X)/2 {
		return FlightSummary{}, dynamo.Invalid("vertical", "axis %d out of range for dimension %d", vertical, len(first.X)/2)
	}
	last, _ := traj.Last()

	apex := math.Inf(-1)
	for _, h := range traj.Component(vertical) {
		apex = math.Max(apex, h)
	}
	return FlightSummary{
		Range:      last.X[0] - first.X[0],
		Apex:       apex,
		FlightTime: last.T - first.T,
	}, nil
}

// ClosedFormRange is the drag-free range v0² sin(2θ) / g on level ground.
func ClosedFormRange(v0, angle, g float64) float64 {
	return v0 * v0 * math.Sin(2*angle) / g
}
