package dynamo

import "fmt"

// Point is one time-stamped state.
type Point struct {
	T float64
	X State
}

// Trajectory is an ordered, append-only sequence of points. It is owned by
// the simulator during a run and frozen when handed to a consumer.
type Trajectory struct {
	points []Point
	frozen bool
}

func NewTrajectory(capacity int) *Trajectory {
	if capacity < 0 {
		capacity = 0
	}
	return &Trajectory{points: make([]Point, 0, capacity)}
}

// Append stores a copy of p. Times must strictly increase.
func (tr *Trajectory) Append(p Point) error {
	if tr.frozen {
		return ErrTrajectoryFrozen
	}
	if n := len(tr.points); n > 0 && !(p.T > tr.points[n-1].T) {
		return fmt.Errorf("%w: t=%v after t=%v", ErrNonMonotonicTime, p.T, tr.points[n-1].T)
	}
	tr.points = append(tr.points, Point{T: p.T, X: p.X.Clone()})
	return nil
}

// Freeze marks the trajectory read-only.
func (tr *Trajectory) Freeze()      { tr.frozen = true }
func (tr *Trajectory) Frozen() bool { return tr.frozen }

func (tr *Trajectory) Len() int { return len(tr.points) }

func (tr *Trajectory) At(i int) Point { return tr.points[i] }

func (tr *Trajectory) First() (Point, bool) {
	if len(tr.points) == 0 {
		return Point{}, false
	}
	return tr.points[0], true
}

func (tr *Trajectory) Last() (Point, bool) {
	if len(tr.points) == 0 {
		return Point{}, false
	}
	return tr.points[len(tr.points)-1], true
}

// Dim returns the state dimension, or 0 for an empty trajectory.
func (tr *Trajectory) Dim() int {
	if len(tr.points) == 0 {
		return 0
	}
	return len(tr.points[0].X)
}

// Points returns a copy of the point slice.
func (tr *Trajectory) Points() []Point {
	out := make([]Point, len(tr.points))
	copy(out, tr.points)
	return out
}

func (tr *Trajectory) Times() []float64 {
	out := make([]float64, len(tr.points))
	for i, p := range tr.points {
		out[i] = p.T
	}
	return out
}

// Component returns the i-th state component over time.
func (tr *Trajectory) Component(i int) []float64 {
	out := make([]float64, len(tr.points))
	for j, p := range tr.points {
		if i < len(p.X) {
			out[j] = p.X[i]
		}
	}
	return out
}

// Rows returns the tabular (time, x0..xn) shape used by exporters.
func (tr *Trajectory) Rows() [][]float64 {
	rows := make([][]float64, len(tr.points))
	for i, p := range tr.points {
		row := make([]float64, 0, len(p.X)+1)
		row = append(row, p.T)
		row = append(row, p.X...)
		rows[i] = row
	}
	return rows
}
