package events

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/trajsim/internal/dynamo"
)

// DefaultMaxIterations bounds the bisection loop.
const DefaultMaxIterations = 100

// Propagator returns the state at time tau inside the step being checked.
// The simulator re-integrates from the earlier point over tau - prev.T.
type Propagator func(tau float64) (dynamo.State, error)

// Detector holds per-run detection state; build one per simulation.
type Detector struct {
	conds   []Condition
	tol     float64
	maxIter int
	fired   []bool
}

func NewDetector(tol float64, conds ...Condition) (*Detector, error) {
	if !(tol > 0) || math.IsInf(tol, 0) {
		return nil, dynamo.Invalid("event_tolerance", "must be positive, got %v", tol)
	}
	seen := make(map[string]bool, len(conds))
	for _, c := range conds {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if seen[c.Name] {
			return nil, dynamo.Invalid("event.name", "duplicate condition %q", c.Name)
		}
		seen[c.Name] = true
	}
	return &Detector{
		conds:   append([]Condition(nil), conds...),
		tol:     tol,
		maxIter: DefaultMaxIterations,
		fired:   make([]bool, len(conds)),
	}, nil
}

func (d *Detector) Len() int           { return len(d.conds) }
func (d *Detector) Tolerance() float64 { return d.tol }

// Check returns the crossings between prev and curr ordered by refined time,
// truncated after the first terminal one. A nil propagate interpolates the
// state linearly.
func (d *Detector) Check(prev, curr dynamo.Point, propagate Propagator) ([]Crossing, error) {
	if propagate == nil {
		propagate = linear(prev, curr)
	}

	var found []Crossing
	var owners []int
	for i, c := range d.conds {
		g0 := c.Func(prev.T, prev.X)
		g1 := c.Func(curr.T, curr.X)
		dir, ok := crossed(c.Direction, g0, g1)
		if !ok {
			continue
		}

		p, iters, err := d.refine(c, dir, prev, curr, propagate)
		if err != nil {
			return nil, fmt.Errorf("refine event %q: %w", c.Name, err)
		}
		found = append(found, Crossing{
			Name:       c.Name,
			Point:      p,
			Direction:  dir,
			Terminal:   c.Terminal,
			Iterations: iters,
		})
		owners = append(owners, i)
	}

	order := make([]int, len(found))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return found[order[a]].Point.T < found[order[b]].Point.T
	})

	sorted := make([]Crossing, 0, len(found))
	for _, k := range order {
		sorted = append(sorted, found[k])
		d.fired[owners[k]] = true
		if found[k].Terminal {
			break
		}
	}
	return sorted, nil
}

// Ambiguities reports Expected conditions that never fired over [from, to].
func (d *Detector) Ambiguities(from, to float64) []error {
	var warnings []error
	for i, c := range d.conds {
		if c.Expected && !d.fired[i] {
			warnings = append(warnings, &dynamo.EventAmbiguityWarning{Condition: c.Name, From: from, To: to})
		}
	}
	return warnings
}

// crossed decides whether g moved from g0 to g1 in an accepted direction.
// A start exactly on zero is not a crossing.
func crossed(want Direction, g0, g1 float64) (Direction, bool) {
	if math.IsNaN(g0) || math.IsNaN(g1) {
		return want, false
	}
	var got Direction
	switch {
	case g0 < 0 && g1 >= 0:
		got = Rising
	case g0 > 0 && g1 <= 0:
		got = Falling
	default:
		return want, false
	}
	if want != Either && want != got {
		return got, false
	}
	return got, true
}

func past(dir Direction, g float64) bool {
	if dir == Rising {
		return g >= 0
	}
	return g <= 0
}

// refine bisects [prev.T, curr.T] keeping the upper end on the far side of
// the crossing, so the returned point satisfies the condition.
func (d *Detector) refine(c Condition, dir Direction, prev, curr dynamo.Point, propagate Propagator) (dynamo.Point, int, error) {
	lo, hi := prev.T, curr.T
	xHi := curr.X
	iters := 0
	for hi-lo > d.tol && iters < d.maxIter {
		mid := lo + 0.5*(hi-lo)
		if mid <= lo || mid >= hi {
			break
		}
		xMid, err := propagate(mid)
		if err != nil {
			return dynamo.Point{}, iters, err
		}
		if past(dir, c.Func(mid, xMid)) {
			hi, xHi = mid, xMid
		} else {
			lo = mid
		}
		iters++
	}
	return dynamo.Point{T: hi, X: xHi.Clone()}, iters, nil
}

func linear(prev, curr dynamo.Point) Propagator {
	return func(tau float64) (dynamo.State, error) {
		w := (tau - prev.T) / (curr.T - prev.T)
		x := make(dynamo.State, len(prev.X))
		for i := range x {
			x[i] = prev.X[i] + w*(curr.X[i]-prev.X[i])
		}
		return x, nil
	}
}
