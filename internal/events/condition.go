package events

import (
	"fmt"
	"math"

	"github.com/san-kum/trajsim/internal/dynamo"
)

type Direction int

const (
	Either Direction = iota
	Rising
	Falling
)

func (d Direction) String() string {
	switch d {
	case Rising:
		return "rising"
	case Falling:
		return "falling"
	default:
		return "either"
	}
}

// ParseDirection accepts "rising", "falling", "either" or "".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "either":
		return Either, nil
	case "rising", "increasing":
		return Rising, nil
	case "falling", "decreasing":
		return Falling, nil
	}
	return Either, dynamo.Invalid("event.direction", "unknown direction %q", s)
}

// Func is the scalar event function; a crossing is a sign change.
type Func func(t float64, x dynamo.State) float64

type Condition struct {
	Name      string
	Func      Func
	Direction Direction
	// Terminal conditions stop the run at the refined crossing.
	Terminal bool
	// Expected conditions produce an EventAmbiguityWarning if they never fire.
	Expected bool
}

func (c Condition) Validate() error {
	if c.Name == "" {
		return dynamo.Invalid("event.name", "must not be empty")
	}
	if c.Func == nil {
		return dynamo.Invalid("event.func", "condition %q has no function", c.Name)
	}
	if c.Direction < Either || c.Direction > Falling {
		return dynamo.Invalid("event.direction", "condition %q has direction %d", c.Name, c.Direction)
	}
	return nil
}

// ComponentCrossing fires when x[index] crosses value, e.g. y=0 for ground impact.
func ComponentCrossing(name string, index int, value float64, dir Direction, terminal bool) Condition {
	return Condition{
		Name:      name,
		Direction: dir,
		Terminal:  terminal,
		Func: func(t float64, x dynamo.State) float64 {
			if index >= len(x) {
				return math.NaN()
			}
			return x[index] - value
		},
	}
}

// RadiusCrossing fires when the distance of the first dim components from
// the origin crosses radius. Falling marks surface impact, Rising escape.
func RadiusCrossing(name string, dim int, radius float64, dir Direction, terminal bool) Condition {
	return Condition{
		Name:      name,
		Direction: dir,
		Terminal:  terminal,
		Func: func(t float64, x dynamo.State) float64 {
			sum := 0.0
			for i := 0; i < dim && i < len(x); i++ {
				sum += x[i] * x[i]
			}
			return math.Sqrt(sum) - radius
		},
	}
}

// AtTime fires once when t passes at.
func AtTime(name string, at float64, terminal bool) Condition {
	return Condition{
		Name:      name,
		Direction: Rising,
		Terminal:  terminal,
		Func:      func(t float64, x dynamo.State) float64 { return t - at },
	}
}

// Crossing is one detected, refined event.
type Crossing struct {
	Name string
	// Point is synthetic: the state at the refined crossing time.
	Point      dynamo.Point
	Direction  Direction
	Terminal   bool
	Iterations int
}

func (c Crossing) String() string {
	return fmt.Sprintf("%s (%s) at t=%.6g", c.Name, c.Direction, c.Point.T)
}
