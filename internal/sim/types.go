package sim

import (
	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/events"
)

// Status is the terminal state of a run.
type Status int

const (
	Running Status = iota
	Completed
	Terminated
	Failed
	Canceled
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Terminated:
		return "terminated_by_event"
	case Failed:
		return "failed"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Reason codes attached to a Result.
const (
	ReasonDuration    = "duration"
	ReasonStepLimit   = "step_limit"
	ReasonEvent       = "event"
	ReasonSingularity = "singularity"
	ReasonInstability = "numerical_instability"
	ReasonDimension   = "dimension_mismatch"
	ReasonModel       = "model_error"
	ReasonCanceled    = "canceled"
)

type Result struct {
	Status     Status
	Reason     string
	Trajectory *dynamo.Trajectory
	// Events holds every recorded crossing in time order, terminal last.
	Events []events.Crossing
	// Stop is the terminal crossing for Terminated runs.
	Stop     *events.Crossing
	Warnings []error
	// Err is a *dynamo.SimulationError for Failed and Canceled runs.
	Err        error
	StepsTaken int
}

// Final returns the last recorded point.
func (r *Result) Final() dynamo.Point {
	p, _ := r.Trajectory.Last()
	return p
}

// EventsNamed filters recorded crossings by condition name.
func (r *Result) EventsNamed(name string) []events.Crossing {
	var out []events.Crossing
	for _, c := range r.Events {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
