package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/events"
)

const (
	DefaultModel      = "pendulum"
	DefaultIntegrator = "rk4"
	DefaultDt         = 0.01
	DefaultDuration   = 10.0
)

// Scenario is one run as written in a YAML file.
type Scenario struct {
	Name           string             `yaml:"name,omitempty"`
	Model          string             `yaml:"model"`
	Integrator     string             `yaml:"integrator"`
	T0             float64            `yaml:"t0,omitempty"`
	Dt             float64            `yaml:"dt"`
	Duration       float64            `yaml:"duration"`
	MaxSteps       int                `yaml:"max_steps,omitempty"`
	EventTolerance float64            `yaml:"event_tolerance,omitempty"`
	Params         map[string]float64 `yaml:"params,omitempty"`
	// InitState may be left empty to start from the model's default state.
	InitState []float64   `yaml:"init_state,omitempty"`
	Events    []EventSpec `yaml:"events,omitempty"`
	Seed      int64       `yaml:"seed,omitempty"`
}

// EventSpec describes a stopping or recording condition.
//
// Kinds:
//   - component: x[index] crosses value
//   - radius: the position norm crosses value
//   - time: t reaches value
type EventSpec struct {
	Name      string  `yaml:"name"`
	Kind      string  `yaml:"kind"`
	Index     int     `yaml:"index,omitempty"`
	Value     float64 `yaml:"value"`
	Direction string  `yaml:"direction,omitempty"`
	Terminal  bool    `yaml:"terminal,omitempty"`
	Expected  bool    `yaml:"expected,omitempty"`
}

func Default() *Scenario {
	return &Scenario{
		Model:      DefaultModel,
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
	}
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a scenario on top of Default.
func Parse(data []byte) (*Scenario, error) {
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return s, nil
}

func Save(path string, s *Scenario) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// RunConfig extracts the time grid.
func (s *Scenario) RunConfig() dynamo.Config {
	return dynamo.Config{
		T0:             s.T0,
		Dt:             s.Dt,
		Duration:       s.Duration,
		MaxSteps:       s.MaxSteps,
		EventTolerance: s.EventTolerance,
	}
}

// Conditions builds the event conditions for a state of dimension
// stateDim (positions then velocities).
func (s *Scenario) Conditions(stateDim int) ([]events.Condition, error) {
	conds := make([]events.Condition, 0, len(s.Events))
	for i, spec := range s.Events {
		c, err := spec.Condition(stateDim)
		if err != nil {
			return nil, fmt.Errorf("events[%d]: %w", i, err)
		}
		conds = append(conds, c)
	}
	return conds, nil
}

func (e EventSpec) Condition(stateDim int) (events.Condition, error) {
	dir, err := events.ParseDirection(e.Direction)
	if err != nil {
		return events.Condition{}, err
	}

	var c events.Condition
	switch e.Kind {
	case "component", "":
		if e.Index < 0 || e.Index >= stateDim {
			return events.Condition{}, dynamo.Invalid("event.index", "%d out of range for state dimension %d", e.Index, stateDim)
		}
		c = events.ComponentCrossing(e.Name, e.Index, e.Value, dir, e.Terminal)
	case "radius":
		if stateDim%2 != 0 {
			return events.Condition{}, dynamo.Invalid("event.kind", "radius needs a position/velocity state, got dimension %d", stateDim)
		}
		c = events.RadiusCrossing(e.Name, stateDim/2, e.Value, dir, e.Terminal)
	case "time":
		c = events.AtTime(e.Name, e.Value, e.Terminal)
	default:
		return events.Condition{}, dynamo.Invalid("event.kind", "unknown kind %q", e.Kind)
	}
	c.Expected = e.Expected
	return c, c.Validate()
}

// Clone returns a deep copy.
func (s *Scenario) Clone() *Scenario {
	c := *s
	if s.Params != nil {
		c.Params = make(map[string]float64, len(s.Params))
		for k, v := range s.Params {
			c.Params[k] = v
		}
	}
	c.InitState = slices.Clone(s.InitState)
	c.Events = slices.Clone(s.Events)
	return &c
}
