package experiment

import (
	"maps"
	"slices"

	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/integrators"
	"github.com/san-kum/trajsim/internal/physics"
)

// DefaultDim is the spatial dimension used when params carry no "dim".
const DefaultDim = 2

// Model is what every registered dynamics model provides.
type Model interface {
	dynamo.System
	dynamo.Configurable
	dynamo.Validator
	DefaultState() dynamo.State
}

type Registry struct {
	models      map[string]func(dim int) Model
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]func(int) Model),
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.models["lorentz"] = func(dim int) Model { return physics.NewLorentz(dim) }
	r.models["two_body"] = func(dim int) Model { return physics.NewTwoBody(dim) }
	r.models["pendulum"] = func(int) Model { return physics.NewPendulum() }
	r.models["projectile"] = func(dim int) Model { return physics.NewProjectile(dim) }

	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamo.Integrator { return integrators.NewRK45() }
	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }

	return r
}

// GetModel builds the named model with params applied. The "dim" param
// picks the spatial dimension and is consumed at construction; the rest go
// through SetParam in sorted order.
func (r *Registry) GetModel(name string, params map[string]float64) (Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, dynamo.Invalid("model", "unknown model: %s", name)
	}

	dim := DefaultDim
	if d, ok := params["dim"]; ok {
		if d != float64(int(d)) {
			return nil, dynamo.Invalid(name+".dim", "must be an integer, got %v", d)
		}
		dim = int(d)
	}

	m := fn(dim)
	for _, k := range slices.Sorted(maps.Keys(params)) {
		if k == "dim" {
			continue
		}
		if err := m.SetParam(k, params[k]); err != nil {
			return nil, err
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, dynamo.Invalid("integrator", "unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListModels() []string {
	return slices.Sorted(maps.Keys(r.models))
}

func (r *Registry) ListIntegrators() []string {
	return slices.Sorted(maps.Keys(r.integrators))
}

// Register adds or replaces a model constructor.
func (r *Registry) Register(name string, fn func(dim int) Model) {
	r.models[name] = fn
}
