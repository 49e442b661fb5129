package integrators

import "github.com/san-kum/trajsim/internal/dynamo"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, t float64, x dynamo.State, dt float64) (dynamo.State, error) {
	dx := make(dynamo.State, len(x))
	if err := derive(sys, t, x, dx); err != nil {
		return nil, err
	}
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	if err := dynamo.CheckFinite(result, t+dt); err != nil {
		return nil, err
	}
	return result, nil
}
