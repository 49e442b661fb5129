package integrators

import (
	"fmt"

	"github.com/san-kum/trajsim/internal/dynamo"
)

type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

// Step advances positions and velocities together: every stage sees the
// full coupled state.
func (r *RK4) Step(sys dynamo.System, t float64, x dynamo.State, dt float64) (dynamo.State, error) {
	n := len(x)
	r.ensureScratch(n)

	if err := derive(sys, t, x, r.k1); err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k1[i]
	}
	if err := derive(sys, t+dt*0.5, r.scratch, r.k2); err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	if err := derive(sys, t+dt*0.5, r.scratch, r.k3); err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	if err := derive(sys, t+dt, r.scratch, r.k4); err != nil {
		return nil, err
	}

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	if err := dynamo.CheckFinite(result, t+dt); err != nil {
		return nil, err
	}
	return result, nil
}

// derive evaluates sys into dst, checking the returned dimension.
func derive(sys dynamo.System, t float64, x, dst dynamo.State) error {
	dx, err := sys.Derive(t, x)
	if err != nil {
		return err
	}
	if len(dx) != len(dst) {
		return fmt.Errorf("%w: derivative has %d components, state has %d", dynamo.ErrDimensionMismatch, len(dx), len(dst))
	}
	copy(dst, dx)
	return nil
}
