package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/trajsim/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
	minDt    float64
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
		minDt:    1e-12,
	}
}

// Step takes one Dormand-Prince step of exactly dt, discarding the error
// estimate, so RK45 can stand in for RK4 on a fixed grid.
func (r *RK45) Step(sys dynamo.System, t float64, x dynamo.State, dt float64) (dynamo.State, error) {
	xNew, _, err := r.trial(sys, t, x, dt)
	return xNew, err
}

// StepAdaptive retries with smaller steps until the scaled error estimate is
// within tol, then proposes the next step.
func (r *RK45) StepAdaptive(sys dynamo.System, t float64, x dynamo.State, dt, tol float64) (dynamo.State, float64, float64, error) {
	if !(tol > 0) {
		return nil, 0, 0, dynamo.Invalid("tolerance", "must be positive, got %v", tol)
	}
	for {
		if dt < r.minDt {
			return nil, 0, 0, fmt.Errorf("%w: dt=%g at t=%g", dynamo.ErrStepTooSmall, dt, t)
		}

		xNew, errMax, err := r.trial(sys, t, x, dt)
		if err != nil {
			return nil, 0, 0, err
		}

		errRatio := errMax / tol
		if errRatio > 1 {
			dt *= math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
			continue
		}

		next := dt * r.maxScale
		if errRatio > 0 {
			next = dt * math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
		}
		return xNew, dt, next, nil
	}
}

// Propagate integrates adaptively from (t0, x0) to t1, landing exactly on t1.
// It returns the final state and the number of accepted steps.
func (r *RK45) Propagate(sys dynamo.System, t0 float64, x0 dynamo.State, t1, dt, tol float64) (dynamo.State, int, error) {
	x := x0.Clone()
	t := t0
	steps := 0
	for t < t1 {
		if t+dt > t1 {
			dt = t1 - t
		}
		xNew, taken, next, err := r.StepAdaptive(sys, t, x, dt, tol)
		if err != nil {
			return x, steps, err
		}
		x = xNew
		t += taken
		dt = next
		steps++
		if t1-t < r.minDt {
			break
		}
	}
	return x, steps, nil
}

func (r *RK45) trial(sys dynamo.System, t float64, x dynamo.State, dt float64) (dynamo.State, float64, error) {
	n := len(x)
	k1 := make(dynamo.State, n)
	k2 := make(dynamo.State, n)
	k3 := make(dynamo.State, n)
	k4 := make(dynamo.State, n)
	k5 := make(dynamo.State, n)
	k6 := make(dynamo.State, n)
	k7 := make(dynamo.State, n)
	tmp := make(dynamo.State, n)

	if err := derive(sys, t, x, k1); err != nil {
		return nil, 0, err
	}

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + dt*b21*k1[i]
	}
	if err := derive(sys, t+a2*dt, tmp, k2); err != nil {
		return nil, 0, err
	}

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + dt*(b31*k1[i]+b32*k2[i])
	}
	if err := derive(sys, t+a3*dt, tmp, k3); err != nil {
		return nil, 0, err
	}

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + dt*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	if err := derive(sys, t+a4*dt, tmp, k4); err != nil {
		return nil, 0, err
	}

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + dt*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	if err := derive(sys, t+a5*dt, tmp, k5); err != nil {
		return nil, 0, err
	}

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + dt*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	if err := derive(sys, t+dt, tmp, k6); err != nil {
		return nil, 0, err
	}

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}
	if err := dynamo.CheckFinite(xNew, t+dt); err != nil {
		return nil, 0, err
	}

	if err := derive(sys, t+dt, xNew, k7); err != nil {
		return nil, 0, err
	}

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := math.Abs(x[i]) + math.Abs(dt*k1[i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}

	return xNew, errMax, nil
}
