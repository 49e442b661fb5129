package diagnostics

import (
	"math"

	"github.com/san-kum/trajsim/internal/dynamo"
)

// Metric accumulates over points fed to it by a simulator.
type Metric interface {
	dynamo.Observer
	Name() string
	Value() float64
	Reset()
}

// EnergyDrift tracks the largest relative deviation of a conserved energy
// from its value at the first observed point.
type EnergyDrift struct {
	sys      dynamo.Hamiltonian
	initial  float64
	current  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(sys dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{sys: sys}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) OnStep(p dynamo.Point) {
	energy := e.sys.Energy(p.X)
	if e.samples == 0 {
		e.initial = energy
	}
	e.current = energy
	e.samples++
	e.maxDrift = math.Max(e.maxDrift, relative(energy, e.initial))
}

func (e *EnergyDrift) Value() float64   { return e.maxDrift }
func (e *EnergyDrift) Initial() float64 { return e.initial }
func (e *EnergyDrift) Current() float64 { return e.current }

func (e *EnergyDrift) Reset() {
	e.initial, e.current, e.maxDrift = 0, 0, 0
	e.samples = 0
}

// Boundedness is the fraction of observed points whose components all stay
// within threshold in absolute value.
type Boundedness struct {
	threshold  float64
	violations int
	samples    int
}

func NewBoundedness(threshold float64) *Boundedness {
	return &Boundedness{threshold: threshold}
}

func (b *Boundedness) Name() string { return "boundedness" }

func (b *Boundedness) OnStep(p dynamo.Point) {
	b.samples++
	for _, v := range p.X {
		if math.Abs(v) > b.threshold {
			b.violations++
			break
		}
	}
}

func (b *Boundedness) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Boundedness) Reset() {
	b.violations = 0
	b.samples = 0
}

// relative is |v-ref|/|ref|, or |v-ref| when ref is zero.
func relative(v, ref float64) float64 {
	d := math.Abs(v - ref)
	if ref == 0 {
		return d
	}
	return d / math.Abs(ref)
}

// Energy summarizes a conserved quantity along a trajectory.
func Energy(traj *dynamo.Trajectory, sys dynamo.Hamiltonian) Set {
	if traj.Len() == 0 {
		return Set{}
	}
	drift := NewEnergyDrift(sys)
	for _, p := range traj.Points() {
		drift.OnStep(p)
	}
	return Set{
		"energy_initial": drift.Initial(),
		"energy_final":   drift.Current(),
		"energy_drift":   drift.Value(),
	}
}
