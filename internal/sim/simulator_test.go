package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/events"
	"github.com/san-kum/trajsim/internal/integrators"
	"github.com/san-kum/trajsim/internal/physics"
	"github.com/san-kum/trajsim/internal/sim"
)

// decay is x' = -x.
type decay struct{}

func (d *decay) Derive(t float64, x dynamo.State) (dynamo.State, error) {
	return dynamo.State{-x[0]}, nil
}
func (d *decay) StateDim() int { return 1 }

// faultAfter behaves like decay until t passes at, then fails with err or
// returns inf when err is nil.
type faultAfter struct {
	at  float64
	err error
}

func (f *faultAfter) Derive(t float64, x dynamo.State) (dynamo.State, error) {
	if t > f.at {
		if f.err != nil {
			return nil, f.err
		}
		return dynamo.State{math.Inf(1)}, nil
	}
	return dynamo.State{-x[0]}, nil
}
func (f *faultAfter) StateDim() int { return 1 }

type counter struct{ n int }

func (c *counter) OnStep(p dynamo.Point) { c.n++ }

var _ = Describe("Simulator", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("a run to the configured end time", func() {
		It("records a point per grid time with exact spacing", func() {
			obs := &counter{}
			s := sim.New(&decay{}, integrators.NewRK4(), sim.WithObserver(obs))
			cfg := dynamo.Config{T0: 2, Dt: 0.1, Duration: 1.0}

			res, err := s.Run(ctx, dynamo.State{1.0}, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(sim.Completed))
			Expect(res.Reason).To(Equal(sim.ReasonDuration))
			Expect(res.StepsTaken).To(Equal(10))
			Expect(res.Trajectory.Len()).To(Equal(11))
			Expect(res.Trajectory.Frozen()).To(BeTrue())
			Expect(obs.n).To(Equal(11))

			for i, tm := range res.Trajectory.Times() {
				Expect(tm).To(Equal(cfg.TimeAt(i)))
			}
			Expect(res.Final().X[0]).To(BeNumerically("~", math.Exp(-1.0), 1e-6))
		})

		It("stops at the step limit", func() {
			s := sim.New(&decay{}, integrators.NewRK4())
			res, err := s.Run(ctx, dynamo.State{1.0}, dynamo.Config{Dt: 0.1, Duration: 10, MaxSteps: 5})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(sim.Completed))
			Expect(res.Reason).To(Equal(sim.ReasonStepLimit))
			Expect(res.Trajectory.Len()).To(Equal(6))
		})

		It("does not mutate the initial state", func() {
			x0 := dynamo.State{1.0}
			_, err := sim.New(&decay{}, integrators.NewRK4()).Run(ctx, x0, dynamo.Config{Dt: 0.1, Duration: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(x0).To(Equal(dynamo.State{1.0}))
		})
	})

	Describe("configuration errors", func() {
		DescribeTable("are rejected before stepping",
			func(dyn dynamo.System, x0 dynamo.State, cfg dynamo.Config) {
				res, err := sim.New(dyn, integrators.NewRK4()).Run(ctx, x0, cfg)
				Expect(res).To(BeNil())
				Expect(errors.Is(err, dynamo.ErrConfiguration)).To(BeTrue(), "got %v", err)
			},
			Entry("zero dt", &decay{}, dynamo.State{1}, dynamo.Config{Dt: 0, Duration: 1}),
			Entry("negative dt", &decay{}, dynamo.State{1}, dynamo.Config{Dt: -0.1, Duration: 1}),
			Entry("zero duration", &decay{}, dynamo.State{1}, dynamo.Config{Dt: 0.1}),
			Entry("unrepresentable step count", &decay{}, dynamo.State{1}, dynamo.Config{Dt: 1e-300, Duration: 1e10}),
			Entry("wrong state dimension", &decay{}, dynamo.State{1, 2}, dynamo.Config{Dt: 0.1, Duration: 1}),
			Entry("non-finite state", &decay{}, dynamo.State{math.NaN()}, dynamo.Config{Dt: 0.1, Duration: 1}),
			Entry("non-positive mass", &physics.Lorentz{Charge: 1, Mass: 0, Dim: 2}, dynamo.State{0, 0, 1, 0}, dynamo.Config{Dt: 0.1, Duration: 1}),
		)

		It("rejects malformed event conditions", func() {
			s := sim.New(&decay{}, integrators.NewRK4(), sim.WithEvents(events.Condition{Name: "broken"}))
			res, err := s.Run(ctx, dynamo.State{1}, dynamo.Config{Dt: 0.1, Duration: 1})
			Expect(res).To(BeNil())
			Expect(errors.Is(err, dynamo.ErrConfiguration)).To(BeTrue())
		})
	})

	Describe("failures", func() {
		It("keeps the trajectory when the model is singular", func() {
			singular := &dynamo.SingularityError{Model: "test", Detail: "undefined"}
			s := sim.New(&faultAfter{at: 0.5, err: singular}, integrators.NewRK4())

			res, err := s.Run(ctx, dynamo.State{1}, dynamo.Config{Dt: 0.1, Duration: 2})
			Expect(errors.Is(err, dynamo.ErrSingularity)).To(BeTrue())
			Expect(res.Status).To(Equal(sim.Failed))
			Expect(res.Reason).To(Equal(sim.ReasonSingularity))
			Expect(res.Err).To(MatchError(err))

			var se *dynamo.SimulationError
			Expect(errors.As(res.Err, &se)).To(BeTrue())
			Expect(res.Trajectory.Len()).To(Equal(se.Step + 1))
			Expect(res.Final().T).To(BeNumerically("<=", 0.5))
			Expect(res.Final().X.IsValid()).To(BeTrue())
		})

		It("fails at the first step of a zero-separation orbit", func() {
			s := sim.New(physics.NewTwoBody(2), integrators.NewRK4())
			res, err := s.Run(ctx, dynamo.State{0, 0, 1, 0}, dynamo.Config{Dt: 0.01, Duration: 1})
			Expect(errors.Is(err, dynamo.ErrSingularity)).To(BeTrue())
			Expect(res.Trajectory.Len()).To(Equal(1))
		})

		It("reports non-finite results as numerical instability", func() {
			s := sim.New(&faultAfter{at: 0.3}, integrators.NewRK4())
			res, err := s.Run(ctx, dynamo.State{1}, dynamo.Config{Dt: 0.1, Duration: 2})
			Expect(errors.Is(err, dynamo.ErrNumericalInstability)).To(BeTrue())
			Expect(res.Status).To(Equal(sim.Failed))
			Expect(res.Reason).To(Equal(sim.ReasonInstability))
			for _, p := range res.Trajectory.Points() {
				Expect(p.X.IsValid()).To(BeTrue())
			}
		})

		It("returns the partial trajectory when canceled", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()

			res, err := sim.New(&decay{}, integrators.NewRK4()).Run(canceled, dynamo.State{1}, dynamo.Config{Dt: 0.1, Duration: 1})
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(res.Status).To(Equal(sim.Canceled))
			Expect(res.Trajectory.Len()).To(Equal(1))
		})
	})

	Describe("events", func() {
		It("lands a vacuum projectile at the closed-form range", func() {
			p := physics.NewProjectile(2)
			v0, angle := 20.0, math.Pi/4
			ground := events.ComponentCrossing("ground", p.VerticalAxis(), 0, events.Falling, true)

			s := sim.New(p, integrators.NewRK4(), sim.WithEvents(ground))
			res, err := s.Run(ctx, p.Launch(v0, angle), dynamo.Config{Dt: 0.01, Duration: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(sim.Terminated))
			Expect(res.Reason).To(Equal(sim.ReasonEvent))
			Expect(res.Stop.Name).To(Equal("ground"))

			final := res.Final()
			Expect(final).To(Equal(res.Stop.Point))
			Expect(final.X[1]).To(BeNumerically("~", 0, 1e-6))
			Expect(final.X[0]).To(BeNumerically("~", v0*v0*math.Sin(2*angle)/physics.DefaultGravity, 1e-6))
			Expect(final.T).To(BeNumerically("~", 2*v0*math.Sin(angle)/physics.DefaultGravity, 1e-7))
		})

		It("stops early on a long horizon without preallocating the grid", func() {
			p := physics.NewProjectile(2)
			ground := events.ComponentCrossing("ground", p.VerticalAxis(), 0, events.Falling, true)

			s := sim.New(p, integrators.NewRK4(), sim.WithEvents(ground))
			res, err := s.Run(ctx, p.Launch(20, math.Pi/4), dynamo.Config{Dt: 1e-3, Duration: 1e10})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(sim.Terminated))
			Expect(res.Stop.Name).To(Equal("ground"))
			Expect(res.Trajectory.Len()).To(BeNumerically("<", 3000))
		})

		It("records non-terminal crossings without stopping", func() {
			pend := physics.NewPendulum()
			turn := events.ComponentCrossing("turning_point", 1, 0, events.Either, false)

			s := sim.New(pend, integrators.NewRK4(), sim.WithEvents(turn))
			res, err := s.Run(ctx, dynamo.State{0.2, 0}, dynamo.Config{Dt: 0.01, Duration: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(sim.Completed))
			Expect(res.Trajectory.Len()).To(Equal(1001))

			// half period of a small-amplitude pendulum is pi/sqrt(g/l)
			half := math.Pi / pend.NaturalFrequency()
			crossings := res.EventsNamed("turning_point")
			Expect(len(crossings)).To(BeNumerically(">=", int(10/half)-1))
			Expect(crossings[0].Point.T).To(BeNumerically("~", half, 0.01))
		})

		It("warns when an expected event never happens", func() {
			never := events.ComponentCrossing("impact", 0, -5, events.Falling, true)
			never.Expected = true

			res, err := sim.New(&decay{}, integrators.NewRK4(), sim.WithEvents(never)).
				Run(ctx, dynamo.State{1}, dynamo.Config{Dt: 0.1, Duration: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(sim.Completed))
			Expect(res.Warnings).To(HaveLen(1))
			Expect(errors.Is(res.Warnings[0], dynamo.ErrEventAmbiguity)).To(BeTrue())
		})
	})

	Describe("charged particle in a uniform magnetic field", func() {
		It("moves on a planar circle of the Larmor radius with the cyclotron period", func() {
			l := physics.NewLorentz(3)
			l.B = [3]float64{0, 0, 2}
			// start at the origin moving along x: the orbit center is (0, -0.5)
			back := events.ComponentCrossing("return", 1, 0, events.Rising, true)

			s := sim.New(l, integrators.NewRK4(), sim.WithEvents(back))
			res, err := s.Run(ctx, dynamo.State{0, 0, 0, 1, 0, 0}, dynamo.Config{Dt: 0.001, Duration: 5})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(sim.Terminated))

			rL := l.Mass * 1.0 / (math.Abs(l.Charge) * 2)
			for _, p := range res.Trajectory.Points() {
				Expect(p.X[2]).To(Equal(0.0))
				Expect(math.Hypot(p.X[0], p.X[1]+rL)).To(BeNumerically("~", rL, 1e-9))
			}
			period := 2 * math.Pi * l.Mass / (math.Abs(l.Charge) * 2)
			Expect(res.Stop.Point.T).To(BeNumerically("~", period, 1e-8))
		})
	})

	Describe("determinism", func() {
		It("produces bit-identical trajectories for identical inputs", func() {
			run := func() [][]float64 {
				p := physics.NewPendulum()
				p.Damping = 0.3
				p.ForceAmp = 1.1
				p.ForceFreq = 2.0 / 3.0
				res, err := sim.New(p, integrators.NewRK4()).Run(ctx, dynamo.State{0.2, 1.0}, dynamo.Config{Dt: 0.01, Duration: 20})
				Expect(err).NotTo(HaveOccurred())
				return res.Trajectory.Rows()
			}
			Expect(run()).To(Equal(run()))
		})
	})
})
