package sim_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/integrators"
	"github.com/san-kum/trajsim/internal/physics"
	"github.com/san-kum/trajsim/internal/sim"
)

func pendulumJob(damping float64) sim.Job {
	return sim.Job{
		Name: fmt.Sprintf("pendulum/damping=%.2f", damping),
		Build: func() (*sim.Simulator, error) {
			p := physics.NewPendulum()
			p.Damping = damping
			return sim.New(p, integrators.NewRK4()), nil
		},
		X0:     dynamo.State{0.2, 1.0},
		Config: dynamo.Config{Dt: 0.01, Duration: 5},
	}
}

var _ = Describe("Batch", func() {
	It("matches sequential runs job for job", func() {
		var jobs []sim.Job
		for i := 0; i < 8; i++ {
			jobs = append(jobs, pendulumJob(0.1*float64(i)))
		}

		results, err := sim.NewBatch(3, jobs...).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(len(jobs)))

		for i, job := range jobs {
			s, err := job.Build()
			Expect(err).NotTo(HaveOccurred())
			want, err := s.Run(context.Background(), job.X0, job.Config)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[i].Trajectory.Rows()).To(Equal(want.Trajectory.Rows()), job.Name)
		}
	})

	It("reports failed builds without dropping other jobs", func() {
		errBuild := errors.New("no such model")
		b := sim.NewBatch(0, pendulumJob(0))
		b.Add(sim.Job{Name: "broken", Build: func() (*sim.Simulator, error) { return nil, errBuild }})
		b.Add(pendulumJob(0.5))
		Expect(b.Len()).To(Equal(3))

		results, err := b.Run(context.Background())
		Expect(errors.Is(err, errBuild)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring(`"broken"`))
		Expect(results[0].Status).To(Equal(sim.Completed))
		Expect(results[1]).To(BeNil())
		Expect(results[2].Status).To(Equal(sim.Completed))
	})

	It("keeps failed runs as results", func() {
		b := sim.NewBatch(2, sim.Job{
			Name:   "collision",
			Build:  func() (*sim.Simulator, error) { return sim.New(physics.NewTwoBody(2), integrators.NewRK4()), nil },
			X0:     dynamo.State{0, 0, 1, 0},
			Config: dynamo.Config{Dt: 0.01, Duration: 1},
		})
		results, err := b.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].Status).To(Equal(sim.Failed))
		Expect(results[0].Reason).To(Equal(sim.ReasonSingularity))
	})
})
