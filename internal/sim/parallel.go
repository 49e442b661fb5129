package sim

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/trajsim/internal/dynamo"
)

// Job is one independent scenario of a batch. Build must return a fresh
// Simulator: integrators carry scratch buffers and cannot be shared.
type Job struct {
	Name   string
	Build  func() (*Simulator, error)
	X0     dynamo.State
	Config dynamo.Config
}

// Batch runs independent jobs concurrently.
type Batch struct {
	jobs    []Job
	workers int
}

// NewBatch limits concurrency to workers; zero or less uses GOMAXPROCS.
func NewBatch(workers int, jobs ...Job) *Batch {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Batch{jobs: jobs, workers: workers}
}

func (b *Batch) Add(j Job) { b.jobs = append(b.jobs, j) }

func (b *Batch) Len() int { return len(b.jobs) }

// Run returns one Result per job, in job order. A job that fails during
// integration keeps its Failed Result; jobs that could not start (build or
// configuration errors) leave a nil slot and contribute to the joined error.
func (b *Batch) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(b.jobs))
	errs := make([]error, len(b.jobs))

	var g errgroup.Group
	g.SetLimit(b.workers)
	for i, job := range b.jobs {
		g.Go(func() error {
			s, err := job.Build()
			if err != nil {
				errs[i] = fmt.Errorf("job %q: %w", job.Name, err)
				return nil
			}
			res, err := s.Run(ctx, job.X0, job.Config)
			results[i] = res
			if res == nil && err != nil {
				errs[i] = fmt.Errorf("job %q: %w", job.Name, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}
