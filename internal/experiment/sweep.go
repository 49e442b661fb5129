package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/trajsim/internal/config"
	"github.com/san-kum/trajsim/internal/sim"
)

// Sweep runs base once per value of param, concurrently on up to workers
// goroutines. Outcomes keep the order of values; a nil slot means that
// value could not be set up or run, and its error is part of the joined
// error.
func Sweep(ctx context.Context, reg *Registry, base *config.Scenario, param string, values []float64, workers int, opts ...sim.Option) ([]*Outcome, error) {
	exps := make([]*Experiment, len(values))
	var errs []error
	batch := sim.NewBatch(workers)
	index := make([]int, 0, len(values))

	for i, v := range values {
		s := base.Clone()
		if s.Params == nil {
			s.Params = make(map[string]float64)
		}
		s.Params[param] = v
		s.Name = fmt.Sprintf("%s[%s=%g]", base.Model, param, v)

		e, err := New(reg, s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
			continue
		}
		exps[i] = e
		batch.Add(e.Job(opts...))
		index = append(index, i)
	}

	results, runErr := batch.Run(ctx)
	errs = append(errs, runErr)

	outcomes := make([]*Outcome, len(values))
	for j, res := range results {
		if res == nil {
			continue
		}
		i := index[j]
		out, err := exps[i].outcome(res, res.Err)
		if err != nil && res.Err == nil {
			errs = append(errs, fmt.Errorf("%s: %w", exps[i].Name(), err))
		}
		outcomes[i] = out
	}
	return outcomes, errors.Join(errs...)
}
