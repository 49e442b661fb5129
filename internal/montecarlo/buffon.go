// Package montecarlo estimates pi with Buffon's needle.
//
// Needles of length L are dropped on a floor ruled with parallel lines D
// apart (L <= D). A needle whose midpoint lies y from the nearest line at
// acute angle phi crosses it when y <= (L/2) sin(phi), which happens with
// probability 2L/(pi D).
package montecarlo

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/trajsim/internal/dynamo"
)

var ErrNoCrossings = errors.New("montecarlo: no needle crossed a line")

type Needle struct {
	Length  float64
	Spacing float64
}

func (n Needle) Validate() error {
	if !(n.Length > 0) || math.IsInf(n.Length, 0) {
		return dynamo.Invalid("needle.length", "must be positive, got %v", n.Length)
	}
	if !(n.Spacing > 0) || math.IsInf(n.Spacing, 0) {
		return dynamo.Invalid("needle.spacing", "must be positive, got %v", n.Spacing)
	}
	if n.Length > n.Spacing {
		return dynamo.Invalid("needle.length", "must not exceed spacing %v, got %v", n.Spacing, n.Length)
	}
	return nil
}

// Probability is the exact crossing probability 2L/(pi D).
func (n Needle) Probability() float64 {
	return 2 * n.Length / (math.Pi * n.Spacing)
}

type Estimate struct {
	Drops int
	Hits  int
	Pi    float64
	// Error is |Pi - math.Pi|.
	Error float64
	Seed  int64
}

// Drop throws drops needles using rng.
func (n Needle) Drop(rng *rand.Rand, drops int) (Estimate, error) {
	if err := n.Validate(); err != nil {
		return Estimate{}, err
	}
	if drops <= 0 {
		return Estimate{}, dynamo.Invalid("drops", "must be positive, got %d", drops)
	}

	hits := 0
	half := n.Length / 2
	for i := 0; i < drops; i++ {
		y := rng.Float64() * n.Spacing / 2
		phi := rng.Float64() * math.Pi / 2
		if y <= half*math.Sin(phi) {
			hits++
		}
	}

	est := Estimate{Drops: drops, Hits: hits}
	if hits == 0 {
		return est, ErrNoCrossings
	}
	est.Pi = 2 * n.Length * float64(drops) / (n.Spacing * float64(hits))
	est.Error = math.Abs(est.Pi - math.Pi)
	return est, nil
}

// Estimate runs one experiment seeded with seed.
func (n Needle) Estimate(drops int, seed int64) (Estimate, error) {
	est, err := n.Drop(rand.New(rand.NewSource(seed)), drops)
	est.Seed = seed
	return est, err
}

// Sweep estimates pi once per sample size, concurrently on up to workers
// goroutines (zero or less uses GOMAXPROCS). Job i is seeded with seed+i,
// so results do not depend on scheduling.
func (n Needle) Sweep(ctx context.Context, sizes []int, seed int64, workers int) ([]Estimate, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]Estimate, len(sizes))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, drops := range sizes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			est, err := n.Estimate(drops, seed+int64(i))
			if err != nil {
				return err
			}
			out[i] = est
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
