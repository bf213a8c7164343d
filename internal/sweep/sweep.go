// Package sweep runs a series of CORSIKA simulations over a grid of
// primary energies, with bounded concurrency.
package sweep

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/showerpipe/showerpipe/internal/config"
	"github.com/showerpipe/showerpipe/internal/corsika"
)

// Point is one simulation of a sweep.
type Point struct {
	Config *config.Config
	RunID  string
}

// Outcome pairs a point with what its run produced.
type Outcome struct {
	Point  Point
	Result *corsika.RunResult
	Err    error
}

// Expand builds one config per energy value. Run numbers count up from
// the base config's and, when a base seed is set, each point gets a
// distinct deterministic seed.
func Expand(base *config.Config, energies []float64) []*config.Config {
	points := make([]*config.Config, 0, len(energies))
	for i, e := range energies {
		cfg := *base
		cfg.EnergyGeV = e
		cfg.RunNumber = base.RunNumber + i
		if base.Seed != 0 {
			cfg.Seed = base.Seed + int64(i)
		}
		points = append(points, &cfg)
	}
	return points
}

// Sweep runs a fixed set of points.
type Sweep struct {
	points  []Point
	workers int
}

func New(points []Point, workers int) *Sweep {
	if workers < 1 {
		workers = 1
	}
	return &Sweep{points: points, workers: workers}
}

// Run executes every point and returns one outcome per point, in point
// order. Individual run failures are reported in the outcome rather
// than aborting the sweep; cancelling the context kills the running
// simulations.
func (s *Sweep) Run(ctx context.Context) []Outcome {
	outcomes := make([]Outcome, len(s.points))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				pt := s.points[idx]
				logrus.Infof("sweep point %d/%d: %s at %g GeV",
					idx+1, len(s.points), pt.Config.Primary, pt.Config.EnergyGeV)
				result, err := corsika.NewRunner(pt.Config).Run(ctx)
				outcomes[idx] = Outcome{Point: pt, Result: result, Err: err}
			}
		}()
	}

submit:
	for idx := range s.points {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			for rest := idx; rest < len(s.points); rest++ {
				outcomes[rest] = Outcome{Point: s.points[rest], Err: ctx.Err()}
			}
			break submit
		}
	}
	close(jobs)
	wg.Wait()

	return outcomes
}
