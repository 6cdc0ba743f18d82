package automation

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"runtime"
	"sort"

	"github.com/san-kum/xmastree/internal/config"
	"golang.org/x/sync/errgroup"
)

// Ensemble replays one scenario over consecutive layout seeds.
type Ensemble struct {
	NumRuns   int
	SeedStart int64
	// Workers bounds concurrent runs; zero means GOMAXPROCS.
	Workers int
}

type EnsembleRun struct {
	Seed    int64
	Metrics map[string]float64
}

// EnsembleResult holds the per-seed metrics and their mean and spread.
type EnsembleResult struct {
	Runs   []EnsembleRun
	Mean   map[string]float64
	StdDev map[string]float64
}

// Run executes the ensemble. Each run builds its own sculpture, so runs
// share nothing and finish in any order; results are sorted by seed.
func (e Ensemble) Run(ctx context.Context, sc *Scenario, base *config.Config, logger *log.Logger) (*EnsembleResult, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if e.NumRuns < 1 {
		return nil, fmt.Errorf("ensemble needs at least one run, got %d", e.NumRuns)
	}
	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	runs := make([]EnsembleRun, e.NumRuns)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < e.NumRuns; i++ {
		i := i
		g.Go(func() error {
			cfg := *base
			cfg.Seed = e.SeedStart + int64(i)
			res, err := RunScenario(gctx, sc, &cfg, nil)
			if err != nil {
				return fmt.Errorf("seed %d: %w", cfg.Seed, err)
			}
			runs[i] = EnsembleRun{Seed: cfg.Seed, Metrics: res.Metrics}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Seed < runs[j].Seed })

	out := &EnsembleResult{Runs: runs}
	out.Mean, out.StdDev = summarize(runs)
	logger.Printf("ensemble %q: %d seeds from %d", sc.Name, e.NumRuns, e.SeedStart)
	return out, nil
}

func summarize(runs []EnsembleRun) (mean, std map[string]float64) {
	mean = make(map[string]float64)
	std = make(map[string]float64)
	n := float64(len(runs))
	for _, r := range runs {
		for k, v := range r.Metrics {
			mean[k] += v / n
		}
	}
	for _, r := range runs {
		for k, v := range r.Metrics {
			d := v - mean[k]
			std[k] += d * d / n
		}
	}
	for k, v := range std {
		std[k] = math.Sqrt(v)
	}
	return mean, std
}
