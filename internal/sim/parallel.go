package sim

import (
	"context"
	"log/slog"
	"sync"

	"github.com/san-kum/swarmsim/internal/metrics"
	"github.com/san-kum/swarmsim/internal/swarm"
)

// Ensemble runs the same schedule from consecutive seeds, one engine per
// goroutine.
type Ensemble struct {
	params    swarm.Params
	numRuns   int
	seedStart int64
	log       *slog.Logger
}

func NewEnsemble(p swarm.Params, numRuns int, seedStart int64, logger *slog.Logger) *Ensemble {
	return &Ensemble{params: p, numRuns: numRuns, seedStart: seedStart, log: logger}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			eng, err := swarm.New(e.seedStart+int64(idx), e.params)
			if err != nil {
				errs[idx] = err
				return
			}

			s := New(eng, e.log)
			for _, m := range metrics.Defaults(e.params) {
				s.AddMetric(m)
			}

			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// MeanMetrics averages each metric across results.
func MeanMetrics(results []*Result) map[string]float64 {
	out := make(map[string]float64)
	if len(results) == 0 {
		return out
	}
	for _, r := range results {
		for k, v := range r.Metrics {
			out[k] += v
		}
	}
	for k := range out {
		out[k] /= float64(len(results))
	}
	return out
}
