// Package sweep runs the engine over a grid of coupling values and records
// the order parameters each grid point settles to.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/san-kum/swarmsim/internal/metrics"
	"github.com/san-kum/swarmsim/internal/schedule"
	"github.com/san-kum/swarmsim/internal/sim"
	"github.com/san-kum/swarmsim/internal/swarm"
)

// Axis is one swept parameter and the values it takes.
type Axis struct {
	Name   string
	Values []float64
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	step := (hi - lo) / float64(n-1)
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Set assigns a named float parameter. Names match the yaml keys.
func Set(p *swarm.Params, name string, v float64) error {
	switch name {
	case "j":
		p.J = v
	case "k":
		p.K = v
	case "epsilon":
		p.Epsilon = v
	case "repulsion_strength":
		p.RepulsionStrength = v
	case "base_omega":
		p.BaseOmega = v
	case "omega_variation":
		p.OmegaVariation = v
	case "time_scale":
		p.TimeScale = v
	default:
		return fmt.Errorf("sweep: unknown parameter %q", name)
	}
	return nil
}

// Point is one evaluated grid point.
type Point struct {
	Params  map[string]float64
	Metrics map[string]float64
}

type GridSearch struct {
	base        swarm.Params
	axes        []Axis
	concurrency int
	log         *slog.Logger
}

func NewGridSearch(base swarm.Params, axes []Axis, concurrency int, logger *slog.Logger) *GridSearch {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GridSearch{base: base, axes: axes, concurrency: concurrency, log: logger}
}

// Points enumerates the grid, first axis outermost.
func (g *GridSearch) Points() []map[string]float64 {
	var out []map[string]float64
	g.enumerate(0, map[string]float64{}, &out)
	return out
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.axes) {
		*out = append(*out, current)
		return
	}
	axis := g.axes[depth]
	for _, v := range axis.Values {
		next := make(map[string]float64, len(current)+1)
		for k, cv := range current {
			next[k] = cv
		}
		next[axis.Name] = v
		g.enumerate(depth+1, next, out)
	}
}

// Run evaluates every grid point from the same seed with no holds applied.
// Results keep grid order.
func (g *GridSearch) Run(ctx context.Context, seed int64, steps int) ([]Point, error) {
	grid := g.Points()
	for _, params := range grid {
		p := g.base
		for name, v := range params {
			if err := Set(&p, name, v); err != nil {
				return nil, err
			}
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	results := make([]Point, len(grid))
	errs := make([]error, len(grid))
	sem := make(chan struct{}, g.concurrency)

	var wg sync.WaitGroup
	for i, params := range grid {
		wg.Add(1)
		go func(idx int, params map[string]float64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx], errs[idx] = g.evaluate(ctx, seed, steps, params)
		}(i, params)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (g *GridSearch) evaluate(ctx context.Context, seed int64, steps int, params map[string]float64) (Point, error) {
	p := g.base
	for name, v := range params {
		_ = Set(&p, name, v)
	}

	eng, err := swarm.New(seed, p)
	if err != nil {
		return Point{}, err
	}

	s := sim.New(eng, g.log)
	for _, m := range metrics.Defaults(p) {
		s.AddMetric(m)
	}

	res, err := s.Run(ctx, sim.Config{Steps: steps, Schedule: schedule.Constant(swarm.NoOp, steps)})
	if err != nil {
		return Point{}, err
	}

	g.log.Debug("grid point", "params", params, "s_plus", res.Metrics["s_plus"], "s_minus", res.Metrics["s_minus"])
	return Point{Params: params, Metrics: res.Metrics}, nil
}

// Best returns the point with the largest (or smallest) value of metric.
func Best(points []Point, metric string, maximize bool) (Point, bool) {
	best := math.Inf(1)
	if maximize {
		best = math.Inf(-1)
	}
	var bestPoint Point
	found := false
	for _, pt := range points {
		v, ok := pt.Metrics[metric]
		if !ok {
			continue
		}
		if (maximize && v > best) || (!maximize && v < best) {
			best = v
			bestPoint = pt
			found = true
		}
	}
	return bestPoint, found
}

// Series returns metric against the named axis, sorted by axis value. Points
// sharing an axis value are averaged.
func Series(points []Point, axis, metric string) (xs, ys []float64) {
	sums := make(map[float64]float64)
	counts := make(map[float64]int)
	for _, pt := range points {
		x, ok := pt.Params[axis]
		if !ok {
			continue
		}
		sums[x] += pt.Metrics[metric]
		counts[x]++
	}
	for x := range sums {
		xs = append(xs, x)
	}
	sort.Float64s(xs)
	ys = make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = sums[x] / float64(counts[x])
	}
	return xs, ys
}
