// Package metrics provides swarm observables computed frame by frame.
package metrics

import "github.com/san-kum/swarmsim/internal/swarm"

// Metric accumulates a scalar over the frames of a run. Frame 0 is the
// initial state; a is the action the frame was stepped with.
type Metric interface {
	Name() string
	Observe(frame int, a swarm.Action, s swarm.Snapshot)
	Value() float64
	Reset()
}

// Defaults returns the metric set recorded for every run.
func Defaults(p swarm.Params) []Metric {
	return []Metric{
		NewOrderParameter(1, p.Width, p.Height),
		NewOrderParameter(-1, p.Width, p.Height),
		NewPhaseCoherence(),
		NewStability(p.Width, p.Height),
		NewHoldDuty(),
		NewHeroTravel(p.Width, p.Height),
	}
}
