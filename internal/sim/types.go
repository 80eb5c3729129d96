package sim

import (
	"fmt"

	"github.com/san-kum/swarmsim/internal/schedule"
	"github.com/san-kum/swarmsim/internal/swarm"
	"github.com/san-kum/swarmsim/internal/trace"
)

// Observer is notified of every recorded frame, including frame 0.
type Observer interface {
	OnFrame(frame int, a swarm.Action, s swarm.Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(frame int, a swarm.Action, s swarm.Snapshot)

func (f ObserverFunc) OnFrame(frame int, a swarm.Action, s swarm.Snapshot) { f(frame, a, s) }

type Config struct {
	Steps    int
	Dt       float64 // 0 selects the engine default
	Schedule schedule.Schedule
}

type Result struct {
	Frames     []trace.Frame
	Actions    []swarm.Action
	Metrics    map[string]float64
	StepsTaken int
}

// Hero returns the hero trajectory as separate x and y series.
func (r *Result) Hero() (xs, ys []float64) {
	xs = make([]float64, len(r.Frames))
	ys = make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		h := f.Hero()
		xs[i], ys[i] = h[0], h[1]
	}
	return xs, ys
}

// StepError reports the frame a run stopped at.
type StepError struct {
	Frame  int
	Action swarm.Action
	Err    error
}

func (e StepError) Error() string {
	return fmt.Sprintf("frame %d (%s): %v", e.Frame, e.Action, e.Err)
}

func (e StepError) Unwrap() error {
	return e.Err
}
