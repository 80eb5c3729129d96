package metrics

import (
	"math"

	"github.com/san-kum/swarmsim/internal/swarm"
)

// Stability is the fraction of stepped frames whose state is finite and
// inside the domain. Frame 0 is skipped: reset state is not wrapped.
type Stability struct {
	name          string
	width, height float64
	violations    int
	samples       int
}

func NewStability(width, height float64) *Stability {
	return &Stability{
		name:   "stability",
		width:  width,
		height: height,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(frame int, a swarm.Action, snap swarm.Snapshot) {
	if frame == 0 {
		return
	}
	s.samples++
	for i, p := range snap.Positions {
		th := snap.Phases[i]
		if !(p.X >= 0 && p.X < s.width && p.Y >= 0 && p.Y < s.height) ||
			!(th >= 0 && th < 2*math.Pi) {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
