package metrics

import (
	"math"

	"github.com/san-kum/swarmsim/internal/swarm"
)

// HoldDuty is the fraction of frames stepped with any hold active.
type HoldDuty struct {
	name    string
	held    int
	samples int
}

func NewHoldDuty() *HoldDuty {
	return &HoldDuty{
		name: "hold_duty",
	}
}

func (h *HoldDuty) Name() string {
	return h.name
}

func (h *HoldDuty) Observe(frame int, a swarm.Action, s swarm.Snapshot) {
	if frame == 0 {
		return
	}
	if a != swarm.NoOp {
		h.held++
	}
	h.samples++
}

func (h *HoldDuty) Value() float64 {
	if h.samples == 0 {
		return 0
	}
	return float64(h.held) / float64(h.samples)
}

func (h *HoldDuty) Reset() {
	h.held = 0
	h.samples = 0
}

// HeroTravel is the hero's total path length, measured with minimum-image
// displacements so crossing an edge counts as a short step.
type HeroTravel struct {
	name          string
	width, height float64
	prev          swarm.Vec2
	total         float64
	samples       int
}

func NewHeroTravel(width, height float64) *HeroTravel {
	return &HeroTravel{name: "hero_travel", width: width, height: height}
}

func (h *HeroTravel) Name() string { return h.name }

func (h *HeroTravel) Observe(frame int, a swarm.Action, s swarm.Snapshot) {
	p := s.HeroPosition
	if h.samples > 0 {
		dx := minImage(p.X-h.prev.X, h.width)
		dy := minImage(p.Y-h.prev.Y, h.height)
		h.total += math.Hypot(dx, dy)
	}
	h.prev = p
	h.samples++
}

func (h *HeroTravel) Value() float64 { return h.total }

func (h *HeroTravel) Reset() {
	h.prev = swarm.Vec2{}
	h.total = 0
	h.samples = 0
}

func minImage(d, size float64) float64 {
	if d > size/2 {
		return d - size
	}
	if d < -size/2 {
		return d + size
	}
	return d
}
