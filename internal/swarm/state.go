package swarm

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
)

// Vec2 is a point or vector in the plane.
type Vec2 struct {
	X, Y float64
}

// Snapshot is a copy of the observable engine state.
type Snapshot struct {
	Positions    []Vec2
	Phases       []float64
	HeroPosition Vec2
}

// LogValue implements slog.LogValuer.
func (s Snapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("agents", len(s.Positions)),
		slog.Float64("hero_x", s.HeroPosition.X),
		slog.Float64("hero_y", s.HeroPosition.Y),
	)
}

// Engine owns the per-agent arrays of one swarm. It is not safe for
// concurrent use.
type Engine struct {
	p    Params
	seed int64
	rng  *rand.Rand

	pos    []Vec2
	phase  []float64
	vel    []Vec2
	omega  []float64
	force  []Vec2
	dphase []float64

	hold       holdSnapshot
	prevAction Action
}

// New validates p and returns an engine initialized from seed.
func New(seed int64, p Params) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Precision == "" {
		p.Precision = Float64
	}

	n := p.N
	e := &Engine{
		p:      p,
		seed:   seed,
		pos:    make([]Vec2, n),
		phase:  make([]float64, n),
		vel:    make([]Vec2, n),
		omega:  make([]float64, n),
		force:  make([]Vec2, n),
		dphase: make([]float64, n),
		hold:   newHoldSnapshot(n),
	}
	e.Reset()
	return e, nil
}

// Reset restarts the stored seed's stream and reinitializes every agent.
func (e *Engine) Reset() {
	e.rng = rand.New(rand.NewSource(e.seed))
	e.initialize()
}

// ResetSeed stores seed and resets from it.
func (e *Engine) ResetSeed(seed int64) {
	e.seed = seed
	e.Reset()
}

// initialize draws positions, then phases, then frequency perturbations
// from e.rng. The order is part of the reproducibility contract.
func (e *Engine) initialize() {
	p := e.p
	n := p.N

	for i := 0; i < n; i++ {
		e.pos[i] = Vec2{X: e.rng.Float64() * p.Width, Y: e.rng.Float64() * p.Height}
	}
	for i := 0; i < n; i++ {
		e.phase[i] = e.rng.Float64() * 2 * math.Pi
	}
	for i := 0; i < n; i++ {
		e.omega[i] = p.BaseOmega + (2*e.rng.Float64()-1)*p.OmegaVariation
	}

	var cx, cy float64
	for _, v := range e.pos {
		cx += v.X
		cy += v.Y
	}
	cx /= float64(n)
	cy /= float64(n)
	for i := range e.pos {
		e.pos[i].X += p.Width/2 - cx
		e.pos[i].Y += p.Height/2 - cy
	}

	clear(e.vel)
	clear(e.force)
	clear(e.dphase)
	e.hold.clear()
	e.prevAction = NoOp

	if p.rounds32() {
		e.round32()
	}
}

// SetState overwrites positions and phases, e.g. to start from a recorded
// frame. Values are taken as given: like freshly reset state they may lie
// outside the domain until the next step wraps them. Frequencies and hold
// state are left as they are.
func (e *Engine) SetState(positions []Vec2, phases []float64) error {
	if len(positions) != e.p.N || len(phases) != e.p.N {
		return ErrStateMismatch
	}
	for i := range positions {
		if !finite(positions[i].X) || !finite(positions[i].Y) || !finite(phases[i]) {
			return fmt.Errorf("agent %d: %w", i, ErrNonFiniteState)
		}
	}
	copy(e.pos, positions)
	copy(e.phase, phases)
	if e.p.rounds32() {
		e.round32()
	}
	return nil
}

// State returns copies of positions and phases plus the hero position.
func (e *Engine) State() Snapshot {
	s := Snapshot{
		Positions: make([]Vec2, len(e.pos)),
		Phases:    make([]float64, len(e.phase)),
	}
	copy(s.Positions, e.pos)
	copy(s.Phases, e.phase)
	s.HeroPosition = e.pos[Hero]
	return s
}

func (e *Engine) Params() Params         { return e.p }
func (e *Engine) Seed() int64            { return e.seed }
func (e *Engine) PreviousAction() Action { return e.prevAction }

// Forces returns the net force computed by the last step.
func (e *Engine) Forces() []Vec2 { return append([]Vec2(nil), e.force...) }

// Velocities returns the velocities set by the last step.
func (e *Engine) Velocities() []Vec2 { return append([]Vec2(nil), e.vel...) }

// PhaseDerivatives returns dθ/dt computed by the last step.
func (e *Engine) PhaseDerivatives() []float64 { return append([]float64(nil), e.dphase...) }

// Frequencies returns the natural frequency of every agent.
func (e *Engine) Frequencies() []float64 { return append([]float64(nil), e.omega...) }

// round32 rounds carried state through float32.
func (e *Engine) round32() {
	for i := range e.pos {
		e.pos[i].X = round32Below(e.pos[i].X, e.p.Width)
		e.pos[i].Y = round32Below(e.pos[i].Y, e.p.Height)
		e.phase[i] = round32Below(e.phase[i], 2*math.Pi)
		e.omega[i] = float64(float32(e.omega[i]))
		e.vel[i].X = float64(float32(e.vel[i].X))
		e.vel[i].Y = float64(float32(e.vel[i].Y))
	}
}

// round32Below rounds v through float32. A value below the edge m that rounds
// up onto or past it wraps to 0.
func round32Below(v, m float64) float64 {
	r := float64(float32(v))
	if v < m && r >= m {
		return 0
	}
	return r
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
