// Package parity replays a recorded trace through a fresh engine and reports
// how far the engine's frames drift from the reference frames.
package parity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/swarmsim/internal/schedule"
	"github.com/san-kum/swarmsim/internal/sim"
	"github.com/san-kum/swarmsim/internal/swarm"
	"github.com/san-kum/swarmsim/internal/trace"
)

var (
	// ErrEmptyTrace indicates a reference trace with no frames.
	ErrEmptyTrace = errors.New("parity: trace has no frames")

	// ErrAgentCount indicates a reference frame whose agent count differs
	// from the engine's.
	ErrAgentCount = errors.New("parity: agent count mismatch")
)

// DefaultTolerance is the absolute max position error a run may reach.
const DefaultTolerance = 2e-2

// Options configures a comparison. A zero Schedule replays the parity
// schedule and a zero Dt steps with Params.Dt().
type Options struct {
	Seed     int64
	Params   swarm.Params
	Dt       float64
	Schedule schedule.Schedule
	Logger   *slog.Logger
}

// FrameError is the error of one stepped frame.
type FrameError struct {
	Frame          int     `json:"frame" csv:"frame"`
	MaxPosError    float64 `json:"max_pos_error" csv:"max_pos_error"`
	HeroPosError   float64 `json:"hero_pos_error" csv:"hero_pos_error"`
	MaxPhaseError  float64 `json:"max_phase_error" csv:"max_phase_error"`
	MeanPosError   float64 `json:"mean_pos_error" csv:"mean_pos_error"`
	MeanPhaseError float64 `json:"mean_phase_error" csv:"mean_phase_error"`
}

// Report summarizes a comparison. AllErrors and HeroErrors hold one value per
// stepped frame, starting at frame 1.
type Report struct {
	MaxError      float64      `json:"max_error"`
	MeanError     float64      `json:"mean_error"`
	StdError      float64      `json:"std_error"`
	MaxErrorFrame int          `json:"max_error_frame"`
	MaxErrorAgent int          `json:"max_error_agent"`
	MaxHeroError  float64      `json:"max_hero_error"`
	MeanHeroError float64      `json:"mean_hero_error"`
	HeroErrors    []float64    `json:"hero_errors"`
	AllErrors     []float64    `json:"all_errors"`
	FrameErrors   []FrameError `json:"frame_errors"`
}

// Within reports whether every frame's max position error is below tol.
func (r *Report) Within(tol float64) bool {
	return r.MaxError < tol
}

// WorstFrame returns the frame with the largest mean position error.
func (r *Report) WorstFrame() (FrameError, bool) {
	if len(r.FrameErrors) == 0 {
		return FrameError{}, false
	}
	worst := r.FrameErrors[0]
	for _, fe := range r.FrameErrors[1:] {
		if fe.MeanPosError > worst.MeanPosError {
			worst = fe
		}
	}
	return worst, true
}

// LogValue implements slog.LogValuer.
func (r *Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frames", len(r.FrameErrors)),
		slog.Float64("max_error", r.MaxError),
		slog.Float64("mean_error", r.MeanError),
		slog.Int("max_error_frame", r.MaxErrorFrame),
		slog.Int("max_error_agent", r.MaxErrorAgent),
		slog.Float64("max_hero_error", r.MaxHeroError),
	)
}

// Compare starts an engine at ref[0] and steps it through every following
// reference frame, measuring absolute position and phase differences.
func Compare(ctx context.Context, ref []trace.Frame, opts Options) (*Report, error) {
	if len(ref) == 0 {
		return nil, ErrEmptyTrace
	}
	for i, f := range ref {
		if f.Len() != opts.Params.N || len(f.AgentsPhase) != opts.Params.N {
			return nil, fmt.Errorf("frame %d has %d agents, engine has %d: %w", i, f.Len(), opts.Params.N, ErrAgentCount)
		}
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	sched := opts.Schedule
	if sched == nil {
		sched = schedule.Parity()
	}

	eng, err := swarm.New(opts.Seed, opts.Params)
	if err != nil {
		return nil, err
	}
	if err := eng.SetState(ref[0].Positions(), ref[0].AgentsPhase); err != nil {
		return nil, fmt.Errorf("parity: load frame 0: %w", err)
	}

	c := newComparer(opts.Params.N, len(ref)-1)
	s := sim.New(eng, log)
	err = s.RunWithCallback(ctx, sim.Config{Steps: len(ref) - 1, Dt: opts.Dt, Schedule: sched}, func(frame int, a swarm.Action, snap swarm.Snapshot) bool {
		if frame == 0 {
			return true
		}
		fe := c.observe(frame, snap, ref[frame])
		if frame%schedule.ParityFrames == 0 {
			log.Debug("parity progress", "frame", frame, "action", a.String(), "max_pos_error", fe.MaxPosError)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	r := c.report()
	log.Info("parity complete", "report", r)
	return r, nil
}

type comparer struct {
	r        Report
	posErr   []float64
	phaseErr []float64
	agentErr []float64
}

func newComparer(n, frames int) *comparer {
	return &comparer{
		r: Report{
			HeroErrors:  make([]float64, 0, frames),
			AllErrors:   make([]float64, 0, frames),
			FrameErrors: make([]FrameError, 0, frames),
		},
		posErr:   make([]float64, 2*n),
		phaseErr: make([]float64, n),
		agentErr: make([]float64, n),
	}
}

func (c *comparer) observe(frame int, got swarm.Snapshot, want trace.Frame) FrameError {
	for i, p := range got.Positions {
		dx := math.Abs(p.X - want.AgentsPos[i][0])
		dy := math.Abs(p.Y - want.AgentsPos[i][1])
		c.posErr[2*i] = dx
		c.posErr[2*i+1] = dy
		c.agentErr[i] = math.Max(dx, dy)
		c.phaseErr[i] = math.Abs(got.Phases[i] - want.AgentsPhase[i])
	}

	fe := FrameError{
		Frame:          frame,
		MaxPosError:    floats.Max(c.posErr),
		HeroPosError:   math.Hypot(c.posErr[2*swarm.Hero], c.posErr[2*swarm.Hero+1]),
		MaxPhaseError:  floats.Max(c.phaseErr),
		MeanPosError:   stat.Mean(c.posErr, nil),
		MeanPhaseError: stat.Mean(c.phaseErr, nil),
	}

	if fe.MaxPosError > c.r.MaxError {
		c.r.MaxError = fe.MaxPosError
		c.r.MaxErrorFrame = frame
		c.r.MaxErrorAgent = floats.MaxIdx(c.agentErr)
	}

	c.r.AllErrors = append(c.r.AllErrors, fe.MaxPosError)
	c.r.HeroErrors = append(c.r.HeroErrors, fe.HeroPosError)
	c.r.FrameErrors = append(c.r.FrameErrors, fe)
	return fe
}

func (c *comparer) report() *Report {
	r := c.r
	if len(r.AllErrors) > 0 {
		r.MeanError, r.StdError = stat.PopMeanStdDev(r.AllErrors, nil)
		r.MeanHeroError = stat.Mean(r.HeroErrors, nil)
		r.MaxHeroError = floats.Max(r.HeroErrors)
	}
	return &r
}
