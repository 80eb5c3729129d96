package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/swarmsim/internal/metrics"
	"github.com/san-kum/swarmsim/internal/swarm"
	"github.com/san-kum/swarmsim/internal/trace"
)

// Simulator drives one engine through a schedule. It never resets the
// engine; runs continue from whatever state the engine is in.
type Simulator struct {
	eng       *swarm.Engine
	metrics   []metrics.Metric
	observers []Observer
	log       *slog.Logger
}

func New(eng *swarm.Engine, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Simulator{
		eng:       eng,
		metrics:   make([]metrics.Metric, 0),
		observers: make([]Observer, 0),
		log:       logger,
	}
}

func (s *Simulator) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }

func (s *Simulator) Engine() *swarm.Engine { return s.eng }

// Run records frame 0 and then Steps stepped frames.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Frames:  make([]trace.Frame, 0, cfg.Steps+1),
		Actions: make([]swarm.Action, 0, cfg.Steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	err := s.RunWithCallback(ctx, cfg, func(frame int, a swarm.Action, snap swarm.Snapshot) bool {
		for _, m := range s.metrics {
			m.Observe(frame, a, snap)
		}
		result.Frames = append(result.Frames, trace.FromSnapshot(snap))
		result.Actions = append(result.Actions, a)
		if frame > 0 {
			result.StepsTaken++
		}
		return true
	})

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, err
}

// RunWithCallback streams frames to callback without retaining them. A false
// return stops the run without error.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(frame int, a swarm.Action, snap swarm.Snapshot) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	dt := cfg.Dt
	if dt == 0 {
		dt = s.eng.Params().Dt()
	}

	emit := func(frame int, a swarm.Action) bool {
		snap := s.eng.State()
		for _, obs := range s.observers {
			obs.OnFrame(frame, a, snap)
		}
		return callback(frame, a, snap)
	}

	if !emit(0, swarm.NoOp) {
		return nil
	}

	prev := s.eng.PreviousAction()
	for frame := 1; frame <= cfg.Steps; frame++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		a := cfg.Schedule.At(frame)
		if a != prev {
			s.log.Debug("action change", "frame", frame, "from", prev.String(), "to", a.String())
			prev = a
		}

		if err := s.eng.StepDt(dt, a); err != nil {
			return StepError{Frame: frame, Action: a, Err: err}
		}

		if !emit(frame, a) {
			return nil
		}
	}

	s.log.Debug("run complete", "steps", cfg.Steps, "state", s.eng.State())
	return nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", cfg.Steps)
	}
	if cfg.Dt < 0 {
		return fmt.Errorf("dt must be non-negative, got %f", cfg.Dt)
	}
	if err := cfg.Schedule.Validate(); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	return nil
}
