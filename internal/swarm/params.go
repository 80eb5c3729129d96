package swarm

import (
	"fmt"
	"math"
)

// Precision selects the width carried state is rounded to between steps.
type Precision string

const (
	// Float64 keeps full double precision. This is the canonical mode.
	Float64 Precision = "float64"
	// Float32 rounds positions, phases, frequencies and velocities through
	// 32-bit floats after reset and after every step.
	Float32 Precision = "float32"
)

const (
	// MaxTargets is the size of the target group (indices 1..MaxTargets).
	MaxTargets = 10

	// coincidentDist2 masks near-coincident pairs out of the kernel.
	coincidentDist2 = 1e-6
)

// Params is the immutable physics configuration of one engine.
type Params struct {
	N                 int       `yaml:"n" json:"n"`
	J                 float64   `yaml:"j" json:"j"`
	K                 float64   `yaml:"k" json:"k"`
	TimeScale         float64   `yaml:"time_scale" json:"time_scale"`
	BaseDt            float64   `yaml:"base_dt" json:"base_dt"`
	RepulsionStrength float64   `yaml:"repulsion_strength" json:"repulsion_strength"`
	Epsilon           float64   `yaml:"epsilon" json:"epsilon"`
	BaseOmega         float64   `yaml:"base_omega" json:"base_omega"`
	OmegaVariation    float64   `yaml:"omega_variation" json:"omega_variation"`
	Width             float64   `yaml:"width" json:"width"`
	Height            float64   `yaml:"height" json:"height"`
	Precision         Precision `yaml:"precision" json:"precision"`
	Workers           int       `yaml:"workers" json:"workers"`
}

// DefaultParams returns the stage 1 model.
func DefaultParams() Params {
	return Params{
		N:                 100,
		J:                 8.0,
		K:                 -4.0,
		TimeScale:         50.0,
		BaseDt:            0.05,
		RepulsionStrength: 4000.0,
		Epsilon:           4.0,
		BaseOmega:         0.1,
		OmegaVariation:    0.0,
		Width:             1000.0,
		Height:            1000.0,
		Precision:         Float64,
	}
}

// Dt is the default time step: BaseDt scaled by TimeScale.
func (p Params) Dt() float64 {
	return p.BaseDt * p.TimeScale
}

// NumTargets is min(MaxTargets, N-1).
func (p Params) NumTargets() int {
	if p.N-1 < MaxTargets {
		return max(p.N-1, 0)
	}
	return MaxTargets
}

// Validate returns a *ParamError (wrapping ErrInvalidParams) for the first
// field the engine cannot run with.
func (p Params) Validate() error {
	if p.N <= 0 {
		return &ParamError{Field: "n", Value: p.N, Reason: "agent count must be positive"}
	}
	if !(p.Width > 0) || math.IsInf(p.Width, 0) {
		return &ParamError{Field: "width", Value: p.Width, Reason: "must be positive and finite"}
	}
	if !(p.Height > 0) || math.IsInf(p.Height, 0) {
		return &ParamError{Field: "height", Value: p.Height, Reason: "must be positive and finite"}
	}

	finite := []struct {
		name string
		v    float64
	}{
		{"j", p.J},
		{"k", p.K},
		{"time_scale", p.TimeScale},
		{"base_dt", p.BaseDt},
		{"repulsion_strength", p.RepulsionStrength},
		{"epsilon", p.Epsilon},
		{"base_omega", p.BaseOmega},
		{"omega_variation", p.OmegaVariation},
	}
	for _, f := range finite {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &ParamError{Field: f.name, Value: f.v, Reason: "must be finite"}
		}
	}

	if p.Epsilon < 0 {
		return &ParamError{Field: "epsilon", Value: p.Epsilon, Reason: "softening must be non-negative"}
	}
	if p.OmegaVariation < 0 {
		return &ParamError{Field: "omega_variation", Value: p.OmegaVariation, Reason: "must be non-negative"}
	}
	if dt := p.Dt(); !(dt > 0) || math.IsInf(dt, 0) {
		return &ParamError{Field: "dt", Value: dt, Reason: "base_dt*time_scale must be positive"}
	}
	switch p.Precision {
	case Float64, Float32, "":
	default:
		return &ParamError{Field: "precision", Value: p.Precision, Reason: fmt.Sprintf("want %q or %q", Float64, Float32)}
	}
	if p.Workers < 0 {
		return &ParamError{Field: "workers", Value: p.Workers, Reason: "must be non-negative"}
	}
	return nil
}

func (p Params) rounds32() bool {
	return p.Precision == Float32
}
