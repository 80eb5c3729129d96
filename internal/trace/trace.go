// Package trace reads and writes the frame sequence format shared with
// reference implementations: a JSON array of
// {"agents_pos": [[x, y], ...], "agents_phase": [...]}.
package trace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/swarmsim/internal/swarm"
)

var (
	// ErrMalformedFrame indicates a frame whose position and phase counts differ.
	ErrMalformedFrame = errors.New("trace: agents_pos and agents_phase lengths differ")

	// ErrAgentCount indicates frames with different agent counts.
	ErrAgentCount = errors.New("trace: agent count changes between frames")
)

// Frame is one recorded simulation step.
type Frame struct {
	AgentsPos   [][2]float64 `json:"agents_pos"`
	AgentsPhase []float64    `json:"agents_phase"`
}

// FromSnapshot copies an engine snapshot into a frame.
func FromSnapshot(s swarm.Snapshot) Frame {
	f := Frame{
		AgentsPos:   make([][2]float64, len(s.Positions)),
		AgentsPhase: make([]float64, len(s.Phases)),
	}
	for i, p := range s.Positions {
		f.AgentsPos[i] = [2]float64{p.X, p.Y}
	}
	copy(f.AgentsPhase, s.Phases)
	return f
}

// Len is the number of agents in the frame.
func (f Frame) Len() int { return len(f.AgentsPos) }

// Positions converts the frame's positions back to engine vectors.
func (f Frame) Positions() []swarm.Vec2 {
	out := make([]swarm.Vec2, len(f.AgentsPos))
	for i, p := range f.AgentsPos {
		out[i] = swarm.Vec2{X: p[0], Y: p[1]}
	}
	return out
}

// Hero returns agent 0's position.
func (f Frame) Hero() [2]float64 { return f.AgentsPos[swarm.Hero] }

// Read decodes and checks a trace.
func Read(r io.Reader) ([]Frame, error) {
	var frames []Frame
	if err := json.NewDecoder(r).Decode(&frames); err != nil {
		return nil, fmt.Errorf("trace: decode: %w", err)
	}
	for i, f := range frames {
		if len(f.AgentsPos) != len(f.AgentsPhase) {
			return nil, fmt.Errorf("frame %d: %w", i, ErrMalformedFrame)
		}
		if i > 0 && f.Len() != frames[0].Len() {
			return nil, fmt.Errorf("frame %d: %w", i, ErrAgentCount)
		}
	}
	return frames, nil
}

// Write encodes frames as a JSON array.
func Write(w io.Writer, frames []Frame) error {
	if frames == nil {
		frames = []Frame{}
	}
	return json.NewEncoder(w).Encode(frames)
}

// Load reads a trace file.
func Load(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Save writes a trace file.
func Save(path string, frames []Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, frames); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
