// Package schedule maps frame numbers to hold actions.
package schedule

import (
	"fmt"

	"github.com/san-kum/swarmsim/internal/swarm"
)

// Segment applies Action for Frames consecutive frames.
type Segment struct {
	Action swarm.Action `yaml:"action"`
	Frames int          `yaml:"frames"`
}

// Schedule is an ordered list of segments. Frame 0 is the initial state and
// is never stepped; segment frames count from 1.
type Schedule []Segment

// ParityFrames is the segment length of the parity schedule.
const ParityFrames = 40

// Parity returns noop, hold-hero, noop, hold-targets, noop, hold-both, noop,
// ParityFrames frames each.
func Parity() Schedule {
	acts := []swarm.Action{
		swarm.NoOp, swarm.HoldHero, swarm.NoOp, swarm.HoldTargets,
		swarm.NoOp, swarm.HoldBoth, swarm.NoOp,
	}
	s := make(Schedule, len(acts))
	for i, a := range acts {
		s[i] = Segment{Action: a, Frames: ParityFrames}
	}
	return s
}

// Constant returns a single segment of n frames.
func Constant(a swarm.Action, n int) Schedule {
	return Schedule{{Action: a, Frames: n}}
}

// Len is the number of stepped frames.
func (s Schedule) Len() int {
	n := 0
	for _, seg := range s {
		n += seg.Frames
	}
	return n
}

// At returns the action for frame (1-based). Frames past the end and frame 0
// map to NoOp.
func (s Schedule) At(frame int) swarm.Action {
	if frame < 1 {
		return swarm.NoOp
	}
	end := 0
	for _, seg := range s {
		end += seg.Frames
		if frame <= end {
			return seg.Action
		}
	}
	return swarm.NoOp
}

// Validate rejects unknown actions and negative lengths.
func (s Schedule) Validate() error {
	for i, seg := range s {
		if !seg.Action.Valid() {
			return fmt.Errorf("segment %d: %w: %d", i, swarm.ErrInvalidAction, int(seg.Action))
		}
		if seg.Frames < 0 {
			return fmt.Errorf("segment %d: negative frame count %d", i, seg.Frames)
		}
	}
	return nil
}
