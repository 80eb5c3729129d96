package schedule

import (
	"errors"
	"testing"

	"github.com/san-kum/swarmsim/internal/swarm"
)

func TestParity(t *testing.T) {
	s := Parity()
	if s.Len() != 280 {
		t.Fatalf("Len() = %d, want 280", s.Len())
	}

	tests := []struct {
		frame int
		want  swarm.Action
	}{
		{0, swarm.NoOp},
		{1, swarm.NoOp},
		{40, swarm.NoOp},
		{41, swarm.HoldHero},
		{80, swarm.HoldHero},
		{81, swarm.NoOp},
		{121, swarm.HoldTargets},
		{160, swarm.HoldTargets},
		{201, swarm.HoldBoth},
		{240, swarm.HoldBoth},
		{241, swarm.NoOp},
		{280, swarm.NoOp},
		{500, swarm.NoOp},
	}
	for _, tt := range tests {
		if got := s.At(tt.frame); got != tt.want {
			t.Errorf("At(%d) = %v, want %v", tt.frame, got, tt.want)
		}
	}
}

func TestConstant(t *testing.T) {
	s := Constant(swarm.HoldTargets, 3)
	if s.Len() != 3 || s.At(3) != swarm.HoldTargets || s.At(4) != swarm.NoOp {
		t.Errorf("unexpected constant schedule behaviour: %+v", s)
	}
}

func TestValidate(t *testing.T) {
	if err := Parity().Validate(); err != nil {
		t.Errorf("parity schedule invalid: %v", err)
	}

	bad := Schedule{{Action: 7, Frames: 3}}
	if err := bad.Validate(); !errors.Is(err, swarm.ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}

	neg := Schedule{{Action: swarm.NoOp, Frames: -1}}
	if err := neg.Validate(); err == nil {
		t.Error("expected error for negative frames")
	}
}
