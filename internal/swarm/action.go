package swarm

import "fmt"

// Action is the discrete control code applied with each step.
type Action int

const (
	NoOp        Action = 0
	HoldHero    Action = 1
	HoldTargets Action = 2
	HoldBoth    Action = 3
)

var actionNames = [...]string{"noop", "hold-hero", "hold-targets", "hold-both"}

// Valid reports whether a is one of the four defined codes.
func (a Action) Valid() bool {
	return a >= NoOp && a <= HoldBoth
}

func (a Action) HoldsHero() bool    { return a == HoldHero || a == HoldBoth }
func (a Action) HoldsTargets() bool { return a == HoldTargets || a == HoldBoth }

func (a Action) String() string {
	if !a.Valid() {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction accepts either the numeric code or the name of an action.
func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if s == name || s == fmt.Sprint(i) {
			return Action(i), nil
		}
	}
	return NoOp, fmt.Errorf("%w: %q", ErrInvalidAction, s)
}
