package swarm

import (
	"errors"
	"fmt"
)

// Domain errors for engine operations.
var (
	// ErrInvalidParams indicates a configuration the engine cannot run with.
	ErrInvalidParams = errors.New("swarm: invalid parameters")

	// ErrInvalidAction indicates an action code outside {0,1,2,3}.
	ErrInvalidAction = errors.New("swarm: invalid action code")

	// ErrInvalidDt indicates a non-positive or non-finite time step.
	ErrInvalidDt = errors.New("swarm: time step must be positive and finite")

	// ErrStateMismatch indicates externally supplied arrays of the wrong length.
	ErrStateMismatch = errors.New("swarm: state length does not match agent count")

	// ErrNonFiniteState indicates a NaN or infinite position or phase.
	ErrNonFiniteState = errors.New("swarm: state contains non-finite values")
)

// ParamError names the parameter that failed validation.
type ParamError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("swarm: invalid %s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParams
}
