package swarm

import (
	"fmt"
	"math"
)

// Step advances one frame with the default time step.
func (e *Engine) Step(a Action) error {
	return e.StepDt(e.p.Dt(), a)
}

// ApplyAction is Step under the name the control loop uses.
func (e *Engine) ApplyAction(a Action) error {
	return e.Step(a)
}

// StepDt advances one frame with an explicit time step. An invalid action or
// dt is rejected before any state is touched.
func (e *Engine) StepDt(dt float64, a Action) error {
	if !a.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidAction, int(a))
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDt, dt)
	}

	e.captureHolds(a)
	e.computeForces()
	e.integrate(dt)
	if e.p.rounds32() {
		e.round32()
	}
	e.enforceHolds(a)

	e.prevAction = a
	return nil
}
