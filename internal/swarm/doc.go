// Package swarm implements the swarmalator engine: N point agents on a
// toroidal 2D domain, each carrying a position and an oscillator phase.
//
// One call to [Engine.Step] runs, in order:
//
//   - hold capture: snapshot pinned positions on an action transition
//   - force kernel: all-pairs repulsion, J (phase-spatial) and K (phase) coupling
//   - integrator: overdamped explicit Euler, then phase and torus wrap
//   - hold enforcement: re-pin held agents and zero their force and velocity
//
// The kernel measures straight-line distances and ignores the torus. Only the
// integrator wraps positions. Changing either side changes trajectories.
//
// # Example
//
//	eng, err := swarm.New(12345, swarm.DefaultParams())
//	if err != nil {
//	    return err
//	}
//	for i := 0; i < 40; i++ {
//	    _ = eng.Step(swarm.HoldHero)
//	}
//	s := eng.State()
//
// # Determinism
//
// The same seed, parameters and action sequence reproduce the same trajectory
// bit for bit. Setting [Params.Workers] splits the kernel by rows; every row is
// still summed in the same order, so the result does not change.
//
// # Thread Safety
//
// Engine instances are NOT safe for concurrent use.
package swarm
