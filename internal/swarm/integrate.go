package swarm

import "math"

// integrate applies one overdamped Euler step from the kernel output and
// wraps phases to [0, 2π) and positions onto the torus.
func (e *Engine) integrate(dt float64) {
	for i := range e.pos {
		e.vel[i] = e.force[i]
		e.pos[i].X += e.vel[i].X * dt
		e.pos[i].Y += e.vel[i].Y * dt
		e.phase[i] += e.dphase[i] * dt
	}
	e.wrapAll()
}

func (e *Engine) wrapAll() {
	w, h := e.p.Width, e.p.Height
	for i := range e.pos {
		e.phase[i] = wrap(e.phase[i], 2*math.Pi)
		e.pos[i].X = wrap(e.pos[i].X, w)
		e.pos[i].Y = wrap(e.pos[i].Y, h)
	}
}

// wrap is the floored modulo of v into [0, m).
func wrap(v, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	// -tiny + m rounds to m
	if r >= m {
		r = 0
	}
	return r
}
