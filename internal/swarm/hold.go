package swarm

// Hero is the index of the agent pinned by HoldHero.
const Hero = 0

// holdSnapshot is an arena of pinned positions indexed by agent id.
type holdSnapshot struct {
	pinned []bool
	pos    []Vec2
}

func newHoldSnapshot(n int) holdSnapshot {
	return holdSnapshot{
		pinned: make([]bool, n),
		pos:    make([]Vec2, n),
	}
}

func (h *holdSnapshot) capture(i int, p Vec2) {
	h.pinned[i] = true
	h.pos[i] = p
}

func (h *holdSnapshot) release(i int) {
	h.pinned[i] = false
	h.pos[i] = Vec2{}
}

func (h *holdSnapshot) clear() {
	clear(h.pinned)
	clear(h.pos)
}

// Pinned reports whether agent i currently holds a snapshot.
func (e *Engine) Pinned(i int) bool {
	if i < 0 || i >= len(e.hold.pinned) {
		return false
	}
	return e.hold.pinned[i]
}

// captureHolds runs before the kernel. Snapshots are taken only when the
// action changes, so a continuously held agent keeps the position it had
// when the hold began.
func (e *Engine) captureHolds(a Action) {
	if a == e.prevAction {
		return
	}
	e.setGroup(Hero, Hero, a.HoldsHero())
	e.setGroup(1, e.p.NumTargets(), a.HoldsTargets())
}

func (e *Engine) setGroup(first, last int, held bool) {
	for i := first; i <= last; i++ {
		if held {
			e.hold.capture(i, e.pos[i])
		} else {
			e.hold.release(i)
		}
	}
}

// enforceHolds runs after integration. Held agents still took part in the
// kernel; their result is discarded here.
func (e *Engine) enforceHolds(a Action) {
	if a.HoldsHero() {
		e.pin(Hero)
	}
	if a.HoldsTargets() {
		for i := 1; i <= e.p.NumTargets(); i++ {
			e.pin(i)
		}
	}
}

func (e *Engine) pin(i int) {
	if e.hold.pinned[i] {
		e.pos[i] = e.hold.pos[i]
	}
	e.vel[i] = Vec2{}
	e.force[i] = Vec2{}
}
