package swarm

import (
	"math"
	"sync"
)

// minRowsPerWorker keeps small swarms on the serial path.
const minRowsPerWorker = 16

// computeForces overwrites e.force and e.dphase for the current state.
func (e *Engine) computeForces() {
	n := len(e.pos)
	if e.p.Workers > 1 {
		parallelFor(n, e.p.Workers, minRowsPerWorker, e.forceRows)
		return
	}
	e.forceRows(0, n)
}

// forceRows evaluates the kernel for agents [start, end). Each row reads
// shared state and writes only its own outputs, so rows can run concurrently.
//
// Distances are straight-line differences pos[j]-pos[i]: the kernel does not
// apply the minimum-image convention even though positions live on a torus.
func (e *Engine) forceRows(start, end int) {
	p := e.p
	n := len(e.pos)
	nf := float64(n)

	for i := start; i < end; i++ {
		xi, yi := e.pos[i].X, e.pos[i].Y
		thi := e.phase[i]

		var repX, repY, attX, attY float64
		dth := e.omega[i]

		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			dx := e.pos[j].X - xi
			dy := e.pos[j].Y - yi
			d2 := dx*dx + dy*dy
			if d2 < coincidentDist2 {
				continue
			}
			invD := 1.0 / math.Sqrt(d2)
			ux, uy := dx*invD, dy*invD

			// repulsion pushes i away from j
			rep := p.RepulsionStrength / (d2 + p.Epsilon) / nf
			repX -= ux * rep
			repY -= uy * rep

			sin, cos := math.Sincos(e.phase[j] - thi)

			att := (1.0 + p.J*cos) / nf
			attX += ux * att
			attY += uy * att

			dth += p.K * sin * invD / nf
		}

		e.force[i] = Vec2{X: repX + attX, Y: repY + attY}
		e.dphase[i] = dth
	}
}

// parallelFor splits [0, n) into contiguous chunks across at most workers
// goroutines and blocks until all return.
func parallelFor(n, workers, minChunk int, fn func(start, end int)) {
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
