package swarm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/swarmsim/internal/swarm"
)

func run(e *swarm.Engine, a swarm.Action, steps int) []swarm.Snapshot {
	out := make([]swarm.Snapshot, 0, steps)
	for i := 0; i < steps; i++ {
		Expect(e.Step(a)).To(Succeed())
		out = append(out, e.State())
	}
	return out
}

var _ = Describe("Hold state machine", func() {
	var eng *swarm.Engine

	BeforeEach(func() {
		var err error
		eng, err = swarm.New(12345, swarm.DefaultParams())
		Expect(err).NotTo(HaveOccurred())
	})

	Context("hero held after 40 free steps", func() {
		var free, held []swarm.Snapshot

		BeforeEach(func() {
			free = run(eng, swarm.NoOp, 40)
			held = run(eng, swarm.HoldHero, 40)
		})

		It("pins the hero where it stood when the hold began", func() {
			start := free[39].HeroPosition
			Expect(held[0].HeroPosition).To(Equal(start))
			for k, s := range held {
				Expect(s.HeroPosition).To(Equal(start), "drift at held step %d", k)
			}
		})

		It("freezes no other agent", func() {
			first, last := held[0], held[39]
			for i := 1; i < len(first.Positions); i++ {
				Expect(last.Positions[i]).NotTo(Equal(first.Positions[i]), "agent %d frozen", i)
			}
		})

		It("zeroes the hero's force and velocity", func() {
			Expect(eng.Forces()[swarm.Hero]).To(Equal(swarm.Vec2{}))
			Expect(eng.Velocities()[swarm.Hero]).To(Equal(swarm.Vec2{}))
			Expect(eng.Pinned(swarm.Hero)).To(BeTrue())
		})

		It("resumes normal dynamics on the first step after release", func() {
			pinned := held[39].HeroPosition
			after := run(eng, swarm.NoOp, 1)
			Expect(after[0].HeroPosition).NotTo(Equal(pinned))
			Expect(eng.Velocities()[swarm.Hero]).NotTo(Equal(swarm.Vec2{}))
			Expect(eng.Pinned(swarm.Hero)).To(BeFalse())
		})

		It("steps off from the pinned position like a free swarm", func() {
			free, err := swarm.New(12345, swarm.DefaultParams())
			Expect(err).NotTo(HaveOccurred())
			Expect(free.SetState(held[39].Positions, held[39].Phases)).To(Succeed())

			released := run(eng, swarm.NoOp, 1)
			unheld := run(free, swarm.NoOp, 1)
			Expect(released[0].HeroPosition).To(Equal(unheld[0].HeroPosition))
			Expect(released[0].Positions).To(Equal(unheld[0].Positions))
			Expect(released[0].Phases).To(Equal(unheld[0].Phases))
			Expect(eng.Velocities()).To(Equal(free.Velocities()))
		})

		It("re-captures on a fresh activation", func() {
			run(eng, swarm.NoOp, 5)
			moved := eng.State().HeroPosition
			again := run(eng, swarm.HoldHero, 3)
			Expect(again[2].HeroPosition).To(Equal(moved))
		})

		It("keeps the hero in place when widening to hold-both", func() {
			pinned := held[39].HeroPosition
			both := run(eng, swarm.HoldBoth, 5)
			Expect(both[4].HeroPosition).To(Equal(pinned))
		})
	})

	Context("targets held", func() {
		It("pins agents 1..10 and leaves hero and the rest free", func() {
			before := eng.State()
			held := run(eng, swarm.HoldTargets, 20)
			last := held[19]

			for i := 1; i <= swarm.MaxTargets; i++ {
				Expect(last.Positions[i]).To(Equal(before.Positions[i]), "target %d moved", i)
				Expect(eng.Pinned(i)).To(BeTrue())
			}
			Expect(last.HeroPosition).NotTo(Equal(before.HeroPosition))
			Expect(last.Positions[swarm.MaxTargets+1]).NotTo(Equal(before.Positions[swarm.MaxTargets+1]))
		})

		It("clamps the target group to the swarm size", func() {
			p := swarm.DefaultParams()
			p.N = 4
			small, err := swarm.New(9, p)
			Expect(err).NotTo(HaveOccurred())

			before := small.State()
			run(small, swarm.HoldBoth, 10)
			Expect(small.State().Positions).To(Equal(before.Positions))
		})
	})

	Context("previous action", func() {
		It("tracks the last applied action unconditionally", func() {
			for _, a := range []swarm.Action{swarm.HoldHero, swarm.HoldHero, swarm.NoOp, swarm.HoldBoth} {
				Expect(eng.ApplyAction(a)).To(Succeed())
				Expect(eng.PreviousAction()).To(Equal(a))
			}
		})

		It("rejects unknown codes instead of treating them as no-op", func() {
			Expect(eng.Step(swarm.HoldHero)).To(Succeed())
			Expect(eng.Step(swarm.Action(5))).To(MatchError(swarm.ErrInvalidAction))
			Expect(eng.PreviousAction()).To(Equal(swarm.HoldHero))
		})
	})
})
