package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/arraylab/internal/array"
)

var _ = Describe("Driver", func() {
	step := func(d *Driver, n int) Snapshot {
		var s Snapshot
		for i := 0; i < n; i++ {
			s = d.Step()
		}
		return s
	}

	Describe("with doubling growth", func() {
		var d *Driver

		BeforeEach(func() {
			d = NewDriver(array.New(2.0, 0))
		})

		It("should admit one element on the very first tick", func() {
			s := d.Step()
			Expect(s.Size).To(Equal(1))
			Expect(s.Capacity).To(Equal(1))
			Expect(s.Admitted).To(BeTrue())
			Expect(s.Expanded).To(BeFalse())
		})

		It("should expand and retry in the same tick when full", func() {
			d.Step()
			s := d.Step()
			Expect(s.Expanded).To(BeTrue())
			Expect(s.Admitted).To(BeTrue())
			Expect(s.Capacity).To(Equal(2))
			Expect(s.Size).To(Equal(2))
			Expect(s.OldGenerationSize).To(Equal(1))
			Expect(s.Migrated).To(Equal(1))
		})

		It("should admit on every tick, with migration finishing as the array refills", func() {
			for i := 1; i <= 64; i++ {
				s := d.Step()
				Expect(s.Admitted).To(BeTrue(), "tick %d admitted nothing", i)
				Expect(s.Size).To(Equal(i))
			}
		})

		It("should finish each migration exactly when the next expansion is due", func() {
			s := step(d, 8)
			Expect(s.Capacity).To(Equal(8))
			Expect(s.Size).To(Equal(8))
			Expect(s.PendingMigration()).To(BeZero())

			s = d.Step()
			Expect(s.Expanded).To(BeTrue())
			Expect(s.Capacity).To(Equal(16))
			Expect(s.OldGenerationSize).To(Equal(8))
		})
	})

	Describe("with growth below doubling", func() {
		var d *Driver

		BeforeEach(func() {
			d = NewDriver(array.New(1.5, 0))
		})

		It("should defer expansion while old data is still migrating", func() {
			// Ticks 1-3 fill to capacity 3 with one old element left
			// pending; tick 4 is the stall.
			step(d, 3)
			s := d.Step()
			Expect(s.Admitted).To(BeFalse())
			Expect(s.Expanded).To(BeFalse())
			Expect(s.MigratedOld).To(BeTrue())
			Expect(s.Size).To(Equal(3))
			Expect(s.Capacity).To(Equal(3))
			Expect(s.Ops).To(Equal(1))
		})

		It("should expand on the tick after migration completes", func() {
			step(d, 4)
			s := d.Step()
			Expect(s.Expanded).To(BeTrue())
			Expect(s.Admitted).To(BeTrue())
			Expect(s.Capacity).To(Equal(5))
			Expect(s.Size).To(Equal(4))
			Expect(s.OldGenerationSize).To(Equal(3))
		})

		It("should report the migrating phase only while data is pending", func() {
			Expect(d.Step().Phase).To(Equal(PhaseGrowing))

			s := d.Step() // expand to 2, old 1, migrates same tick
			Expect(s.Phase).To(Equal(PhaseGrowing))

			s = d.Step() // expand to 3, old 2, one migrated
			Expect(s.Phase).To(Equal(PhaseMigrating))

			s = d.Step() // stall tick drains the last old element
			Expect(s.Phase).To(Equal(PhaseGrowing))
		})
	})

	Describe("at the hard limit", func() {
		var d *Driver

		BeforeEach(func() {
			d = NewDriver(array.New(2.0, 4))
		})

		It("should turn terminal when the post-expansion retry is refused", func() {
			s := step(d, 5)
			Expect(s.Phase).To(Equal(PhaseLimitReached))
			Expect(s.Tick).To(Equal(5))
			Expect(d.LimitReached()).To(BeTrue())
		})

		It("should keep the final expansion's bookkeeping", func() {
			s := step(d, 5)
			Expect(s.Expanded).To(BeTrue())
			Expect(s.Admitted).To(BeFalse())
			Expect(s.Capacity).To(Equal(4))
			Expect(s.Size).To(Equal(4))
			Expect(s.OldGenerationSize).To(Equal(4))
			Expect(s.Resizes).To(Equal(3))
		})

		It("should still run the migration step on the terminal tick", func() {
			s := step(d, 5)
			Expect(s.MigratedOld).To(BeTrue())
			Expect(s.Migrated).To(Equal(1))
			Expect(s.Ops).To(Equal(2))
		})

		It("should freeze every counter after the terminal tick", func() {
			terminal := step(d, 5)
			for i := 0; i < 10; i++ {
				s := d.Step()
				Expect(s.Phase).To(Equal(PhaseLimitReached))
				Expect(s.Tick).To(Equal(terminal.Tick))
				Expect(s.Capacity).To(Equal(terminal.Capacity))
				Expect(s.Size).To(Equal(terminal.Size))
				Expect(s.Migrated).To(Equal(terminal.Migrated))
				Expect(s.Resizes).To(Equal(terminal.Resizes))
				Expect(s.MigrationOps).To(Equal(terminal.MigrationOps))
				Expect(s.Ops).To(BeZero())
			}
		})

		It("should record the tick that first hit the limit", func() {
			step(d, 20)
			Expect(d.LimitReachedTick()).To(Equal(5))
		})
	})

	Describe("with a hard limit of one", func() {
		It("should go terminal on the first blocked tick", func() {
			d := NewDriver(array.New(2.0, 1))

			s := d.Step()
			Expect(s.Admitted).To(BeTrue())
			Expect(s.Phase).To(Equal(PhaseGrowing))

			s = d.Step()
			Expect(s.Phase).To(Equal(PhaseLimitReached))
			Expect(s.Capacity).To(Equal(1))
			Expect(s.Size).To(Equal(1))
			Expect(s.Expanded).To(BeTrue())
			Expect(d.LimitReachedTick()).To(Equal(2))
		})
	})

	Describe("snapshot without stepping", func() {
		It("should report the initial state at tick zero", func() {
			d := NewDriver(array.New(2.0, 0))
			s := d.Snapshot()
			Expect(s.Tick).To(BeZero())
			Expect(s.Capacity).To(Equal(1))
			Expect(s.Size).To(BeZero())
			Expect(s.Phase).To(Equal(PhaseGrowing))
		})

		It("should not advance the driver", func() {
			d := NewDriver(array.New(2.0, 0))
			d.Snapshot()
			d.Snapshot()
			s := d.Step()
			Expect(s.Tick).To(Equal(1))
			Expect(s.Size).To(Equal(1))
		})
	})

	Describe("ops accounting", func() {
		It("should count admission, expansion and migration as one op each", func() {
			d := NewDriver(array.New(2.0, 0))

			s := d.Step() // admit only
			Expect(s.Ops).To(Equal(1))

			s = d.Step() // expand + admit + migrate
			Expect(s.Ops).To(Equal(3))
		})
	})
})
