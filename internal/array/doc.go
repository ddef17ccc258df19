// Package array models the bookkeeping of a growable array under an
// amortized resizing policy.
//
// The model tracks counters only. No element data is stored and no memory
// is copied; every operation is O(1) integer arithmetic on a handful of
// fields:
//
//   - [Array.TryGrow]: admit one element if capacity allows
//   - [Array.Expand]: multiply capacity by the growth factor (rounded up,
//     clamped to the hard limit) and mark current contents as the old
//     generation awaiting migration
//   - [Array.MigrateOne]: settle one old-generation element into the
//     expanded capacity
//   - [Array.Efficiency]: fraction of capacity holding settled data
//
// # Example
//
//	arr := array.New(2.0, 1<<16)
//	for {
//		if _, ok := arr.TryGrow(); !ok {
//			arr.Expand()
//		}
//		arr.MigrateOne()
//	}
//
// The package enforces no call order. Sequencing rules (expand only when
// blocked, at most one migration per tick, terminal behavior at the hard
// limit) live in the sim package so the model stays reusable under other
// policies.
//
// # Thread Safety
//
// Array is not safe for concurrent use. Drive it from a single goroutine
// and publish state to readers through sim.Snapshot values.
package array
