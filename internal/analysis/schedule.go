package analysis

import "github.com/san-kum/arraylab/internal/array"

// CapacitySchedule predicts the capacities reached by up to n expansions
// from capacity 1. It drives the real model, so it clamps exactly the
// way a run does, and stops early once the hard limit pins the capacity.
func CapacitySchedule(growth float64, hardLimit, n int) []int {
	arr := array.New(growth, hardLimit)
	caps := make([]int, 0, n)
	for i := 0; i < n; i++ {
		arr.Expand()
		caps = append(caps, arr.Capacity())
		if hardLimit > 0 && arr.Capacity() == hardLimit {
			break
		}
	}
	return caps
}

// ExpansionsToReach counts expansions until capacity covers target.
// Returns -1 when the hard limit makes the target unreachable.
func ExpansionsToReach(growth float64, hardLimit, target int) int {
	arr := array.New(growth, hardLimit)
	for n := 0; ; n++ {
		if arr.Capacity() >= target {
			return n
		}
		if hardLimit > 0 && arr.Capacity() == hardLimit {
			return -1
		}
		before := arr.Capacity()
		arr.Expand()
		if arr.Capacity() == before {
			// growth <= 1, no progress possible
			return -1
		}
	}
}
