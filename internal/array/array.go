package array

import "math"

// Array tracks occupancy and resize accounting for a growable array. The
// interesting state is the generation split: size counts everything
// admitted so far, oldGen the elements that predate the latest expansion,
// and migrated how many of those have been settled into the new capacity.
type Array struct {
	growth    float64
	capacity  int
	size      int
	oldGen    int
	migrated  int
	hardLimit int

	resizes      int
	migrationOps int
}

// New returns an empty model with capacity 1.
//
// growth is the capacity multiplier applied on each expansion; values <= 1
// make Expand a no-op that still resets migration accounting, so callers
// are expected to validate (see config.Validate). hardLimit caps capacity;
// zero or negative means unbounded.
func New(growth float64, hardLimit int) *Array {
	if hardLimit < 0 {
		hardLimit = 0
	}
	return &Array{
		growth:    growth,
		capacity:  1,
		hardLimit: hardLimit,
	}
}

// TryGrow admits one element. It returns the new size and true on success,
// or 0 and false when the array is full. Failure changes nothing; it is
// the signal to expand (or, at the hard limit, to stop), not an error.
func (a *Array) TryGrow() (int, bool) {
	if a.size+1 > a.capacity {
		return 0, false
	}
	a.size++
	return a.size, true
}

// Expand starts a new generation: everything currently admitted becomes
// the old generation, migration accounting resets, and capacity is
// multiplied by the growth factor, rounded up and clamped to the hard
// limit. At the limit the capacity no longer changes but the generation
// bookkeeping still rolls over.
//
// Expand is meaningful only after TryGrow has been refused. Calling it
// early is not an error, it just resizes a non-full array.
func (a *Array) Expand() {
	a.oldGen = a.size
	a.migrated = 0
	a.capacity = int(math.Ceil(float64(a.capacity) * a.growth))
	if a.hardLimit > 0 && a.capacity > a.hardLimit {
		a.capacity = a.hardLimit
	}
	a.resizes++
}

// MigrateOne settles one old-generation element into the expanded
// capacity. It returns the new migrated count and true, or 0 and false
// once nothing is left to migrate. Calls after exhaustion stay no-ops, so
// a driver may invoke it unconditionally every tick.
func (a *Array) MigrateOne() (int, bool) {
	if a.migrated >= a.oldGen {
		return 0, false
	}
	a.migrated++
	a.migrationOps++
	return a.migrated, true
}

// MigrationDone reports whether no old-generation data is pending. True
// both before the first expansion and after every element has migrated.
func (a *Array) MigrationDone() bool {
	return a.migrated == a.oldGen
}

// Efficiency is the fraction of capacity occupied by settled data:
// elements admitted since the last expansion plus old elements already
// migrated. Old data still awaiting migration does not count, which is
// what makes the post-expansion dip visible.
func (a *Array) Efficiency() float64 {
	return float64(a.size-a.oldGen+a.migrated) / float64(a.capacity)
}

// Pending is the old-generation count not yet migrated.
func (a *Array) Pending() int { return a.oldGen - a.migrated }

// Growth returns the capacity multiplier.
func (a *Array) Growth() float64 { return a.growth }

// Capacity returns the current slot count.
func (a *Array) Capacity() int { return a.capacity }

// Size returns the number of admitted elements.
func (a *Array) Size() int { return a.size }

// OldGenerationSize returns the element count captured by the latest
// expansion.
func (a *Array) OldGenerationSize() int { return a.oldGen }

// Migrated returns how many old-generation elements have settled since
// the latest expansion.
func (a *Array) Migrated() int { return a.migrated }

// HardLimit returns the capacity cap, 0 when unbounded.
func (a *Array) HardLimit() int { return a.hardLimit }

// Resizes returns the number of expansions performed over the model's
// lifetime.
func (a *Array) Resizes() int { return a.resizes }

// MigrationOps returns the total migration steps performed over the
// model's lifetime, across all generations.
func (a *Array) MigrationOps() int { return a.migrationOps }
