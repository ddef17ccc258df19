package sim

import "github.com/san-kum/arraylab/internal/array"

// Driver owns an Array exclusively and advances it one tick at a time.
// All sequencing lives here; the model underneath is free of policy.
type Driver struct {
	arr       *array.Array
	metrics   []Metric
	observers []Observer

	tick         int
	limitReached bool
	limitTick    int
}

func NewDriver(arr *array.Array) *Driver {
	return &Driver{
		arr:       arr,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (d *Driver) AddMetric(m Metric)     { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

type activity struct {
	admitted bool
	expanded bool
	migrated bool
}

// Step advances one tick:
//
//  1. Admit one element. When refused and the previous generation has
//     fully migrated, expand and retry once; a refused retry means the
//     hard limit is in the way and the state turns terminal. While old
//     data is still migrating the expansion is deferred and the tick
//     admits nothing.
//  2. Migrate at most one old-generation element, whatever step 1 did.
//
// The tick that discovers the limit still performs its expansion and its
// migration step. From the next call on, Step re-reports the frozen
// state without advancing anything.
func (d *Driver) Step() Snapshot {
	if d.limitReached {
		return d.report(activity{})
	}
	d.tick++

	var act activity
	if _, ok := d.arr.TryGrow(); ok {
		act.admitted = true
	} else if d.arr.MigrationDone() {
		d.arr.Expand()
		act.expanded = true
		if _, ok := d.arr.TryGrow(); ok {
			act.admitted = true
		} else {
			d.limitReached = true
			d.limitTick = d.tick
		}
	}

	if _, ok := d.arr.MigrateOne(); ok {
		act.migrated = true
	}

	return d.report(act)
}

// Snapshot reports the current state without advancing. Used for the
// initial frame before any tick has run.
func (d *Driver) Snapshot() Snapshot {
	return d.report(activity{})
}

// LimitReached reports whether the driver is terminal.
func (d *Driver) LimitReached() bool { return d.limitReached }

// LimitReachedTick returns the tick that hit the hard limit, 0 if none
// has.
func (d *Driver) LimitReachedTick() int { return d.limitTick }

func (d *Driver) report(act activity) Snapshot {
	phase := PhaseGrowing
	switch {
	case d.limitReached:
		phase = PhaseLimitReached
	case !d.arr.MigrationDone():
		phase = PhaseMigrating
	}

	ops := 0
	if act.admitted {
		ops++
	}
	if act.expanded {
		ops++
	}
	if act.migrated {
		ops++
	}

	return Snapshot{
		Tick:              d.tick,
		Phase:             phase,
		GrowthFactor:      d.arr.Growth(),
		Capacity:          d.arr.Capacity(),
		Size:              d.arr.Size(),
		OldGenerationSize: d.arr.OldGenerationSize(),
		Migrated:          d.arr.Migrated(),
		HardLimit:         d.arr.HardLimit(),
		Resizes:           d.arr.Resizes(),
		MigrationOps:      d.arr.MigrationOps(),
		Efficiency:        d.arr.Efficiency(),
		Admitted:          act.admitted,
		Expanded:          act.expanded,
		MigratedOld:       act.migrated,
		Ops:               ops,
	}
}
