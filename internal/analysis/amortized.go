package analysis

import "github.com/san-kum/arraylab/internal/sim"

// Expansion is one capacity change observed in a run.
type Expansion struct {
	Tick         int
	FromCapacity int
	ToCapacity   int
	Interval     int
}

// Report summarizes a run's amortized behavior.
type Report struct {
	Ticks            int
	Appends          int
	TotalOps         int
	OpsPerAppend     float64
	MeanEfficiency   float64
	MinEfficiency    float64
	FinalEfficiency  float64
	Expansions       []Expansion
	MeanInterval     float64
	FinalCapacity    int
	LimitReachedTick int
}

// Expansions extracts capacity-change events from a history. Intervals
// count ticks since the previous expansion, or since the start of the
// run for the first one.
func Expansions(history []sim.Snapshot) []Expansion {
	events := make([]Expansion, 0)
	prev := sim.Snapshot{Capacity: 1}
	lastTick := 0
	for _, s := range history {
		if s.Resizes > prev.Resizes {
			events = append(events, Expansion{
				Tick:         s.Tick,
				FromCapacity: prev.Capacity,
				ToCapacity:   s.Capacity,
				Interval:     s.Tick - lastTick,
			})
			lastTick = s.Tick
		}
		prev = s
	}
	return events
}

// Analyze folds a history into a Report. An empty history yields a zero
// report.
func Analyze(history []sim.Snapshot) Report {
	if len(history) == 0 {
		return Report{}
	}

	rep := Report{
		Expansions: Expansions(history),
	}

	effSum := 0.0
	rep.MinEfficiency = history[0].Efficiency
	for _, s := range history {
		rep.TotalOps += s.Ops
		if s.Admitted {
			rep.Appends++
		}
		effSum += s.Efficiency
		if s.Efficiency < rep.MinEfficiency {
			rep.MinEfficiency = s.Efficiency
		}
		if s.Terminal() && rep.LimitReachedTick == 0 {
			rep.LimitReachedTick = s.Tick
		}
	}

	last := history[len(history)-1]
	rep.Ticks = len(history)
	rep.FinalEfficiency = last.Efficiency
	rep.FinalCapacity = last.Capacity
	rep.MeanEfficiency = effSum / float64(len(history))
	if rep.Appends > 0 {
		rep.OpsPerAppend = float64(rep.TotalOps) / float64(rep.Appends)
	}
	if n := len(rep.Expansions); n > 0 {
		sum := 0
		for _, e := range rep.Expansions {
			sum += e.Interval
		}
		rep.MeanInterval = float64(sum) / float64(n)
	}

	return rep
}

// EfficiencySeries extracts the per-tick efficiency curve.
func EfficiencySeries(history []sim.Snapshot) []float64 {
	series := make([]float64, len(history))
	for i, s := range history {
		series[i] = s.Efficiency
	}
	return series
}

// AmortizedSeries is the running ops-per-append after each tick. Ticks
// before the first append report 0.
func AmortizedSeries(history []sim.Snapshot) []float64 {
	series := make([]float64, len(history))
	ops, appends := 0, 0
	for i, s := range history {
		ops += s.Ops
		if s.Admitted {
			appends++
		}
		if appends > 0 {
			series[i] = float64(ops) / float64(appends)
		}
	}
	return series
}
