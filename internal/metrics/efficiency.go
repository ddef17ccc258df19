package metrics

import "github.com/san-kum/arraylab/internal/sim"

type EfficiencyMean struct {
	name    string
	sum     float64
	samples int
}

func NewEfficiencyMean() *EfficiencyMean {
	return &EfficiencyMean{
		name: "efficiency_mean",
	}
}

func (e *EfficiencyMean) Name() string { return e.name }

func (e *EfficiencyMean) Observe(s sim.Snapshot) {
	e.sum += s.Efficiency
	e.samples++
}

func (e *EfficiencyMean) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *EfficiencyMean) Reset() {
	e.sum = 0
	e.samples = 0
}

type EfficiencyMin struct {
	name    string
	min     float64
	samples int
}

func NewEfficiencyMin() *EfficiencyMin {
	return &EfficiencyMin{
		name: "efficiency_min",
	}
}

func (e *EfficiencyMin) Name() string { return e.name }

func (e *EfficiencyMin) Observe(s sim.Snapshot) {
	if e.samples == 0 || s.Efficiency < e.min {
		e.min = s.Efficiency
	}
	e.samples++
}

func (e *EfficiencyMin) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.min
}

func (e *EfficiencyMin) Reset() {
	e.min = 0
	e.samples = 0
}
