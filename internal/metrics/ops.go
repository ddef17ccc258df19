package metrics

import "github.com/san-kum/arraylab/internal/sim"

// OpsPerAppend is the amortized cost: every unit operation performed so
// far (admissions, expansions, migration steps) divided by the number of
// admissions. For growth g it converges toward 1 + 1/(g-1).
type OpsPerAppend struct {
	name    string
	ops     int
	appends int
}

func NewOpsPerAppend() *OpsPerAppend {
	return &OpsPerAppend{
		name: "ops_per_append",
	}
}

func (o *OpsPerAppend) Name() string { return o.name }

func (o *OpsPerAppend) Observe(s sim.Snapshot) {
	o.ops += s.Ops
	if s.Admitted {
		o.appends++
	}
}

func (o *OpsPerAppend) Value() float64 {
	if o.appends == 0 {
		return 0
	}
	return float64(o.ops) / float64(o.appends)
}

func (o *OpsPerAppend) Reset() {
	o.ops = 0
	o.appends = 0
}

// Resizes reports the expansion count of the last observed tick.
type Resizes struct {
	name string
	last int
}

func NewResizes() *Resizes {
	return &Resizes{
		name: "resizes",
	}
}

func (r *Resizes) Name() string { return r.name }

func (r *Resizes) Observe(s sim.Snapshot) {
	r.last = s.Resizes
}

func (r *Resizes) Value() float64 {
	return float64(r.last)
}

func (r *Resizes) Reset() {
	r.last = 0
}
