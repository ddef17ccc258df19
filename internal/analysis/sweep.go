package analysis

import (
	"context"
	"sync"

	"github.com/san-kum/arraylab/internal/array"
	"github.com/san-kum/arraylab/internal/metrics"
	"github.com/san-kum/arraylab/internal/sim"
)

// SweepPoint is one growth factor's outcome over a fixed workload.
type SweepPoint struct {
	GrowthFactor   float64
	Resizes        int
	FinalCapacity  int
	MeanEfficiency float64
	MinEfficiency  float64
	OpsPerAppend   float64
}

// SweepGrowth runs the same tick workload once per growth factor, one
// goroutine each, and returns per-factor outcomes in input order. Runs
// are independent, so the first error wins and the rest are dropped.
func SweepGrowth(ctx context.Context, factors []float64, hardLimit, ticks int) ([]SweepPoint, error) {
	points := make([]SweepPoint, len(factors))
	errs := make([]error, len(factors))

	var wg sync.WaitGroup
	for i, g := range factors {
		wg.Add(1)
		go func(idx int, growth float64) {
			defer wg.Done()

			d := sim.NewDriver(array.New(growth, hardLimit))
			d.AddMetric(metrics.NewEfficiencyMean())
			d.AddMetric(metrics.NewEfficiencyMin())
			d.AddMetric(metrics.NewOpsPerAppend())

			result, err := d.Run(ctx, sim.Config{MaxTicks: ticks})
			if err != nil {
				errs[idx] = err
				return
			}

			last := result.History[len(result.History)-1]
			points[idx] = SweepPoint{
				GrowthFactor:   growth,
				Resizes:        last.Resizes,
				FinalCapacity:  last.Capacity,
				MeanEfficiency: result.Metrics["efficiency_mean"],
				MinEfficiency:  result.Metrics["efficiency_min"],
				OpsPerAppend:   result.Metrics["ops_per_append"],
			}
		}(i, g)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return points, nil
}

// BestByOps picks the point with the lowest amortized cost.
func BestByOps(points []SweepPoint) (SweepPoint, bool) {
	if len(points) == 0 {
		return SweepPoint{}, false
	}
	best := points[0]
	for _, p := range points[1:] {
		if p.OpsPerAppend < best.OpsPerAppend {
			best = p
		}
	}
	return best, true
}

// BestByEfficiency picks the point with the highest mean efficiency.
func BestByEfficiency(points []SweepPoint) (SweepPoint, bool) {
	if len(points) == 0 {
		return SweepPoint{}, false
	}
	best := points[0]
	for _, p := range points[1:] {
		if p.MeanEfficiency > best.MeanEfficiency {
			best = p
		}
	}
	return best, true
}
