// Package analysis characterizes amortized-resize runs after the fact.
//
// The package works on recorded tick histories:
//
//   - [Analyze]: one-run summary (amortized cost, efficiency, expansions)
//   - [Expansions]: capacity-change events with the intervals between them
//   - [CapacitySchedule]: predicted ceil-then-clamp capacity chain
//   - [SweepGrowth]: run the same workload across growth factors
//
// # Amortized Cost
//
// Cost counts unit operations (admissions, expansions, migration steps)
// against admissions alone:
//
//	rep := analysis.Analyze(result.History)
//	fmt.Printf("%.3f ops per append\n", rep.OpsPerAppend)
//
// For growth factor g the cost converges to 1 + 1/(g-1): doubling pays
// about two operations per append, gentler factors pay more in copying
// but waste less capacity.
package analysis
