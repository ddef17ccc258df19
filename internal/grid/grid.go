// Package grid maps snapshots onto a cell grid for the renderers. Cell i
// mirrors array slot i, so every class boundary is one of the model's
// running counters and each row reduces to a handful of contiguous spans.
package grid

import "github.com/san-kum/arraylab/internal/sim"

// Class buckets a cell by what occupies it.
type Class int

const (
	// ClassMigratedOld is old-generation data already settled into the
	// expanded capacity.
	ClassMigratedOld Class = iota
	// ClassOld is old-generation data awaiting migration.
	ClassOld
	// ClassNew is data admitted since the last expansion.
	ClassNew
	// ClassFree is allocated capacity holding nothing yet.
	ClassFree
	// ClassUnallocated lies beyond the current capacity.
	ClassUnallocated

	NumClasses
)

// Classify buckets a single cell index.
func Classify(s sim.Snapshot, idx int) Class {
	switch {
	case idx >= s.Capacity:
		return ClassUnallocated
	case idx >= s.Size:
		return ClassFree
	case idx >= s.OldGenerationSize:
		return ClassNew
	case idx >= s.Migrated:
		return ClassOld
	default:
		return ClassMigratedOld
	}
}

// Span is a run of consecutive cells sharing a class.
type Span struct {
	Class Class
	Count int
}

// RowSpans splits the width cells starting at start into class spans, in
// cell order. At most five spans come back, which keeps styled terminal
// rendering at a few writes per row instead of one per cell.
func RowSpans(s sim.Snapshot, start, width int) []Span {
	end := start + width
	bounds := [...]int{s.Migrated, s.OldGenerationSize, s.Size, s.Capacity, end}
	classes := [...]Class{ClassMigratedOld, ClassOld, ClassNew, ClassFree, ClassUnallocated}

	spans := make([]Span, 0, len(classes))
	pos := start
	for i, b := range bounds {
		if b > end {
			b = end
		}
		if b > pos {
			spans = append(spans, Span{Class: classes[i], Count: b - pos})
			pos = b
		}
	}
	return spans
}

// Counts tallies the first n cells per class.
func Counts(s sim.Snapshot, n int) [NumClasses]int {
	var counts [NumClasses]int
	for _, span := range RowSpans(s, 0, n) {
		counts[span.Class] += span.Count
	}
	return counts
}
