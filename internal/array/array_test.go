package array

import (
	"math"
	"testing"
)

func TestNewStartsEmpty(t *testing.T) {
	arr := New(2.0, 0)

	if got := arr.Capacity(); got != 1 {
		t.Errorf("Capacity() = %d, want 1", got)
	}
	if got := arr.Size(); got != 0 {
		t.Errorf("Size() = %d, want 0", got)
	}
	if !arr.MigrationDone() {
		t.Error("MigrationDone() = false before any expansion, want true")
	}
	if got := arr.Efficiency(); got != 0 {
		t.Errorf("Efficiency() = %v, want 0", got)
	}
}

func TestNegativeHardLimitMeansUnbounded(t *testing.T) {
	arr := New(2.0, -5)
	if got := arr.HardLimit(); got != 0 {
		t.Errorf("HardLimit() = %d, want 0", got)
	}
}

func TestTryGrowStopsAtCapacity(t *testing.T) {
	arr := New(2.0, 0)

	size, ok := arr.TryGrow()
	if !ok || size != 1 {
		t.Fatalf("TryGrow() = (%d, %v), want (1, true)", size, ok)
	}

	// Full at capacity 1: repeated attempts refuse without mutating.
	for i := 0; i < 5; i++ {
		if _, ok := arr.TryGrow(); ok {
			t.Fatalf("TryGrow() succeeded on full array (attempt %d)", i)
		}
	}
	if got := arr.Size(); got != 1 {
		t.Errorf("Size() = %d after refused grows, want 1", got)
	}
	if got := arr.Capacity(); got != 1 {
		t.Errorf("Capacity() = %d after refused grows, want 1", got)
	}
}

func TestExpandCapacitySchedule(t *testing.T) {
	tests := []struct {
		name      string
		growth    float64
		hardLimit int
		want      []int
	}{
		{"doubling", 2.0, 0, []int{2, 4, 8, 16, 32}},
		{"half_again", 1.5, 0, []int{2, 3, 5, 8, 12, 18, 27}},
		{"quarter", 1.25, 0, []int{2, 3, 4, 5, 7, 9, 12}},
		{"doubling_clamped", 2.0, 10, []int{2, 4, 8, 10, 10, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arr := New(tt.growth, tt.hardLimit)
			for i, want := range tt.want {
				arr.Expand()
				if got := arr.Capacity(); got != want {
					t.Fatalf("expansion %d: Capacity() = %d, want %d", i+1, got, want)
				}
			}
			if got := arr.Resizes(); got != len(tt.want) {
				t.Errorf("Resizes() = %d, want %d", got, len(tt.want))
			}
		})
	}
}

func TestExpandRollsGeneration(t *testing.T) {
	arr := New(2.0, 0)
	arr.TryGrow()

	arr.Expand()

	if got := arr.OldGenerationSize(); got != 1 {
		t.Errorf("OldGenerationSize() = %d, want 1", got)
	}
	if got := arr.Migrated(); got != 0 {
		t.Errorf("Migrated() = %d, want 0", got)
	}
	if got := arr.Capacity(); got != 2 {
		t.Errorf("Capacity() = %d, want 2", got)
	}
	if arr.MigrationDone() {
		t.Error("MigrationDone() = true right after expansion of non-empty array")
	}
}

func TestMigrateOneExhausts(t *testing.T) {
	arr := New(2.0, 0)
	arr.TryGrow()
	arr.Expand()
	arr.TryGrow()
	arr.MigrateOne()
	arr.Expand() // old generation of 2

	for want := 1; want <= 2; want++ {
		got, ok := arr.MigrateOne()
		if !ok || got != want {
			t.Fatalf("MigrateOne() = (%d, %v), want (%d, true)", got, ok, want)
		}
	}
	if !arr.MigrationDone() {
		t.Fatal("MigrationDone() = false after migrating the full old generation")
	}

	// Exhausted: further calls are no-ops.
	for i := 0; i < 10; i++ {
		if _, ok := arr.MigrateOne(); ok {
			t.Fatalf("MigrateOne() succeeded past exhaustion (call %d)", i)
		}
	}
	if got := arr.Migrated(); got != 2 {
		t.Errorf("Migrated() = %d after exhausted calls, want 2", got)
	}
	if got := arr.MigrationOps(); got != 3 {
		t.Errorf("MigrationOps() = %d, want 3", got)
	}
}

// Walks a legal operation sequence and probes efficiency at each phase
// boundary. Settled data is size-oldGen+migrated, so pending old data
// drags efficiency down until it migrates.
func TestEfficiencyTracksSettledData(t *testing.T) {
	arr := New(2.0, 0)

	arr.TryGrow() // size 1, capacity 1
	if got := arr.Efficiency(); got != 1.0 {
		t.Errorf("full single slot: Efficiency() = %v, want 1", got)
	}

	arr.Expand() // capacity 2, old 1, migrated 0
	if got := arr.Efficiency(); got != 0.0 {
		t.Errorf("after expand, nothing settled: Efficiency() = %v, want 0", got)
	}

	arr.TryGrow()    // size 2
	arr.MigrateOne() // migrated 1, done
	arr.Expand()     // capacity 4, old 2
	arr.TryGrow()    // size 3
	arr.TryGrow()    // size 4
	arr.MigrateOne()
	arr.MigrateOne()
	arr.Expand() // capacity 8, old 4
	arr.TryGrow()
	arr.MigrateOne()
	arr.MigrateOne()

	// size 5, old 4, migrated 2 of 4: (5-4+2)/8.
	if got, want := arr.Efficiency(), 3.0/8.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("Efficiency() = %v, want %v", got, want)
	}
	if got := arr.Pending(); got != 2 {
		t.Errorf("Pending() = %d, want 2", got)
	}
}

func TestHardLimitOne(t *testing.T) {
	arr := New(2.0, 1)

	if _, ok := arr.TryGrow(); !ok {
		t.Fatal("first TryGrow refused with capacity 1")
	}
	if _, ok := arr.TryGrow(); ok {
		t.Fatal("TryGrow succeeded on full array")
	}

	arr.Expand()

	if got := arr.Capacity(); got != 1 {
		t.Errorf("Capacity() = %d after clamped expansion, want 1", got)
	}
	if got := arr.Resizes(); got != 1 {
		t.Errorf("Resizes() = %d, want 1", got)
	}
	if _, ok := arr.TryGrow(); ok {
		t.Error("TryGrow succeeded after clamped expansion left no room")
	}
}

// growth <= 1 is a caller bug the model does not correct: Expand still
// rolls the generation but capacity stays put.
func TestGrowthOfOneKeepsCapacity(t *testing.T) {
	arr := New(1.0, 0)
	arr.TryGrow()
	arr.Expand()

	if got := arr.Capacity(); got != 1 {
		t.Errorf("Capacity() = %d, want 1", got)
	}
	if got := arr.OldGenerationSize(); got != 1 {
		t.Errorf("OldGenerationSize() = %d, want 1", got)
	}
}

// Drives the model the way a tick loop would and checks structural
// invariants hold at every step.
func TestInvariantsUnderDrivenLoop(t *testing.T) {
	for _, growth := range []float64{1.1, 1.5, 2.0, 3.0} {
		arr := New(growth, 0)
		for tick := 0; tick < 2000; tick++ {
			if _, ok := arr.TryGrow(); !ok && arr.MigrationDone() {
				arr.Expand()
				arr.TryGrow()
			}
			arr.MigrateOne()

			if arr.Size() > arr.Capacity() {
				t.Fatalf("growth %v tick %d: size %d exceeds capacity %d", growth, tick, arr.Size(), arr.Capacity())
			}
			if arr.OldGenerationSize() > arr.Size() {
				t.Fatalf("growth %v tick %d: old generation %d exceeds size %d", growth, tick, arr.OldGenerationSize(), arr.Size())
			}
			if arr.Migrated() > arr.OldGenerationSize() {
				t.Fatalf("growth %v tick %d: migrated %d exceeds old generation %d", growth, tick, arr.Migrated(), arr.OldGenerationSize())
			}
			if eff := arr.Efficiency(); eff < 0 || eff > 1 {
				t.Fatalf("growth %v tick %d: efficiency %v outside [0,1]", growth, tick, eff)
			}
		}
	}
}

func BenchmarkDrivenLoop(b *testing.B) {
	arr := New(1.5, 0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := arr.TryGrow(); !ok && arr.MigrationDone() {
			arr.Expand()
			arr.TryGrow()
		}
		arr.MigrateOne()
	}
}
