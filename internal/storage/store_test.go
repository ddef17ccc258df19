package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/san-kum/arraylab/internal/array"
	"github.com/san-kum/arraylab/internal/metrics"
	"github.com/san-kum/arraylab/internal/sim"
)

func limitedRun(t *testing.T) *sim.Result {
	t.Helper()

	d := sim.NewDriver(array.New(2.0, 16))
	d.AddMetric(metrics.NewOpsPerAppend())
	d.AddMetric(metrics.NewEfficiencyMean())

	result, err := d.Run(context.Background(), sim.Config{MaxTicks: 40, GraceTicks: 3})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	return result
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	result := limitedRun(t)

	runID, err := store.Save(result)
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if runID == "" {
		t.Fatal("Save() returned empty run ID")
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if meta.ID != runID {
		t.Errorf("meta.ID = %q, want %q", meta.ID, runID)
	}
	if meta.GrowthFactor != 2.0 {
		t.Errorf("GrowthFactor = %g, want 2", meta.GrowthFactor)
	}
	if meta.HardLimit != 16 {
		t.Errorf("HardLimit = %d, want 16", meta.HardLimit)
	}
	if meta.Ticks != result.TicksRun {
		t.Errorf("Ticks = %d, want %d", meta.Ticks, result.TicksRun)
	}
	if meta.LimitReachedTick != 17 {
		t.Errorf("LimitReachedTick = %d, want 17", meta.LimitReachedTick)
	}
	if meta.FinalCapacity != 16 || meta.FinalSize != 16 {
		t.Errorf("final capacity/size = %d/%d, want 16/16", meta.FinalCapacity, meta.FinalSize)
	}
	if meta.Resizes != 5 {
		t.Errorf("Resizes = %d, want 5", meta.Resizes)
	}
	if meta.Timestamp.IsZero() {
		t.Error("Timestamp was not set")
	}
	if !reflect.DeepEqual(meta.Metrics, result.Metrics) {
		t.Errorf("Metrics = %v, want %v", meta.Metrics, result.Metrics)
	}
}

func TestLoadHistoryRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	result := limitedRun(t)

	runID, err := store.Save(result)
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	history, err := store.LoadHistory(runID)
	if err != nil {
		t.Fatalf("LoadHistory() failed: %v", err)
	}

	if len(history) != len(result.History) {
		t.Fatalf("loaded %d snapshots, want %d", len(history), len(result.History))
	}
	for i := range history {
		if history[i] != result.History[i] {
			t.Fatalf("snapshot %d differs after round trip:\ngot  %+v\nwant %+v", i, history[i], result.History[i])
		}
	}
}

func TestSaveEmptyRun(t *testing.T) {
	store := New(t.TempDir())

	_, err := store.Save(&sim.Result{})
	if !errors.Is(err, ErrEmptyRun) {
		t.Errorf("Save(empty) error = %v, want ErrEmptyRun", err)
	}
}

func TestSaveCollidingIDs(t *testing.T) {
	store := New(t.TempDir())
	result := limitedRun(t)

	// Back-to-back saves land in the same second and must still get
	// distinct directories.
	first, err := store.Save(result)
	if err != nil {
		t.Fatalf("first Save() failed: %v", err)
	}
	second, err := store.Save(result)
	if err != nil {
		t.Fatalf("second Save() failed: %v", err)
	}
	if first == second {
		t.Errorf("colliding run IDs: both saves returned %q", first)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("List() returned %d runs, want 2", len(runs))
	}
}

func TestListOrdersByTimestamp(t *testing.T) {
	store := New(t.TempDir())

	d := sim.NewDriver(array.New(2.0, 8))
	older, err := d.Run(context.Background(), sim.Config{MaxTicks: 20})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if _, err := store.Save(older); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	d = sim.NewDriver(array.New(1.5, 8))
	newer, err := d.Run(context.Background(), sim.Config{MaxTicks: 20})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if _, err := store.Save(newer); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("List() returned %d runs, want 2", len(runs))
	}
	if runs[0].GrowthFactor != 2.0 || runs[1].GrowthFactor != 1.5 {
		t.Errorf("List() order = %g, %g, want oldest (2.0) first", runs[0].GrowthFactor, runs[1].GrowthFactor)
	}
}

func TestListSkipsBrokenRuns(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	if _, err := store.Save(limitedRun(t)); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	// A directory without metadata and a stray file should both be
	// skipped without failing the listing.
	if err := os.Mkdir(filepath.Join(dir, "not_a_run"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("List() returned %d runs, want 1", len(runs))
	}
}

func TestListEmptyBaseDir(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "never_created"))

	runs, err := store.List()
	if err != nil {
		t.Fatalf("List() on missing dir failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("List() returned %d runs, want 0", len(runs))
	}
}

func TestLoadMissingRun(t *testing.T) {
	store := New(t.TempDir())

	if _, err := store.Load("run_g2_0"); err == nil {
		t.Error("Load() on missing run succeeded, want error")
	}
	if _, err := store.LoadHistory("run_g2_0"); err == nil {
		t.Error("LoadHistory() on missing run succeeded, want error")
	}
}

func TestCSVRoundTrip(t *testing.T) {
	// Growth factor and hard limit travel in the metadata, not the CSV,
	// so they stay zero on both sides here.
	history := []sim.Snapshot{
		{
			Tick: 1, Phase: sim.PhaseGrowing,
			Capacity: 1, Size: 1,
			Efficiency: 1.0,
			Admitted:   true, Ops: 1,
		},
		{
			Tick: 2, Phase: sim.PhaseMigrating,
			Capacity: 3, Size: 2, OldGenerationSize: 1, Migrated: 1,
			Resizes: 1, MigrationOps: 1,
			Efficiency: 2.0 / 3.0,
			Admitted:   true, Expanded: true, MigratedOld: true, Ops: 3,
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, history); err != nil {
		t.Fatalf("WriteCSV() failed: %v", err)
	}

	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV() failed: %v", err)
	}
	if !reflect.DeepEqual(got, history) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, history)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	got, err := ReadCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadCSV(empty) failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ReadCSV(empty) returned %d rows, want 0", len(got))
	}
}

func TestReadCSVMalformed(t *testing.T) {
	header := strings.Join(csvHeader, ",") + "\n"

	tests := []struct {
		name  string
		input string
	}{
		{"non-numeric tick", header + "x,growing,1,1,0,0,0,0,1,1,0,0,1\n"},
		{"non-numeric efficiency", header + "1,growing,1,1,0,0,0,0,one,1,0,0,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ReadCSV() succeeded on malformed input")
			}
			if !strings.Contains(err.Error(), "row 1") {
				t.Errorf("error %q does not name the bad row", err)
			}
		})
	}
}

func TestReadCSVShortRow(t *testing.T) {
	// encoding/csv itself rejects rows whose field count differs from
	// the header's.
	input := strings.Join(csvHeader, ",") + "\n1,growing,1\n"
	if _, err := ReadCSV(strings.NewReader(input)); err == nil {
		t.Error("ReadCSV() succeeded on short row")
	}
}

func TestWriteJSON(t *testing.T) {
	result := limitedRun(t)
	meta := RunMetadata{
		ID:           "run_g2_100",
		GrowthFactor: 2.0,
		HardLimit:    16,
		Ticks:        result.TicksRun,
		Metrics:      result.Metrics,
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, meta, result.History); err != nil {
		t.Fatalf("WriteJSON() failed: %v", err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if got.Meta.ID != "run_g2_100" {
		t.Errorf("Meta.ID = %q, want run_g2_100", got.Meta.ID)
	}
	if len(got.History) != len(result.History) {
		t.Errorf("History length = %d, want %d", len(got.History), len(result.History))
	}
	if got.History[0].Tick != 1 {
		t.Errorf("History[0].Tick = %d, want 1", got.History[0].Tick)
	}
}
