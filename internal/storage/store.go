// Package storage persists simulation runs. Each run gets a directory
// with a JSON summary and a CSV tick history, and a SQLite index keeps
// the summaries queryable without walking the data directory.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/arraylab/internal/sim"
)

// Store keeps each run in its own directory under baseDir: metadata.json
// for the summary, ticks.csv for the full history.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID               string             `json:"id"`
	Timestamp        time.Time          `json:"timestamp"`
	GrowthFactor     float64            `json:"growth_factor"`
	HardLimit        int                `json:"hard_limit"`
	Ticks            int                `json:"ticks"`
	LimitReachedTick int                `json:"limit_reached_tick"`
	FinalCapacity    int                `json:"final_capacity"`
	FinalSize        int                `json:"final_size"`
	Resizes          int                `json:"resizes"`
	Metrics          map[string]float64 `json:"metrics"`
}

var ErrEmptyRun = errors.New("storage: run has no history to save")

func (s *Store) Save(result *sim.Result) (string, error) {
	if len(result.History) == 0 {
		return "", ErrEmptyRun
	}
	last := result.History[len(result.History)-1]

	if err := s.Init(); err != nil {
		return "", err
	}

	// Second-resolution IDs collide when runs are saved back to back, so
	// probe with Mkdir and suffix until one sticks.
	base := fmt.Sprintf("run_g%v_%d", last.GrowthFactor, time.Now().Unix())
	runID := base
	runDir := filepath.Join(s.baseDir, runID)
	for n := 1; ; n++ {
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", err
		}
		runID = fmt.Sprintf("%s_%d", base, n)
		runDir = filepath.Join(s.baseDir, runID)
	}

	meta := RunMetadata{
		ID:               runID,
		Timestamp:        time.Now(),
		GrowthFactor:     last.GrowthFactor,
		HardLimit:        last.HardLimit,
		Ticks:            result.TicksRun,
		LimitReachedTick: result.LimitReachedTick,
		FinalCapacity:    last.Capacity,
		FinalSize:        last.Size,
		Resizes:          last.Resizes,
		Metrics:          result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "ticks.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result.History); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns metadata for every readable run, oldest first. Broken
// run directories are skipped rather than failing the whole listing.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadHistory reads a run's ticks back into snapshots. Growth factor
// and hard limit are constant per run and stored only in the metadata,
// so they are stitched back onto every snapshot here.
func (s *Store) LoadHistory(runID string) ([]sim.Snapshot, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, runID, "ticks.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	history, err := ReadCSV(f)
	if err != nil {
		return nil, err
	}

	for i := range history {
		history[i].GrowthFactor = meta.GrowthFactor
		history[i].HardLimit = meta.HardLimit
	}

	return history, nil
}
