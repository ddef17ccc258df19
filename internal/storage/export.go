package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/arraylab/internal/sim"
)

var csvHeader = []string{
	"tick", "phase", "capacity", "size", "old_generation", "migrated",
	"resizes", "migration_ops", "efficiency", "admitted", "expanded",
	"migrated_old", "ops",
}

// WriteCSV streams a history as CSV. The same rows back a saved run's
// ticks.csv and the export-csv command.
func WriteCSV(w io.Writer, history []sim.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, s := range history {
		row := []string{
			strconv.Itoa(s.Tick),
			string(s.Phase),
			strconv.Itoa(s.Capacity),
			strconv.Itoa(s.Size),
			strconv.Itoa(s.OldGenerationSize),
			strconv.Itoa(s.Migrated),
			strconv.Itoa(s.Resizes),
			strconv.Itoa(s.MigrationOps),
			strconv.FormatFloat(s.Efficiency, 'g', -1, 64),
			boolField(s.Admitted),
			boolField(s.Expanded),
			boolField(s.MigratedOld),
			strconv.Itoa(s.Ops),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses rows written by WriteCSV. Unlike the writer's callers,
// it trusts nothing: a malformed row fails the load with its line.
func ReadCSV(r io.Reader) ([]sim.Snapshot, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []sim.Snapshot{}, nil
	}

	history := make([]sim.Snapshot, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(csvHeader) {
			return nil, fmt.Errorf("storage: ticks row %d has %d fields, want %d", i+1, len(record), len(csvHeader))
		}

		var s sim.Snapshot
		var perr error
		intField := func(v string) int {
			n, err := strconv.Atoi(v)
			if err != nil && perr == nil {
				perr = err
			}
			return n
		}

		s.Tick = intField(record[0])
		s.Phase = sim.Phase(record[1])
		s.Capacity = intField(record[2])
		s.Size = intField(record[3])
		s.OldGenerationSize = intField(record[4])
		s.Migrated = intField(record[5])
		s.Resizes = intField(record[6])
		s.MigrationOps = intField(record[7])
		eff, err := strconv.ParseFloat(record[8], 64)
		if err != nil && perr == nil {
			perr = err
		}
		s.Efficiency = eff
		s.Admitted = record[9] == "1"
		s.Expanded = record[10] == "1"
		s.MigratedOld = record[11] == "1"
		s.Ops = intField(record[12])

		if perr != nil {
			return nil, fmt.Errorf("storage: ticks row %d: %w", i+1, perr)
		}
		history = append(history, s)
	}

	return history, nil
}

// ExportData is the export-json payload: the run summary plus the full
// tick history in one document.
type ExportData struct {
	Meta    RunMetadata    `json:"meta"`
	History []sim.Snapshot `json:"history"`
}

func WriteJSON(w io.Writer, meta RunMetadata, history []sim.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Meta: meta, History: history})
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
