package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Index is a SQLite catalog of saved runs. The per-run directories hold
// the full history; the index holds just the summaries so browsing and
// aggregate stats do not have to walk the data directory.
type Index struct {
	db *sql.DB
}

// OpenIndex creates or opens the run index at the given path. It
// creates the parent directories if needed and runs migrations.
func OpenIndex(dbPath string) (*Index, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open index: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to index: %w", err)
	}

	idx := &Index{db: db}

	if err := idx.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return idx, nil
}

// migrate creates the schema if it doesn't exist. Timestamps are stored
// as unix seconds so they scan back as plain integers.
func (x *Index) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			growth_factor REAL NOT NULL,
			hard_limit INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			limit_reached_tick INTEGER NOT NULL DEFAULT 0,
			final_capacity INTEGER NOT NULL,
			final_size INTEGER NOT NULL,
			resizes INTEGER NOT NULL,
			ops_per_append REAL NOT NULL DEFAULT 0,
			efficiency_mean REAL NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_growth ON runs(growth_factor);
	`

	_, err := x.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (x *Index) Close() error {
	if x.db != nil {
		return x.db.Close()
	}
	return nil
}

// Record upserts a run summary. Recording the same run ID again
// replaces the previous row.
func (x *Index) Record(meta RunMetadata) error {
	_, err := x.db.Exec(
		`INSERT OR REPLACE INTO runs
		 (id, created_at, growth_factor, hard_limit, ticks, limit_reached_tick,
		  final_capacity, final_size, resizes, ops_per_append, efficiency_mean)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID,
		meta.Timestamp.Unix(),
		meta.GrowthFactor,
		meta.HardLimit,
		meta.Ticks,
		meta.LimitReachedTick,
		meta.FinalCapacity,
		meta.FinalSize,
		meta.Resizes,
		meta.Metrics["ops_per_append"],
		meta.Metrics["efficiency_mean"],
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record run: %w", err)
	}
	return nil
}

// Runs retrieves the most recent run summaries, newest first.
func (x *Index) Runs(limit int) ([]RunMetadata, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := x.db.Query(
		`SELECT id, created_at, growth_factor, hard_limit, ticks, limit_reached_tick,
		        final_capacity, final_size, resizes, ops_per_append, efficiency_mean
		 FROM runs
		 ORDER BY created_at DESC, id
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var createdAt int64
		var opsPerAppend, efficiencyMean float64
		if err := rows.Scan(
			&meta.ID,
			&createdAt,
			&meta.GrowthFactor,
			&meta.HardLimit,
			&meta.Ticks,
			&meta.LimitReachedTick,
			&meta.FinalCapacity,
			&meta.FinalSize,
			&meta.Resizes,
			&opsPerAppend,
			&efficiencyMean,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		meta.Timestamp = time.Unix(createdAt, 0)
		meta.Metrics = map[string]float64{
			"ops_per_append":  opsPerAppend,
			"efficiency_mean": efficiencyMean,
		}
		runs = append(runs, meta)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// IndexStats contains aggregates over every recorded run.
type IndexStats struct {
	Runs            int
	LimitedRuns     int
	AvgOpsPerAppend float64
	AvgEfficiency   float64
	BestGrowth      float64
}

// Stats retrieves aggregate statistics across all recorded runs.
// BestGrowth is the growth factor of the run with the lowest amortized
// cost, 0 when no run has recorded one.
func (x *Index) Stats() (*IndexStats, error) {
	stats := &IndexStats{}

	err := x.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(limit_reached_tick > 0), 0),
		        COALESCE(AVG(ops_per_append), 0),
		        COALESCE(AVG(efficiency_mean), 0)
		 FROM runs`,
	).Scan(&stats.Runs, &stats.LimitedRuns, &stats.AvgOpsPerAppend, &stats.AvgEfficiency)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}

	err = x.db.QueryRow(
		`SELECT growth_factor FROM runs
		 WHERE ops_per_append > 0
		 ORDER BY ops_per_append ASC
		 LIMIT 1`,
	).Scan(&stats.BestGrowth)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get best growth: %w", err)
	}

	return stats, nil
}
