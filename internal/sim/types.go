package sim

// Phase labels what the model is doing in a given tick.
type Phase string

const (
	PhaseGrowing      Phase = "growing"
	PhaseMigrating    Phase = "migrating"
	PhaseLimitReached Phase = "limit_reached"
)

// Snapshot is the read-only per-tick report every harness consumes: the
// TUI and GUI render from it, metrics observe it, the store serializes it.
// Admitted, Expanded and MigratedOld describe what this tick did; Ops is
// how many of the three unit operations it performed.
type Snapshot struct {
	Tick              int     `json:"tick"`
	Phase             Phase   `json:"phase"`
	GrowthFactor      float64 `json:"growth_factor"`
	Capacity          int     `json:"capacity"`
	Size              int     `json:"size"`
	OldGenerationSize int     `json:"old_generation_size"`
	Migrated          int     `json:"migrated"`
	HardLimit         int     `json:"hard_limit"`
	Resizes           int     `json:"resizes"`
	MigrationOps      int     `json:"migration_ops"`
	Efficiency        float64 `json:"efficiency"`

	Admitted    bool `json:"admitted"`
	Expanded    bool `json:"expanded"`
	MigratedOld bool `json:"migrated_old"`
	Ops         int  `json:"ops"`
}

// PendingMigration is the old-generation count still awaiting migration.
func (s Snapshot) PendingMigration() int {
	return s.OldGenerationSize - s.Migrated
}

// Terminal reports whether the run has hit the hard limit.
func (s Snapshot) Terminal() bool {
	return s.Phase == PhaseLimitReached
}

type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(s Snapshot)
}

type Config struct {
	MaxTicks   int
	GraceTicks int
}

type Result struct {
	History          []Snapshot
	Metrics          map[string]float64
	TicksRun         int
	LimitReachedTick int
}
