package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGrowthFactor = 2.0
	DefaultHardLimit    = 0
	DefaultTicks        = 10000
	DefaultGraceTicks   = 0
	DefaultFPS          = 60
	DefaultGridWidth    = 64
	DefaultGridHeight   = 24
	DefaultTheme        = "classic"
	DefaultDataDir      = "runs"
)

// Validation errors. Validate wraps these with the offending value, so
// errors.Is still matches.
var (
	ErrGrowthFactor = errors.New("config: growth factor must be greater than 1")
	ErrHardLimit    = errors.New("config: hard limit must be non-negative, 0 means unbounded")
	ErrTicks        = errors.New("config: ticks must be positive")
	ErrGraceTicks   = errors.New("config: grace ticks must be non-negative")
	ErrFPS          = errors.New("config: fps must be positive")
	ErrGrid         = errors.New("config: grid dimensions must be positive")
)

type Config struct {
	GrowthFactor float64 `yaml:"growth_factor"`
	HardLimit    int     `yaml:"hard_limit"`
	Ticks        int     `yaml:"ticks"`
	GraceTicks   int     `yaml:"grace_ticks"`
	FPS          int     `yaml:"fps"`
	GridWidth    int     `yaml:"grid_width"`
	GridHeight   int     `yaml:"grid_height"`
	Theme        string  `yaml:"theme"`
}

func DefaultConfig() *Config {
	return &Config{
		GrowthFactor: DefaultGrowthFactor,
		HardLimit:    DefaultHardLimit,
		Ticks:        DefaultTicks,
		GraceTicks:   DefaultGraceTicks,
		FPS:          DefaultFPS,
		GridWidth:    DefaultGridWidth,
		GridHeight:   DefaultGridHeight,
		Theme:        DefaultTheme,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects parameters the model deliberately does not correct.
// A growth factor at or below 1 would leave every expansion without new
// room and the driver parked at a false hard limit.
func (c *Config) Validate() error {
	if c.GrowthFactor <= 1 {
		return fmt.Errorf("%w, got %g", ErrGrowthFactor, c.GrowthFactor)
	}
	if c.HardLimit < 0 {
		return fmt.Errorf("%w, got %d", ErrHardLimit, c.HardLimit)
	}
	if c.Ticks <= 0 {
		return fmt.Errorf("%w, got %d", ErrTicks, c.Ticks)
	}
	if c.GraceTicks < 0 {
		return fmt.Errorf("%w, got %d", ErrGraceTicks, c.GraceTicks)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w, got %d", ErrFPS, c.FPS)
	}
	if c.GridWidth <= 0 || c.GridHeight <= 0 {
		return fmt.Errorf("%w, got %dx%d", ErrGrid, c.GridWidth, c.GridHeight)
	}
	return nil
}

// GridCells is the number of cells the configured grid can show. The
// live view caps the hard limit here so a run fills the screen and
// terminates instead of growing past it.
func (c *Config) GridCells() int {
	return c.GridWidth * c.GridHeight
}
