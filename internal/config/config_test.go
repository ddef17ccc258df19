package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.GrowthFactor <= 1 {
		t.Error("growth factor should exceed 1")
	}
	if cfg.Ticks <= 0 {
		t.Error("ticks should be positive")
	}
	if cfg.FPS <= 0 {
		t.Error("fps should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"growth at one", func(c *Config) { c.GrowthFactor = 1.0 }, ErrGrowthFactor},
		{"growth below one", func(c *Config) { c.GrowthFactor = 0.5 }, ErrGrowthFactor},
		{"negative limit", func(c *Config) { c.HardLimit = -1 }, ErrHardLimit},
		{"zero ticks", func(c *Config) { c.Ticks = 0 }, ErrTicks},
		{"negative grace", func(c *Config) { c.GraceTicks = -1 }, ErrGraceTicks},
		{"zero fps", func(c *Config) { c.FPS = 0 }, ErrFPS},
		{"zero grid", func(c *Config) { c.GridWidth = 0 }, ErrGrid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAcceptsHardLimitOfOne(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HardLimit = 1
	if err := cfg.Validate(); err != nil {
		t.Errorf("hard limit 1 should be legal: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.GrowthFactor = 1.5
	cfg.HardLimit = 1024
	cfg.Theme = "mono"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.GrowthFactor != 1.5 || loaded.HardLimit != 1024 || loaded.Theme != "mono" {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("golden")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.GrowthFactor != 1.618 {
		t.Errorf("expected growth 1.618, got %g", cfg.GrowthFactor)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset failed validation: %v", err)
	}

	// Mutating the returned config must not touch the preset table.
	cfg.GrowthFactor = 9
	if Presets["golden"].GrowthFactor != 1.618 {
		t.Error("GetPreset returned a shared pointer")
	}
}

func TestGetPresetNotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Errorf("ListPresets() returned %d names, want %d", len(names), len(Presets))
	}
}

func TestAllPresetsValid(t *testing.T) {
	for name, p := range Presets {
		if err := p.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}
}

func TestGridCells(t *testing.T) {
	cfg := &Config{GridWidth: 64, GridHeight: 24}
	if got := cfg.GridCells(); got != 1536 {
		t.Errorf("GridCells() = %d, want 1536", got)
	}
}
