package config

import "sort"

var Presets = map[string]*Config{
	"doubling": {
		GrowthFactor: 2.0, HardLimit: 0, Ticks: 10000, GraceTicks: 0,
		FPS: 60, GridWidth: 64, GridHeight: 24, Theme: "classic",
	},
	"golden": {
		GrowthFactor: 1.618, HardLimit: 0, Ticks: 10000, GraceTicks: 0,
		FPS: 60, GridWidth: 64, GridHeight: 24, Theme: "classic",
	},
	"gentle": {
		GrowthFactor: 1.25, HardLimit: 0, Ticks: 20000, GraceTicks: 0,
		FPS: 60, GridWidth: 64, GridHeight: 24, Theme: "classic",
	},
	"aggressive": {
		GrowthFactor: 3.0, HardLimit: 0, Ticks: 5000, GraceTicks: 0,
		FPS: 60, GridWidth: 64, GridHeight: 24, Theme: "classic",
	},
	"bounded": {
		GrowthFactor: 2.0, HardLimit: 262144, Ticks: 600000, GraceTicks: 120,
		FPS: 60, GridWidth: 512, GridHeight: 512, Theme: "classic",
	},
	"crawl": {
		GrowthFactor: 1.1, HardLimit: 4096, Ticks: 100000, GraceTicks: 60,
		FPS: 30, GridWidth: 64, GridHeight: 64, Theme: "classic",
	},
}

func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
