package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/arraylab/internal/grid"
)

// Theme defines the color scheme for the TUI. Cells is indexed by grid
// class; Graph colors the efficiency chart.
type Theme struct {
	Name  string
	Cells [grid.NumClasses]lipgloss.Color
	Graph lipgloss.Color
}

// Available themes
var (
	// ThemeClassic follows the desktop renderer: green for new data,
	// blue for old, cyan once migrated.
	ThemeClassic = Theme{
		Name: "classic",
		Cells: [grid.NumClasses]lipgloss.Color{
			grid.ClassMigratedOld: "#00ffff",
			grid.ClassOld:         "#0000ff",
			grid.ClassNew:         "#00ff00",
			grid.ClassFree:        "#303030",
			grid.ClassUnallocated: "#1a1a1a",
		},
		Graph: "#00ff00",
	}

	ThemeCyberpunk = Theme{
		Name: "cyberpunk",
		Cells: [grid.NumClasses]lipgloss.Color{
			grid.ClassMigratedOld: "#00ffff",
			grid.ClassOld:         "#ff00ff",
			grid.ClassNew:         "#ffff00",
			grid.ClassFree:        "#333344",
			grid.ClassUnallocated: "#1a1a2a",
		},
		Graph: "#ff00ff",
	}

	ThemeRetroGreen = Theme{
		Name: "retro",
		Cells: [grid.NumClasses]lipgloss.Color{
			grid.ClassMigratedOld: "#88ff88",
			grid.ClassOld:         "#007700",
			grid.ClassNew:         "#00ff00",
			grid.ClassFree:        "#003300",
			grid.ClassUnallocated: "#001100",
		},
		Graph: "#00cc00",
	}

	ThemeOcean = Theme{
		Name: "ocean",
		Cells: [grid.NumClasses]lipgloss.Color{
			grid.ClassMigratedOld: "#ffd700",
			grid.ClassOld:         "#0077be",
			grid.ClassNew:         "#00a8cc",
			grid.ClassFree:        "#1a3a52",
			grid.ClassUnallocated: "#0d2233",
		},
		Graph: "#00a8cc",
	}

	// Default theme
	CurrentTheme = ThemeClassic

	// All available themes
	Themes = []Theme{
		ThemeClassic,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
