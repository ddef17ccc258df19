// Package export renders recorded runs as standalone SVG documents.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/arraylab/internal/grid"
	"github.com/san-kum/arraylab/internal/sim"
)

// classFills mirrors the capture palette, indexed by grid class.
var classFills = [grid.NumClasses]string{
	grid.ClassMigratedOld: "#00ffff",
	grid.ClassOld:         "#0000ff",
	grid.ClassNew:         "#00ff00",
	grid.ClassFree:        "#000000",
	grid.ClassUnallocated: "#808080",
}

// GridToSVG renders one snapshot as an SVG cell grid. Unallocated cells
// are left to the background fill.
func GridToSVG(s sim.Snapshot, cols, rows, cellPx int) string {
	width := cols * cellPx
	height := rows * cellPx

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, classFills[grid.ClassUnallocated]))

	gridRects(&sb, s, cols, rows, cellPx, 0)

	sb.WriteString("</svg>\n")
	return sb.String()
}

// EfficiencyToSVG renders a run's efficiency curve. Efficiency lives in
// [0,1], so the vertical scale is fixed rather than fitted.
func EfficiencyToSVG(history []sim.Snapshot, width, height int) string {
	if len(history) < 2 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	curvePath(&sb, history, width, height, 0)

	sb.WriteString("</svg>\n")
	return sb.String()
}

// RunToSVG stacks the run's final grid state above its efficiency curve
// in a single document.
func RunToSVG(history []sim.Snapshot, cols, rows, cellPx int) string {
	if len(history) == 0 {
		return ""
	}
	final := history[len(history)-1]

	const gap = 10
	const curveHeight = 120
	width := cols * cellPx
	gridHeight := rows * cellPx
	height := gridHeight + gap + curveHeight

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<rect width="%d" height="%d" fill="%s"/>
`, width, height, width, height, width, gridHeight, classFills[grid.ClassUnallocated]))

	gridRects(&sb, final, cols, rows, cellPx, 0)
	if len(history) >= 2 {
		curvePath(&sb, history, width, curveHeight, gridHeight+gap)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func gridRects(sb *strings.Builder, s sim.Snapshot, cols, rows, cellPx, yOff int) {
	for row := 0; row < rows; row++ {
		x := 0
		for _, span := range grid.RowSpans(s, row*cols, cols) {
			if span.Class != grid.ClassUnallocated {
				sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>
`, x, yOff+row*cellPx, span.Count*cellPx, cellPx, classFills[span.Class]))
			}
			x += span.Count * cellPx
		}
	}
}

func curvePath(sb *strings.Builder, history []sim.Snapshot, width, height, yOff int) {
	sb.WriteString(`<path fill="none" stroke="#00ff00" stroke-width="1.5" d="M`)

	lastX := float64(len(history) - 1)
	for i, s := range history {
		x := float64(i) / lastX * float64(width)
		y := float64(yOff) + float64(height) - s.Efficiency*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString("\"/>\n")
}
