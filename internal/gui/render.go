package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/arraylab/internal/grid"
)

// DrawGrid paints the array as rows of 2px cells. Runs of equal class
// collapse to one rectangle, and unallocated slots are left to the
// clear color.
func (a *App) DrawGrid() {
	for row := 0; row < gridRows; row++ {
		x := int32(0)
		y := int32(row * cellPx)
		for _, span := range grid.RowSpans(a.Current, row*gridCols, gridCols) {
			w := int32(span.Count * cellPx)
			if span.Class != grid.ClassUnallocated {
				rl.DrawRectangle(x, y, w, cellPx, cellColors[span.Class])
			}
			x += w
		}
	}
}

// DrawTelemetry plots recent efficiency on a fixed 0..1 scale.
func (a *App) DrawTelemetry() {
	if len(a.EffHist) < 2 {
		return
	}

	rectX, rectY := statsX, 780
	width, height := 400, 80

	points := make([]rl.Vector2, len(a.EffHist))
	for i, val := range a.EffHist {
		px := float32(rectX) + (float32(i)/float32(len(a.EffHist)))*float32(width)
		py := float32(rectY+height) - float32(val)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("eff %.2f", a.EffHist[len(a.EffHist)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}
