// Package capture rasterizes snapshots into paletted frames and records
// them as animated GIFs, both for live recording and for re-rendering
// stored histories.
package capture

import (
	"image"
	"image/color"
	"image/gif"
	"os"
	"sync"

	"github.com/san-kum/arraylab/internal/grid"
	"github.com/san-kum/arraylab/internal/sim"
)

// Palette maps grid classes to frame colors, indexed by class. The
// scheme follows the desktop renderer: green for new data, blue for old
// data awaiting migration, cyan once migrated, black for allocated but
// empty slots, gray beyond the current capacity.
var Palette = color.Palette{
	grid.ClassMigratedOld: color.RGBA{0, 255, 255, 255},
	grid.ClassOld:         color.RGBA{0, 0, 255, 255},
	grid.ClassNew:         color.RGBA{0, 255, 0, 255},
	grid.ClassFree:        color.RGBA{0, 0, 0, 255},
	grid.ClassUnallocated: color.RGBA{128, 128, 128, 255},
}

// Rasterize renders one snapshot as a cols by rows cell grid with
// square cells cellPx pixels wide.
func Rasterize(s sim.Snapshot, cols, rows, cellPx int) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, cols*cellPx, rows*cellPx), Palette)
	for row := 0; row < rows; row++ {
		x := 0
		for _, span := range grid.RowSpans(s, row*cols, cols) {
			for px := 0; px < span.Count*cellPx; px++ {
				for py := 0; py < cellPx; py++ {
					img.SetColorIndex(x+px, row*cellPx+py, uint8(span.Class))
				}
			}
			x += span.Count * cellPx
		}
	}
	return img
}

// Recorder accumulates frames and writes them as one animated GIF when
// closed. It is not safe for concurrent use; callers capture from the
// same loop that steps the simulation.
type Recorder struct {
	path   string
	delay  int // per frame, hundredths of a second
	frames []*image.Paletted
	once   sync.Once
	err    error
}

// NewRecorder creates a recorder that will write to path. A delay of 0
// or less falls back to 2 (50 frames per second).
func NewRecorder(path string, delay int) *Recorder {
	if delay <= 0 {
		delay = 2
	}
	return &Recorder{path: path, delay: delay}
}

// Capture rasterizes the snapshot and appends it as a frame.
func (r *Recorder) Capture(s sim.Snapshot, cols, rows, cellPx int) {
	r.frames = append(r.frames, Rasterize(s, cols, rows, cellPx))
}

// Frames reports how many frames have been captured.
func (r *Recorder) Frames() int { return len(r.frames) }

// Close encodes the captured frames to the recorder's path. Closing
// with no frames writes nothing. Repeated calls return the first
// result.
func (r *Recorder) Close() error {
	r.once.Do(func() {
		if len(r.frames) == 0 {
			return
		}

		anim := &gif.GIF{LoopCount: 0}
		for _, frame := range r.frames {
			anim.Image = append(anim.Image, frame)
			anim.Delay = append(anim.Delay, r.delay)
		}

		f, err := os.Create(r.path)
		if err != nil {
			r.err = err
			return
		}
		if err := gif.EncodeAll(f, anim); err != nil {
			f.Close()
			r.err = err
			return
		}
		r.err = f.Close()
	})
	return r.err
}
