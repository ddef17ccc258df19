package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/arraylab/internal/array"
	"github.com/san-kum/arraylab/internal/capture"
	"github.com/san-kum/arraylab/internal/config"
	"github.com/san-kum/arraylab/internal/grid"
	"github.com/san-kum/arraylab/internal/metrics"
	"github.com/san-kum/arraylab/internal/sim"
)

const (
	windowW = 1600
	windowH = 1024

	gridCols = 512
	gridRows = 512
	cellPx   = 2

	statsX  = 1100
	statsY  = 200
	statsDY = 50

	telemetryCap = 200
	recordPath   = "arraylab.gif"
)

var (
	ColBg      = rl.NewColor(128, 128, 128, 255)
	ColText    = rl.NewColor(230, 230, 230, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColAccent  = rl.NewColor(0, 255, 0, 255)
	ColAlert   = rl.NewColor(255, 60, 60, 255)
)

var cellColors = [grid.NumClasses]rl.Color{
	grid.ClassMigratedOld: rl.NewColor(0, 255, 255, 255),
	grid.ClassOld:         rl.NewColor(0, 0, 255, 255),
	grid.ClassNew:         rl.NewColor(0, 255, 0, 255),
	grid.ClassFree:        rl.NewColor(0, 0, 0, 255),
	grid.ClassUnallocated: rl.NewColor(128, 128, 128, 255),
}

// App owns the raylib window state for one simulation run. The grid
// fills the left of the window, one array slot per 2px cell, and the
// stats column sits to its right.
type App struct {
	Cfg       config.Config
	HardLimit int
	Driver    *sim.Driver
	Current   sim.Snapshot
	Ops       *metrics.OpsPerAppend
	FPS       *metrics.FPSTracker
	EffHist   []float64
	Running   bool
	Quit      bool
	Recorder  *capture.Recorder
	Font      rl.Font
}

func initWindow(fps int) {
	rl.InitWindow(windowW, windowH, "arraylab")
	rl.SetTargetFPS(int32(fps))
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp builds the simulation behind the window. A config without a
// hard limit gets one pinned to the visible cell count so the run
// terminates on screen instead of growing past the grid.
func NewApp(cfg config.Config) *App {
	hardLimit := cfg.HardLimit
	if hardLimit == 0 {
		hardLimit = gridCols * gridRows
	}
	driver := sim.NewDriver(array.New(cfg.GrowthFactor, hardLimit))

	return &App{
		Cfg:       cfg,
		HardLimit: hardLimit,
		Driver:    driver,
		Current:   driver.Snapshot(),
		Ops:       metrics.NewOpsPerAppend(),
		FPS:       metrics.NewFPSTracker(),
		EffHist:   make([]float64, 0, telemetryCap),
		Running:   true,
		Font:      loadFont(),
	}
}

// Run opens the window for cfg and blocks until it is closed. A
// non-empty recordPath starts GIF recording immediately instead of
// waiting for the G key.
func Run(cfg config.Config, recordPath string) {
	initWindow(cfg.FPS)
	defer rl.CloseWindow()
	app := NewApp(cfg)
	if recordPath != "" {
		app.Recorder = capture.NewRecorder(recordPath, 100/cfg.FPS)
	}
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.Quit {
		a.Update()
		a.Draw()
	}
	a.StopRecording()
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.Quit = true
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.reset()
	}
	if rl.IsKeyPressed(rl.KeyG) {
		a.toggleRecording()
	}

	if a.Running {
		a.Current = a.Driver.Step()
		a.Ops.Observe(a.Current)

		a.EffHist = append(a.EffHist, a.Current.Efficiency)
		if len(a.EffHist) > telemetryCap {
			a.EffHist = a.EffHist[1:]
		}
	}
	a.FPS.Frame()

	if a.Recorder != nil {
		a.Recorder.Capture(a.Current, gridCols, gridRows, 1)
	}
}

func (a *App) reset() {
	a.Driver = sim.NewDriver(array.New(a.Cfg.GrowthFactor, a.HardLimit))
	a.Current = a.Driver.Snapshot()
	a.Ops = metrics.NewOpsPerAppend()
	a.EffHist = a.EffHist[:0]
	a.Running = true
}

func (a *App) toggleRecording() {
	if a.Recorder != nil {
		a.StopRecording()
		return
	}
	a.Recorder = capture.NewRecorder(recordPath, 100/a.Cfg.FPS)
}

// StopRecording flushes any in-flight GIF to disk.
func (a *App) StopRecording() {
	if a.Recorder == nil {
		return
	}
	a.Recorder.Close()
	a.Recorder = nil
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.DrawGrid()
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	a.drawText("arraylab", statsX, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: growth %g", a.Cfg.GrowthFactor), statsX+130, 34, 16, ColText)

	status, col := "RUNNING", ColSelect
	switch {
	case a.Current.Terminal():
		status, col = "LIMIT REACHED", ColAlert
	case !a.Running:
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, statsX, 70, 16, col)
	if a.Recorder != nil {
		a.drawText(fmt.Sprintf("REC %d", a.Recorder.Frames()), statsX+220, 70, 16, ColAlert)
	}

	rows := []string{
		fmt.Sprintf("%-14s %d", "tick", a.Current.Tick),
		fmt.Sprintf("%-14s %s", "phase", a.Current.Phase),
		fmt.Sprintf("%-14s %d / %d", "capacity", a.Current.Capacity, a.Current.HardLimit),
		fmt.Sprintf("%-14s %d", "size", a.Current.Size),
		fmt.Sprintf("%-14s %d", "old gen", a.Current.OldGenerationSize),
		fmt.Sprintf("%-14s %d", "resizes", a.Current.Resizes),
		fmt.Sprintf("%-14s %d", "migration ops", a.Current.MigrationOps),
		fmt.Sprintf("%-14s %.1f%%", "efficiency", a.Current.Efficiency*100),
		fmt.Sprintf("%-14s %.3f", "ops/append", a.Ops.Value()),
		fmt.Sprintf("%-14s %.0f / %.0f / %.0f", "fps", a.FPS.Current(), a.FPS.Min(), a.FPS.Max()),
	}
	y := statsY
	for _, row := range rows {
		a.drawText(row, statsX, y, 20, ColText)
		y += statsDY
	}

	a.DrawTelemetry()

	a.drawText("[SPACE] PAUSE  [R] RESET  [G] RECORD  [Q/ESC] QUIT", statsX, windowH-40, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
