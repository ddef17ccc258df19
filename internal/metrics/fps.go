package metrics

import "time"

// FPSTracker keeps frame-rate statistics for the interactive views. The
// current rate is recomputed over one-second windows. The published
// minimum refreshes every three seconds, so a slow window stays readable
// instead of flickering away on the next good one.
type FPSTracker struct {
	start       time.Time
	totalFrames int

	windowStart time.Time
	frames      int

	current float64
	max     float64

	min      float64
	minCache float64
	minStart time.Time
}

func NewFPSTracker() *FPSTracker {
	return newFPSTrackerAt(time.Now())
}

func newFPSTrackerAt(now time.Time) *FPSTracker {
	return &FPSTracker{
		start:       now,
		windowStart: now,
		minStart:    now,
	}
}

// Frame records one rendered frame.
func (f *FPSTracker) Frame() {
	f.frameAt(time.Now())
}

func (f *FPSTracker) frameAt(now time.Time) {
	f.totalFrames++
	f.frames++

	if elapsed := now.Sub(f.windowStart); elapsed >= time.Second {
		f.current = float64(f.frames) / elapsed.Seconds()
		f.frames = 0
		f.windowStart = now

		if f.current > f.max {
			f.max = f.current
		}
		if f.minCache == 0 || f.current < f.minCache {
			f.minCache = f.current
		}
	}

	if now.Sub(f.minStart) >= 3*time.Second {
		f.min = f.minCache
		f.minCache = f.current
		f.minStart = now
	}
}

// Current is the rate measured over the last completed window, 0 before
// the first window closes.
func (f *FPSTracker) Current() float64 { return f.current }

// Min is the slowest window rate from the previous refresh period.
func (f *FPSTracker) Min() float64 { return f.min }

// Max is the fastest window rate seen so far.
func (f *FPSTracker) Max() float64 { return f.max }

// Mean is total frames over total elapsed time.
func (f *FPSTracker) Mean() float64 {
	return f.meanAt(time.Now())
}

func (f *FPSTracker) meanAt(now time.Time) float64 {
	elapsed := now.Sub(f.start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(f.totalFrames) / elapsed
}
