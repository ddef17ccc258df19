// Package viz provides the terminal visualization for growth runs.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view stepping the simulation once per frame
//   - [Theme]: cell color schemes, cycled at runtime
//   - [Run]: convenience launcher with the alternate screen enabled
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset the run
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Expand key help
//	[ ]   - Step back/forward through history
//
// # Recording
//
// The G key toggles recording; frames accumulate while active and are
// written to arraylab.gif in the current directory when recording stops
// or the view quits.
package viz
