// Package viz provides the terminal views of a render.
//
// The package implements:
//
//   - [Preview]: a Bubble Tea program that steps the frame clock live and
//     draws every lane as a coloured character grid
//   - [ProgressRecorder]: a frame observer collecting marker counts, drawn
//     with [Plot] as an asciigraph chart
//   - [Summary]: a lipgloss table of per-lane statistics
//
// # Key Bindings
//
//	Space - Pause/Resume the clock
//	→/L   - Advance one frame while paused
//	R     - Rewind to the first frame
//	T     - Cycle color themes
//	Q     - Quit
package viz
