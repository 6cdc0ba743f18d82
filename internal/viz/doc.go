// Package viz draws the tree in the terminal.
//
// Elements are projected through a pinhole [Projector] onto a braille
// [Canvas] whose cells keep the tint of the nearest dot. [Model] is the
// Bubble Tea program that animates a scene and turns key presses into
// synthetic hand samples.
//
// # Key Bindings
//
//	O      - Open palm (scatter the tree)
//	F      - Closed fist (reassemble)
//	Arrows - Move the hand, panning the camera
//	Space  - Pause/Resume
//	T      - Cycle color themes
//	G      - Toggle GIF recording
//	?      - Show help overlay
//
// # Recording
//
// G starts and stops a GIF recording of the canvas. Recordings are saved to
// the current directory.
package viz
