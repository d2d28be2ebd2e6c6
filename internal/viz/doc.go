// Package viz draws a running simulation in the terminal with Bubble Tea.
//
//   - [Model]: live view of one Simulation on a braille [Canvas]
//   - [RunInteractive]: preset picker and parameter editor in front of it
//
// # Key Bindings
//
//	Space - Pause/Resume
//	.     - Single frame while paused
//	R     - Regenerate balls and layers
//	D     - Toggle the debug overlay
//	T     - Cycle color themes
//	+/-   - Simulation speed
//	?     - Show help overlay
package viz
