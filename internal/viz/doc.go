// Package viz renders a universe into the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: the viewer, driving an interaction.Controller from a frame tick
//   - [Canvas]: Braille-based pixel canvas with per-cell colors
//   - [Scene]: projects bodies, trails and the placement draft through the camera
//
// # Key Bindings
//
//	A     - Place a body (click three times: position, height, velocity)
//	O     - Place a body in orbit around the selection
//	F     - Toggle firing mode
//	Space - Pause/Resume simulation
//	+/-   - Change the speed dial
//	R     - Add random bodies
//	T     - Cycle color themes
//	?     - Show help overlay
//
// Mouse input needs a terminal with mouse reporting; the program is started
// with all-motion reporting so placement previews follow the pointer.
package viz
