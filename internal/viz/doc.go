// Package viz renders a running swarm in the terminal using Bubble Tea.
//
//   - [Model]: live view stepping an engine on a timer
//   - [Canvas]: Braille dot canvas with glyph overlays
//
// # Key Bindings
//
//	0-3   - Free / hold hero / hold targets / hold both
//	Space - Pause/Resume
//	N     - Single step while paused
//	R     - Reset from the engine's seed
//	T     - Cycle colour themes
//	Q     - Quit
package viz
