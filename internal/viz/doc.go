// Package viz renders a running field in the terminal.
//
//   - [Model]: bubbletea program behind `fieldsim watch`
//   - [Heatmap]: block-averaged, sign-coloured view of u
//   - [Canvas]: braille buffer used for the nodal-line view
//   - [Progress]: one-line status observer for `fieldsim run`
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart from a zero field
//	M     - Toggle heatmap / nodal lines
//	T     - Cycle colour themes
//	Q     - Quit
package viz
