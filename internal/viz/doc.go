// Package viz runs the interactive terminal show on Bubble Tea.
//
// The canvas fills the terminal except for one HUD line at the bottom.
//
// # Key Bindings
//
//	Click - Launch a shell toward the pointer
//	Space - Launch toward a random point
//	G     - Toggle rapid fire while the button is held
//	+/-   - Rapid fire rate (5-60 Hz)
//	T     - Cycle color themes
//	P     - Pause/Resume
//	?     - Show help overlay
//	Q     - Quit
package viz
