// Package input provides the engine's double-buffered input state machine.
//
// The System keeps two snapshots of keyboard and mouse state: current,
// written by the platform as raw reports arrive, and previous, the state at
// the end of the last frame. Games read both to detect transitions:
//
//	if in.KeyDown(key.Space) && !in.WasKeyDown(key.Space) {
//	    // pressed this frame
//	}
//
// # Edge-Triggered Events
//
// Process methods emit a bus event only when a reported value differs from
// the current snapshot. Repeated identical reports are silent, so a platform
// may report state as often as it likes. Wheel reports are deltas, not state,
// and emit whenever they are non-zero.
//
// # Frame Advance
//
// Update copies current into previous. The application loop calls it exactly
// once per frame, after the game has rendered; nothing else should.
//
// # Defaults
//
// Queries on an uninitialized System return conservative values: nothing is
// down, everything is up and the pointer is at the origin.
package input
