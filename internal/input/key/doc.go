// Package key defines the engine's input enumerations.
//
// This package defines the fixed vocabulary shared by platforms, the input
// state machine and games:
//
//   - Key: a physical keyboard key, dense from Unknown to Count
//   - Mod: a bitmask of modifier keys (Shift, Ctrl, Alt, Super, Caps)
//   - Button: a mouse button (Left, Middle, Right)
//
// Every key and button has a stable upper-case name such as "A", "F1",
// "PAGE_UP" or "KP_ENTER". Parse and ParseButton map names back to values,
// case-insensitively, for configuration and scripts.
package key
