// Package platform defines the window and event-source collaborator used by
// the application loop, with a tcell terminal implementation and a scripted
// headless one.
package platform

import (
	"errors"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/nightloop/internal/input/key"
	"github.com/dshills/nightloop/internal/memory"
)

// Sentinel errors for platforms.
var (
	// ErrAlreadyInitialized is returned when Init is called twice.
	ErrAlreadyInitialized = errors.New("platform is already initialized")

	// ErrInvalidSize is returned for a zero window dimension.
	ErrInvalidSize = errors.New("window width and height must be non-zero")
)

// Platform owns the window and produces raw input.
type Platform interface {
	// Init opens the window.
	Init(name string, width, height uint32) error

	// Pump drains every queued event into sink without blocking. It returns
	// false when the platform asks the application to quit.
	Pump(sink Sink) bool

	// Kill closes the window. It is safe to call more than once.
	Kill()

	// Size returns the current window size.
	Size() (width, height uint32)

	// Surface returns the drawing surface, or nil before Init.
	Surface() Surface
}

// Sink receives raw reports from a platform.
type Sink interface {
	ProcessKey(k key.Key, pressed bool)
	ProcessMods(mods key.Mod)
	ProcessMouseButton(b key.Button, pressed bool)
	ProcessMouseMove(x, y int16)
	ProcessMouseWheel(delta int8)

	// Resize reports a new window size.
	Resize(width, height uint32)

	// Focus reports focus gain or loss.
	Focus(focused bool)
}

// BackingProvider is implemented by platforms that supply raw memory to the
// allocator.
type BackingProvider interface {
	Backing() memory.Backing
}

// Surface is a character-cell drawing target.
//
// The zero colorful.Color stands for the surface default color, so
// DrawText(x, y, s, colorful.Color{}, colorful.Color{}) draws with the
// terminal's own foreground and background.
type Surface interface {
	Clear()
	DrawText(x, y int, text string, fg, bg colorful.Color)
	Present()
	Size() (width, height int)
}

// Default is the zero color, meaning "surface default".
var Default = colorful.Color{}

// IsDefault reports whether c is the default color.
func IsDefault(c colorful.Color) bool {
	return c == Default
}

// clampInt16 narrows a cell coordinate for the input system.
func clampInt16(v int) int16 {
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	}
	return int16(v)
}
