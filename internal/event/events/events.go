package events

import (
	"github.com/dshills/nightloop/internal/event"
	"github.com/dshills/nightloop/internal/input/key"
)

// Engine event codes.
const (
	// Quit asks the application loop to stop.
	Quit event.Code = 1

	// KeyPressed is emitted when a key goes down.
	KeyPressed event.Code = 2

	// KeyReleased is emitted when a key goes up.
	KeyReleased event.Code = 3

	// ButtonPressed is emitted when a mouse button goes down.
	ButtonPressed event.Code = 4

	// ButtonReleased is emitted when a mouse button goes up.
	ButtonReleased event.Code = 5

	// MouseMoved is emitted when the pointer position changes.
	MouseMoved event.Code = 6

	// MouseWheel is emitted for each non-zero wheel report.
	MouseWheel event.Code = 7

	// Resized is emitted when the window size changes.
	Resized event.Code = 8

	// ConfigChanged is emitted when the watched configuration file changes.
	ConfigChanged event.Code = 9

	// FocusChanged is emitted when the window gains or loses focus.
	FocusChanged event.Code = 10
)

// QuitEvent is the payload of Quit.
type QuitEvent struct {
	// Reason is a short human-readable cause, e.g. "escape".
	Reason string
}

// KeyEvent is the payload of KeyPressed and KeyReleased.
type KeyEvent struct {
	Key  key.Key
	Mods key.Mod
}

// ButtonEvent is the payload of ButtonPressed and ButtonReleased.
type ButtonEvent struct {
	Button key.Button
	X, Y   int16
}

// MoveEvent is the payload of MouseMoved.
type MoveEvent struct {
	X, Y int16
}

// WheelEvent is the payload of MouseWheel. Positive deltas scroll up.
type WheelEvent struct {
	Delta int8
}

// ResizeEvent is the payload of Resized.
type ResizeEvent struct {
	Width, Height uint32
}

// ConfigEvent is the payload of ConfigChanged.
type ConfigEvent struct {
	// Path is the configuration file that changed.
	Path string
}

// FocusEvent is the payload of FocusChanged.
type FocusEvent struct {
	Focused bool
}

// Typed topics for the engine codes.
var (
	QuitTopic           = event.NewTopic[QuitEvent](Quit, "app.quit")
	KeyPressedTopic     = event.NewTopic[KeyEvent](KeyPressed, "input.key.pressed")
	KeyReleasedTopic    = event.NewTopic[KeyEvent](KeyReleased, "input.key.released")
	ButtonPressedTopic  = event.NewTopic[ButtonEvent](ButtonPressed, "input.button.pressed")
	ButtonReleasedTopic = event.NewTopic[ButtonEvent](ButtonReleased, "input.button.released")
	MouseMovedTopic     = event.NewTopic[MoveEvent](MouseMoved, "input.mouse.moved")
	MouseWheelTopic     = event.NewTopic[WheelEvent](MouseWheel, "input.mouse.wheel")
	ResizedTopic        = event.NewTopic[ResizeEvent](Resized, "app.resized")
	ConfigChangedTopic  = event.NewTopic[ConfigEvent](ConfigChanged, "config.changed")
	FocusChangedTopic   = event.NewTopic[FocusEvent](FocusChanged, "app.focus.changed")
)

// Name returns the topic name of an engine code, or "" for other codes.
func Name(code event.Code) string {
	switch code {
	case Quit:
		return QuitTopic.Name
	case KeyPressed:
		return KeyPressedTopic.Name
	case KeyReleased:
		return KeyReleasedTopic.Name
	case ButtonPressed:
		return ButtonPressedTopic.Name
	case ButtonReleased:
		return ButtonReleasedTopic.Name
	case MouseMoved:
		return MouseMovedTopic.Name
	case MouseWheel:
		return MouseWheelTopic.Name
	case Resized:
		return ResizedTopic.Name
	case ConfigChanged:
		return ConfigChangedTopic.Name
	case FocusChanged:
		return FocusChangedTopic.Name
	}
	return ""
}
