package key

import (
	"errors"
	"fmt"
	"strings"
)

// Parse errors
var (
	ErrEmptyName   = errors.New("empty key name")
	ErrUnknownName = errors.New("unknown key name")
)

// nameIndex maps upper-case names and aliases to keys.
var nameIndex = func() map[string]Key {
	m := make(map[string]Key, Count+16)
	for k := A; k < Count; k++ {
		m[keyNames[k]] = k
	}
	// Aliases accepted from configuration and scripts.
	for alias, k := range map[string]Key{
		"ESC":       Escape,
		"RETURN":    Enter,
		"CR":        Enter,
		"BS":        Backspace,
		"DEL":       Delete,
		"PAGEUP":    PageUp,
		"PAGEDOWN":  PageDown,
		"PGUP":      PageUp,
		"PGDN":      PageDown,
		"CONTROL":   Ctrl,
		"META":      Super,
		"CAPSLOCK":  CapsLock,
		"NUMLOCK":   NumLock,
		"KPENTER":   KPEnter,
		"BACKQUOTE": Grave,
		"QUOTE":     Apostrophe,
	} {
		m[alias] = k
	}
	return m
}()

// Parse returns the key for name, case-insensitively. Names are those
// returned by Key.String plus a few common aliases ("Esc", "Return",
// "PgUp"). Single printable characters map through FromRune.
func Parse(name string) (Key, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Unknown, ErrEmptyName
	}

	if k, ok := nameIndex[strings.ToUpper(name)]; ok {
		return k, nil
	}

	if runes := []rune(name); len(runes) == 1 {
		if k, _ := FromRune(runes[0]); k != Unknown {
			return k, nil
		}
	}

	return Unknown, fmt.Errorf("%w: %q", ErrUnknownName, name)
}

// MustParse is like Parse but panics on error.
func MustParse(name string) Key {
	k, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return k
}

// Button represents a mouse button.
type Button uint8

const (
	// ButtonLeft is the primary button.
	ButtonLeft Button = iota
	// ButtonMiddle is the wheel button.
	ButtonMiddle
	// ButtonRight is the secondary button.
	ButtonRight

	// ButtonCount is the number of buttons. It is not a button.
	ButtonCount
)

var buttonNames = [ButtonCount]string{
	ButtonLeft:   "LEFT",
	ButtonMiddle: "MIDDLE",
	ButtonRight:  "RIGHT",
}

// String returns the button name.
func (b Button) String() string {
	if b < ButtonCount {
		return buttonNames[b]
	}
	return "UNKNOWN"
}

// Valid reports whether b is a known button.
func (b Button) Valid() bool {
	return b < ButtonCount
}

// ParseButton returns the button for name, case-insensitively.
func ParseButton(name string) (Button, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ButtonCount, ErrEmptyName
	}
	upper := strings.ToUpper(name)
	for b := ButtonLeft; b < ButtonCount; b++ {
		if buttonNames[b] == upper {
			return b, nil
		}
	}
	return ButtonCount, fmt.Errorf("%w: %q", ErrUnknownName, name)
}
