package key

import "strings"

// Mod is a bitmask of modifier keys.
type Mod uint8

const (
	// ModNone indicates no modifiers.
	ModNone Mod = 0

	// ModShift indicates the Shift key.
	ModShift Mod = 1 << 0

	// ModCtrl indicates the Control key.
	ModCtrl Mod = 1 << 1

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt Mod = 1 << 2

	// ModSuper indicates the Super key (Cmd on macOS, Win on Windows).
	ModSuper Mod = 1 << 3

	// ModCaps indicates Caps Lock is active.
	ModCaps Mod = 1 << 4
)

// Has returns true if m contains all bits of mod.
func (m Mod) Has(mod Mod) bool {
	return mod != ModNone && m&mod == mod
}

// With returns a new Mod with the specified modifier added.
func (m Mod) With(mod Mod) Mod {
	return m | mod
}

// Without returns a new Mod with the specified modifier removed.
func (m Mod) Without(mod Mod) Mod {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Mod) IsEmpty() bool {
	return m == ModNone
}

// String returns a human-readable representation like "Ctrl+Alt".
func (m Mod) String() string {
	if m == ModNone {
		return ""
	}

	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if m.Has(ModSuper) {
		parts = append(parts, "Super")
	}
	if m.Has(ModCaps) {
		parts = append(parts, "Caps")
	}
	return strings.Join(parts, "+")
}

// modNames maps modifier names (lowercase) to Mod values.
var modNames = map[string]Mod{
	"shift":   ModShift,
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"super":   ModSuper,
	"meta":    ModSuper,
	"cmd":     ModSuper,
	"win":     ModSuper,
	"caps":    ModCaps,
}

// ParseMods parses a modifier string like "Ctrl+Alt".
// Unrecognized parts are ignored.
func ParseMods(s string) Mod {
	var result Mod
	for _, part := range strings.Split(strings.ToLower(s), "+") {
		if mod, ok := modNames[strings.TrimSpace(part)]; ok {
			result = result.With(mod)
		}
	}
	return result
}
