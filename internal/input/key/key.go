package key

import "fmt"

// Key represents a keyboard key.
type Key uint16

const (
	// Unknown is the zero key. Platforms report it for keys they cannot map.
	Unknown Key = iota

	// Letters
	A
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z

	// Digits (top row)
	Num0
	Num1
	Num2
	Num3
	Num4
	Num5
	Num6
	Num7
	Num8
	Num9

	// Function keys
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12

	// Control keys
	Escape
	Enter
	Tab
	Backspace
	Space

	// Modifier keys
	Shift
	Ctrl
	Alt
	Super

	// Arrow keys
	Up
	Down
	Left
	Right

	// Navigation
	Insert
	Delete
	Home
	End
	PageUp
	PageDown

	// Keypad
	NumLock
	KP0
	KP1
	KP2
	KP3
	KP4
	KP5
	KP6
	KP7
	KP8
	KP9
	KPAdd
	KPSubtract
	KPMultiply
	KPDivide
	KPEnter
	KPDecimal

	// Punctuation
	Minus
	Equals
	LeftBracket
	RightBracket
	Backslash
	Semicolon
	Apostrophe
	Grave
	Comma
	Period
	Slash

	CapsLock

	// Count is the number of keys. It is not a key.
	Count
)

var keyNames = [Count]string{
	Unknown: "UNKNOWN",
	A:       "A", B: "B", C: "C", D: "D", E: "E", F: "F", G: "G", H: "H",
	I: "I", J: "J", K: "K", L: "L", M: "M", N: "N", O: "O", P: "P",
	Q: "Q", R: "R", S: "S", T: "T", U: "U", V: "V", W: "W", X: "X",
	Y: "Y", Z: "Z",

	Num0: "0", Num1: "1", Num2: "2", Num3: "3", Num4: "4",
	Num5: "5", Num6: "6", Num7: "7", Num8: "8", Num9: "9",

	F1: "F1", F2: "F2", F3: "F3", F4: "F4", F5: "F5", F6: "F6",
	F7: "F7", F8: "F8", F9: "F9", F10: "F10", F11: "F11", F12: "F12",

	Escape:    "ESCAPE",
	Enter:     "ENTER",
	Tab:       "TAB",
	Backspace: "BACKSPACE",
	Space:     "SPACE",

	Shift: "SHIFT",
	Ctrl:  "CTRL",
	Alt:   "ALT",
	Super: "SUPER",

	Up:    "UP",
	Down:  "DOWN",
	Left:  "LEFT",
	Right: "RIGHT",

	Insert:   "INSERT",
	Delete:   "DELETE",
	Home:     "HOME",
	End:      "END",
	PageUp:   "PAGE_UP",
	PageDown: "PAGE_DOWN",

	NumLock:    "NUM_LOCK",
	KP0:        "KP_0",
	KP1:        "KP_1",
	KP2:        "KP_2",
	KP3:        "KP_3",
	KP4:        "KP_4",
	KP5:        "KP_5",
	KP6:        "KP_6",
	KP7:        "KP_7",
	KP8:        "KP_8",
	KP9:        "KP_9",
	KPAdd:      "KP_ADD",
	KPSubtract: "KP_SUBTRACT",
	KPMultiply: "KP_MULTIPLY",
	KPDivide:   "KP_DIVIDE",
	KPEnter:    "KP_ENTER",
	KPDecimal:  "KP_DECIMAL",

	Minus:        "MINUS",
	Equals:       "EQUALS",
	LeftBracket:  "LEFT_BRACKET",
	RightBracket: "RIGHT_BRACKET",
	Backslash:    "BACKSLASH",
	Semicolon:    "SEMICOLON",
	Apostrophe:   "APOSTROPHE",
	Grave:        "GRAVE",
	Comma:        "COMMA",
	Period:       "PERIOD",
	Slash:        "SLASH",

	CapsLock: "CAPS_LOCK",
}

// String returns the key name, or "UNKNOWN" for Unknown and out-of-range
// values.
func (k Key) String() string {
	if k < Count && keyNames[k] != "" {
		return keyNames[k]
	}
	return keyNames[Unknown]
}

// GoString returns a debugging representation.
func (k Key) GoString() string {
	return fmt.Sprintf("key.Key(%d:%s)", uint16(k), k.String())
}

// Valid reports whether k is a key other than Unknown.
func (k Key) Valid() bool {
	return k > Unknown && k < Count
}

// IsLetter returns true for A through Z.
func (k Key) IsLetter() bool {
	return k >= A && k <= Z
}

// IsDigit returns true for the top-row digits.
func (k Key) IsDigit() bool {
	return k >= Num0 && k <= Num9
}

// IsFunctionKey returns true if this is a function key (F1-F12).
func (k Key) IsFunctionKey() bool {
	return k >= F1 && k <= F12
}

// IsArrowKey returns true if this is an arrow key.
func (k Key) IsArrowKey() bool {
	return k >= Up && k <= Right
}

// IsModifier returns true for the modifier keys themselves.
func (k Key) IsModifier() bool {
	return (k >= Shift && k <= Super) || k == CapsLock
}

// IsKeypad returns true for the numeric keypad keys.
func (k Key) IsKeypad() bool {
	return k >= KP0 && k <= KPDecimal
}

// Letter returns the letter key for r, ignoring case.
func Letter(r rune) Key {
	switch {
	case r >= 'a' && r <= 'z':
		return A + Key(r-'a')
	case r >= 'A' && r <= 'Z':
		return A + Key(r-'A')
	}
	return Unknown
}

// Digit returns the top-row digit key for r.
func Digit(r rune) Key {
	if r >= '0' && r <= '9' {
		return Num0 + Key(r-'0')
	}
	return Unknown
}

// punctuation maps printable characters to their unshifted key.
var punctuation = map[rune]Key{
	' ':  Space,
	'-':  Minus,
	'_':  Minus,
	'=':  Equals,
	'+':  Equals,
	'[':  LeftBracket,
	'{':  LeftBracket,
	']':  RightBracket,
	'}':  RightBracket,
	'\\': Backslash,
	'|':  Backslash,
	';':  Semicolon,
	':':  Semicolon,
	'\'': Apostrophe,
	'"':  Apostrophe,
	'`':  Grave,
	'~':  Grave,
	',':  Comma,
	'<':  Comma,
	'.':  Period,
	'>':  Period,
	'/':  Slash,
	'?':  Slash,
}

// FromRune returns the key that produces r on a US layout, or Unknown.
// The second result reports whether producing r needs Shift.
func FromRune(r rune) (Key, bool) {
	if k := Letter(r); k != Unknown {
		return k, r >= 'A' && r <= 'Z'
	}
	if k := Digit(r); k != Unknown {
		return k, false
	}
	if k, ok := punctuation[r]; ok {
		return k, isShifted(r)
	}
	if k, ok := shiftedDigits[r]; ok {
		return k, true
	}
	return Unknown, false
}

var shiftedDigits = map[rune]Key{
	'!': Num1, '@': Num2, '#': Num3, '$': Num4, '%': Num5,
	'^': Num6, '&': Num7, '*': Num8, '(': Num9, ')': Num0,
}

func isShifted(r rune) bool {
	switch r {
	case '_', '+', '{', '}', '|', ':', '"', '~', '<', '>', '?':
		return true
	}
	return false
}
