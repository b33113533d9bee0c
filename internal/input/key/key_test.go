package key

import (
	"errors"
	"testing"
)

func TestKeyString(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{Unknown, "UNKNOWN"},
		{A, "A"},
		{Z, "Z"},
		{Num0, "0"},
		{Num9, "9"},
		{F1, "F1"},
		{F12, "F12"},
		{Escape, "ESCAPE"},
		{PageUp, "PAGE_UP"},
		{KPEnter, "KP_ENTER"},
		{CapsLock, "CAPS_LOCK"},
		{Count, "UNKNOWN"},
		{Key(5000), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("Key.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEveryKeyNamed(t *testing.T) {
	seen := make(map[string]Key)
	for k := A; k < Count; k++ {
		name := k.String()
		if name == "UNKNOWN" {
			t.Errorf("key %d has no name", k)
			continue
		}
		if prev, dup := seen[name]; dup {
			t.Errorf("keys %d and %d share name %q", prev, k, name)
		}
		seen[name] = k
	}
}

func TestKeyClasses(t *testing.T) {
	tests := []struct {
		name string
		fn   func(Key) bool
		in   []Key
		out  []Key
	}{
		{"IsLetter", Key.IsLetter, []Key{A, M, Z}, []Key{Num0, Escape}},
		{"IsDigit", Key.IsDigit, []Key{Num0, Num9}, []Key{A, KP0}},
		{"IsFunctionKey", Key.IsFunctionKey, []Key{F1, F12}, []Key{Escape}},
		{"IsArrowKey", Key.IsArrowKey, []Key{Up, Right}, []Key{Insert}},
		{"IsModifier", Key.IsModifier, []Key{Shift, Super, CapsLock}, []Key{Space}},
		{"IsKeypad", Key.IsKeypad, []Key{KP0, KPDecimal}, []Key{NumLock}},
		{"Valid", Key.Valid, []Key{A, CapsLock}, []Key{Unknown, Count}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range tt.in {
				if !tt.fn(k) {
					t.Errorf("%s(%s) = false, want true", tt.name, k)
				}
			}
			for _, k := range tt.out {
				if tt.fn(k) {
					t.Errorf("%s(%s) = true, want false", tt.name, k)
				}
			}
		})
	}
}

func TestFromRune(t *testing.T) {
	tests := []struct {
		r         rune
		want      Key
		wantShift bool
	}{
		{'a', A, false},
		{'Q', Q, true},
		{'7', Num7, false},
		{'&', Num7, true},
		{' ', Space, false},
		{'/', Slash, false},
		{'?', Slash, true},
		{'é', Unknown, false},
	}

	for _, tt := range tests {
		got, shift := FromRune(tt.r)
		if got != tt.want || shift != tt.wantShift {
			t.Errorf("FromRune(%q) = (%s, %v), want (%s, %v)", tt.r, got, shift, tt.want, tt.wantShift)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		want    Key
		wantErr error
	}{
		{"A", A, nil},
		{"a", A, nil},
		{"escape", Escape, nil},
		{"Esc", Escape, nil},
		{"page_up", PageUp, nil},
		{"PgDn", PageDown, nil},
		{"kp_enter", KPEnter, nil},
		{"5", Num5, nil},
		{"-", Minus, nil},
		{"", Unknown, ErrEmptyName},
		{"  ", Unknown, ErrEmptyName},
		{"nope", Unknown, ErrUnknownName},
		{"UNKNOWN", Unknown, ErrUnknownName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.name)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse(%q) error = %v, want %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	for k := A; k < Count; k++ {
		got, err := Parse(k.String())
		if err != nil || got != k {
			t.Errorf("Parse(%q) = (%s, %v), want %s", k.String(), got, err, k)
		}
	}
}

func TestMustParse_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse(bogus) did not panic")
		}
	}()
	MustParse("bogus")
}

func TestMod(t *testing.T) {
	m := ModNone.With(ModCtrl).With(ModShift)

	if !m.Has(ModCtrl) || !m.Has(ModShift) {
		t.Errorf("Has failed for %v", m)
	}
	if m.Has(ModAlt) {
		t.Error("Has(ModAlt) should be false")
	}
	if m.Has(ModNone) {
		t.Error("Has(ModNone) should be false")
	}
	if got := m.String(); got != "Ctrl+Shift" {
		t.Errorf("String() = %q, want %q", got, "Ctrl+Shift")
	}
	if m.Without(ModCtrl) != ModShift {
		t.Errorf("Without(ModCtrl) = %v", m.Without(ModCtrl))
	}
	if !ModNone.IsEmpty() {
		t.Error("ModNone.IsEmpty() should be true")
	}
}

func TestParseMods(t *testing.T) {
	tests := []struct {
		in   string
		want Mod
	}{
		{"", ModNone},
		{"ctrl", ModCtrl},
		{"Ctrl+Alt", ModCtrl | ModAlt},
		{"shift + super + caps", ModShift | ModSuper | ModCaps},
		{"cmd+bogus", ModSuper},
	}

	for _, tt := range tests {
		if got := ParseMods(tt.in); got != tt.want {
			t.Errorf("ParseMods(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestButton(t *testing.T) {
	tests := []struct {
		name string
		want Button
	}{
		{"left", ButtonLeft},
		{"MIDDLE", ButtonMiddle},
		{"Right", ButtonRight},
	}

	for _, tt := range tests {
		got, err := ParseButton(tt.name)
		if err != nil || got != tt.want {
			t.Errorf("ParseButton(%q) = (%v, %v), want %v", tt.name, got, err, tt.want)
		}
		if got.String() != tt.want.String() {
			t.Errorf("String() = %q", got.String())
		}
	}

	if _, err := ParseButton("fourth"); !errors.Is(err, ErrUnknownName) {
		t.Errorf("ParseButton(fourth) error = %v, want ErrUnknownName", err)
	}
	if ButtonCount.Valid() || ButtonCount.String() != "UNKNOWN" {
		t.Error("ButtonCount should not be a valid button")
	}
}
