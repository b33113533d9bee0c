package input

import (
	"testing"

	"github.com/dshills/nightloop/internal/event"
	"github.com/dshills/nightloop/internal/event/events"
	"github.com/dshills/nightloop/internal/input/key"
	"github.com/dshills/nightloop/internal/memory"
)

// capture records every engine event emitted on a bus.
type capture struct {
	codes    []event.Code
	payloads []any
}

func (c *capture) HandleEvent(e event.Envelope) bool {
	c.codes = append(c.codes, e.Code)
	c.payloads = append(c.payloads, e.Payload)
	return true
}

func (c *capture) count(code event.Code) int {
	n := 0
	for _, got := range c.codes {
		if got == code {
			n++
		}
	}
	return n
}

func newTestSystem(t *testing.T) (*System, *capture, *memory.Allocator) {
	t.Helper()
	alloc := memory.New()
	bus := event.New(alloc)
	if err := bus.Init(); err != nil {
		t.Fatalf("bus.Init() error = %v", err)
	}
	t.Cleanup(bus.Kill)

	c := &capture{}
	me := event.NewRecipient()
	for _, code := range []event.Code{
		events.KeyPressed, events.KeyReleased,
		events.ButtonPressed, events.ButtonReleased,
		events.MouseMoved, events.MouseWheel,
	} {
		bus.Register(code, me, c)
	}

	s := New(bus, WithAllocator(alloc))
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(s.Kill)
	return s, c, alloc
}

func TestSystem_InitKill(t *testing.T) {
	alloc := memory.New()
	s := New(nil, WithAllocator(alloc))

	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := s.Init(); err != ErrAlreadyInitialized {
		t.Errorf("second Init() error = %v, expected ErrAlreadyInitialized", err)
	}
	if n, c := alloc.TagStats(memory.TagInput); n == 0 || c != 1 {
		t.Errorf("TagInput = (%d, %d), expected one block", n, c)
	}

	s.Kill()
	if n, c := alloc.TagStats(memory.TagInput); n != 0 || c != 0 {
		t.Errorf("TagInput after Kill = (%d, %d), expected (0, 0)", n, c)
	}
	s.Kill()
}

func TestSystem_UninitializedDefaults(t *testing.T) {
	s := New(nil)

	s.ProcessKey(key.A, true)
	s.ProcessMouseButton(key.ButtonLeft, true)
	s.ProcessMouseMove(10, 10)
	s.Update()

	if s.KeyDown(key.A) || s.WasKeyDown(key.A) {
		t.Error("down queries should be false when uninitialized")
	}
	if !s.KeyUp(key.A) || !s.WasKeyUp(key.A) {
		t.Error("up queries should be true when uninitialized")
	}
	if s.ButtonDown(key.ButtonLeft) || s.WasButtonDown(key.ButtonLeft) {
		t.Error("button down queries should be false when uninitialized")
	}
	if !s.ButtonUp(key.ButtonLeft) || !s.WasButtonUp(key.ButtonLeft) {
		t.Error("button up queries should be true when uninitialized")
	}
	if x, y := s.MousePosition(); x != 0 || y != 0 {
		t.Errorf("MousePosition() = (%d, %d), expected (0, 0)", x, y)
	}
	if x, y := s.PreviousMousePosition(); x != 0 || y != 0 {
		t.Errorf("PreviousMousePosition() = (%d, %d), expected (0, 0)", x, y)
	}
	if s.Mods() != key.ModNone || s.WheelDelta() != 0 {
		t.Error("Mods/WheelDelta should be zero when uninitialized")
	}
}

func TestProcessKey_EdgeTriggered(t *testing.T) {
	s, c, _ := newTestSystem(t)

	s.ProcessKey(key.A, true)
	s.ProcessKey(key.A, true)
	if got := c.count(events.KeyPressed); got != 1 {
		t.Errorf("press events = %d, expected 1", got)
	}

	s.ProcessKey(key.A, false)
	s.ProcessKey(key.A, false)
	if got := c.count(events.KeyReleased); got != 1 {
		t.Errorf("release events = %d, expected 1", got)
	}
	if s.Stats().Keys != 2 {
		t.Errorf("Stats().Keys = %d, expected 2", s.Stats().Keys)
	}
}

func TestProcessKey_Payload(t *testing.T) {
	s, c, _ := newTestSystem(t)

	s.ProcessMods(key.ModCtrl | key.ModShift)
	s.ProcessKey(key.S, true)

	if len(c.payloads) != 1 {
		t.Fatalf("payloads = %d, expected 1", len(c.payloads))
	}
	got, ok := c.payloads[0].(events.KeyEvent)
	if !ok {
		t.Fatalf("payload type = %T, expected events.KeyEvent", c.payloads[0])
	}
	if got.Key != key.S || got.Mods != key.ModCtrl|key.ModShift {
		t.Errorf("payload = %+v", got)
	}
	if s.Mods() != key.ModCtrl|key.ModShift {
		t.Errorf("Mods() = %v", s.Mods())
	}
}

func TestProcessKey_OutOfRange(t *testing.T) {
	s, c, _ := newTestSystem(t)

	s.ProcessKey(key.Count, true)
	s.ProcessKey(key.Key(9999), true)
	if len(c.codes) != 0 {
		t.Errorf("out-of-range keys emitted %d events", len(c.codes))
	}
	if s.KeyDown(key.Count) {
		t.Error("KeyDown(Count) should be false")
	}
}

func TestUpdate_Snapshot(t *testing.T) {
	s, _, _ := newTestSystem(t)

	s.ProcessKey(key.Space, true)
	if !s.KeyDown(key.Space) || s.WasKeyDown(key.Space) {
		t.Fatal("before Update: down now, not down before")
	}
	if !s.KeyPressed(key.Space) {
		t.Error("KeyPressed should be true on the press frame")
	}

	s.Update()
	if !s.WasKeyDown(key.Space) {
		t.Error("after Update: WasKeyDown should reflect the pre-Update state")
	}
	if s.KeyPressed(key.Space) {
		t.Error("KeyPressed should be false once held")
	}

	s.ProcessKey(key.Space, false)
	if !s.WasKeyDown(key.Space) || s.KeyDown(key.Space) {
		t.Error("release after Update must not change the previous snapshot")
	}
	if !s.KeyReleased(key.Space) {
		t.Error("KeyReleased should be true on the release frame")
	}

	s.Update()
	if !s.WasKeyUp(key.Space) {
		t.Error("WasKeyUp should be true after the release frame")
	}
}

func TestProcessMouseButton(t *testing.T) {
	s, c, _ := newTestSystem(t)

	s.ProcessMouseMove(4, 5)
	s.ProcessMouseButton(key.ButtonRight, true)
	s.ProcessMouseButton(key.ButtonRight, true)
	s.ProcessMouseButton(key.ButtonRight, false)
	s.ProcessMouseButton(key.ButtonCount, true)

	if got := c.count(events.ButtonPressed); got != 1 {
		t.Errorf("button press events = %d, expected 1", got)
	}
	if got := c.count(events.ButtonReleased); got != 1 {
		t.Errorf("button release events = %d, expected 1", got)
	}

	for i, code := range c.codes {
		if code == events.ButtonPressed {
			p := c.payloads[i].(events.ButtonEvent)
			if p.Button != key.ButtonRight || p.X != 4 || p.Y != 5 {
				t.Errorf("payload = %+v", p)
			}
		}
	}
}

func TestProcessMouseButton_Snapshot(t *testing.T) {
	s, _, _ := newTestSystem(t)

	s.ProcessMouseButton(key.ButtonLeft, true)
	if !s.ButtonDown(key.ButtonLeft) || !s.WasButtonUp(key.ButtonLeft) {
		t.Error("button should be down now and up before")
	}
	s.Update()
	if !s.WasButtonDown(key.ButtonLeft) {
		t.Error("WasButtonDown should be true after Update")
	}
	s.ProcessMouseButton(key.ButtonLeft, false)
	if !s.ButtonUp(key.ButtonLeft) || !s.WasButtonDown(key.ButtonLeft) {
		t.Error("release should only change current")
	}
}

func TestProcessMouseMove(t *testing.T) {
	s, c, _ := newTestSystem(t)

	s.ProcessMouseMove(10, 20)
	s.ProcessMouseMove(10, 20)
	if got := c.count(events.MouseMoved); got != 1 {
		t.Errorf("move events = %d, expected 1", got)
	}

	s.Update()
	s.ProcessMouseMove(-3, 20)

	if x, y := s.MousePosition(); x != -3 || y != 20 {
		t.Errorf("MousePosition() = (%d, %d), expected (-3, 20)", x, y)
	}
	if x, y := s.PreviousMousePosition(); x != 10 || y != 20 {
		t.Errorf("PreviousMousePosition() = (%d, %d), expected (10, 20)", x, y)
	}
}

func TestProcessMouseWheel(t *testing.T) {
	s, c, _ := newTestSystem(t)

	s.ProcessMouseWheel(0)
	if len(c.codes) != 0 {
		t.Error("zero wheel delta should not emit")
	}

	s.ProcessMouseWheel(1)
	s.ProcessMouseWheel(1)
	if got := c.count(events.MouseWheel); got != 2 {
		t.Errorf("wheel events = %d, expected 2", got)
	}
	if s.WheelDelta() != 2 {
		t.Errorf("WheelDelta() = %d, expected 2", s.WheelDelta())
	}

	s.Update()
	if s.WheelDelta() != 0 {
		t.Errorf("WheelDelta() after Update = %d, expected 0", s.WheelDelta())
	}
	if s.Previous().Wheel != 2 {
		t.Errorf("previous wheel = %d, expected 2", s.Previous().Wheel)
	}
}

func TestClampWheel(t *testing.T) {
	tests := []struct {
		in   int
		want int8
	}{
		{0, 0},
		{200, 127},
		{-200, -128},
		{-5, -5},
	}
	for _, tt := range tests {
		if got := clampWheel(tt.in); got != tt.want {
			t.Errorf("clampWheel(%d) = %d, expected %d", tt.in, got, tt.want)
		}
	}
}

func TestSystem_NoBus(t *testing.T) {
	s := New(nil)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer s.Kill()

	s.ProcessKey(key.Escape, true)
	if !s.KeyDown(key.Escape) {
		t.Error("state should be tracked without a bus")
	}
}

func TestKeyName(t *testing.T) {
	if KeyName(key.Escape) != "ESCAPE" {
		t.Errorf("KeyName(Escape) = %q", KeyName(key.Escape))
	}
	if KeyName(key.Key(4000)) != "UNKNOWN" {
		t.Errorf("KeyName(4000) = %q", KeyName(key.Key(4000)))
	}
}
