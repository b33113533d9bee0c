package input

import (
	"errors"

	"github.com/dshills/nightloop/internal/event"
	"github.com/dshills/nightloop/internal/event/events"
	"github.com/dshills/nightloop/internal/input/key"
	"github.com/dshills/nightloop/internal/logging"
	"github.com/dshills/nightloop/internal/memory"
)

// ErrAlreadyInitialized is returned when Init is called twice.
var ErrAlreadyInitialized = errors.New("input system is already initialized")

// Snapshot is the keyboard and mouse state at one point in time.
type Snapshot struct {
	Keys    [key.Count]bool
	Mods    key.Mod
	X, Y    int16
	Wheel   int8
	Buttons [key.ButtonCount]bool
}

// Stats counts the events the system has emitted.
type Stats struct {
	Keys    uint64
	Buttons uint64
	Moves   uint64
	Wheels  uint64
	Frames  uint64
}

// System is the input state machine.
type System struct {
	bus    *event.Bus
	alloc  *memory.Allocator
	logger *logging.Logger

	// snapshots holds current at 0 and previous at 1.
	snapshots []Snapshot
	stats     Stats
}

// Option configures a System.
type Option func(*System)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *System) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAllocator sets the allocator the snapshots are accounted in.
func WithAllocator(a *memory.Allocator) Option {
	return func(s *System) {
		if a != nil {
			s.alloc = a
		}
	}
}

// New creates an input system that emits through bus. A nil bus disables
// emission; state tracking still works.
func New(bus *event.Bus, opts ...Option) *System {
	s := &System{
		bus:    bus,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.alloc == nil {
		s.alloc = memory.New()
	}
	s.logger = s.logger.WithComponent("input")
	return s
}

// Init allocates zeroed snapshots.
func (s *System) Init() error {
	if s.snapshots != nil {
		return ErrAlreadyInitialized
	}
	s.snapshots = memory.AllocSlice[Snapshot](s.alloc, 2, memory.TagInput)
	s.stats = Stats{}
	s.logger.Info("input system init")
	return nil
}

// Kill releases the snapshots. Queries return defaults afterwards.
func (s *System) Kill() {
	if s.snapshots == nil {
		return
	}
	memory.FreeSlice(s.alloc, s.snapshots, 2, memory.TagInput)
	s.snapshots = nil
	s.logger.Info("input system kill")
}

// Initialized reports whether Init has been called without a matching Kill.
func (s *System) Initialized() bool {
	return s.snapshots != nil
}

func (s *System) current() *Snapshot  { return &s.snapshots[0] }
func (s *System) previous() *Snapshot { return &s.snapshots[1] }

// Update advances the frame: previous becomes a copy of current.
func (s *System) Update() {
	if s.snapshots == nil {
		return
	}
	*s.previous() = *s.current()
	s.current().Wheel = 0
	s.stats.Frames++
}

// ProcessKey records a key report and emits KeyPressed or KeyReleased if the
// key changed state.
func (s *System) ProcessKey(k key.Key, pressed bool) {
	if s.snapshots == nil {
		return
	}
	if k >= key.Count {
		s.logger.Trace("ignoring out-of-range key %d", k)
		return
	}
	cur := s.current()
	if cur.Keys[k] == pressed {
		return
	}
	cur.Keys[k] = pressed
	s.stats.Keys++

	payload := events.KeyEvent{Key: k, Mods: cur.Mods}
	if pressed {
		publish(s, events.KeyPressedTopic, payload)
	} else {
		publish(s, events.KeyReleasedTopic, payload)
	}
}

// ProcessMods records the modifier mask. It emits nothing.
func (s *System) ProcessMods(mods key.Mod) {
	if s.snapshots == nil {
		return
	}
	s.current().Mods = mods
}

// ProcessMouseButton records a button report and emits ButtonPressed or
// ButtonReleased if the button changed state.
func (s *System) ProcessMouseButton(b key.Button, pressed bool) {
	if s.snapshots == nil {
		return
	}
	if !b.Valid() {
		s.logger.Trace("ignoring out-of-range button %d", b)
		return
	}
	cur := s.current()
	if cur.Buttons[b] == pressed {
		return
	}
	cur.Buttons[b] = pressed
	s.stats.Buttons++

	payload := events.ButtonEvent{Button: b, X: cur.X, Y: cur.Y}
	if pressed {
		publish(s, events.ButtonPressedTopic, payload)
	} else {
		publish(s, events.ButtonReleasedTopic, payload)
	}
}

// ProcessMouseMove records the pointer position and emits MouseMoved if it
// changed.
func (s *System) ProcessMouseMove(x, y int16) {
	if s.snapshots == nil {
		return
	}
	cur := s.current()
	if cur.X == x && cur.Y == y {
		return
	}
	cur.X, cur.Y = x, y
	s.stats.Moves++
	publish(s, events.MouseMovedTopic, events.MoveEvent{X: x, Y: y})
}

// ProcessMouseWheel accumulates a wheel delta for this frame and emits
// MouseWheel. Zero deltas are ignored.
func (s *System) ProcessMouseWheel(delta int8) {
	if s.snapshots == nil || delta == 0 {
		return
	}
	cur := s.current()
	cur.Wheel = clampWheel(int(cur.Wheel) + int(delta))
	s.stats.Wheels++
	publish(s, events.MouseWheelTopic, events.WheelEvent{Delta: delta})
}

func clampWheel(v int) int8 {
	switch {
	case v > 127:
		return 127
	case v < -128:
		return -128
	}
	return int8(v)
}

// publish emits on the bus when one is attached and running.
func publish[T any](s *System, t event.Topic[T], payload T) {
	if s.bus == nil || !s.bus.Initialized() {
		return
	}
	event.Publish(s.bus, t, event.Recipient{}, payload)
}

// KeyDown reports whether k is down this frame.
func (s *System) KeyDown(k key.Key) bool {
	if s.snapshots == nil || k >= key.Count {
		return false
	}
	return s.current().Keys[k]
}

// KeyUp reports whether k is up this frame.
func (s *System) KeyUp(k key.Key) bool {
	if s.snapshots == nil || k >= key.Count {
		return true
	}
	return !s.current().Keys[k]
}

// WasKeyDown reports whether k was down at the end of the last frame.
func (s *System) WasKeyDown(k key.Key) bool {
	if s.snapshots == nil || k >= key.Count {
		return false
	}
	return s.previous().Keys[k]
}

// WasKeyUp reports whether k was up at the end of the last frame.
func (s *System) WasKeyUp(k key.Key) bool {
	if s.snapshots == nil || k >= key.Count {
		return true
	}
	return !s.previous().Keys[k]
}

// KeyPressed reports whether k went down since the last frame.
func (s *System) KeyPressed(k key.Key) bool {
	return s.KeyDown(k) && s.WasKeyUp(k)
}

// KeyReleased reports whether k went up since the last frame.
func (s *System) KeyReleased(k key.Key) bool {
	return s.KeyUp(k) && s.WasKeyDown(k)
}

// ButtonDown reports whether b is down this frame.
func (s *System) ButtonDown(b key.Button) bool {
	if s.snapshots == nil || !b.Valid() {
		return false
	}
	return s.current().Buttons[b]
}

// ButtonUp reports whether b is up this frame.
func (s *System) ButtonUp(b key.Button) bool {
	if s.snapshots == nil || !b.Valid() {
		return true
	}
	return !s.current().Buttons[b]
}

// WasButtonDown reports whether b was down at the end of the last frame.
func (s *System) WasButtonDown(b key.Button) bool {
	if s.snapshots == nil || !b.Valid() {
		return false
	}
	return s.previous().Buttons[b]
}

// WasButtonUp reports whether b was up at the end of the last frame.
func (s *System) WasButtonUp(b key.Button) bool {
	if s.snapshots == nil || !b.Valid() {
		return true
	}
	return !s.previous().Buttons[b]
}

// MousePosition returns the current pointer position.
func (s *System) MousePosition() (x, y int32) {
	if s.snapshots == nil {
		return 0, 0
	}
	cur := s.current()
	return int32(cur.X), int32(cur.Y)
}

// PreviousMousePosition returns the pointer position at the end of the last
// frame.
func (s *System) PreviousMousePosition() (x, y int32) {
	if s.snapshots == nil {
		return 0, 0
	}
	prev := s.previous()
	return int32(prev.X), int32(prev.Y)
}

// Mods returns the current modifier mask.
func (s *System) Mods() key.Mod {
	if s.snapshots == nil {
		return key.ModNone
	}
	return s.current().Mods
}

// WheelDelta returns the wheel movement accumulated this frame.
func (s *System) WheelDelta() int8 {
	if s.snapshots == nil {
		return 0
	}
	return s.current().Wheel
}

// Current returns a copy of the current snapshot.
func (s *System) Current() Snapshot {
	if s.snapshots == nil {
		return Snapshot{}
	}
	return *s.current()
}

// Previous returns a copy of the previous snapshot.
func (s *System) Previous() Snapshot {
	if s.snapshots == nil {
		return Snapshot{}
	}
	return *s.previous()
}

// Stats returns emission counters.
func (s *System) Stats() Stats {
	return s.stats
}

// KeyName returns the name of k, or "UNKNOWN".
func KeyName(k key.Key) string {
	return k.String()
}
