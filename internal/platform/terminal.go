package platform

import (
	"maps"
	"slices"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/nightloop/internal/input/key"
	"github.com/dshills/nightloop/internal/logging"
)

// DefaultReleaseAfter is how long a terminal key stays down without a repeat.
// It must exceed the typical auto-repeat delay (about 500ms) or held keys
// flicker up and down.
const DefaultReleaseAfter = 600 * time.Millisecond

// eventBuffer is the capacity of the reader-to-loop channel.
const eventBuffer = 256

// Terminal is a Platform backed by a tcell screen.
//
// Terminals report key presses and auto-repeats but never releases, so the
// Terminal keeps a key down while repeats keep arriving and releases it once
// none has been seen for ReleaseAfter. Ctrl+C requests quit.
type Terminal struct {
	screen       tcell.Screen
	logger       *logging.Logger
	releaseAfter time.Duration
	now          func() time.Time

	events chan tcell.Event
	quit   chan struct{}
	done   chan struct{}

	held          map[key.Key]time.Time
	mods          key.Mod
	width, height uint32
	surface       *screenSurface
	initialized   bool
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithScreen uses s instead of the process terminal.
func WithScreen(s tcell.Screen) TerminalOption {
	return func(t *Terminal) {
		t.screen = s
	}
}

// WithReleaseAfter sets the synthesized key-release delay.
func WithReleaseAfter(d time.Duration) TerminalOption {
	return func(t *Terminal) {
		if d > 0 {
			t.releaseAfter = d
		}
	}
}

// WithClock sets the time source used for key releases.
func WithClock(now func() time.Time) TerminalOption {
	return func(t *Terminal) {
		if now != nil {
			t.now = now
		}
	}
}

// WithTerminalLogger sets the logger.
func WithTerminalLogger(l *logging.Logger) TerminalOption {
	return func(t *Terminal) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTerminal creates a terminal platform. The screen is opened by Init.
func NewTerminal(opts ...TerminalOption) *Terminal {
	t := &Terminal{
		logger:       logging.Discard(),
		releaseAfter: DefaultReleaseAfter,
		now:          time.Now,
		held:         make(map[key.Key]time.Time),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.WithComponent("platform")
	return t
}

// Init opens the screen and starts the event reader. The terminal's own size
// wins over the requested one.
func (t *Terminal) Init(name string, width, height uint32) error {
	if t.initialized {
		return ErrAlreadyInitialized
	}
	if width == 0 || height == 0 {
		return ErrInvalidSize
	}
	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return err
	}

	t.screen.EnableMouse()
	t.screen.EnableFocus()
	t.screen.Clear()

	w, h := t.screen.Size()
	t.width, t.height = uint32(max(w, 1)), uint32(max(h, 1))
	if t.width != width || t.height != height {
		t.logger.Debug("requested %dx%d, terminal is %dx%d", width, height, t.width, t.height)
	}

	t.surface = &screenSurface{screen: t.screen}
	t.events = make(chan tcell.Event, eventBuffer)
	t.quit = make(chan struct{})
	t.done = make(chan struct{})
	go read(t.screen, t.events, t.quit, t.done)

	clear(t.held)
	t.mods = key.ModNone
	t.initialized = true
	t.logger.Info("terminal window %q %dx%d", name, t.width, t.height)
	return nil
}

// read forwards screen events until the screen is finalized or quit closes.
// PollEvent blocks; Fini unblocks it by returning nil.
func read(screen tcell.Screen, events chan<- tcell.Event, quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer close(events)
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-quit:
			return
		}
	}
}

// Pump drains pending events without blocking, then releases keys whose
// repeats have stopped.
func (t *Terminal) Pump(sink Sink) bool {
	if !t.initialized {
		return false
	}
	keepRunning := true
	for {
		select {
		case ev, ok := <-t.events:
			if !ok {
				return false
			}
			if !t.handle(ev, sink) {
				keepRunning = false
			}
		default:
			t.releaseStale(sink)
			return keepRunning
		}
	}
}

// Kill stops the reader and restores the terminal.
func (t *Terminal) Kill() {
	if !t.initialized {
		return
	}
	t.initialized = false
	close(t.quit)
	t.screen.Fini()
	<-t.done
	t.logger.Info("terminal window closed")
}

// Size returns the terminal size in cells.
func (t *Terminal) Size() (uint32, uint32) {
	return t.width, t.height
}

// Surface returns the screen surface, or nil before Init.
func (t *Terminal) Surface() Surface {
	if t.surface == nil {
		return nil
	}
	return t.surface
}

// handle converts one tcell event. It returns false on a quit request.
func (t *Terminal) handle(ev tcell.Event, sink Sink) bool {
	switch e := ev.(type) {
	case *tcell.EventKey:
		if isInterrupt(e) {
			return false
		}
		k, mods := convertKey(e)
		if mods != t.mods {
			t.mods = mods
			sink.ProcessMods(mods)
		}
		if k == key.Unknown {
			return true
		}
		if _, down := t.held[k]; !down {
			sink.ProcessKey(k, true)
		}
		t.held[k] = t.now()

	case *tcell.EventMouse:
		x, y := e.Position()
		sink.ProcessMouseMove(clampInt16(x), clampInt16(y))
		buttons := e.Buttons()
		for _, m := range mouseButtons {
			sink.ProcessMouseButton(m.button, buttons&m.mask != 0)
		}
		switch {
		case buttons&tcell.WheelUp != 0:
			sink.ProcessMouseWheel(1)
		case buttons&tcell.WheelDown != 0:
			sink.ProcessMouseWheel(-1)
		}

	case *tcell.EventResize:
		w, h := e.Size()
		if w <= 0 || h <= 0 {
			return true
		}
		if uint32(w) != t.width || uint32(h) != t.height {
			t.width, t.height = uint32(w), uint32(h)
			sink.Resize(t.width, t.height)
		}

	case *tcell.EventFocus:
		sink.Focus(e.Focused)
	}
	return true
}

// releaseStale releases keys with no report for releaseAfter, in key order.
func (t *Terminal) releaseStale(sink Sink) {
	if len(t.held) == 0 {
		return
	}
	now := t.now()
	for _, k := range slices.Sorted(maps.Keys(t.held)) {
		if now.Sub(t.held[k]) >= t.releaseAfter {
			delete(t.held, k)
			sink.ProcessKey(k, false)
		}
	}
	if len(t.held) == 0 && t.mods != key.ModNone {
		t.mods = key.ModNone
		sink.ProcessMods(key.ModNone)
	}
}

// Held returns the keys currently considered down, in key order.
func (t *Terminal) Held() []key.Key {
	return slices.Sorted(maps.Keys(t.held))
}

func isInterrupt(e *tcell.EventKey) bool {
	if e.Key() == tcell.KeyCtrlC {
		return true
	}
	return e.Key() == tcell.KeyRune && e.Modifiers()&tcell.ModCtrl != 0 &&
		(e.Rune() == 'c' || e.Rune() == 'C')
}

// namedKeys maps tcell's non-rune keys. The control-letter range overlaps
// Tab, Enter and Backspace, so those are listed here and matched first.
var namedKeys = map[tcell.Key]key.Key{
	tcell.KeyEscape:     key.Escape,
	tcell.KeyEnter:      key.Enter,
	tcell.KeyTab:        key.Tab,
	tcell.KeyBackspace:  key.Backspace,
	tcell.KeyBackspace2: key.Backspace,
	tcell.KeyDelete:     key.Delete,
	tcell.KeyInsert:     key.Insert,
	tcell.KeyHome:       key.Home,
	tcell.KeyEnd:        key.End,
	tcell.KeyPgUp:       key.PageUp,
	tcell.KeyPgDn:       key.PageDown,
	tcell.KeyUp:         key.Up,
	tcell.KeyDown:       key.Down,
	tcell.KeyLeft:       key.Left,
	tcell.KeyRight:      key.Right,
	tcell.KeyF1:         key.F1,
	tcell.KeyF2:         key.F2,
	tcell.KeyF3:         key.F3,
	tcell.KeyF4:         key.F4,
	tcell.KeyF5:         key.F5,
	tcell.KeyF6:         key.F6,
	tcell.KeyF7:         key.F7,
	tcell.KeyF8:         key.F8,
	tcell.KeyF9:         key.F9,
	tcell.KeyF10:        key.F10,
	tcell.KeyF11:        key.F11,
	tcell.KeyF12:        key.F12,
}

// convertKey converts a tcell key event to a key and modifier mask.
func convertKey(e *tcell.EventKey) (key.Key, key.Mod) {
	mods := convertMod(e.Modifiers())

	if e.Key() == tcell.KeyRune {
		k, shifted := key.FromRune(e.Rune())
		if shifted {
			mods = mods.With(key.ModShift)
		}
		return k, mods
	}
	if k, ok := namedKeys[e.Key()]; ok {
		return k, mods
	}
	if e.Key() >= tcell.KeyCtrlA && e.Key() <= tcell.KeyCtrlZ {
		return key.A + key.Key(e.Key()-tcell.KeyCtrlA), mods.With(key.ModCtrl)
	}
	return key.Unknown, mods
}

// convertMod converts a tcell modifier mask.
func convertMod(m tcell.ModMask) key.Mod {
	var result key.Mod
	if m&tcell.ModShift != 0 {
		result |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= key.ModSuper
	}
	return result
}

var mouseButtons = [key.ButtonCount]struct {
	button key.Button
	mask   tcell.ButtonMask
}{
	{key.ButtonLeft, tcell.ButtonPrimary},
	{key.ButtonMiddle, tcell.ButtonMiddle},
	{key.ButtonRight, tcell.ButtonSecondary},
}

// screenSurface draws on a tcell screen.
type screenSurface struct {
	screen tcell.Screen
}

func (s *screenSurface) Clear() {
	s.screen.Clear()
}

func (s *screenSurface) DrawText(x, y int, text string, fg, bg colorful.Color) {
	style := tcell.StyleDefault.Foreground(tcellColor(fg)).Background(tcellColor(bg))
	for _, r := range text {
		s.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (s *screenSurface) Present() {
	s.screen.Show()
}

func (s *screenSurface) Size() (int, int) {
	return s.screen.Size()
}

// tcellColor converts a color, mapping the zero color to the terminal default.
func tcellColor(c colorful.Color) tcell.Color {
	if IsDefault(c) {
		return tcell.ColorDefault
	}
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
