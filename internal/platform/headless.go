package platform

import (
	"github.com/dshills/nightloop/internal/input/key"
	"github.com/dshills/nightloop/internal/logging"
	"github.com/dshills/nightloop/internal/memory"
)

// Input is one scripted report delivered by a Headless platform.
type Input func(h *Headless, sink Sink)

// KeyInput reports k pressed or released.
func KeyInput(k key.Key, pressed bool) Input {
	return func(_ *Headless, sink Sink) { sink.ProcessKey(k, pressed) }
}

// ModsInput reports the modifier mask.
func ModsInput(mods key.Mod) Input {
	return func(_ *Headless, sink Sink) { sink.ProcessMods(mods) }
}

// ButtonInput reports a mouse button.
func ButtonInput(b key.Button, pressed bool) Input {
	return func(_ *Headless, sink Sink) { sink.ProcessMouseButton(b, pressed) }
}

// MoveInput reports the pointer position.
func MoveInput(x, y int16) Input {
	return func(_ *Headless, sink Sink) { sink.ProcessMouseMove(x, y) }
}

// WheelInput reports a wheel delta.
func WheelInput(delta int8) Input {
	return func(_ *Headless, sink Sink) { sink.ProcessMouseWheel(delta) }
}

// ResizeInput changes the window size and reports it.
func ResizeInput(width, height uint32) Input {
	return func(h *Headless, sink Sink) {
		h.width, h.height = width, height
		if h.surface != nil {
			h.surface.resize(int(width), int(height))
		}
		sink.Resize(width, height)
	}
}

// FocusInput reports focus gain or loss.
func FocusInput(focused bool) Input {
	return func(_ *Headless, sink Sink) { sink.Focus(focused) }
}

// CloseInput simulates the window being closed.
func CloseInput() Input {
	return func(h *Headless, _ Sink) { h.closed = true }
}

// Headless is a windowless platform driven by a script of inputs. It is used
// by tests and by --headless runs.
type Headless struct {
	logger  *logging.Logger
	backing memory.Backing
	limit   int
	initErr error

	name          string
	width, height uint32
	surface       *MemorySurface
	script        map[int][]Input
	pumps         int
	closed        bool
	initialized   bool
}

// HeadlessOption configures a Headless platform.
type HeadlessOption func(*Headless)

// WithFrameLimit lets n pumps succeed; the next one reports quit. Zero means
// no limit.
func WithFrameLimit(n int) HeadlessOption {
	return func(h *Headless) {
		if n >= 0 {
			h.limit = n
		}
	}
}

// WithHeadlessLogger sets the logger.
func WithHeadlessLogger(l *logging.Logger) HeadlessOption {
	return func(h *Headless) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithHeadlessBacking supplies raw memory for the allocator.
func WithHeadlessBacking(b memory.Backing) HeadlessOption {
	return func(h *Headless) {
		h.backing = b
	}
}

// WithInitError makes Init fail with err.
func WithInitError(err error) HeadlessOption {
	return func(h *Headless) {
		h.initErr = err
	}
}

// NewHeadless creates a headless platform.
func NewHeadless(opts ...HeadlessOption) *Headless {
	h := &Headless{
		logger: logging.Discard(),
		script: make(map[int][]Input),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.WithComponent("platform")
	return h
}

// At schedules inputs for the given pump, counting from 1.
func (h *Headless) At(pump int, inputs ...Input) *Headless {
	h.script[pump] = append(h.script[pump], inputs...)
	return h
}

// Next schedules inputs for the next pump.
func (h *Headless) Next(inputs ...Input) *Headless {
	return h.At(h.pumps+1, inputs...)
}

// Init opens the virtual window.
func (h *Headless) Init(name string, width, height uint32) error {
	if h.initialized {
		return ErrAlreadyInitialized
	}
	if h.initErr != nil {
		return h.initErr
	}
	if width == 0 || height == 0 {
		return ErrInvalidSize
	}
	h.name = name
	h.width, h.height = width, height
	h.surface = NewMemorySurface(int(width), int(height))
	h.closed = false
	h.initialized = true
	h.logger.Info("headless window %q %dx%d", name, width, height)
	return nil
}

// Pump delivers the inputs scheduled for this pump.
func (h *Headless) Pump(sink Sink) bool {
	if !h.initialized {
		return false
	}
	h.pumps++
	for _, in := range h.script[h.pumps] {
		in(h, sink)
	}
	delete(h.script, h.pumps)

	if h.closed {
		return false
	}
	if h.limit > 0 && h.pumps > h.limit {
		h.logger.Debug("frame limit %d reached", h.limit)
		return false
	}
	return true
}

// Kill closes the virtual window.
func (h *Headless) Kill() {
	if !h.initialized {
		return
	}
	h.initialized = false
	h.logger.Info("headless window closed after %d pumps", h.pumps)
}

// Size returns the window size.
func (h *Headless) Size() (uint32, uint32) {
	return h.width, h.height
}

// Surface returns the in-memory surface.
func (h *Headless) Surface() Surface {
	if h.surface == nil {
		return nil
	}
	return h.surface
}

// Memory returns the in-memory surface for inspection.
func (h *Headless) Memory() *MemorySurface {
	return h.surface
}

// Name returns the window name passed to Init.
func (h *Headless) Name() string {
	return h.name
}

// Pumps returns the number of Pump calls so far.
func (h *Headless) Pumps() int {
	return h.pumps
}

// Initialized reports whether the window is open.
func (h *Headless) Initialized() bool {
	return h.initialized
}

// Backing returns the backing supplied with WithHeadlessBacking, or nil.
func (h *Headless) Backing() memory.Backing {
	return h.backing
}
