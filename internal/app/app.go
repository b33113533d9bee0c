// Package app provides the application lifecycle: it owns the allocator,
// input system, event bus and platform window, sequences their
// initialization and shutdown, and drives a Game from the frame loop.
//
// The loop is single-threaded and unthrottled. Each frame pumps the
// platform, updates and renders the game unless suspended, then advances the
// input snapshot exactly once.
package app

import (
	"context"
	"io"
	"time"

	"github.com/dshills/nightloop/internal/config"
	"github.com/dshills/nightloop/internal/event"
	"github.com/dshills/nightloop/internal/input"
	"github.com/dshills/nightloop/internal/logging"
	"github.com/dshills/nightloop/internal/memory"
	"github.com/dshills/nightloop/internal/platform"
)

// State is the lifecycle state of an Application.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateRunning
	StateSuspended
	StateShuttingDown
	StateTerminated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	case StateShuttingDown:
		return "shutting down"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Game is the set of callbacks the application drives, plus the window it
// asks for and an opaque state value owned by the game.
//
// A non-nil error from Init, Update or Render is a failure. If State
// implements io.Closer it is closed at shutdown.
type Game struct {
	Name   string
	Width  uint32
	Height uint32

	State any

	Init   func(app *Application) error
	Update func(app *Application, delta time.Duration) error
	Render func(app *Application, delta time.Duration) error
	Resize func(app *Application, width, height uint32)
}

// complete reports whether every callback is set.
func (g *Game) complete() bool {
	return g != nil && g.Init != nil && g.Update != nil && g.Render != nil && g.Resize != nil
}

// Application is the engine runtime.
type Application struct {
	game        *Game
	logger      *logging.Logger
	now         func() time.Time
	budget      uint64
	pauseOnBlur bool

	// ctx ends the loop when done; frameLimit ends it after that frame.
	ctx        context.Context
	frameLimit uint64
	pinLevel   bool

	alloc    *memory.Allocator
	input    *input.System
	bus      *event.Bus
	platform platform.Platform
	sink     *sink

	configPath string
	watcher    *config.Watcher

	// self identifies the application's own bus registrations.
	self     event.Recipient
	handlers []subscription

	state         State
	initialized   bool
	running       bool
	suspended     bool
	minimized     bool
	width, height uint32

	metrics Metrics
	frame   uint64
	last    time.Time
	fatal   error
}

// Option configures an Application.
type Option func(*options)

type options struct {
	logger      *logging.Logger
	platform    platform.Platform
	budget      uint64
	validation  bool
	now         func() time.Time
	configPath  string
	pauseOnBlur bool
	ctx         context.Context
	frameLimit  uint64
	pinLevel    bool
}

// WithLogger sets the logger shared by every subsystem.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPlatform sets the platform. The default is a tcell terminal.
func WithPlatform(p platform.Platform) Option {
	return func(o *options) {
		if p != nil {
			o.platform = p
		}
	}
}

// WithBudget sets the advisory memory budget in bytes.
func WithBudget(bytes uint64) Option {
	return func(o *options) {
		o.budget = bytes
	}
}

// WithValidation enables invariant checks in the allocator and containers.
func WithValidation(enabled bool) Option {
	return func(o *options) {
		o.validation = enabled
	}
}

// WithClock sets the time source used for frame deltas and metrics.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithConfigFile watches path and applies changes while running.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configPath = path
	}
}

// WithPauseOnBlur suspends the game while the window is unfocused.
func WithPauseOnBlur(enabled bool) Option {
	return func(o *options) {
		o.pauseOnBlur = enabled
	}
}

// WithContext stops the loop once ctx is done, checked at the start of every
// frame whether or not the game is suspended.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithFrameLimit stops the loop after frame n. Suspended frames count.
// Zero means no limit.
func WithFrameLimit(n uint64) Option {
	return func(o *options) {
		o.frameLimit = n
	}
}

// WithPinnedLogLevel keeps the logger's level across config reloads, for a
// level set on the command line.
func WithPinnedLogLevel(pinned bool) Option {
	return func(o *options) {
		o.pinLevel = pinned
	}
}

// DefaultBudget is the advisory memory budget used when none is set.
const DefaultBudget = 64 * memory.MiB

// New creates an application for game. Nothing is started until Init.
func New(game *Game, opts ...Option) *Application {
	o := options{
		logger:      logging.Discard(),
		budget:      DefaultBudget,
		now:         time.Now,
		pauseOnBlur: true,
		ctx:         context.Background(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.platform == nil {
		o.platform = platform.NewTerminal(platform.WithTerminalLogger(o.logger))
	}

	allocOpts := []memory.Option{
		memory.WithLogger(o.logger),
		memory.WithValidation(o.validation),
	}
	if bp, ok := o.platform.(platform.BackingProvider); ok && bp.Backing() != nil {
		allocOpts = append(allocOpts, memory.WithBacking(bp.Backing()))
	}
	alloc := memory.New(allocOpts...)
	bus := event.New(alloc, event.WithLogger(o.logger))

	a := &Application{
		game:        game,
		logger:      o.logger.WithComponent("app"),
		now:         o.now,
		budget:      o.budget,
		pauseOnBlur: o.pauseOnBlur,
		ctx:         o.ctx,
		frameLimit:  o.frameLimit,
		pinLevel:    o.pinLevel,
		alloc:       alloc,
		bus:         bus,
		input:       input.New(bus, input.WithAllocator(alloc), input.WithLogger(o.logger)),
		platform:    o.platform,
		configPath:  o.configPath,
		self:        event.NewRecipient(),
	}
	a.sink = &sink{app: a}
	return a
}

// Game returns the game the application drives.
func (a *Application) Game() *Game { return a.game }

// Logger returns the application logger.
func (a *Application) Logger() *logging.Logger { return a.logger }

// Allocator returns the allocator.
func (a *Application) Allocator() *memory.Allocator { return a.alloc }

// Input returns the input system.
func (a *Application) Input() *input.System { return a.input }

// Bus returns the event bus.
func (a *Application) Bus() *event.Bus { return a.bus }

// Platform returns the platform.
func (a *Application) Platform() platform.Platform { return a.platform }

// Surface returns the drawing surface, or nil when no window is open.
func (a *Application) Surface() platform.Surface { return a.platform.Surface() }

// Recipient returns the identity the application registers handlers under.
func (a *Application) Recipient() event.Recipient { return a.self }

// State returns the lifecycle state.
func (a *Application) State() State { return a.state }

// Size returns the current window size.
func (a *Application) Size() (width, height uint32) { return a.width, a.height }

// Frame returns the number of the frame being run, counting from 1.
func (a *Application) Frame() uint64 { return a.frame }

// Metrics returns frame metrics for the current or last run.
func (a *Application) Metrics() MetricsSnapshot { return a.metrics.Snapshot() }

// Suspend stops game updates and rendering. Input is still pumped.
func (a *Application) Suspend() {
	if a.state != StateRunning {
		return
	}
	a.suspended = true
	a.state = StateSuspended
	a.logger.Debug("suspended")
}

// Resume restarts game updates. The next delta is measured from now.
func (a *Application) Resume() {
	if a.state != StateSuspended {
		return
	}
	a.suspended = false
	a.state = StateRunning
	a.last = a.now()
	a.logger.Debug("resumed")
}

// Quit asks the loop to stop by emitting a quit event. If no handler
// consumes it the loop is stopped directly.
func (a *Application) Quit(reason string) {
	if !a.running {
		return
	}
	if !publishQuit(a, reason) {
		a.running = false
	}
}

// releaseGame drops the game's state value, closing it when possible.
func (a *Application) releaseGame() {
	if a.game == nil || a.game.State == nil {
		return
	}
	if c, ok := a.game.State.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.logger.Warn("releasing game state: %v", err)
		}
	}
	a.game.State = nil
}
