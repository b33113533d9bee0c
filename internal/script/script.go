// Package script builds games from Lua scripts.
//
// A script defines global callbacks:
//
//	function init() end            -- once, after the window opens
//	function update(dt) end        -- every frame, dt in seconds
//	function render(dt) end        -- every frame, after update
//	function resize(w, h) end      -- on window size changes
//
// Only update is required. Raising an error or returning false from init,
// update or render is a failure that stops the engine. An optional global
// table window = {name = "...", width = 80, height = 24} sets the window.
//
// Scripts run with the base, table, string and math libraries only, plus the
// input, engine, screen and log modules.
package script

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/nightloop/internal/app"
	"github.com/dshills/nightloop/internal/logging"
)

// Default window size when the script sets none.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// Option configures a script.
type Option func(*options)

type options struct {
	logger      *logging.Logger
	callTimeout time.Duration
}

// WithLogger sets the logger used by the log module and print.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCallTimeout bounds each callback invocation.
func WithCallTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.callTimeout = d
		}
	}
}

// Script is a loaded Lua game. It is the Game's State value, so the
// application closes it at shutdown.
type Script struct {
	name   string
	state  *State
	logger *logging.Logger

	// app is set by init; the modules refuse to run before that.
	app *app.Application
}

// Load reads the script at path and returns its game.
func Load(path string, opts ...Option) (*app.Game, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return LoadString(filepath.Base(path), string(src), opts...)
}

// LoadString runs source as a script called name and returns its game.
func LoadString(name, source string, opts ...Option) (*app.Game, error) {
	o := options{
		logger:      logging.Discard(),
		callTimeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Script{
		name:   name,
		state:  newState(o.callTimeout),
		logger: o.logger.WithComponent("script").WithField("script", name),
	}
	s.install()

	if err := s.state.DoString(name, source); err != nil {
		s.state.Close()
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	if !s.state.HasFunction("update") {
		s.state.Close()
		return nil, fmt.Errorf("%s: %w", name, ErrMissingUpdate)
	}

	g := &app.Game{
		Name:   name,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		State:  s,
		Init:   s.init,
		Update: s.update,
		Render: s.render,
		Resize: s.resize,
	}
	s.window(g)
	return g, nil
}

// window applies the optional window table.
func (s *Script) window(g *app.Game) {
	t, ok := s.state.L.GetGlobal("window").(*lua.LTable)
	if !ok {
		return
	}
	if v, ok := t.RawGetString("name").(lua.LString); ok && v != "" {
		g.Name = string(v)
	}
	if v, ok := t.RawGetString("width").(lua.LNumber); ok && v > 0 {
		g.Width = uint32(v)
	}
	if v, ok := t.RawGetString("height").(lua.LNumber); ok && v > 0 {
		g.Height = uint32(v)
	}
}

// Name returns the script name.
func (s *Script) Name() string { return s.name }

// Close releases the Lua state.
func (s *Script) Close() error {
	s.app = nil
	return s.state.Close()
}

func (s *Script) init(a *app.Application) error {
	s.app = a
	if !s.state.HasFunction("init") {
		return nil
	}
	return s.invoke("init")
}

func (s *Script) update(_ *app.Application, delta time.Duration) error {
	return s.invoke("update", lua.LNumber(delta.Seconds()))
}

func (s *Script) render(_ *app.Application, delta time.Duration) error {
	if !s.state.HasFunction("render") {
		return nil
	}
	return s.invoke("render", lua.LNumber(delta.Seconds()))
}

func (s *Script) resize(_ *app.Application, width, height uint32) {
	if !s.state.HasFunction("resize") {
		return
	}
	if err := s.invoke("resize", lua.LNumber(width), lua.LNumber(height)); err != nil {
		s.logger.Warn("%v", err)
	}
}

// invoke calls a callback. An error or a false first result is a failure.
func (s *Script) invoke(callback string, args ...lua.LValue) error {
	results, err := s.state.Call(callback, args...)
	if err != nil {
		return &CallbackError{Script: s.name, Callback: callback, Err: err}
	}
	if len(results) > 0 && results[0] == lua.LFalse {
		return &CallbackError{Script: s.name, Callback: callback}
	}
	return nil
}
