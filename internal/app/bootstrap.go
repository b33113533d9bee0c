package app

import (
	"github.com/dshills/nightloop/internal/config"
	"github.com/dshills/nightloop/internal/logging"
)

// bootstrapper initializes subsystems in dependency order and undoes the
// completed steps when a later one fails.
type bootstrapper struct {
	app       *Application
	initOrder []string
}

// initStep is one named initialization step.
type initStep struct {
	name string
	init func() error
}

// Init starts every subsystem in order: allocator, input, event bus,
// platform window, game Init, game Resize, then the application's own bus
// handlers. A failure stops the sequence, tears down what was started and
// returns an *InitError.
func (a *Application) Init() error {
	if a.initialized {
		return ErrAlreadyRunning
	}
	if !a.game.complete() {
		return ErrIncompleteGame
	}

	a.state = StateInitializing
	b := &bootstrapper{app: a, initOrder: make([]string, 0, 6)}
	if err := b.bootstrap(); err != nil {
		a.state = StateUninitialized
		a.logger.Error("%v", err)
		return err
	}

	a.initialized = true
	a.running = true
	a.suspended = false
	a.minimized = false
	a.frame = 0
	a.fatal = nil
	a.metrics.Reset()
	a.state = StateRunning
	a.logger.Info("application %q initialized at %dx%d", a.game.Name, a.width, a.height)
	if a.logger.Enabled(logging.LevelDebug) {
		a.logger.Debug("memory usage after init:\n%s", a.alloc.Report())
	}
	return nil
}

func (b *bootstrapper) bootstrap() error {
	a := b.app
	steps := []initStep{
		{"memory", func() error { return a.alloc.Init(a.budget) }},
		{"input", a.input.Init},
		{"event bus", a.bus.Init},
		{"platform", b.initPlatform},
		{"game", func() error { return a.game.Init(a) }},
		{"handlers", b.initHandlers},
	}

	for _, step := range steps {
		if err := step.init(); err != nil {
			b.cleanup()
			return &InitError{Component: step.name, Err: err}
		}
		b.initOrder = append(b.initOrder, step.name)
	}

	b.initWatcher()
	return nil
}

// initPlatform opens the window and reports its size to the game.
func (b *bootstrapper) initPlatform() error {
	a := b.app
	if err := a.platform.Init(a.game.Name, a.game.Width, a.game.Height); err != nil {
		return err
	}
	a.width, a.height = a.platform.Size()
	return nil
}

// initHandlers reports the initial size to the game, then subscribes the
// application's quit and key handlers. They are registered after game Init,
// so a game handler for the same code sees events first.
func (b *bootstrapper) initHandlers() error {
	a := b.app
	a.game.Resize(a, a.width, a.height)
	return a.subscribe()
}

// initWatcher starts the config watcher. Failure only disables live reload.
func (b *bootstrapper) initWatcher() {
	a := b.app
	if a.configPath == "" {
		return
	}
	w, err := config.NewWatcher(a.configPath, config.WithWatcherLogger(a.logger))
	if err != nil {
		a.logger.Warn("config reload disabled: %v", err)
		return
	}
	a.watcher = w
}

// cleanup undoes the completed steps in reverse order.
func (b *bootstrapper) cleanup() {
	a := b.app
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		switch b.initOrder[i] {
		case "handlers":
			a.unsubscribe()
		case "game":
			a.releaseGame()
		case "platform":
			a.platform.Kill()
		case "event bus":
			a.bus.Kill()
		case "input":
			a.input.Kill()
		case "memory":
			a.alloc.Kill()
		}
	}
	b.initOrder = b.initOrder[:0]
}
