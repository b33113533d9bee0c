package app

import (
	"github.com/dshills/nightloop/internal/config"
	"github.com/dshills/nightloop/internal/event"
	"github.com/dshills/nightloop/internal/event/events"
	"github.com/dshills/nightloop/internal/logging"
)

// Run drives the frame loop until a quit, a closed window or a game failure,
// then always runs the shutdown sequence. It returns a *FatalError if a game
// callback failed.
func (a *Application) Run() error {
	if !a.initialized || a.state == StateShuttingDown {
		return ErrNotRunning
	}

	a.last = a.now()
	for a.running {
		a.runFrame()
	}

	a.shutdown()
	return a.fatal
}

// runFrame runs one iteration of the loop.
func (a *Application) runFrame() {
	if err := a.ctx.Err(); err != nil {
		a.stop("interrupted")
		return
	}

	start := a.now()
	a.frame++

	if !a.platform.Pump(a.sink) {
		a.logger.Info("platform requested quit")
		a.running = false
		return
	}
	a.pollConfig()

	if a.suspended {
		a.metrics.RecordSuspended()
	} else {
		now := a.now()
		delta := now.Sub(a.last)
		a.last = now

		if err := a.game.Update(a, delta); err != nil {
			a.fail("update", err)
			return
		}
		if err := a.game.Render(a, delta); err != nil {
			a.fail("render", err)
			return
		}
	}

	a.input.Update()
	a.metrics.RecordFrame(a.now().Sub(start))

	if a.frameLimit > 0 && a.frame >= a.frameLimit {
		a.stop("frame limit")
	}
}

// stop emits a quit for reason and ends the loop even if a game handler
// consumes it.
func (a *Application) stop(reason string) {
	a.Quit(reason)
	a.running = false
}

// fail records a fatal game failure and stops the loop.
func (a *Application) fail(phase string, err error) {
	a.metrics.RecordFailure(phase)
	a.fatal = &FatalError{Phase: phase, Frame: a.frame, Err: err}
	a.logger.Fatal("%v", a.fatal)
	a.running = false
}

// pollConfig applies a changed config file: the log level is re-read unless
// pinned, and ConfigChanged is emitted. An invalid file is reported and ignored.
func (a *Application) pollConfig() {
	if a.watcher == nil || !a.watcher.Poll() {
		return
	}
	cfg, err := config.Load(a.watcher.Path())
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		a.logger.Warn("ignoring config change: %v", err)
		return
	}
	if !a.pinLevel {
		a.logger.SetLevel(cfg.LogLevel())
	}
	a.logger.Info("config reloaded from %s", a.watcher.Path())
	event.Publish(a.bus, events.ConfigChangedTopic, a.self, events.ConfigEvent{Path: a.watcher.Path()})
}

// shutdown tears everything down in reverse order of Init: handlers,
// platform, event bus, input, game state, allocator.
func (a *Application) shutdown() {
	a.state = StateShuttingDown
	a.running = false

	a.unsubscribe()
	a.platform.Kill()
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.logger.Warn("closing config watcher: %v", err)
		}
		a.watcher = nil
	}
	a.bus.Kill()
	a.input.Kill()
	a.releaseGame()

	a.logger.Info("frame metrics: %s", a.metrics.Snapshot())
	if a.logger.Enabled(logging.LevelDebug) {
		a.logger.Debug("memory usage at shutdown:\n%s", a.alloc.Report())
	}
	a.alloc.Kill()

	a.initialized = false
	a.state = StateTerminated
	a.logger.Info("application terminated")
}
