package app

import (
	"errors"

	"github.com/dshills/nightloop/internal/event"
	"github.com/dshills/nightloop/internal/event/events"
	"github.com/dshills/nightloop/internal/input/key"
)

// errSubscribe is returned when the bus rejects one of the application's
// own handlers.
var errSubscribe = errors.New("event bus rejected application handler")

// subscription remembers a registration so it can be undone.
type subscription struct {
	code    event.Code
	handler event.Handler
}

// subscribe registers the quit and key handlers. On failure nothing stays
// registered.
func (a *Application) subscribe() error {
	handlers := []subscription{
		{events.Quit, event.Subscribe(a.bus, events.QuitTopic, a.self, event.TypedFunc[events.QuitEvent](a.onQuit))},
		{events.KeyPressed, event.Subscribe(a.bus, events.KeyPressedTopic, a.self, event.TypedFunc[events.KeyEvent](a.onKey))},
		{events.KeyReleased, event.Subscribe(a.bus, events.KeyReleasedTopic, a.self, event.TypedFunc[events.KeyEvent](a.onKey))},
	}

	a.handlers = a.handlers[:0]
	failed := false
	for _, h := range handlers {
		if h.handler == nil {
			failed = true
			continue
		}
		a.handlers = append(a.handlers, h)
	}
	if failed {
		a.unsubscribe()
		return errSubscribe
	}
	return nil
}

// unsubscribe removes every handler registered by subscribe.
func (a *Application) unsubscribe() {
	for _, h := range a.handlers {
		if !a.bus.Unregister(h.code, a.self, h.handler) {
			a.logger.Warn("handler for %s was already unregistered", events.Name(h.code))
		}
	}
	a.handlers = a.handlers[:0]
}

// onQuit stops the loop.
func (a *Application) onQuit(e event.Event[events.QuitEvent]) bool {
	a.logger.Info("quit requested: %s", e.Payload.Reason)
	a.running = false
	return true
}

// onKey turns an Escape press into a quit event. Other keys are left for
// later registrants.
func (a *Application) onKey(e event.Event[events.KeyEvent]) bool {
	if e.Code != events.KeyPressed {
		a.logger.Trace("key %s released", e.Payload.Key)
		return false
	}
	if e.Payload.Key == key.Escape {
		publishQuit(a, "escape")
		return true
	}
	a.logger.Trace("key %s pressed", e.Payload.Key)
	return false
}

// publishQuit emits a quit event from the application.
func publishQuit(a *Application, reason string) bool {
	return event.Publish(a.bus, events.QuitTopic, a.self, events.QuitEvent{Reason: reason})
}

// sink forwards platform reports to the input system and the application.
type sink struct {
	app *Application
}

func (s *sink) ProcessKey(k key.Key, pressed bool) { s.app.input.ProcessKey(k, pressed) }

func (s *sink) ProcessMods(mods key.Mod) { s.app.input.ProcessMods(mods) }

func (s *sink) ProcessMouseButton(b key.Button, pressed bool) {
	s.app.input.ProcessMouseButton(b, pressed)
}

func (s *sink) ProcessMouseMove(x, y int16) { s.app.input.ProcessMouseMove(x, y) }

func (s *sink) ProcessMouseWheel(delta int8) { s.app.input.ProcessMouseWheel(delta) }

// Resize records the new size and tells the game. A zero dimension means the
// window was minimized, which suspends the game until it is restored.
func (s *sink) Resize(width, height uint32) {
	a := s.app
	if width == 0 || height == 0 {
		if !a.minimized {
			a.minimized = true
			a.Suspend()
		}
		return
	}
	if a.minimized {
		a.minimized = false
		a.Resume()
	}
	if width == a.width && height == a.height {
		return
	}
	a.width, a.height = width, height
	a.logger.Debug("resized to %dx%d", width, height)
	event.Publish(a.bus, events.ResizedTopic, a.self, events.ResizeEvent{Width: width, Height: height})
	a.game.Resize(a, width, height)
}

// Focus publishes the change and, with pause-on-blur, suspends or resumes.
func (s *sink) Focus(focused bool) {
	a := s.app
	event.Publish(a.bus, events.FocusChangedTopic, a.self, events.FocusEvent{Focused: focused})
	if !a.pauseOnBlur || a.minimized {
		return
	}
	if focused {
		a.Resume()
	} else {
		a.Suspend()
	}
}
