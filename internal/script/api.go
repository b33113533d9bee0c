package script

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/nightloop/internal/app"
	"github.com/dshills/nightloop/internal/input"
	"github.com/dshills/nightloop/internal/input/key"
	"github.com/dshills/nightloop/internal/logging"
	"github.com/dshills/nightloop/internal/platform"
)

// install registers the engine modules and replaces print.
func (s *Script) install() {
	L := s.state.L
	modules := map[string]map[string]lua.LGFunction{
		"input": {
			"down":     s.keyQuery((*input.System).KeyDown),
			"pressed":  s.keyQuery((*input.System).KeyPressed),
			"released": s.keyQuery((*input.System).KeyReleased),
			"button":   s.inputButton,
			"mouse":    s.inputMouse,
			"wheel":    s.inputWheel,
			"mods":     s.inputMods,
		},
		"engine": {
			"quit":   s.engineQuit,
			"frame":  s.engineFrame,
			"size":   s.engineSize,
			"memory": s.engineMemory,
		},
		"screen": {
			"clear":   s.screenClear,
			"text":    s.screenText,
			"present": s.screenPresent,
			"size":    s.screenSize,
		},
		"log": {
			"trace": s.logAt((*logging.Logger).Trace),
			"debug": s.logAt((*logging.Logger).Debug),
			"info":  s.logAt((*logging.Logger).Info),
			"warn":  s.logAt((*logging.Logger).Warn),
			"error": s.logAt((*logging.Logger).Error),
		},
	}
	for name, funcs := range modules {
		L.SetGlobal(name, L.SetFuncs(L.NewTable(), funcs))
	}
	L.SetGlobal("print", L.NewFunction(s.print))
}

// application returns the running application or raises a Lua error.
func (s *Script) application(L *lua.LState) *app.Application {
	if s.app == nil {
		L.RaiseError("engine is not running")
	}
	return s.app
}

// keyQuery builds input.down(name) and its siblings.
func (s *Script) keyQuery(query func(*input.System, key.Key) bool) lua.LGFunction {
	return func(L *lua.LState) int {
		a := s.application(L)
		k, err := key.Parse(L.CheckString(1))
		if err != nil {
			L.ArgError(1, err.Error())
			return 0
		}
		L.Push(lua.LBool(query(a.Input(), k)))
		return 1
	}
}

// input.button(name) reports whether a mouse button is down.
func (s *Script) inputButton(L *lua.LState) int {
	a := s.application(L)
	b, err := key.ParseButton(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	L.Push(lua.LBool(a.Input().ButtonDown(b)))
	return 1
}

// input.mouse() returns the cursor position.
func (s *Script) inputMouse(L *lua.LState) int {
	x, y := s.application(L).Input().MousePosition()
	L.Push(lua.LNumber(x))
	L.Push(lua.LNumber(y))
	return 2
}

// input.wheel() returns this frame's wheel delta.
func (s *Script) inputWheel(L *lua.LState) int {
	L.Push(lua.LNumber(s.application(L).Input().WheelDelta()))
	return 1
}

// input.mods() returns the held modifiers, e.g. "Ctrl+Shift".
func (s *Script) inputMods(L *lua.LState) int {
	L.Push(lua.LString(s.application(L).Input().Mods().String()))
	return 1
}

// engine.quit([reason]) stops the loop after this frame.
func (s *Script) engineQuit(L *lua.LState) int {
	s.application(L).Quit(L.OptString(1, "script"))
	return 0
}

// engine.frame() returns the current frame number.
func (s *Script) engineFrame(L *lua.LState) int {
	L.Push(lua.LNumber(s.application(L).Frame()))
	return 1
}

// engine.size() returns the window size.
func (s *Script) engineSize(L *lua.LState) int {
	w, h := s.application(L).Size()
	L.Push(lua.LNumber(w))
	L.Push(lua.LNumber(h))
	return 2
}

// engine.memory() returns the bytes currently accounted by the allocator.
func (s *Script) engineMemory(L *lua.LState) int {
	L.Push(lua.LNumber(s.application(L).Allocator().Stats().Total))
	return 1
}

// surface returns the drawing surface, or nil when there is none.
func (s *Script) surface(L *lua.LState) platform.Surface {
	return s.application(L).Surface()
}

// screen.clear() blanks the surface.
func (s *Script) screenClear(L *lua.LState) int {
	if sf := s.surface(L); sf != nil {
		sf.Clear()
	}
	return 0
}

// screen.text(x, y, text [, fg [, bg]]) draws text; colors are "#rrggbb".
func (s *Script) screenText(L *lua.LState) int {
	x := L.CheckInt(1)
	y := L.CheckInt(2)
	text := L.CheckString(3)
	fg := colorArg(L, 4)
	bg := colorArg(L, 5)
	if sf := s.surface(L); sf != nil {
		sf.DrawText(x, y, text, fg, bg)
	}
	return 0
}

// colorArg parses an optional hex color argument.
func colorArg(L *lua.LState, n int) colorful.Color {
	hex := L.OptString(n, "")
	if hex == "" {
		return platform.Default
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return c
}

// screen.present() shows what was drawn.
func (s *Script) screenPresent(L *lua.LState) int {
	if sf := s.surface(L); sf != nil {
		sf.Present()
	}
	return 0
}

// screen.size() returns the surface size in cells.
func (s *Script) screenSize(L *lua.LState) int {
	w, h := 0, 0
	if sf := s.surface(L); sf != nil {
		w, h = sf.Size()
	}
	L.Push(lua.LNumber(w))
	L.Push(lua.LNumber(h))
	return 2
}

// logAt builds log.info(msg) and its siblings.
func (s *Script) logAt(log func(*logging.Logger, string, ...any)) lua.LGFunction {
	return func(L *lua.LState) int {
		log(s.logger, "%s", L.CheckString(1))
		return 0
	}
}

// print logs its arguments at info, separated by tabs.
func (s *Script) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	s.logger.Info("%s", strings.Join(parts, "\t"))
	return 0
}
