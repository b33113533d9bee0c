// Package testbed is the built-in demo game. It draws the live input state
// and a color-cycling title, and lists recent key presses.
package testbed

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/nightloop/internal/app"
	"github.com/dshills/nightloop/internal/container/darray"
	"github.com/dshills/nightloop/internal/event"
	"github.com/dshills/nightloop/internal/event/events"
	"github.com/dshills/nightloop/internal/input/key"
	"github.com/dshills/nightloop/internal/memory"
	"github.com/dshills/nightloop/internal/platform"
)

const (
	// Title is the window name and banner.
	Title = "Nightloop Engine Testbed"

	// RecentKeys is how many key presses are listed.
	RecentKeys = 8

	// hueSpeed is degrees per second; hueStep is degrees per character.
	hueSpeed = 90.0
	hueStep  = 12.0

	scratchSize = 4 * memory.KiB
)

var (
	dim   = colorful.Color{R: 0.55, G: 0.55, B: 0.6}
	label = colorful.Color{R: 0.4, G: 0.8, B: 1}
)

// State is the testbed's game state.
type State struct {
	elapsed time.Duration
	resizes int
	width   uint32
	height  uint32

	// recent holds the last key presses, oldest first.
	recent *darray.Array[events.KeyEvent]
	// scratch is game-tagged memory used to build status lines.
	scratch []byte

	self    event.Recipient
	handler event.Handler
	alloc   *memory.Allocator
}

// New returns the testbed game.
func New() *app.Game {
	s := &State{self: event.NewRecipient()}
	return &app.Game{
		Name:   Title,
		Width:  80,
		Height: 24,
		State:  s,
		Init:   s.init,
		Update: s.update,
		Render: s.render,
		Resize: s.resize,
	}
}

func (s *State) init(a *app.Application) error {
	s.alloc = a.Allocator()
	s.recent = darray.Reserve[events.KeyEvent](s.alloc, RecentKeys)
	s.scratch = s.alloc.Alloc(scratchSize, memory.TagGame)
	s.handler = event.SubscribeFunc(a.Bus(), events.KeyPressedTopic, s.self, s.onKey)
	if s.handler == nil {
		return errors.New("testbed: key handler rejected")
	}
	a.Logger().Info("testbed ready, press Esc to quit")
	return nil
}

// onKey records the press and leaves it for later handlers.
func (s *State) onKey(e event.Event[events.KeyEvent]) bool {
	if s.recent.Len() == RecentKeys {
		s.recent.PopAt(0)
	}
	s.recent.Push(e.Payload)
	return false
}

func (s *State) update(_ *app.Application, delta time.Duration) error {
	s.elapsed += delta
	return nil
}

func (s *State) resize(_ *app.Application, width, height uint32) {
	s.width, s.height = width, height
	s.resizes++
}

func (s *State) render(a *app.Application, _ time.Duration) error {
	sf := a.Surface()
	if sf == nil {
		return nil
	}
	sf.Clear()

	s.drawTitle(sf)
	in := a.Input()
	m := a.Metrics()
	lines := []string{
		fmt.Sprintf("frame   %d  fps %.0f  size %dx%d  resizes %d", a.Frame(), m.AvgFPS(), s.width, s.height, s.resizes),
		s.mouseLine(a),
		"mods    " + in.Mods().String(),
		"held    " + heldKeys(a),
		"recent  " + s.recentKeys(),
		fmt.Sprintf("memory  %d bytes in use", a.Allocator().Stats().Total),
	}
	for i, line := range lines {
		sf.DrawText(0, i+2, line[:8], label, platform.Default)
		if len(line) > 8 {
			sf.DrawText(8, i+2, line[8:], platform.Default, platform.Default)
		}
	}

	_, h := sf.Size()
	sf.DrawText(0, h-1, "Esc quits", dim, platform.Default)
	sf.Present()
	return nil
}

// drawTitle draws the banner with a hue that shifts per character and over
// time.
func (s *State) drawTitle(sf platform.Surface) {
	base := s.elapsed.Seconds() * hueSpeed
	for i, r := range Title {
		hue := math.Mod(base+float64(i)*hueStep, 360)
		sf.DrawText(i, 0, string(r), colorful.Hsv(hue, 0.7, 1), platform.Default)
	}
}

// mouseLine formats the pointer state into the scratch buffer.
func (s *State) mouseLine(a *app.Application) string {
	in := a.Input()
	x, y := in.MousePosition()
	buf := fmt.Appendf(s.scratch[:0], "mouse   %d,%d wheel %d", x, y, in.WheelDelta())
	for b := key.ButtonLeft; b < key.ButtonCount; b++ {
		if in.ButtonDown(b) {
			buf = append(buf, ' ')
			buf = append(buf, b.String()...)
		}
	}
	return string(buf)
}

// heldKeys lists the keys that are down.
func heldKeys(a *app.Application) string {
	var names []string
	for k := key.Key(0); k < key.Count; k++ {
		if a.Input().KeyDown(k) {
			names = append(names, k.String())
		}
	}
	return strings.Join(names, " ")
}

// recentKeys lists recent presses, newest last.
func (s *State) recentKeys() string {
	names := make([]string, 0, s.recent.Len())
	for _, e := range s.recent.All() {
		if e.Mods.IsEmpty() {
			names = append(names, e.Key.String())
		} else {
			names = append(names, e.Mods.String()+"+"+e.Key.String())
		}
	}
	return strings.Join(names, " ")
}

// Recent returns the recorded key presses, oldest first.
func (s *State) Recent() []events.KeyEvent {
	if s.recent == nil {
		return nil
	}
	return append([]events.KeyEvent(nil), s.recent.Items()...)
}

// Close returns the testbed's memory to the allocator.
func (s *State) Close() error {
	if s.recent != nil {
		s.recent.Destroy()
		s.recent = nil
	}
	if s.scratch != nil {
		s.alloc.Free(s.scratch, scratchSize, memory.TagGame)
		s.scratch = nil
	}
	return nil
}
