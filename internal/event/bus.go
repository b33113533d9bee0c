package event

import (
	"reflect"
	"slices"

	"github.com/dshills/nightloop/internal/logging"
	"github.com/dshills/nightloop/internal/memory"
)

// Bus is the code-indexed event bus. Create it with New and start it with
// Init; an uninitialized bus refuses every operation.
type Bus struct {
	alloc    *memory.Allocator
	config   busConfig
	logger   *logging.Logger
	registry *registry

	// types binds codes to payload types for typed topics.
	types map[Code]reflect.Type

	stats Stats
}

// New creates a bus whose registrant lists are allocated from alloc.
func New(alloc *memory.Allocator, opts ...Option) *Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if alloc == nil {
		alloc = memory.New()
	}
	return &Bus{
		alloc:  alloc,
		config: config,
		logger: config.logger.WithComponent("event"),
	}
}

// Init starts the bus with an empty code table.
func (b *Bus) Init() error {
	if b.registry != nil {
		return ErrAlreadyInitialized
	}
	b.registry = newRegistry(b.alloc, b.config.listCapacity)
	b.types = make(map[Code]reflect.Type)
	b.stats = Stats{}
	b.logger.Info("event system init")
	return nil
}

// Kill destroys every registrant list and stops the bus.
func (b *Bus) Kill() {
	if b.registry == nil {
		return
	}
	if n := b.registry.live; n > 0 {
		b.logger.Debug("event system kill with %d registrations outstanding", n)
	}
	b.registry.clear()
	b.registry = nil
	b.types = nil
	b.logger.Info("event system kill")
}

// Initialized reports whether the bus is live.
func (b *Bus) Initialized() bool {
	return b.registry != nil
}

// Register adds handler for recipient on code. It fails if the bus is not
// initialized, the code is out of range, the handler is nil or not
// comparable, or recipient is already registered for code with any handler.
func (b *Bus) Register(code Code, recipient Recipient, handler Handler) bool {
	if err := b.checkRegistration(code, handler); err != nil {
		b.reject("register", code, err)
		return false
	}
	if !b.registry.add(code, recipient, handler) {
		b.stats.Rejected++
		b.logger.Trace("register code %d: recipient %s already registered", code, recipient)
		return false
	}
	return true
}

// Unregister removes the first registration matching both recipient and
// handler on code. It fails if no such pair exists.
func (b *Bus) Unregister(code Code, recipient Recipient, handler Handler) bool {
	if err := b.checkRegistration(code, handler); err != nil {
		b.reject("unregister", code, err)
		return false
	}
	if !b.registry.remove(code, recipient, handler) {
		b.stats.Rejected++
		b.logger.Trace("unregister code %d: no registration for %s", code, recipient)
		return false
	}
	return true
}

// Emit delivers payload to the registrants of code in registration order,
// stopping at the first handler that returns true. It reports whether the
// event was handled.
//
// If code is bound to a payload type by a Topic, payloads of any other type
// are rejected.
func (b *Bus) Emit(code Code, sender Recipient, payload any) bool {
	if err := b.checkCode(code); err != nil {
		b.reject("emit", code, err)
		return false
	}
	if err := b.checkPayload(code, reflect.TypeOf(payload)); err != nil {
		b.reject("emit", code, err)
		return false
	}
	b.stats.Emitted++

	list := b.registry.list(code)
	if list == nil {
		b.stats.Unhandled++
		return false
	}

	// Dispatch over the registrants present at emit time, so handlers may
	// register or unregister without shifting delivery.
	for _, reg := range slices.Clone(list.Items()) {
		env := Envelope{Code: code, Sender: sender, Recipient: reg.recipient, Payload: payload}
		if reg.handler.HandleEvent(env) {
			b.stats.Handled++
			return true
		}
	}
	b.stats.Unhandled++
	return false
}

// Registrants returns the number of registrations for code.
func (b *Bus) Registrants(code Code) int {
	if b.registry == nil || !code.Valid() {
		return 0
	}
	return b.registry.count(code)
}

// Stats returns bus statistics.
func (b *Bus) Stats() Stats {
	s := b.stats
	if b.registry != nil {
		s.Registrants = b.registry.live
		s.Codes = b.registry.codes()
	}
	return s
}

// PayloadType returns the payload type bound to code, if any.
func (b *Bus) PayloadType(code Code) (reflect.Type, bool) {
	t, ok := b.types[code]
	return t, ok
}

// bind records t as the payload type of code, or checks it against an
// existing binding.
func (b *Bus) bind(code Code, t reflect.Type) error {
	if err := b.checkBinding(code, t); err != nil {
		return err
	}
	if _, ok := b.types[code]; !ok {
		b.types[code] = t
	}
	return nil
}

// checkBinding reports whether code may be bound to t without binding it.
func (b *Bus) checkBinding(code Code, t reflect.Type) error {
	if err := b.checkCode(code); err != nil {
		return err
	}
	if bound, ok := b.types[code]; ok && bound != t {
		return &PayloadTypeError{Code: code, Want: bound, Got: t}
	}
	return nil
}

func (b *Bus) checkCode(code Code) error {
	if b.registry == nil {
		return ErrNotInitialized
	}
	if !code.Valid() {
		return ErrCodeOutOfRange
	}
	return nil
}

func (b *Bus) checkRegistration(code Code, handler Handler) error {
	if err := b.checkCode(code); err != nil {
		return err
	}
	if handler == nil {
		return ErrNilHandler
	}
	if !isComparable(handler) {
		return ErrUncomparableHandler
	}
	return nil
}

func (b *Bus) checkPayload(code Code, t reflect.Type) error {
	bound, ok := b.types[code]
	if !ok || bound == t {
		return nil
	}
	if bound.Kind() == reflect.Interface && (t == nil || t.Implements(bound)) {
		return nil
	}
	return &PayloadTypeError{Code: code, Want: bound, Got: t}
}

func (b *Bus) reject(op string, code Code, err error) {
	b.stats.Rejected++
	if err == ErrNotInitialized {
		return
	}
	b.logger.Warn("%s code %d: %v", op, code, err)
}
