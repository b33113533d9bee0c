package event

import "reflect"

// Topic binds a code to the payload type T.
type Topic[T any] struct {
	Code Code
	Name string
}

// NewTopic creates a topic for code.
func NewTopic[T any](code Code, name string) Topic[T] {
	return Topic[T]{Code: code, Name: name}
}

// String returns the topic name.
func (t Topic[T]) String() string {
	return t.Name
}

// Event is the typed form of an Envelope.
type Event[T any] struct {
	Code      Code
	Sender    Recipient
	Recipient Recipient
	Payload   T
}

// TypedHandler handles events of one payload type.
type TypedHandler[T any] interface {
	Handle(e Event[T]) bool
}

// TypedFunc is the function form of TypedHandler.
type TypedFunc[T any] func(e Event[T]) bool

// Handle implements TypedHandler.
func (f TypedFunc[T]) Handle(e Event[T]) bool {
	return f(e)
}

// typedHandler adapts a TypedHandler to Handler.
type typedHandler[T any] struct {
	inner TypedHandler[T]
}

func (h *typedHandler[T]) HandleEvent(e Envelope) bool {
	payload, ok := e.Payload.(T)
	if !ok {
		return false
	}
	return h.inner.Handle(Event[T]{
		Code:      e.Code,
		Sender:    e.Sender,
		Recipient: e.Recipient,
		Payload:   payload,
	})
}

// typeOf returns the reflect.Type of T, including interface types.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Subscribe registers h for recipient on the topic's code and, once the
// registration succeeds, binds the code to T. The returned Handler is the registered handler; pass it to
// Unsubscribe. It is nil if registration failed.
func Subscribe[T any](b *Bus, t Topic[T], recipient Recipient, h TypedHandler[T]) Handler {
	if h == nil {
		b.reject("subscribe", t.Code, ErrNilHandler)
		return nil
	}
	typ := typeOf[T]()
	if err := b.checkBinding(t.Code, typ); err != nil {
		b.reject("subscribe", t.Code, err)
		return nil
	}
	wrapped := &typedHandler[T]{inner: h}
	if !b.Register(t.Code, recipient, wrapped) {
		return nil
	}
	// Checked above, so binding cannot fail.
	_ = b.bind(t.Code, typ)
	return wrapped
}

// SubscribeFunc is Subscribe for a plain function.
func SubscribeFunc[T any](b *Bus, t Topic[T], recipient Recipient, fn func(Event[T]) bool) Handler {
	if fn == nil {
		return Subscribe[T](b, t, recipient, nil)
	}
	return Subscribe[T](b, t, recipient, TypedFunc[T](fn))
}

// Unsubscribe removes a registration made by Subscribe.
func Unsubscribe[T any](b *Bus, t Topic[T], recipient Recipient, h Handler) bool {
	return b.Unregister(t.Code, recipient, h)
}

// Publish emits payload on the topic's code, binding the code to T on first
// use. It reports whether a handler consumed the event.
func Publish[T any](b *Bus, t Topic[T], sender Recipient, payload T) bool {
	if err := b.bind(t.Code, typeOf[T]()); err != nil {
		b.reject("publish", t.Code, err)
		return false
	}
	return b.Emit(t.Code, sender, payload)
}
