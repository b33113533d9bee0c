package event

import "reflect"

// Handler receives emitted events. HandleEvent reports whether the event was
// handled; a true result stops delivery to later registrants.
//
// Handlers are matched by == on unregister, so their dynamic type must be
// comparable. Pointer types always are.
type Handler interface {
	HandleEvent(e Envelope) bool
}

// HandlerFunc is the function form of a handler. Wrap it with Func.
type HandlerFunc func(e Envelope) bool

// funcHandler gives a HandlerFunc a comparable pointer identity.
type funcHandler struct {
	fn HandlerFunc
}

func (h *funcHandler) HandleEvent(e Envelope) bool {
	return h.fn(e)
}

// Func wraps fn in a Handler. Each call returns a distinct handler; keep the
// result to unregister it later.
func Func(fn HandlerFunc) Handler {
	if fn == nil {
		return nil
	}
	return &funcHandler{fn: fn}
}

// isComparable reports whether h can be matched with ==.
func isComparable(h Handler) bool {
	return reflect.TypeOf(h).Comparable()
}

// Stats contains bus statistics.
type Stats struct {
	// Emitted is the number of accepted Emit calls.
	Emitted uint64

	// Handled is the number of emissions some handler consumed.
	Handled uint64

	// Unhandled is the number of emissions no handler consumed.
	Unhandled uint64

	// Rejected counts refused Register, Unregister and Emit calls.
	Rejected uint64

	// Registrants is the current number of registrations across all codes.
	Registrants int

	// Codes is the number of codes with a registrant list.
	Codes int
}
