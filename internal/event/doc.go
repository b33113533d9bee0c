// Package event provides the engine's code-indexed notification bus.
//
// The bus maps small integer codes to ordered registrant lists. A registrant
// is a (Recipient, Handler) pair. Emitting a code walks its list in
// registration order and stops at the first handler that reports the event
// handled:
//
//	bus := event.New(alloc)
//	_ = bus.Init()
//
//	me := event.NewRecipient()
//	bus.Register(events.KeyPressed, me, event.Func(func(e event.Envelope) bool {
//	    return e.Payload.(events.KeyEvent).Key == key.Escape
//	}))
//
// This is single-consumer-wins delivery, not fan-out: at most one registrant
// observes a given emission.
//
// # Identity
//
// Registration is deduplicated by Recipient alone; a recipient may hold at
// most one registration per code. Unregister removes the exact
// (recipient, handler) pair, so handlers must be comparable. Plain functions
// are not, which is why they are wrapped with Func.
//
// # Codes and Payloads
//
// Codes below UserCodeBase are reserved for the engine (see package events).
// A Topic binds a code to a payload type; Subscribe and Publish enforce that
// binding so a code always carries the same Go type. Untyped user codes may
// carry the raw 16-byte Context.
//
// # Concurrency
//
// The bus is single-threaded. Handlers run synchronously inside Emit and may
// register or unregister, including themselves.
package event
