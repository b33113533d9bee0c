// Package events defines the engine's built-in event codes and payloads.
//
// Each code has a typed topic binding it to its payload struct. Codes stay
// below event.UserCodeBase; games define their own codes from there up.
//
//	event.SubscribeFunc(bus, events.KeyPressedTopic, me,
//	    func(e event.Event[events.KeyEvent]) bool {
//	        return e.Payload.Key == key.Space
//	    })
package events
