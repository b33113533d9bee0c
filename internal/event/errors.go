package event

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for the event bus.
var (
	// ErrAlreadyInitialized is returned when Init is called on a live bus.
	ErrAlreadyInitialized = errors.New("event bus is already initialized")

	// ErrNotInitialized is returned by operations that need a live bus.
	ErrNotInitialized = errors.New("event bus is not initialized")

	// ErrCodeOutOfRange is returned for codes at or above MaxCodes.
	ErrCodeOutOfRange = errors.New("event code out of range")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrUncomparableHandler is returned for handlers that cannot be matched
	// on unregister.
	ErrUncomparableHandler = errors.New("handler is not comparable")

	// ErrPayloadType is the base of *PayloadTypeError.
	ErrPayloadType = errors.New("payload type mismatch")
)

// PayloadTypeError reports a payload whose type differs from the type bound
// to its code.
type PayloadTypeError struct {
	Code Code
	Want reflect.Type
	Got  reflect.Type
}

// Error implements the error interface.
func (e *PayloadTypeError) Error() string {
	return fmt.Sprintf("code %d carries %v, got %v", e.Code, e.Want, e.Got)
}

// Is allows errors.Is to match PayloadTypeError with ErrPayloadType.
func (e *PayloadTypeError) Is(target error) bool {
	return target == ErrPayloadType
}
