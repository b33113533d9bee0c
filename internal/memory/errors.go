package memory

import "errors"

// ErrAlreadyInitialized is returned when Init is called twice without Kill.
var ErrAlreadyInitialized = errors.New("memory system already initialized")

// InvariantError reports a violated allocator or container invariant.
// It is raised with panic, and only when validation is enabled.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return "invariant violated in " + e.Op + ": " + e.Detail
}
