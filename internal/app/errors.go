package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrAlreadyRunning indicates Init was called on an initialized application.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNotRunning indicates Run was called before a successful Init.
	ErrNotRunning = errors.New("application not running")

	// ErrIncompleteGame indicates a game without all four callbacks.
	ErrIncompleteGame = errors.New("game must provide init, update, render and resize callbacks")
)

// InitError reports the subsystem whose initialization failed.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// FatalError reports a game callback failure that ended the frame loop.
type FatalError struct {
	// Phase is "update" or "render".
	Phase string
	// Frame is the frame number, counting from 1.
	Frame uint64
	Err   error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("game %s failed on frame %d: %v", e.Phase, e.Frame, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}
