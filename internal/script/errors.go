package script

import (
	"errors"
	"fmt"
)

var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNoFunction is returned when a called global is not defined.
	ErrNoFunction = errors.New("lua function not defined")

	// ErrCallTimeout is returned when a callback runs past its timeout.
	ErrCallTimeout = errors.New("lua call timed out")

	// ErrMissingUpdate is returned by Load when the script has no update
	// function.
	ErrMissingUpdate = errors.New("script does not define update")
)

// CallbackError reports a callback that raised an error or returned false.
type CallbackError struct {
	Script   string
	Callback string
	Err      error
}

func (e *CallbackError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s returned false", e.Script, e.Callback)
	}
	return fmt.Sprintf("%s: %s: %v", e.Script, e.Callback, e.Err)
}

func (e *CallbackError) Unwrap() error {
	return e.Err
}
