package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNoHandler is returned when a script does not define on_dispatch.
	ErrNoHandler = errors.New("lua script does not define on_dispatch")

	// ErrListenerFailed is returned when on_dispatch returns false.
	ErrListenerFailed = errors.New("lua listener reported failure")
)
