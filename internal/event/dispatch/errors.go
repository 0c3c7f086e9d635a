package dispatch

import "errors"

// ErrListenerPanic is reported in Result.Error when a listener panics.
var ErrListenerPanic = errors.New("listener panicked")
