package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrEventRejected indicates a pre-dispatch hook refused the event.
	ErrEventRejected = errors.New("dispatcher: event rejected by hook")

	// ErrEmptyBatch indicates Batch was called without events.
	ErrEmptyBatch = errors.New("dispatcher: empty batch")
)
