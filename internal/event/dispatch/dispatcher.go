package dispatch

import (
	"context"
	"time"

	"github.com/dshills/cartstore/internal/event"
)

// Listener is notified after an event has been applied to the state.
type Listener interface {
	Handle(ctx context.Context, ev event.Event) error
}

// ListenerFunc adapts an ordinary function to the Listener interface.
type ListenerFunc func(ctx context.Context, ev event.Event) error

// Handle calls f(ctx, ev).
func (f ListenerFunc) Handle(ctx context.Context, ev event.Event) error {
	return f(ctx, ev)
}

// Result represents the outcome of a listener execution.
type Result struct {
	// Success is true if the listener completed without error or panic.
	Success bool

	// Error is the error returned by the listener, if any.
	Error error

	// Panicked is true if the listener panicked.
	Panicked bool

	// PanicValue is the value passed to panic(), if Panicked is true.
	PanicValue any

	// PanicStack is the stack trace at the point of panic.
	PanicStack []byte

	// Duration is how long the listener took to execute.
	Duration time.Duration

	// Skipped is true if the listener was not executed (e.g., context cancelled).
	Skipped bool
}

// IsSuccess returns true if the result indicates successful execution.
func (r Result) IsSuccess() bool {
	return r.Success && !r.Panicked && r.Error == nil
}

// IsError returns true if the result indicates an error (not panic).
func (r Result) IsError() bool {
	return r.Error != nil && !r.Panicked
}

// IsPanic returns true if the result indicates a panic.
func (r Result) IsPanic() bool {
	return r.Panicked
}

// PanicHandler is called when a listener panics during execution.
// It receives the event being processed, the panic value, and the stack trace.
type PanicHandler func(ev event.Event, panicValue any, stack []byte)

// defaultPanicHandler is a no-op panic handler.
func defaultPanicHandler(event.Event, any, []byte) {}
