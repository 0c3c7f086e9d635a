// Package app wires the cart store together and runs its command loop.
package app

import "errors"

// Application errors.
var (
	// ErrQuit signals that the command loop should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrUnknownCommand indicates a line that is neither a command nor an event.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInitialization indicates an initialization failure.
	ErrInitialization = errors.New("initialization failed")
)
