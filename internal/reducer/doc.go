// Package reducer implements the pure state transition function.
//
// Reduce never mutates its input, performs no I/O and is deterministic: the
// same state and event always produce structurally equal output. Event IDs
// and timestamps are ignored.
//
// Malformed payloads are reported, not tolerated: Reduce returns the input
// state unchanged together with an error wrapping ErrInvalidPayload. Event
// types the reducer does not recognize are identity transitions and return
// a nil error.
package reducer
