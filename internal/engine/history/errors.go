package history

import "errors"

// ErrStaleCheckpoint is returned when a checkpoint no longer refers to a
// snapshot held by the log.
var ErrStaleCheckpoint = errors.New("checkpoint no longer in history")
