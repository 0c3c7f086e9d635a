package event

import "errors"

// ErrMalformedEvent is returned when an encoded event cannot be decoded.
var ErrMalformedEvent = errors.New("malformed event")
