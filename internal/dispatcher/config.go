package dispatcher

import (
	"time"

	"github.com/dshills/cartstore/internal/engine/history"
)

// Config holds dispatcher configuration options.
type Config struct {
	// HistoryLimit caps the snapshots kept for undo/redo. Zero keeps all.
	HistoryLimit int

	// ListenerTimeout bounds each listener call. Zero means no timeout.
	ListenerTimeout time.Duration

	// WarnUnknownEvents logs a warning for unrecognized event types.
	WarnUnknownEvents bool

	// EnableMetrics enables per-event-type timing and counters.
	EnableMetrics bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		HistoryLimit:      history.Unlimited,
		WarnUnknownEvents: true,
	}
}

// WithHistoryLimit returns a copy of the config with the history limit set.
func (c Config) WithHistoryLimit(limit int) Config {
	c.HistoryLimit = limit
	return c
}

// WithListenerTimeout returns a copy of the config with a listener timeout.
func (c Config) WithListenerTimeout(timeout time.Duration) Config {
	c.ListenerTimeout = timeout
	return c
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}
