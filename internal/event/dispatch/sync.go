package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/dshills/cartstore/internal/event"
)

// SyncDispatcher notifies listeners one after another on the calling
// goroutine. A failing or panicking listener never prevents the next one
// from running.
type SyncDispatcher struct {
	executor *Executor
	timeout  time.Duration

	mu    sync.Mutex
	stats SyncDispatcherStats
}

// SyncOption configures a SyncDispatcher.
type SyncOption func(*SyncDispatcher)

// WithPanicHandler installs h on the underlying executor.
func WithPanicHandler(h PanicHandler) SyncOption {
	return func(d *SyncDispatcher) {
		d.executor = NewExecutor(WithExecutorPanicHandler(h))
	}
}

// WithTimeout bounds each listener call. Zero disables it.
func WithTimeout(timeout time.Duration) SyncOption {
	return func(d *SyncDispatcher) {
		d.timeout = timeout
	}
}

// NewSyncDispatcher creates a dispatcher with no timeout and a no-op
// panic handler unless opts say otherwise.
func NewSyncDispatcher(opts ...SyncOption) *SyncDispatcher {
	d := &SyncDispatcher{executor: NewExecutor()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs l for ev and records the outcome.
func (d *SyncDispatcher) Dispatch(ctx context.Context, ev event.Event, l Listener) Result {
	r := d.executor.ExecuteWithTimeout(ctx, ev, l, d.timeout)
	d.record(r)
	return r
}

// DispatchAll runs listeners in order and returns one Result per listener.
// After ctx is done the remaining listeners are not called; their results
// are marked Skipped and carry the context error.
func (d *SyncDispatcher) DispatchAll(ctx context.Context, ev event.Event, listeners []Listener) []Result {
	results := make([]Result, 0, len(listeners))
	for _, l := range listeners {
		if err := ctx.Err(); err != nil {
			r := Result{Error: err, Skipped: true}
			d.record(r)
			results = append(results, r)
			continue
		}
		results = append(results, d.Dispatch(ctx, ev, l))
	}
	return results
}

func (d *SyncDispatcher) record(r Result) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stats.Dispatched++
	d.stats.TotalDuration += r.Duration
	switch {
	case r.Skipped:
		d.stats.Skipped++
	case r.Panicked:
		d.stats.Panicked++
	case r.Error != nil:
		d.stats.Failed++
	default:
		d.stats.Succeeded++
	}
}

// Stats returns a snapshot of the listener counters.
func (d *SyncDispatcher) Stats() SyncDispatcherStats {
	d.mu.Lock()
	s := d.stats
	d.mu.Unlock()

	if s.Dispatched > 0 {
		s.AvgDuration = s.TotalDuration / time.Duration(s.Dispatched)
	}
	return s
}

// ResetStats zeroes every counter.
func (d *SyncDispatcher) ResetStats() {
	d.mu.Lock()
	d.stats = SyncDispatcherStats{}
	d.mu.Unlock()
}

// SyncDispatcherStats counts listener invocations by outcome.
type SyncDispatcherStats struct {
	Dispatched uint64
	Succeeded  uint64
	Failed     uint64
	Panicked   uint64

	// Skipped counts listeners not called because the context was done.
	Skipped uint64

	TotalDuration time.Duration
	AvgDuration   time.Duration
}
