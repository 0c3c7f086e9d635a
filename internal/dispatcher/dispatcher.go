package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/cartstore/internal/engine/history"
	"github.com/dshills/cartstore/internal/event"
	"github.com/dshills/cartstore/internal/event/dispatch"
	"github.com/dshills/cartstore/internal/reducer"
	"github.com/dshills/cartstore/internal/state"
)

// Dispatcher holds the live state and its history log.
type Dispatcher struct {
	// mu guards live and log as one unit.
	mu   sync.Mutex
	live state.State
	log  *history.Log

	initial state.State
	config  Config
	logger  *slog.Logger

	hooks []PreDispatchHook

	// notifyMu is taken before mu is released so listeners observe
	// events in commit order.
	notifyMu sync.Mutex

	listenersMu sync.RWMutex
	listeners   []subscription
	nextSubID   uint64

	notifier *dispatch.SyncDispatcher
	metrics  *Metrics

	dispatched atomic.Uint64
	failed     atomic.Uint64
	undone     atomic.Uint64
	redone     atomic.Uint64
}

type subscription struct {
	id       uint64
	listener dispatch.Listener
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithInitialState sets the state recorded as the oldest history entry.
func WithInitialState(s state.State) Option {
	return func(d *Dispatcher) {
		d.initial = s
	}
}

// WithLogger sets the logger used for warnings and listener failures.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithListener registers an on-dispatch listener.
func WithListener(l dispatch.Listener) Option {
	return func(d *Dispatcher) {
		d.addListener(l)
	}
}

// WithPreDispatchHook registers a hook that may reject events.
func WithPreDispatchHook(h PreDispatchHook) Option {
	return func(d *Dispatcher) {
		d.hooks = append(d.hooks, h)
	}
}

// New creates a dispatcher whose history starts with the initial state.
func New(config Config, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		initial: state.Initial(),
		config:  config,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.notifier = dispatch.NewSyncDispatcher(
		dispatch.WithTimeout(config.ListenerTimeout),
		dispatch.WithPanicHandler(func(ev event.Event, v any, stack []byte) {
			d.logger.Error("listener panic",
				"event_id", ev.ID,
				"event_type", ev.Type,
				"panic", v,
				"stack", string(stack))
		}),
	)
	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}

	d.live = d.initial
	d.log = history.NewLog(config.HistoryLimit)
	d.log.Append(d.initial, "initial")
	return d
}

// NewWithDefaults creates a dispatcher with the default configuration.
func NewWithDefaults(opts ...Option) *Dispatcher {
	return New(DefaultConfig(), opts...)
}

// Dispatch applies ev to the live state, records the result in history and
// notifies listeners. On error nothing is committed and no listener runs.
func (d *Dispatcher) Dispatch(ctx context.Context, ev event.Event) (state.State, error) {
	start := time.Now()

	d.mu.Lock()
	next, err := d.reduceLocked(d.live, ev)
	if err != nil {
		current := d.live
		d.mu.Unlock()
		d.recordFailure(ev, start, err)
		return current, err
	}
	d.live = next
	d.log.Append(next, string(ev.Type))
	d.notifyMu.Lock()
	d.mu.Unlock()
	defer d.notifyMu.Unlock()

	d.dispatched.Add(1)
	d.record(ev.Type, start, StatusApplied)
	d.warnUnknown(ev)
	d.notify(ctx, ev)
	return next, nil
}

// Batch applies several events as one history entry labelled label.
// Either every event is applied or, on the first failure, none is.
// Listeners are notified once per event, in order.
func (d *Dispatcher) Batch(ctx context.Context, label string, evs ...event.Event) (state.State, error) {
	if len(evs) == 0 {
		return d.State(), ErrEmptyBatch
	}
	start := time.Now()

	d.mu.Lock()
	next := d.live
	for i, ev := range evs {
		var err error
		if next, err = d.reduceLocked(next, ev); err != nil {
			current := d.live
			d.mu.Unlock()
			d.recordFailure(ev, start, err)
			return current, fmt.Errorf("batch %q event %d: %w", label, i, err)
		}
	}
	d.live = next
	d.log.Append(next, label)
	d.notifyMu.Lock()
	d.mu.Unlock()
	defer d.notifyMu.Unlock()

	for _, ev := range evs {
		d.dispatched.Add(1)
		d.record(ev.Type, start, StatusApplied)
		d.warnUnknown(ev)
		d.notify(ctx, ev)
	}
	return next, nil
}

// reduceLocked runs hooks and the reducer against s. d.mu must be held.
func (d *Dispatcher) reduceLocked(s state.State, ev event.Event) (state.State, error) {
	for _, h := range d.hooks {
		if !h.PreDispatch(ev, s) {
			return s, fmt.Errorf("%s: %w", ev.Type, ErrEventRejected)
		}
	}
	return reducer.Reduce(s, ev)
}

// Undo moves history back one step and makes that snapshot live.
// At the oldest snapshot it returns the current state and false.
func (d *Dispatcher) Undo() (state.State, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.log.Undo()
	if ok {
		d.live = s
		d.undone.Add(1)
	}
	return d.live, ok
}

// Redo moves history forward one step and makes that snapshot live.
// At the newest snapshot it returns the current state and false.
func (d *Dispatcher) Redo() (state.State, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.log.Redo()
	if ok {
		d.live = s
		d.redone.Add(1)
	}
	return d.live, ok
}

// Checkpoint marks the current history position.
func (d *Dispatcher) Checkpoint() history.Checkpoint {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.log.CreateCheckpoint()
}

// UndoToCheckpoint undoes every step taken since cp.
func (d *Dispatcher) UndoToCheckpoint(cp history.Checkpoint) (state.State, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := d.log.UndoToCheckpoint(cp)
	if err != nil {
		return d.live, err
	}
	d.live = s
	return s, nil
}

// RedoToCheckpoint redoes steps until cp is the live snapshot again.
func (d *Dispatcher) RedoToCheckpoint(cp history.Checkpoint) (state.State, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := d.log.RedoToCheckpoint(cp)
	if err != nil {
		return d.live, err
	}
	d.live = s
	return s, nil
}

// Reset restores the initial state and clears history.
func (d *Dispatcher) Reset() state.State {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.live = d.initial
	d.log.Reset(d.initial)
	return d.live
}

// State returns the live state. The returned value is immutable.
func (d *Dispatcher) State() state.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live
}

// CanUndo returns true if undo is available.
func (d *Dispatcher) CanUndo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.log.CanUndo()
}

// CanRedo returns true if redo is available.
func (d *Dispatcher) CanRedo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.log.CanRedo()
}

// History returns info about every recorded snapshot.
func (d *Dispatcher) History() []history.EntryInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.log.Entries()
}

// HistoryStatus summarises the undo/redo position.
type HistoryStatus struct {
	UndoCount int
	RedoCount int

	// Limit is the snapshot cap, or history.Unlimited.
	Limit int
}

// HistoryStatus returns how far undo and redo can go.
func (d *Dispatcher) HistoryStatus() HistoryStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return HistoryStatus{
		UndoCount: d.log.UndoCount(),
		RedoCount: d.log.RedoCount(),
		Limit:     d.log.MaxEntries(),
	}
}

// Subscribe registers a listener and returns a function that removes it.
func (d *Dispatcher) Subscribe(l dispatch.Listener) (unsubscribe func()) {
	id := d.addListener(l)
	var once sync.Once
	return func() {
		once.Do(func() { d.removeListener(id) })
	}
}

func (d *Dispatcher) addListener(l dispatch.Listener) uint64 {
	d.listenersMu.Lock()
	defer d.listenersMu.Unlock()

	d.nextSubID++
	d.listeners = append(d.listeners, subscription{id: d.nextSubID, listener: l})
	return d.nextSubID
}

func (d *Dispatcher) removeListener(id uint64) {
	d.listenersMu.Lock()
	defer d.listenersMu.Unlock()

	d.listeners = slices.DeleteFunc(slices.Clone(d.listeners), func(s subscription) bool {
		return s.id == id
	})
}

// notify runs every listener once for ev and logs failures.
func (d *Dispatcher) notify(ctx context.Context, ev event.Event) {
	d.listenersMu.RLock()
	subs := d.listeners
	d.listenersMu.RUnlock()
	if len(subs) == 0 {
		return
	}

	listeners := make([]dispatch.Listener, len(subs))
	for i, s := range subs {
		listeners[i] = s.listener
	}

	for _, r := range d.notifier.DispatchAll(ctx, ev, listeners) {
		if r.IsError() {
			d.logger.Warn("listener failed",
				"event_id", ev.ID,
				"event_type", ev.Type,
				"skipped", r.Skipped,
				"error", r.Error)
		}
	}
}

func (d *Dispatcher) warnUnknown(ev event.Event) {
	if d.config.WarnUnknownEvents && !ev.Type.Known() {
		d.logger.Warn("unrecognized event type", "event_id", ev.ID, "event_type", ev.Type)
	}
}

func (d *Dispatcher) recordFailure(ev event.Event, start time.Time, err error) {
	d.failed.Add(1)

	status := StatusInvalid
	if errors.Is(err, ErrEventRejected) {
		status = StatusRejected
	}
	d.record(ev.Type, start, status)
	d.logger.Debug("event not applied", "event_id", ev.ID, "event_type", ev.Type, "error", err)
}

func (d *Dispatcher) record(t event.Type, start time.Time, status Status) {
	if d.metrics != nil {
		d.metrics.RecordDispatch(t, time.Since(start), status)
	}
}

// Metrics returns the metrics collector, or nil if metrics are disabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Stats contains dispatcher counters.
type Stats struct {
	Dispatched uint64
	Failed     uint64
	Undone     uint64
	Redone     uint64
	Listeners  dispatch.SyncDispatcherStats
}

// Stats returns dispatcher counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Dispatched: d.dispatched.Load(),
		Failed:     d.failed.Load(),
		Undone:     d.undone.Load(),
		Redone:     d.redone.Load(),
		Listeners:  d.notifier.Stats(),
	}
}
