package dispatch

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/dshills/cartstore/internal/event"
)

// Executor calls a single listener, timing it and turning a panic into
// a Result.
type Executor struct {
	panicHandler PanicHandler
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithExecutorPanicHandler sets the function told about listener panics.
func WithExecutorPanicHandler(h PanicHandler) ExecutorOption {
	return func(e *Executor) {
		e.panicHandler = h
	}
}

// NewExecutor creates an executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{panicHandler: defaultPanicHandler}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute calls l.Handle unless ctx is already done.
func (e *Executor) Execute(ctx context.Context, ev event.Event, l Listener) (result Result) {
	if err := ctx.Err(); err != nil {
		return Result{Error: err, Skipped: true}
	}

	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
		if v := recover(); v != nil {
			result = e.panicked(ev, v, result.Duration)
		}
	}()

	if err := l.Handle(ctx, ev); err != nil {
		return Result{Error: err}
	}
	return Result{Success: true}
}

func (e *Executor) panicked(ev event.Event, v any, took time.Duration) Result {
	stack := debug.Stack()
	if e.panicHandler != nil {
		func() {
			// The handler is user code too.
			defer func() { _ = recover() }()
			e.panicHandler(ev, v, stack)
		}()
	}
	return Result{
		Error:      fmt.Errorf("%w: %v", ErrListenerPanic, v),
		Panicked:   true,
		PanicValue: v,
		PanicStack: stack,
		Duration:   took,
	}
}

// ExecuteWithTimeout is Execute with ctx bounded by timeout. The listener
// must watch ctx for the bound to have any effect. A zero timeout means none.
func (e *Executor) ExecuteWithTimeout(ctx context.Context, ev event.Event, l Listener, timeout time.Duration) Result {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return e.Execute(ctx, ev, l)
}
