// Package dispatch runs "on dispatch" listeners for committed events.
//
// Listeners are executed synchronously, in registration order, in the
// caller's goroutine. Every execution recovers from panics, honours context
// cancellation and an optional per-listener timeout, and reports its outcome
// as a Result. A failing listener never stops the ones after it.
//
// # Usage
//
//	notifier := dispatch.NewSyncDispatcher(
//	    dispatch.WithPanicHandler(func(ev event.Event, v any, stack []byte) {
//	        logger.Error("listener panic", "event", ev.Type, "panic", v)
//	    }),
//	)
//	results := notifier.DispatchAll(ctx, ev, listeners)
//
// # Result Handling
//
// The Result type captures the outcome of a listener execution including
// success/failure status, error details, execution duration, and panic
// information if applicable.
package dispatch
