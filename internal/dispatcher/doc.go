// Package dispatcher owns the live application state and its history.
//
// A Dispatcher is the only writer of state. Dispatch applies an event with
// the reducer, commits the result as the live state and appends it to the
// history log, all under one mutex. Undo and Redo move the history cursor
// and resynchronize the live state; they never run the reducer.
//
// # Listeners
//
// After a successful dispatch every registered listener is notified exactly
// once with the event, outside the state lock. Notifications are
// serialized, so listeners see events in the order they were committed,
// even across goroutines. A listener may read State or call Undo, but must
// not call Dispatch or Batch synchronously. Listener failures and panics
// are logged and counted; they never roll back the committed state.
//
//	d := dispatcher.New(dispatcher.DefaultConfig(),
//	    dispatcher.WithLogger(logger),
//	    dispatcher.WithListener(app.LogListener(logger)),
//	)
//	s, err := d.Dispatch(ctx, event.AddToCart(item))
//	s, ok := d.Undo()
//
// # Pre-dispatch Hooks
//
// A PreDispatchHook sees each event and the current state before reduction
// and may reject the event. Hooks run under the dispatcher lock and must not
// call back into the dispatcher.
package dispatcher
