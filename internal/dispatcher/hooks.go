package dispatcher

import (
	"github.com/dshills/cartstore/internal/event"
	"github.com/dshills/cartstore/internal/state"
)

// PreDispatchHook is called before an event is reduced.
// Returning false rejects the event.
type PreDispatchHook interface {
	PreDispatch(ev event.Event, current state.State) bool
}

// PreDispatchFunc is a function adapter for PreDispatchHook.
type PreDispatchFunc func(ev event.Event, current state.State) bool

// PreDispatch implements PreDispatchHook.
func (f PreDispatchFunc) PreDispatch(ev event.Event, current state.State) bool {
	return f(ev, current)
}

// RequireLogin rejects cart changes while no user is logged in.
func RequireLogin() PreDispatchHook {
	return PreDispatchFunc(func(ev event.Event, current state.State) bool {
		switch ev.Type {
		case event.TypeAddToCart, event.TypeRemoveFromCart:
			return current.User().LoggedIn
		default:
			return true
		}
	})
}
