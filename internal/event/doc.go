// Package event defines the events dispatched against the cart store.
//
// An Event is a tagged request for a state change: a Type naming the change
// and a JSON payload whose shape depends on the type. Events also carry an
// ID and a creation time for observability; neither affects reduction.
//
// # Event Types
//
//	ADD_TO_CART       payload: the cart item object, e.g. {"id":1,"name":"A"}
//	REMOVE_FROM_CART  payload: {"id": <id>}
//	LOGIN_USER        payload: {"name": "<user>"}
//	LOGOUT_USER       payload: ignored
//
// Any other type is accepted and treated as a no-op by the reducer.
//
// # Constructing Events
//
//	ev := event.AddToCart(state.MustItem(1, "name", "A"))
//	ev := event.RemoveFromCart(1)
//	ev := event.LoginUser("ada")
//
// Events read from external input use Parse:
//
//	ev, err := event.Parse([]byte(`{"type":"LOGIN_USER","payload":{"name":"ada"}}`))
package event
