// Package state defines the application state document held by the store.
//
// A State is an immutable value made of a shopping cart and a user session.
// Every "modifying" method returns a new State and leaves its receiver
// untouched, so snapshots can be shared freely between the live store and
// the history log.
//
// # Cart Items
//
// A CartItem is an opaque JSON object. Only its "id" member is interpreted
// (it is the equality key for removal); every other field passes through
// unchanged:
//
//	item, err := state.NewCartItem(`{"id":1,"name":"A","qty":2}`)
//	item.ID().Int()          // 1
//	item.Get("qty").Int()    // 2
//
// Items can also be built from key/value pairs:
//
//	item, err := state.Item(2, "name", "B")
//
// # Session
//
// User carries the login flag and the user name. A logged-out user never
// has a name; constructors and helpers normalize the value so the rule
// holds for every State.
package state
