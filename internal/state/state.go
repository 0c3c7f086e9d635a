package state

import (
	"slices"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// User is the session part of the state.
type User struct {
	LoggedIn bool
	// Name is only meaningful while LoggedIn is true.
	Name string
}

// LoggedOut returns the anonymous session.
func LoggedOut() User {
	return User{}
}

// LoggedInAs returns a session for name.
func LoggedInAs(name string) User {
	return User{LoggedIn: true, Name: name}
}

// normalize drops the name of a logged-out user.
func (u User) normalize() User {
	if !u.LoggedIn {
		return User{}
	}
	return u
}

// State is the application state document. The zero value is the initial
// state: an empty cart and a logged-out user.
type State struct {
	cart []CartItem
	user User
}

// Initial returns the empty-cart, logged-out state.
func Initial() State {
	return State{}
}

// New builds a State from a user and cart items. The items slice is copied.
func New(user User, items ...CartItem) State {
	return State{
		cart: slices.Clone(items),
		user: user.normalize(),
	}
}

// Cart returns a copy of the cart items in insertion order.
func (s State) Cart() []CartItem {
	return slices.Clone(s.cart)
}

// Len returns the number of items in the cart.
func (s State) Len() int {
	return len(s.cart)
}

// At returns the i-th cart item.
func (s State) At(i int) CartItem {
	return s.cart[i]
}

// User returns the session.
func (s State) User() User {
	return s.user
}

// WithItem returns a new State with item appended to the cart.
func (s State) WithItem(item CartItem) State {
	cart := make([]CartItem, len(s.cart), len(s.cart)+1)
	copy(cart, s.cart)
	return State{cart: append(cart, item), user: s.user}
}

// WithoutID returns a new State without any cart item whose id matches.
// When nothing matches the receiver is returned as is.
func (s State) WithoutID(id gjson.Result) State {
	idx := slices.IndexFunc(s.cart, func(c CartItem) bool { return c.SameID(id) })
	if idx < 0 {
		return s
	}

	cart := make([]CartItem, 0, len(s.cart)-1)
	cart = append(cart, s.cart[:idx]...)
	for _, c := range s.cart[idx+1:] {
		if !c.SameID(id) {
			cart = append(cart, c)
		}
	}
	return State{cart: cart, user: s.user}
}

// WithUser returns a new State with the session replaced.
func (s State) WithUser(u User) State {
	return State{cart: s.cart, user: u.normalize()}
}

// Equal reports whether both states hold the same cart and session.
func (s State) Equal(other State) bool {
	if s.user != other.user {
		return false
	}
	return slices.EqualFunc(s.cart, other.cart, func(a, b CartItem) bool {
		return a.raw == b.raw || compact(gjson.Parse(a.raw)) == compact(gjson.Parse(b.raw))
	})
}

// MarshalJSON implements json.Marshaler.
//
//	{"cart":[...],"user":{"isLoggedIn":false,"name":null}}
func (s State) MarshalJSON() ([]byte, error) {
	out := `{"cart":[],"user":{"isLoggedIn":false,"name":null}}`
	var err error
	for _, item := range s.cart {
		if out, err = sjson.SetRaw(out, "cart.-1", item.raw); err != nil {
			return nil, err
		}
	}
	if s.user.LoggedIn {
		if out, err = sjson.Set(out, "user.isLoggedIn", true); err != nil {
			return nil, err
		}
		if out, err = sjson.Set(out, "user.name", s.user.Name); err != nil {
			return nil, err
		}
	}
	return []byte(out), nil
}

// String returns the JSON form of the state.
func (s State) String() string {
	b, err := s.MarshalJSON()
	if err != nil {
		return "<invalid state>"
	}
	return string(b)
}
