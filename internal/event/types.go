package event

// Type names the kind of state change an event requests.
type Type string

// Recognized event types.
const (
	TypeAddToCart      Type = "ADD_TO_CART"
	TypeRemoveFromCart Type = "REMOVE_FROM_CART"
	TypeLoginUser      Type = "LOGIN_USER"
	TypeLogoutUser     Type = "LOGOUT_USER"
)

// Known reports whether t is one of the recognized event types.
func (t Type) Known() bool {
	switch t {
	case TypeAddToCart, TypeRemoveFromCart, TypeLoginUser, TypeLogoutUser:
		return true
	default:
		return false
	}
}

// String returns the type name.
func (t Type) String() string {
	return string(t)
}
