package state

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrInvalidItem is returned when a cart item is not a JSON object with an id.
var ErrInvalidItem = errors.New("invalid cart item")

// CartItem is an immutable JSON object stored in the cart.
type CartItem struct {
	raw string
}

// NewCartItem validates raw and wraps it as a CartItem.
func NewCartItem(raw string) (CartItem, error) {
	if !gjson.Valid(raw) {
		return CartItem{}, fmt.Errorf("%w: not valid JSON", ErrInvalidItem)
	}
	return ItemFromResult(gjson.Parse(raw))
}

// ItemFromResult wraps an already parsed JSON value as a CartItem.
func ItemFromResult(r gjson.Result) (CartItem, error) {
	if !gjson.Valid(r.Raw) {
		return CartItem{}, fmt.Errorf("%w: not valid JSON", ErrInvalidItem)
	}
	if !r.IsObject() {
		return CartItem{}, fmt.Errorf("%w: expected object, got %s", ErrInvalidItem, r.Type)
	}
	if !r.Get(idField).Exists() {
		return CartItem{}, fmt.Errorf("%w: missing %q", ErrInvalidItem, idField)
	}
	return CartItem{raw: r.Raw}, nil
}

// Item builds a CartItem from an id and alternating key/value pairs.
// Keys are sjson paths, so nested fields such as "price.amount" are allowed.
func Item(id any, kv ...any) (CartItem, error) {
	if len(kv)%2 != 0 {
		return CartItem{}, fmt.Errorf("%w: odd number of key/value arguments", ErrInvalidItem)
	}

	raw, err := sjson.Set("", idField, id)
	if err != nil {
		return CartItem{}, fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return CartItem{}, fmt.Errorf("%w: key %v is not a string", ErrInvalidItem, kv[i])
		}
		if raw, err = sjson.Set(raw, key, kv[i+1]); err != nil {
			return CartItem{}, fmt.Errorf("%w: %v", ErrInvalidItem, err)
		}
	}
	return CartItem{raw: raw}, nil
}

// MustItem is like Item but panics on error. Intended for tests and literals.
func MustItem(id any, kv ...any) CartItem {
	item, err := Item(id, kv...)
	if err != nil {
		panic(err)
	}
	return item
}

const idField = "id"

// ID returns the item's id value.
func (c CartItem) ID() gjson.Result {
	return gjson.Get(c.raw, idField)
}

// Get reads a pass-through field using gjson path syntax.
func (c CartItem) Get(path string) gjson.Result {
	return gjson.Get(c.raw, path)
}

// SameID reports whether the item's id equals id.
func (c CartItem) SameID(id gjson.Result) bool {
	return SameID(c.ID(), id)
}

// Raw returns the item's JSON text.
func (c CartItem) Raw() string {
	return c.raw
}

// String implements fmt.Stringer.
func (c CartItem) String() string {
	return c.raw
}

// MarshalJSON implements json.Marshaler.
func (c CartItem) MarshalJSON() ([]byte, error) {
	if c.raw == "" {
		return []byte("null"), nil
	}
	return []byte(c.raw), nil
}

// SameID compares two JSON id values. Numbers compare by value and strings
// by content, so 1 and 1.0 match but 1 and "1" do not.
func SameID(a, b gjson.Result) bool {
	if !a.Exists() || !b.Exists() || a.Type != b.Type {
		return false
	}
	switch a.Type {
	case gjson.Number:
		return a.Num == b.Num
	case gjson.String:
		return a.Str == b.Str
	case gjson.True, gjson.False, gjson.Null:
		return true
	default:
		return compact(a) == compact(b)
	}
}

func compact(r gjson.Result) string {
	return gjson.Get(r.Raw, "@ugly").Raw
}
