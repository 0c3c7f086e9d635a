package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/cartstore/internal/state"
)

// Event represents a requested state change.
// Events are immutable once created.
type Event struct {
	// ID uniquely identifies this event instance.
	ID uuid.UUID

	// Type selects the transition applied by the reducer.
	Type Type

	// Payload is the raw JSON payload. Empty means no payload.
	Payload string

	// Time is when the event was created.
	Time time.Time
}

// New creates an event with the given type and raw JSON payload.
func New(t Type, payload string) Event {
	return Event{
		ID:      uuid.New(),
		Type:    t,
		Payload: payload,
		Time:    time.Now(),
	}
}

// AddToCart creates an ADD_TO_CART event carrying item.
func AddToCart(item state.CartItem) Event {
	return New(TypeAddToCart, item.Raw())
}

// RemoveFromCart creates a REMOVE_FROM_CART event for the given id.
func RemoveFromCart(id any) Event {
	payload, err := sjson.Set("", "id", id)
	if err != nil {
		// Unencodable ids produce an empty payload, which the reducer rejects.
		payload = ""
	}
	return New(TypeRemoveFromCart, payload)
}

// LoginUser creates a LOGIN_USER event for name.
func LoginUser(name string) Event {
	payload, _ := sjson.Set("", "name", name)
	return New(TypeLoginUser, payload)
}

// LogoutUser creates a LOGOUT_USER event.
func LogoutUser() Event {
	return New(TypeLogoutUser, "")
}

// Get reads a payload field using gjson path syntax.
func (e Event) Get(path string) gjson.Result {
	return gjson.Get(e.Payload, path)
}

// Data returns the whole payload as a parsed JSON value.
func (e Event) Data() gjson.Result {
	return gjson.Parse(e.Payload)
}

// String returns a short description used in logs and history labels.
func (e Event) String() string {
	if e.Payload == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s %s", e.Type, e.Payload)
}

// MarshalJSON encodes the event as
//
//	{"id":"...","type":"...","time":"...","payload":{...}}
func (e Event) MarshalJSON() ([]byte, error) {
	out, err := sjson.Set("", "id", e.ID.String())
	if err != nil {
		return nil, err
	}
	if out, err = sjson.Set(out, "type", string(e.Type)); err != nil {
		return nil, err
	}
	if !e.Time.IsZero() {
		if out, err = sjson.Set(out, "time", e.Time.UTC().Format(time.RFC3339Nano)); err != nil {
			return nil, err
		}
	}
	if e.Payload != "" {
		if out, err = sjson.SetRaw(out, "payload", e.Payload); err != nil {
			return nil, err
		}
	}
	return []byte(out), nil
}

// Parse decodes an event from JSON. A missing id gets a fresh UUID and a
// missing time is set to now.
func Parse(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return Event{}, fmt.Errorf("%w: not valid JSON", ErrMalformedEvent)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return Event{}, fmt.Errorf("%w: expected object", ErrMalformedEvent)
	}

	typ := doc.Get("type")
	if typ.Type != gjson.String || typ.Str == "" {
		return Event{}, fmt.Errorf("%w: missing type", ErrMalformedEvent)
	}

	ev := New(Type(typ.Str), "")
	if p := doc.Get("payload"); p.Exists() && p.Type != gjson.Null {
		ev.Payload = p.Raw
	}
	if id := doc.Get("id"); id.Exists() {
		parsed, err := uuid.Parse(id.String())
		if err != nil {
			return Event{}, fmt.Errorf("%w: bad id: %v", ErrMalformedEvent, err)
		}
		ev.ID = parsed
	}
	if ts := doc.Get("time"); ts.Exists() {
		parsed, err := time.Parse(time.RFC3339Nano, ts.String())
		if err != nil {
			return Event{}, fmt.Errorf("%w: bad time: %v", ErrMalformedEvent, err)
		}
		ev.Time = parsed
	}
	return ev, nil
}
