package reducer

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/dshills/cartstore/internal/event"
	"github.com/dshills/cartstore/internal/state"
)

// ErrInvalidPayload is returned when an event payload lacks a field its
// type requires.
var ErrInvalidPayload = errors.New("invalid payload")

// Reduce computes the state that results from applying ev to s.
func Reduce(s state.State, ev event.Event) (state.State, error) {
	switch ev.Type {
	case event.TypeAddToCart:
		item, err := state.NewCartItem(ev.Payload)
		if err != nil {
			return s, payloadError(ev, err.Error())
		}
		return s.WithItem(item), nil

	case event.TypeRemoveFromCart:
		id := ev.Get("id")
		if !id.Exists() {
			return s, payloadError(ev, `missing "id"`)
		}
		return s.WithoutID(id), nil

	case event.TypeLoginUser:
		name := ev.Get("name")
		if name.Type != gjson.String || name.Str == "" {
			return s, payloadError(ev, `missing "name"`)
		}
		return s.WithUser(state.LoggedInAs(name.Str)), nil

	case event.TypeLogoutUser:
		return s.WithUser(state.LoggedOut()), nil

	default:
		return s, nil
	}
}

func payloadError(ev event.Event, reason string) error {
	return fmt.Errorf("%s: %w: %s", ev.Type, ErrInvalidPayload, reason)
}
