package event

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cartstore/internal/state"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		ev      Event
		typ     Type
		payload string
	}{
		{"add", AddToCart(state.MustItem(1, "name", "A")), TypeAddToCart, `{"id":1,"name":"A"}`},
		{"remove", RemoveFromCart(1), TypeRemoveFromCart, `{"id":1}`},
		{"remove string id", RemoveFromCart("sku"), TypeRemoveFromCart, `{"id":"sku"}`},
		{"login", LoginUser("ada"), TypeLoginUser, `{"name":"ada"}`},
		{"logout", LogoutUser(), TypeLogoutUser, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.ev.Type)
			assert.Equal(t, tt.payload, tt.ev.Payload)
			assert.NotEqual(t, uuid.Nil, tt.ev.ID)
			assert.False(t, tt.ev.Time.IsZero())
		})
	}
}

func TestEventIDsAreUnique(t *testing.T) {
	assert.NotEqual(t, LogoutUser().ID, LogoutUser().ID)
}

func TestTypeKnown(t *testing.T) {
	for _, typ := range []Type{TypeAddToCart, TypeRemoveFromCart, TypeLoginUser, TypeLogoutUser} {
		assert.True(t, typ.Known(), typ)
	}
	assert.False(t, Type("CHECKOUT").Known())
	assert.False(t, Type("").Known())
}

func TestGet(t *testing.T) {
	ev := LoginUser("ada")
	assert.Equal(t, "ada", ev.Get("name").String())
	assert.False(t, ev.Get("missing").Exists())
	assert.True(t, ev.Data().IsObject())
}

func TestParse(t *testing.T) {
	ev, err := Parse([]byte(`{"type":"ADD_TO_CART","payload":{"id":2,"name":"B"}}`))
	require.NoError(t, err)
	assert.Equal(t, TypeAddToCart, ev.Type)
	assert.Equal(t, `{"id":2,"name":"B"}`, ev.Payload)
	assert.NotEqual(t, uuid.Nil, ev.ID)

	ev, err = Parse([]byte(`{"type":"LOGOUT_USER","payload":null}`))
	require.NoError(t, err)
	assert.Empty(t, ev.Payload)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"type":`},
		{"not an object", `["ADD_TO_CART"]`},
		{"missing type", `{"payload":{}}`},
		{"empty type", `{"type":""}`},
		{"numeric type", `{"type":3}`},
		{"bad id", `{"type":"LOGOUT_USER","id":"nope"}`},
		{"bad time", `{"type":"LOGOUT_USER","time":"yesterday"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.ErrorIs(t, err, ErrMalformedEvent)
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	orig := LoginUser("ada")
	orig.Time = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, orig.ID, got.ID)
	assert.Equal(t, orig.Type, got.Type)
	assert.Equal(t, orig.Payload, got.Payload)
	assert.True(t, orig.Time.Equal(got.Time))
}

func TestString(t *testing.T) {
	assert.Equal(t, "LOGOUT_USER", LogoutUser().String())
	assert.Equal(t, `REMOVE_FROM_CART {"id":1}`, RemoveFromCart(1).String())
}
