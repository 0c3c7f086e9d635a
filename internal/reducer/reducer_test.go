package reducer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cartstore/internal/event"
	"github.com/dshills/cartstore/internal/state"
)

func mustReduce(t *testing.T, s state.State, evs ...event.Event) state.State {
	t.Helper()
	for _, ev := range evs {
		var err error
		s, err = Reduce(s, ev)
		require.NoError(t, err, ev.String())
	}
	return s
}

func TestAddToCartAppendsInOrder(t *testing.T) {
	s := state.Initial()
	for i := 1; i <= 5; i++ {
		next := mustReduce(t, s, event.AddToCart(state.MustItem(i, "name", fmt.Sprint("item", i))))
		require.Equal(t, s.Len()+1, next.Len())
		s = next
	}

	for i := 0; i < s.Len(); i++ {
		assert.Equal(t, int64(i+1), s.At(i).ID().Int())
	}
}

func TestAddToCartKeepsDuplicatesAndFields(t *testing.T) {
	s := mustReduce(t, state.Initial(),
		event.AddToCart(state.MustItem(1, "name", "A", "qty", 2)),
		event.AddToCart(state.MustItem(1, "name", "A", "qty", 2)),
	)

	require.Equal(t, 2, s.Len())
	assert.Equal(t, `{"id":1,"name":"A","qty":2}`, s.At(1).Raw())
}

func TestRemoveFromCart(t *testing.T) {
	base := mustReduce(t, state.Initial(),
		event.AddToCart(state.MustItem(1, "name", "A")),
		event.AddToCart(state.MustItem(2, "name", "B")),
		event.AddToCart(state.MustItem(1, "name", "A again")),
	)

	t.Run("removes every match", func(t *testing.T) {
		s := mustReduce(t, base, event.RemoveFromCart(1))
		require.Equal(t, 1, s.Len())
		assert.Equal(t, int64(2), s.At(0).ID().Int())
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		s := mustReduce(t, base, event.RemoveFromCart(42))
		assert.True(t, s.Equal(base))
	})

	t.Run("string id does not match number", func(t *testing.T) {
		s := mustReduce(t, base, event.RemoveFromCart("1"))
		assert.True(t, s.Equal(base))
	})
}

func TestLoginLogoutLeavesCartAlone(t *testing.T) {
	before := mustReduce(t, state.Initial(), event.AddToCart(state.MustItem(1)))

	in := mustReduce(t, before, event.LoginUser("ada"))
	assert.Equal(t, state.User{LoggedIn: true, Name: "ada"}, in.User())
	assert.True(t, in.WithUser(state.LoggedOut()).Equal(before))

	out := mustReduce(t, in, event.LogoutUser())
	assert.True(t, out.Equal(before))
	assert.Empty(t, out.User().Name)
}

func TestLogoutIgnoresPayload(t *testing.T) {
	in := mustReduce(t, state.Initial(), event.LoginUser("ada"))
	out := mustReduce(t, in, event.New(event.TypeLogoutUser, `{"name":"still-here"}`))
	assert.Equal(t, state.LoggedOut(), out.User())
}

func TestUnknownTypeIsIdentity(t *testing.T) {
	s := mustReduce(t, state.Initial(), event.AddToCart(state.MustItem(1)), event.LoginUser("ada"))

	got, err := Reduce(s, event.New("CHECKOUT", `{"id":1}`))
	require.NoError(t, err)
	assert.True(t, got.Equal(s))
}

func TestInvalidPayload(t *testing.T) {
	s := mustReduce(t, state.Initial(), event.AddToCart(state.MustItem(1)))

	tests := []struct {
		name string
		ev   event.Event
	}{
		{"add without payload", event.New(event.TypeAddToCart, "")},
		{"add without id", event.New(event.TypeAddToCart, `{"name":"A"}`)},
		{"add non-object", event.New(event.TypeAddToCart, `[1]`)},
		{"add truncated object", event.New(event.TypeAddToCart, `{"id":1,"name":`)},
		{"add trailing garbage", event.New(event.TypeAddToCart, `{"id":1} {"id":2}`)},
		{"remove without id", event.New(event.TypeRemoveFromCart, `{}`)},
		{"remove without payload", event.New(event.TypeRemoveFromCart, "")},
		{"login without name", event.New(event.TypeLoginUser, `{}`)},
		{"login empty name", event.LoginUser("")},
		{"login numeric name", event.New(event.TypeLoginUser, `{"name":7}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reduce(s, tt.ev)
			require.ErrorIs(t, err, ErrInvalidPayload)
			assert.Contains(t, err.Error(), string(tt.ev.Type))
			assert.True(t, got.Equal(s), "state must be unchanged")
		})
	}
}

func TestAddedItemsStayEncodable(t *testing.T) {
	s, err := Reduce(state.Initial(), event.New(event.TypeAddToCart, `{"id":1,"name":`))
	require.Error(t, err)

	b, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"cart":[],"user":{"isLoggedIn":false,"name":null}}`, string(b))
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := mustReduce(t, state.Initial(), event.AddToCart(state.MustItem(1)), event.AddToCart(state.MustItem(2)))
	snapshot := s.Cart()

	_ = mustReduce(t, s, event.RemoveFromCart(1))
	_ = mustReduce(t, s, event.AddToCart(state.MustItem(3)))
	_ = mustReduce(t, s, event.LoginUser("ada"))

	assert.Equal(t, snapshot, s.Cart())
	assert.False(t, s.User().LoggedIn)
}

func TestReduceIsDeterministic(t *testing.T) {
	s := mustReduce(t, state.Initial(), event.AddToCart(state.MustItem(1)))
	ev := event.AddToCart(state.MustItem(2, "name", "B"))

	a, errA := Reduce(s, ev)
	b, errB := Reduce(s, ev)
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.True(t, a.Equal(b))
}

func TestLoggedOutNeverHasName(t *testing.T) {
	evs := []event.Event{
		event.LoginUser("ada"),
		event.AddToCart(state.MustItem(1)),
		event.LogoutUser(),
		event.LogoutUser(),
		event.LoginUser("bob"),
		event.New("NOISE", ""),
		event.LogoutUser(),
	}

	s := state.Initial()
	for _, ev := range evs {
		s = mustReduce(t, s, ev)
		if !s.User().LoggedIn {
			assert.Empty(t, s.User().Name, "after %s", ev.Type)
		}
	}
}
