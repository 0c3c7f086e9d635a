package lua

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/cartstore/internal/event"
	"github.com/dshills/cartstore/internal/state"
)

const countingScript = `
count = 0
function on_dispatch(ev)
  count = count + 1
  last_type = ev.type
  last_id = ev.id
  if ev.payload ~= nil then
    last_name = ev.payload.name
  end
end
`

func newTestListener(t *testing.T, src string) *Listener {
	t.Helper()
	l, err := NewListener(src, nil)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestListenerReceivesEvent(t *testing.T) {
	l := newTestListener(t, countingScript)

	logout := event.LogoutUser()
	require.NoError(t, l.Handle(context.Background(), event.AddToCart(state.MustItem(1, "name", "A"))))
	require.NoError(t, l.Handle(context.Background(), logout))

	s := l.State()
	assert.Equal(t, lua.LNumber(2), s.GetGlobal("count"))
	assert.Equal(t, lua.LString("LOGOUT_USER"), s.GetGlobal("last_type"))
	assert.Equal(t, lua.LString("A"), s.GetGlobal("last_name"))
	assert.Equal(t, lua.LString(logout.ID.String()), s.GetGlobal("last_id"))
}

func TestListenerReportsFailure(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"false with message", `function on_dispatch(ev) return false, "cart locked" end`, "cart locked"},
		{"bare false", `function on_dispatch(ev) return false end`, "reported failure"},
		{"runtime error", `function on_dispatch(ev) error("boom") end`, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestListener(t, tt.script)
			err := l.Handle(context.Background(), event.LogoutUser())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestListenerTrueOrNilIsSuccess(t *testing.T) {
	l := newTestListener(t, `function on_dispatch(ev) return true end`)
	assert.NoError(t, l.Handle(context.Background(), event.LogoutUser()))
}

func TestListenerRequiresHandler(t *testing.T) {
	_, err := NewListener(`x = 1`, nil)
	assert.ErrorIs(t, err, ErrNoHandler)

	_, err = NewListener(`on_dispatch = 5`, nil)
	assert.ErrorIs(t, err, ErrNoHandler)

	_, err = NewListener(`function (`, nil)
	assert.Error(t, err)
}

func TestListenerHonoursContext(t *testing.T) {
	l := newTestListener(t, `function on_dispatch(ev) while true do end end`)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Handle(ctx, event.LogoutUser())
	assert.Error(t, err)
}

func TestLoadListenerFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listener.lua")
	require.NoError(t, os.WriteFile(path, []byte(countingScript), 0o600))

	l, err := LoadListener(path, nil)
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.Handle(context.Background(), event.LoginUser("ada")))
	assert.Equal(t, lua.LString("ada"), l.State().GetGlobal("last_name"))

	_, err = LoadListener(filepath.Join(t.TempDir(), "missing.lua"), nil)
	assert.Error(t, err)
}

func TestSandboxRemovesLoaders(t *testing.T) {
	s := NewState()
	defer s.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "io", "os"} {
		assert.Equal(t, lua.LNil, s.GetGlobal(name), name)
	}
	assert.Error(t, s.DoString(`dofile("/etc/passwd")`))
}

func TestSandboxRoutesPrintToLogger(t *testing.T) {
	var buf bytes.Buffer
	s := NewState(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	defer s.Close()

	require.NoError(t, s.DoString(`print("hello", 42) log("from lua")`))
	assert.Contains(t, buf.String(), "hello 42")
	assert.Contains(t, buf.String(), "from lua")
	assert.Contains(t, buf.String(), "source=lua")
}

func TestClosedState(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.DoString(`x = 1`), ErrStateClosed)
	assert.Equal(t, lua.LNil, s.GetGlobal("x"))
}

func TestFromJSON(t *testing.T) {
	s := NewState()
	defer s.Close()

	err := s.Do(func(L *lua.LState) error {
		v := FromJSON(L, gjson.Parse(`{"id":1,"tags":["a","b"],"ok":true,"none":null,"price":{"amount":2.5}}`))
		tbl, ok := v.(*lua.LTable)
		require.True(t, ok)

		assert.Equal(t, lua.LNumber(1), tbl.RawGetString("id"))
		assert.Equal(t, lua.LTrue, tbl.RawGetString("ok"))
		assert.Equal(t, lua.LNil, tbl.RawGetString("none"))

		tags := tbl.RawGetString("tags").(*lua.LTable)
		assert.Equal(t, 2, tags.Len())
		assert.Equal(t, lua.LString("b"), tags.RawGetInt(2))

		price := tbl.RawGetString("price").(*lua.LTable)
		assert.Equal(t, lua.LNumber(2.5), price.RawGetString("amount"))
		return nil
	})
	require.NoError(t, err)
}
