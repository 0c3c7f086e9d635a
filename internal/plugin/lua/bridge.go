package lua

import (
	"time"

	"github.com/tidwall/gjson"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/cartstore/internal/event"
)

// FromJSON converts a parsed JSON value to a Lua value.
// Objects and arrays become tables; null becomes nil.
func FromJSON(L *lua.LState, r gjson.Result) lua.LValue {
	switch r.Type {
	case gjson.Null:
		return lua.LNil
	case gjson.False:
		return lua.LFalse
	case gjson.True:
		return lua.LTrue
	case gjson.Number:
		return lua.LNumber(r.Num)
	case gjson.String:
		return lua.LString(r.Str)
	}

	tbl := L.NewTable()
	if r.IsArray() {
		i := 0
		r.ForEach(func(_, v gjson.Result) bool {
			i++
			tbl.RawSetInt(i, FromJSON(L, v))
			return true
		})
		return tbl
	}
	r.ForEach(func(k, v gjson.Result) bool {
		tbl.RawSetString(k.String(), FromJSON(L, v))
		return true
	})
	return tbl
}

// EventTable converts an event to the table passed to on_dispatch.
func EventTable(L *lua.LState, ev event.Event) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("id", lua.LString(ev.ID.String()))
	tbl.RawSetString("type", lua.LString(ev.Type))
	if !ev.Time.IsZero() {
		tbl.RawSetString("time", lua.LString(ev.Time.UTC().Format(time.RFC3339Nano)))
	}
	if ev.Payload != "" {
		tbl.RawSetString("payload", FromJSON(L, ev.Data()))
	}
	return tbl
}
