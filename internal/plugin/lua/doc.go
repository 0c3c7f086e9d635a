// Package lua runs "on dispatch" listeners written in Lua.
//
// This package wraps the gopher-lua library to provide:
//   - Sandboxed Lua state management
//   - JSON payload to Lua table conversion
//   - A dispatch.Listener backed by a Lua script
//
// # Scripts
//
// A listener script defines a global on_dispatch function. It receives a
// table describing the committed event:
//
//	function on_dispatch(ev)
//	  -- ev.id, ev.type, ev.time, ev.payload (table, or nil)
//	  if ev.type == "LOGIN_USER" then
//	    log("welcome " .. ev.payload.name)
//	  end
//	end
//
// Returning false (optionally followed by a message) or raising an error
// reports the listener as failed. The dispatcher logs the failure; the
// state change is never rolled back.
//
// # Sandbox
//
// Only the base, table, string and math libraries are opened. dofile,
// loadfile, load, loadstring and require are removed, and print and log
// write to the configured slog.Logger instead of stdout.
package lua
