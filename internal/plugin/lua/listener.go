package lua

import (
	"context"
	"fmt"
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/cartstore/internal/event"
)

// HandlerName is the global function a listener script must define.
const HandlerName = "on_dispatch"

// Listener is a dispatch listener backed by a Lua script.
type Listener struct {
	state *State
}

// NewListener loads a listener from Lua source.
func NewListener(src string, logger *slog.Logger) (*Listener, error) {
	return newListener(logger, func(s *State) error { return s.DoString(src) })
}

// LoadListener loads a listener from a Lua file.
func LoadListener(path string, logger *slog.Logger) (*Listener, error) {
	return newListener(logger, func(s *State) error { return s.DoFile(path) })
}

func newListener(logger *slog.Logger, load func(*State) error) (*Listener, error) {
	s := NewState(WithLogger(logger))
	if err := load(s); err != nil {
		s.Close()
		return nil, fmt.Errorf("load lua listener: %w", err)
	}
	if !s.HasFunction(HandlerName) {
		s.Close()
		return nil, ErrNoHandler
	}
	return &Listener{state: s}, nil
}

// Handle calls on_dispatch with the event.
func (l *Listener) Handle(ctx context.Context, ev event.Event) error {
	ret, err := l.state.CallContext(ctx, HandlerName, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{EventTable(L, ev)}
	})
	if err != nil {
		return fmt.Errorf("%s: %w", HandlerName, err)
	}

	if len(ret) > 0 && ret[0] == lua.LFalse {
		if len(ret) > 1 && ret[1] != lua.LNil {
			return fmt.Errorf("%w: %s", ErrListenerFailed, ret[1].String())
		}
		return ErrListenerFailed
	}
	return nil
}

// State returns the underlying Lua state.
func (l *Listener) State() *State {
	return l.state
}

// Close releases the Lua state.
func (l *Listener) Close() error {
	return l.state.Close()
}
