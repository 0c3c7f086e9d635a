package lua

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// State wraps gopher-lua with sandboxing and locking.
//
// gopher-lua's LState is not goroutine-safe. The mutex in this struct
// serializes every access made through State's methods.
type State struct {
	L *lua.LState

	mu      sync.Mutex
	sandbox *Sandbox
	logger  *slog.Logger
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithLogger sets the logger that receives print and log output.
func WithLogger(logger *slog.Logger) StateOption {
	return func(s *State) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	s := &State{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})
	s.L = L

	openSafeLibraries(L)

	s.sandbox = NewSandbox(L, s.logger)
	s.sandbox.Install()

	return s
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug, package and channel are intentionally not opened.
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	return s.Do(func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

// DoString executes a Lua string.
func (s *State) DoString(code string) error {
	return s.Do(func(L *lua.LState) error {
		return L.DoString(code)
	})
}

// Do runs fn with exclusive access to the Lua state.
func (s *State) Do(fn func(L *lua.LState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	return s.doWithRecovery(func() error { return fn(s.L) })
}

// doWithRecovery executes a function with panic recovery.
func (s *State) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// CallContext calls a global Lua function under ctx. args builds the call
// arguments on the locked state. The returned values are left unconverted.
func (s *State) CallContext(ctx context.Context, fn string, args func(L *lua.LState) []lua.LValue) ([]lua.LValue, error) {
	var results []lua.LValue
	err := s.Do(func(L *lua.LState) error {
		fnVal := L.GetGlobal(fn)
		if fnVal.Type() != lua.LTFunction {
			return fmt.Errorf("%q is not a function (got %s)", fn, fnVal.Type())
		}

		L.SetContext(ctx)
		defer L.RemoveContext()

		stackTop := L.GetTop()
		L.Push(fnVal)
		var callArgs []lua.LValue
		if args != nil {
			callArgs = args(L)
		}
		for _, arg := range callArgs {
			L.Push(arg)
		}

		if err := L.PCall(len(callArgs), lua.MultRet, nil); err != nil {
			return err
		}

		nRet := L.GetTop() - stackTop
		results = make([]lua.LValue, nRet)
		for i := 0; i < nRet; i++ {
			results[i] = L.Get(stackTop + i + 1)
		}
		L.Pop(nRet)
		return nil
	})
	return results, err
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// HasFunction reports whether the global name is a function.
func (s *State) HasFunction(name string) bool {
	return s.GetGlobal(name).Type() == lua.LTFunction
}

// Close releases all resources associated with the Lua state.
// After Close is called, all other methods will return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
