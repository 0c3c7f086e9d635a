package lua

import (
	"log/slog"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L      *lua.LState
	logger *slog.Logger
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState, logger *slog.Logger) *Sandbox {
	return &Sandbox{
		L:      L,
		logger: logger,
	}
}

// Install sets up the sandbox restrictions.
func (s *Sandbox) Install() {
	// Remove functions that load code from disk or strings.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.installLogging()
}

// installLogging routes print and log to the slog logger.
func (s *Sandbox) installLogging() {
	write := func(L *lua.LState) int {
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		s.logger.Info(strings.Join(parts, " "), "source", "lua")
		return 0
	}
	s.L.SetGlobal("print", s.L.NewFunction(write))
	s.L.SetGlobal("log", s.L.NewFunction(write))
}
