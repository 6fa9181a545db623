package script

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds every script execution.
const DefaultExecutionTimeout = 2 * time.Second

// State wraps a sandboxed gopher-lua interpreter.
type State struct {
	mu      sync.Mutex
	L       *lua.LState
	timeout time.Duration
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the per-call timeout.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.timeout = d
	}
}

// NewState creates a sandboxed state with the inklink helper module loaded.
func NewState(opts ...StateOption) *State {
	s := &State{timeout: DefaultExecutionTimeout}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("inklink", L.SetFuncs(L.NewTable(), helpers))

	s.L = L
	return s
}

var helpers = map[string]lua.LGFunction{
	"uuid": func(L *lua.LState) int {
		L.Push(lua.LString(uuid.NewString()))
		return 1
	},
	"basename": func(L *lua.LState) int {
		L.Push(lua.LString(filepath.Base(L.CheckString(1))))
		return 1
	},
	"dirname": func(L *lua.LState) int {
		L.Push(lua.LString(filepath.Dir(L.CheckString(1))))
		return 1
	},
	"stem": func(L *lua.LState) int {
		base := filepath.Base(L.CheckString(1))
		L.Push(lua.LString(base[:len(base)-len(filepath.Ext(base))]))
		return 1
	},
	"date": func(L *lua.LState) int {
		layout := L.OptString(1, "2006-01-02")
		L.Push(lua.LString(time.Now().Format(layout)))
		return 1
	},
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	return s.run(func() error {
		return s.L.DoFile(path)
	})
}

// DoString executes Lua source.
func (s *State) DoString(code string) error {
	return s.run(func() error {
		return s.L.DoString(code)
	})
}

// HasFunction reports whether a global function named fn exists.
func (s *State) HasFunction(fn string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	return s.L.GetGlobal(fn).Type() == lua.LTFunction
}

// CallString calls the global function fn with string arguments and
// returns its first result, which must be a string.
func (s *State) CallString(fn string, args ...string) (string, error) {
	var result string
	err := s.run(func() error {
		f := s.L.GetGlobal(fn)
		if f.Type() != lua.LTFunction {
			return fmt.Errorf("%w: %s", ErrFunctionNotFound, fn)
		}

		top := s.L.GetTop()
		s.L.Push(f)
		for _, a := range args {
			s.L.Push(lua.LString(a))
		}
		if err := s.L.PCall(len(args), 1, nil); err != nil {
			s.L.SetTop(top)
			return err
		}
		ret := s.L.Get(-1)
		s.L.SetTop(top)

		str, ok := ret.(lua.LString)
		if !ok {
			return fmt.Errorf("%w: %s returned %s", ErrBadReturn, fn, ret.Type())
		}
		result = string(str)
		return nil
	})
	return result, err
}

func (s *State) run(fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Close releases the interpreter. Closing twice is a no-op.
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
