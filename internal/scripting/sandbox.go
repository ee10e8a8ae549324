// Package scripting runs mob behaviour hooks in sandboxed GopherLua VMs. It
// knows nothing about the simulation; everything a script can touch is
// injected through Manager callback fields.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode budget of one hook call when no
// override is configured.
const DefaultInstructionLimit = 100_000

// unsafeGlobals are base-library functions that reach the filesystem or load
// arbitrary chunks.
var unsafeGlobals = []string{"dofile", "loadfile", "load", "collectgarbage", "require"}

// unseededMath draws from the process-wide generator and would break replay of
// a seeded run. Scripts roll through engine.random instead.
var unseededMath = []string{"random", "randomseed"}

// budget is a context that cancels itself once Done has been polled n times.
// The VM polls Done once per opcode, so n is an exact instruction count.
type budget struct {
	context.Context
	cancel context.CancelFunc
	left   atomic.Int64
}

func newBudget(n int) *budget {
	ctx, cancel := context.WithCancel(context.Background())
	b := &budget{Context: ctx, cancel: cancel}
	b.left.Store(int64(n))
	return b
}

func (b *budget) Done() <-chan struct{} {
	if b.left.Add(-1) <= 0 {
		b.cancel()
	}
	return b.Context.Done()
}

func effectiveLimit(instLimit int) int {
	if instLimit <= 0 {
		return DefaultInstructionLimit
	}
	return instLimit
}

// NewSandboxedState returns an LState with only the base, table, string and
// math libraries, minus the unsafe globals and math.random. It carries a budget
// of instLimit opcodes (0 selects DefaultInstructionLimit) covering everything
// run until Limit replaces it. The caller must Close the state.
func NewSandboxedState(instLimit int) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath} {
		open(L)
	}
	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	if mathLib, ok := L.GetGlobal(lua.MathLibName).(*lua.LTable); ok {
		for _, name := range unseededMath {
			mathLib.RawSetString(name, lua.LNil)
		}
	}
	L.SetContext(newBudget(effectiveLimit(instLimit)))
	return L
}

// Limit gives L a fresh budget of instLimit opcodes. The returned release
// function removes it and must be called once the run finishes.
func Limit(L *lua.LState, instLimit int) (release func()) {
	b := newBudget(effectiveLimit(instLimit))
	L.SetContext(b)
	return func() {
		L.RemoveContext()
		b.cancel()
	}
}
