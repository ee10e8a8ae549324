package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/inferno/internal/game/dice"
)

// globalScriptID is the reserved key for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no VM is registered for an ID.
const globalScriptID = "__global__"

// UnitInfo is a snapshot of a unit's state passed to Lua callbacks.
type UnitInfo struct {
	UID         string
	Name        string
	HP          int
	MaxHP       int
	X           int
	Y           int
	Size        int
	AttackDelay int
	Frozen      int
	Stunned     int
	HasLOS      bool
	Dying       bool
}

type vm struct {
	L     *lua.LState
	limit int
}

// Manager owns one sandboxed LState per script ID and exposes hook dispatch.
//
// Manager is safe for concurrent CallHook after all loads complete. Each VM is
// single-threaded; the read lock only guards the VM map.
type Manager struct {
	mu     sync.RWMutex
	states map[string]*vm
	roller *dice.Roller
	logger *zap.Logger

	// Injected after construction. nil = no-op in engine.* functions.
	GetUnit     func(uid string) *UnitInfo
	PlayerUID   func() string
	Freeze      func(uid string, ticks int) error
	Stun        func(uid string, ticks int) error
	Teleport    func(uid string, x, y int) error
	SetCooldown func(uid string, ticks int) error
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no VMs.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting: NewManager requires a non-nil roller")
	}
	if logger == nil {
		panic("scripting: NewManager requires a non-nil logger")
	}
	return &Manager{
		states: make(map[string]*vm),
		roller: roller,
		logger: logger,
	}
}

// LoadScript creates a sandboxed VM for id, registers the engine module and
// runs src in it. An existing VM for id is replaced.
//
// Precondition: id must be non-empty.
// Postcondition: returns an error on Lua syntax or runtime failure; the previous
// VM, if any, stays registered in that case.
func (m *Manager) LoadScript(id, src string, instLimit int) error {
	L := NewSandboxedState(instLimit)
	m.RegisterModules(L)
	if err := L.DoString(src); err != nil {
		L.Close()
		return fmt.Errorf("scripting: loading script for %q: %w", id, err)
	}
	m.install(id, L, instLimit)
	return nil
}

// LoadDir creates a sandboxed VM for id, registers the engine module, then
// executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: id must be non-empty; scriptDir must be a readable directory.
func (m *Manager) LoadDir(id, scriptDir string, instLimit int) error {
	return m.loadInto(id, scriptDir, instLimit)
}

// LoadGlobal creates the shared VM used as a CallHook fallback for any ID.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(globalScriptID, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L := NewSandboxedState(instLimit)
	m.RegisterModules(L)
	for _, path := range luaFiles {
		src, err := os.ReadFile(path)
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: reading %q for %q: %w", path, key, err)
		}
		if err := L.DoString(string(src)); err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}
	m.install(key, L, instLimit)
	return nil
}

func (m *Manager) install(key string, L *lua.LState, instLimit int) {
	L.RemoveContext()
	m.mu.Lock()
	if old, ok := m.states[key]; ok {
		old.L.Close()
	}
	m.states[key] = &vm{L: L, limit: instLimit}
	m.mu.Unlock()
}

// Has reports whether a dedicated VM is registered for id.
func (m *Manager) Has(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.states[id]
	return ok
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, v := range m.states {
		v.L.Close()
		delete(m.states, key)
	}
}

// CallHook calls the named Lua global function in id's VM. If id has no VM,
// the global VM is tried as a fallback. Returns (LNil, nil) if the hook is not
// defined or no VM exists. Lua runtime errors, including exhausting the
// instruction budget, are logged at Warn level and never propagated.
//
// Each call runs under a fresh instruction budget.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(id, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.states[id]
	if !ok {
		v = m.states[globalScriptID]
	}
	m.mu.RUnlock()

	if v == nil {
		m.logger.Info("scripting: no VM for script",
			zap.String("script", id),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	L := v.L
	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	release := Limit(L, v.limit)
	defer release()
	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("script", id),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}
