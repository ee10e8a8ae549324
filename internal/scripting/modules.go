package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RegisterModules registers the engine Lua table into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetGlobal("engine", engine)

	logTbl := L.NewTable()
	L.SetField(logTbl, "debug", L.NewFunction(m.luaLog(zap.DebugLevel)))
	L.SetField(logTbl, "info", L.NewFunction(m.luaLog(zap.InfoLevel)))
	L.SetField(logTbl, "warn", L.NewFunction(m.luaLog(zap.WarnLevel)))
	L.SetField(logTbl, "error", L.NewFunction(m.luaLog(zap.ErrorLevel)))
	L.SetField(engine, "log", logTbl)

	L.SetField(engine, "random", L.NewFunction(m.luaRandom))
	L.SetField(engine, "unit", L.NewFunction(m.luaUnit))
	L.SetField(engine, "player", L.NewFunction(m.luaPlayer))
	L.SetField(engine, "freeze", L.NewFunction(m.luaTicks(func() func(string, int) error { return m.Freeze })))
	L.SetField(engine, "stun", L.NewFunction(m.luaTicks(func() func(string, int) error { return m.Stun })))
	L.SetField(engine, "set_cooldown", L.NewFunction(m.luaTicks(func() func(string, int) error { return m.SetCooldown })))
	L.SetField(engine, "teleport", L.NewFunction(m.luaTeleport))
}

func (m *Manager) luaLog(level zapcore.Level) lua.LGFunction {
	return func(L *lua.LState) int {
		msg := L.CheckString(1)
		if ce := m.logger.Check(level, msg); ce != nil {
			ce.Write(zap.String("source", "lua"))
		}
		return 0
	}
}

// luaRandom implements engine.random(n), a uniform int in [0, n).
func (m *Manager) luaRandom(L *lua.LState) int {
	n := L.CheckInt(1)
	if n <= 0 {
		L.ArgError(1, "n must be > 0")
		return 0
	}
	L.Push(lua.LNumber(m.roller.Intn(n)))
	return 1
}

// luaUnit implements engine.unit(uid), returning a table or nil.
func (m *Manager) luaUnit(L *lua.LState) int {
	uid := L.CheckString(1)
	if m.GetUnit == nil {
		L.Push(lua.LNil)
		return 1
	}
	info := m.GetUnit(uid)
	if info == nil {
		L.Push(lua.LNil)
		return 1
	}
	tbl := L.NewTable()
	L.SetField(tbl, "uid", lua.LString(info.UID))
	L.SetField(tbl, "name", lua.LString(info.Name))
	L.SetField(tbl, "hp", lua.LNumber(info.HP))
	L.SetField(tbl, "max_hp", lua.LNumber(info.MaxHP))
	L.SetField(tbl, "x", lua.LNumber(info.X))
	L.SetField(tbl, "y", lua.LNumber(info.Y))
	L.SetField(tbl, "size", lua.LNumber(info.Size))
	L.SetField(tbl, "attack_delay", lua.LNumber(info.AttackDelay))
	L.SetField(tbl, "frozen", lua.LNumber(info.Frozen))
	L.SetField(tbl, "stunned", lua.LNumber(info.Stunned))
	L.SetField(tbl, "has_los", lua.LBool(info.HasLOS))
	L.SetField(tbl, "dying", lua.LBool(info.Dying))
	L.Push(tbl)
	return 1
}

// luaPlayer implements engine.player(), returning the player's uid or nil.
func (m *Manager) luaPlayer(L *lua.LState) int {
	if m.PlayerUID == nil {
		L.Push(lua.LNil)
		return 1
	}
	uid := m.PlayerUID()
	if uid == "" {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(uid))
	return 1
}

// luaTicks adapts a (uid, ticks) callback into a Lua function returning
// true on success or false plus an error message.
func (m *Manager) luaTicks(get func() func(string, int) error) lua.LGFunction {
	return func(L *lua.LState) int {
		uid := L.CheckString(1)
		ticks := L.CheckInt(2)
		fn := get()
		if fn == nil {
			L.Push(lua.LFalse)
			return 1
		}
		return pushResult(L, fn(uid, ticks))
	}
}

// luaTeleport implements engine.teleport(uid, x, y).
func (m *Manager) luaTeleport(L *lua.LState) int {
	uid := L.CheckString(1)
	x := L.CheckInt(2)
	y := L.CheckInt(3)
	if m.Teleport == nil {
		L.Push(lua.LFalse)
		return 1
	}
	return pushResult(L, m.Teleport(uid, x, y))
}

func pushResult(L *lua.LState, err error) int {
	if err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}
