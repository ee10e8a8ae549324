package behavior

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/inferno/internal/game/grid"
	"github.com/cory-johannsen/inferno/internal/game/unit"
	"github.com/cory-johannsen/inferno/internal/scripting"
)

// HookOnMovement is the Lua global called once per movement step.
const HookOnMovement = "on_movement"

var (
	// ErrUnknownUnit is returned to scripts naming a unit outside their reach.
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrNegativeTicks is returned to scripts passing a negative duration.
	ErrNegativeTicks = errors.New("ticks must be >= 0")
	// ErrBlocked is returned when a teleport destination is occupied or out of bounds.
	ErrBlocked = errors.New("destination blocked")
)

// ScriptCaller dispatches a named hook into a script VM.
type ScriptCaller interface {
	// CallHook returns (LNil, nil) when the hook is not defined.
	CallHook(id, hook string, args ...lua.LValue) (lua.LValue, error)
}

// Host binds the engine.* callbacks of a scripting.Manager to the unit whose
// hook is running. Scripts can reach that unit, its aggro and the player.
//
// A Host serves one region at a time; hooks are not re-entrant.
type Host struct {
	caller ScriptCaller
	world  unit.World
	reach  map[string]*unit.Unit
}

// NewHost wires mgr's callbacks to the returned Host.
//
// Precondition: mgr must be non-nil.
func NewHost(mgr *scripting.Manager) *Host {
	if mgr == nil {
		panic("behavior.NewHost: mgr must not be nil")
	}
	h := &Host{caller: mgr}
	mgr.GetUnit = h.unitInfo
	mgr.PlayerUID = h.playerUID
	mgr.Freeze = h.withTicks(func(u *unit.Unit, n int) { u.Freeze(n) })
	mgr.Stun = h.withTicks(func(u *unit.Unit, n int) { u.Stun(n) })
	mgr.SetCooldown = h.withTicks(func(u *unit.Unit, n int) { u.AttackDelay = n })
	mgr.Teleport = h.teleport
	return h
}

// Run calls hook in script id on behalf of u with u's ID as the only argument.
func (h *Host) Run(w unit.World, u *unit.Unit, id, hook string) (lua.LValue, error) {
	h.world = w
	h.reach = map[string]*unit.Unit{u.ID.String(): u}
	if p := w.Player(); p != nil {
		h.reach[p.ID.String()] = p
	}
	if u.Aggro != nil {
		h.reach[u.Aggro.ID.String()] = u.Aggro
	}
	defer func() {
		h.world = nil
		h.reach = nil
	}()
	return h.caller.CallHook(id, hook, lua.LString(u.ID.String()))
}

func (h *Host) lookup(uid string) (*unit.Unit, error) {
	u, ok := h.reach[uid]
	if !ok || u.Removed() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUnit, uid)
	}
	return u, nil
}

func (h *Host) unitInfo(uid string) *scripting.UnitInfo {
	u, err := h.lookup(uid)
	if err != nil {
		return nil
	}
	loc := u.Location()
	return &scripting.UnitInfo{
		UID:         uid,
		Name:        u.Name,
		HP:          u.Current.Hitpoint,
		MaxHP:       u.Stats.Hitpoint,
		X:           loc.X,
		Y:           loc.Y,
		Size:        u.Size(),
		AttackDelay: u.AttackDelay,
		Frozen:      u.Frozen,
		Stunned:     u.Stunned,
		HasLOS:      u.HasLOS,
		Dying:       u.IsDead(),
	}
}

func (h *Host) playerUID() string {
	if h.world == nil {
		return ""
	}
	p := h.world.Player()
	if p == nil || p.Removed() {
		return ""
	}
	return p.ID.String()
}

func (h *Host) withTicks(apply func(u *unit.Unit, ticks int)) func(string, int) error {
	return func(uid string, ticks int) error {
		if ticks < 0 {
			return ErrNegativeTicks
		}
		u, err := h.lookup(uid)
		if err != nil {
			return err
		}
		apply(u, ticks)
		return nil
	}
}

func (h *Host) teleport(uid string, x, y int) error {
	u, err := h.lookup(uid)
	if err != nil {
		return err
	}
	g := h.world.Grid()
	to := grid.Location{X: x, Y: y}
	if !g.BoxInBounds(grid.Footprint(to, u.Size())) || g.CollidesWith(x, y, u.Size(), u) {
		return fmt.Errorf("%w: (%d, %d)", ErrBlocked, x, y)
	}
	u.SetLocation(to)
	h.world.Moved(u)
	h.world.Record(unit.Event{Type: unit.EventTeleport, ActorID: u.ID, Actor: u.Name})
	return nil
}

// Scripted runs a Lua on_movement hook every movement step.
type Scripted struct {
	host *Host
	id   string
}

// NewScripted returns a behavior calling script id through host.
func NewScripted(host *Host, id string) *Scripted {
	return &Scripted{host: host, id: id}
}

// OnMovement calls the hook. Script failures are logged by the manager and
// never stop the simulation.
func (s *Scripted) OnMovement(w unit.World, u *unit.Unit) {
	if _, err := s.host.Run(w, u, s.id, HookOnMovement); err != nil {
		w.Logger().Warn("on_movement failed", zap.String("script", s.id), zap.Error(err))
	}
}
