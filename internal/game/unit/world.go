package unit

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/inferno/internal/game/combat"
	"github.com/cory-johannsen/inferno/internal/game/dice"
	"github.com/cory-johannsen/inferno/internal/game/grid"
)

// World is the simulation context a unit acts within. It is passed explicitly to
// every step; units hold no reference to it.
type World interface {
	Grid() *grid.Grid
	Source() dice.Source
	Logger() *zap.Logger
	// Player returns the player unit, or nil when there is none.
	Player() *Unit
	// Schedule runs fn after ticks ticks, at the start of the projectile phase.
	Schedule(ticks int, fn func())
	// Moved tells the world that u changed position so the grid can be rebuilt.
	Moved(u *Unit)
	// Record appends ev to the current tick's event log.
	Record(ev Event)
}

// Behavior is a per-mob strategy hooked into the movement step.
type Behavior interface {
	// OnMovement runs after the mob's own movement each tick.
	OnMovement(w World, u *Unit)
}

// EventType identifies what happened in an Event.
type EventType string

const (
	EventAttack         EventType = "attack"
	EventLanded         EventType = "landed"
	EventHeal           EventType = "heal"
	EventDied           EventType = "died"
	EventRemoved        EventType = "removed"
	EventPrayerDepleted EventType = "prayer_depleted"
	EventTeleport       EventType = "teleport"
)

// Event records one thing a unit did or suffered during a tick.
type Event struct {
	Tick    int
	Type    EventType
	ActorID uuid.UUID
	Actor   string
	// TargetID is uuid.Nil when the event has no target.
	TargetID uuid.UUID
	Target   string
	Style    combat.Style
	Damage   int
	Blocked  bool
	Hit      bool
}
