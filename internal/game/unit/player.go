package unit

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/inferno/internal/game/combat"
	"github.com/cory-johannsen/inferno/internal/game/grid"
	"github.com/cory-johannsen/inferno/internal/game/pathing"
	"github.com/cory-johannsen/inferno/internal/game/prayer"
)

// PlayerStats are the levels every player starts with.
var PlayerStats = combat.Stats{
	Attack:   99,
	Strength: 99,
	Defence:  99,
	Range:    99,
	Magic:    99,
	Hitpoint: 99,
	Prayer:   99,
}

// NewPlayer creates a player at loc wearing equipment.
func NewPlayer(name string, loc grid.Location, equipment Equipment, c *Catalog) (*Unit, error) {
	u := newUnit(combat.KindPlayer, name, loc, 1, PlayerStats)
	u.Prayers = prayer.NewController()
	u.AutoRetaliate = false
	for slot, it := range equipment {
		u.Equipment[slot] = it
	}
	if err := u.EquipmentChanged(c); err != nil {
		return nil, err
	}
	return u, nil
}

// Speed is the number of tiles a player walks per tick.
func (u *Unit) Speed() int {
	if u.Running {
		return 2
	}
	return 1
}

// MoveTo sets the player's destination to the clicked tile and drops its aggro.
// Clicking on a unit or obstacle walks to the nearest open tile beside it.
func (u *Unit) MoveTo(w World, x, y int) {
	u.Aggro = nil
	g := w.Grid()
	dest := grid.Location{X: x, Y: y}
	for _, o := range g.OccupantsIn(x, y, 1) {
		if o == grid.Occupant(u) || o.Collision() != grid.CollisionBlockMovement {
			continue
		}
		open, err := pathing.NearestOpenTile(g, dest, o.Size(), u.location)
		if err != nil {
			w.Logger().Debug("no open tile near click", zap.Int("x", x), zap.Int("y", y))
			u.Destination = nil
			return
		}
		dest = open
		break
	}
	u.Destination = &dest
}

// DrainPrayer applies one tick of prayer drain and returns the points lost.
// All prayers switch off when prayer points run out.
func (u *Unit) DrainPrayer(w World) int {
	if u.Prayers == nil {
		return 0
	}
	lost := u.drainer.Drain(u.Prayers.DrainRate(), prayer.Resistance(u.bonuses.Other.Prayer))
	u.Current.Prayer -= lost
	if u.Current.Prayer > 0 {
		return lost
	}
	u.Current.Prayer = 0
	if lost > 0 || len(u.Prayers.ActivePrayers()) > 0 {
		u.Prayers.DeactivateAll()
		u.drainer.Reset()
		w.Record(Event{Type: EventPrayerDepleted, ActorID: u.ID, Actor: u.Name})
	}
	return lost
}

// pathToAggro points the player's destination at a tile it can attack its aggro
// from, or clears aggro when the target is gone.
func (u *Unit) pathToAggro(w World) {
	if u.Aggro == nil {
		return
	}
	if u.aggroGone() {
		u.Destination = nil
		return
	}
	g := w.Grid()
	target := u.Aggro.Box()
	if target.Contains(u.location.X, u.location.Y) {
		escape, err := pathing.EscapeTile(g, u.location, target.Size)
		if err == nil {
			u.Destination = &escape
		}
		return
	}
	u.updateLOS(w)
	if u.HasLOS {
		u.Destination = nil
		return
	}
	// Ranged players walk toward a melee tile as well until line of sight returns.
	tile, err := pathing.SeekMeleeTile(g, g, u.location, target)
	if err != nil {
		u.Destination = nil
		return
	}
	u.Destination = &tile
}

// playerMovementStep walks the player toward its destination.
func (u *Unit) playerMovementStep(w World) {
	u.pathToAggro(w)
	if u.Destination != nil && !u.IsFrozen() && !u.IsStunned() && !u.IsDying() {
		var aggro *grid.Box
		if u.Aggro != nil {
			b := u.Aggro.Box()
			aggro = &b
		}
		next, err := pathing.Path(w.Grid(), u.location, *u.Destination, u.Speed(), aggro)
		if err != nil {
			w.Logger().Debug("player path blocked",
				zap.Int("x", u.Destination.X), zap.Int("y", u.Destination.Y))
			u.Destination = nil
		} else if next != u.location {
			u.location = next
			w.Moved(u)
		}
		if u.Destination != nil && *u.Destination == u.location {
			u.Destination = nil
		}
	}
	if u.Frozen > 0 {
		u.Frozen--
	}
}

// playerAttackStep attacks the aggro when it is in sight and the cooldown is up.
func (u *Unit) playerAttackStep(w World) {
	u.AttackDelay--
	if u.Aggro != nil && !u.aggroGone() && u.CanAttack() {
		u.updateLOS(w)
		if u.HasLOS && u.AttackDelay <= 0 {
			weapon := u.Weapon()
			if weapon != nil {
				weapon.Attack(w, u, u.Aggro, combat.AttackBonuses{})
				u.AttackDelay = weapon.AttackSpeed()
			}
		}
	}
	if u.Stunned > 0 {
		u.Stunned--
	}
}
