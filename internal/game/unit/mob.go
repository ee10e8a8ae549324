package unit

import (
	"github.com/cory-johannsen/inferno/internal/game/combat"
	"github.com/cory-johannsen/inferno/internal/game/grid"
	"github.com/cory-johannsen/inferno/internal/game/los"
)

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// mobMovementStep steps the mob one tile toward its aggro when it cannot see it.
func (u *Unit) mobMovementStep(w World) {
	if u.SpawnDelay > 0 {
		return
	}
	u.aggroGone()
	u.updateLOS(w)
	if u.CanMove() && u.Aggro != nil {
		u.stepToward(w, u.Aggro.location)
	}
	if u.behavior != nil && !u.IsDead() {
		u.behavior.OnMovement(w, u)
	}
	if u.Frozen > 0 {
		u.Frozen--
	}
}

// stepToward moves one tile along each axis toward target, preferring a
// diagonal step, then x, then y. A mob standing on its target shuffles at random.
func (u *Unit) stepToward(w World, target grid.Location) {
	x, y := u.location.X, u.location.Y
	dx := x + sign(target.X-x)
	dy := y + sign(target.Y-y)

	if grid.CollisionMath(x, y, u.size, target.X, target.Y, 1) {
		src := w.Source()
		dx, dy = x, y
		if src.Float64() < 0.5 {
			if src.Float64() < 0.5 {
				dx = x + 1
			} else {
				dx = x - 1
			}
		} else {
			if src.Float64() < 0.5 {
				dy = y + 1
			} else {
				dy = y - 1
			}
		}
	} else if grid.CollisionMath(dx, dy, u.size, target.X, target.Y, 1) {
		// corner safespot: never step onto the target
		dy = y
	}

	free := func(nx, ny int) bool {
		b := grid.Box{X: nx, Y: ny, Size: u.size}
		g := w.Grid()
		return g.BoxInBounds(b) && !g.CollidesWith(nx, ny, u.size, u)
	}
	xSpace := dx != x && free(dx, y)
	ySpace := dy != y && free(x, dy)

	next := u.location
	switch {
	case xSpace && ySpace && free(dx, dy):
		next = grid.Location{X: dx, Y: dy}
	case xSpace:
		next = grid.Location{X: dx, Y: y}
	case ySpace:
		next = grid.Location{X: x, Y: dy}
	}
	if next != u.location {
		u.location = next
		w.Moved(u)
	}
}

// mobAttackStep ticks the cooldown and attacks when the target is in sight.
func (u *Unit) mobAttackStep(w World) {
	if u.SpawnDelay > 0 {
		u.SpawnDelay--
		return
	}
	u.AttackDelay--
	if u.CanAttack() && u.Aggro != nil && !u.aggroGone() {
		target := u.Aggro
		style := u.attackStyle
		if u.meleeIfClose != "" && los.IsWithinMeleeRange(u.Box(), target.location) {
			style = u.meleeIfClose
		}
		under := grid.CollisionMath(u.location.X, u.location.Y, u.size, target.location.X, target.location.Y, 1)
		if !under && u.HasLOS && u.AttackDelay <= 0 {
			if weapon := u.weapons[style]; weapon != nil {
				weapon.Attack(w, u, target, combat.AttackBonuses{Style: style})
				u.AttackDelay = u.attackSpeed
			}
		}
	}
	if u.Stunned > 0 {
		u.Stunned--
	}
}
