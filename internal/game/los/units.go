package los

import (
	"github.com/cory-johannsen/inferno/internal/game/grid"
)

// MobHasLineOfSightOfPlayer tests from a mob of size s at (x, y) to the player's
// tile using the NPC projection.
func MobHasLineOfSightOfPlayer(g Occlusion, x, y, s int, player grid.Location, r int) bool {
	return HasLineOfSight(g, x, y, player.X, player.Y, s, r, true)
}

// PlayerHasLineOfSightOfMob tests from the player's tile to the nearest tile of the
// mob's footprint.
func PlayerHasLineOfSightOfMob(g Occlusion, x, y int, mob grid.Box, r int) bool {
	p := mob.Clamp(x, y)
	return HasLineOfSight(g, x, y, p.X, p.Y, 1, r, false)
}

// MobHasLineOfSightToMob tests between the nearest tiles of two footprints.
func MobHasLineOfSightToMob(g Occlusion, a, b grid.Box, r int) bool {
	pa := b.Clamp(a.X, a.Y)
	pb := a.Clamp(b.X, b.Y)
	return HasLineOfSight(g, pa.X, pa.Y, pb.X, pb.Y, 1, r, false)
}

// IsWithinMeleeRange reports whether the target tile is in melee reach of the
// attacker's footprint. West and east columns include the diagonal corners; the
// north and south rows do not.
func IsWithinMeleeRange(attacker grid.Box, target grid.Location) bool {
	x, y, s := attacker.X, attacker.Y, attacker.Size
	switch {
	case target.X == x-1 && target.Y <= y+1 && target.Y > y-s-1:
		return true
	case target.Y == y+1 && target.X >= x && target.X < x+s:
		return true
	case target.X == x+s && target.Y <= y+1 && target.Y > y-s-1:
		return true
	case target.Y == y-s && target.X >= x && target.X < x+s:
		return true
	}
	return false
}
