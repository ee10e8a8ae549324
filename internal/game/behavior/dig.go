// Package behavior holds the per-mob strategies injected at spawn time.
package behavior

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/inferno/internal/game/grid"
	"github.com/cory-johannsen/inferno/internal/game/unit"
)

const (
	// DigCooldown is the attack cooldown a mob resurfaces with.
	DigCooldown = 12
	// digChanceThreshold is the cooldown at or below which a blind mob may dig.
	digChanceThreshold = -38
	// digForcedThreshold is the cooldown at or below which a blind mob always digs.
	digForcedThreshold = -50
	digChance          = 0.1
)

// Dig burrows a mob that has gone too long without line of sight and brings it
// back up next to the player.
type Dig struct{}

// OnMovement digs when the mob has no LOS and its cooldown has run down far
// enough. Every eligible tick at or below the chance threshold consumes one
// draw, including ticks past the forced threshold.
func (Dig) OnMovement(w unit.World, u *unit.Unit) {
	if u.HasLOS {
		return
	}
	player := w.Player()
	if player == nil || player.IsDead() {
		return
	}
	if u.AttackDelay > digChanceThreshold {
		return
	}
	roll := w.Source().Float64()
	if roll >= digChance && u.AttackDelay > digForcedThreshold {
		return
	}
	dig(w, u, player)
}

func dig(w unit.World, u, player *unit.Unit) {
	if player.Aggro == u {
		player.SetAggro(nil)
	}
	u.AttackDelay = DigCooldown

	from := u.Location()
	to := surfaceTile(w.Grid(), u, player.Location())
	u.SetLocation(to)
	w.Moved(u)
	w.Record(unit.Event{
		Type:     unit.EventTeleport,
		ActorID:  u.ID,
		Actor:    u.Name,
		TargetID: player.ID,
		Target:   player.Name,
	})
	w.Logger().Debug("mob dug",
		zap.String("mob", u.Name),
		zap.Int("from_x", from.X),
		zap.Int("from_y", from.Y),
		zap.Int("to_x", to.X),
		zap.Int("to_y", to.Y),
	)
}

// surfaceTile picks where a digging mob reappears over p: first with p in its
// north-east corner, then its south-west, then south-east, then north-west.
// When all four are blocked it comes up one tile north-west of p regardless.
func surfaceTile(g *grid.Grid, u *unit.Unit, p grid.Location) grid.Location {
	s := u.Size()
	candidates := []grid.Location{
		{X: p.X - s + 1, Y: p.Y + s - 1},
		{X: p.X, Y: p.Y},
		{X: p.X - s + 1, Y: p.Y},
		{X: p.X, Y: p.Y + s - 1},
	}
	for _, c := range candidates {
		if g.BoxInBounds(grid.Footprint(c, s)) && !g.CollidesWith(c.X, c.Y, s, u) {
			return c
		}
	}
	return grid.Location{X: p.X - 1, Y: p.Y + 1}
}
