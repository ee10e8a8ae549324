package unit

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/inferno/internal/game/combat"
	"github.com/cory-johannsen/inferno/internal/game/los"
	"github.com/cory-johannsen/inferno/internal/game/projectile"
)

// updateLOS recomputes HasLOS against the current aggro using the line-of-sight
// form that matches the pair of unit kinds.
func (u *Unit) updateLOS(w World) {
	if u.Aggro == nil {
		u.HasLOS = false
		return
	}
	g := w.Grid()
	a := u.Aggro
	switch {
	case a.kind == combat.KindPlayer:
		u.HasLOS = los.MobHasLineOfSightOfPlayer(g, u.location.X, u.location.Y, u.size, a.location, u.AttackRange())
	case u.kind == combat.KindPlayer:
		u.HasLOS = los.PlayerHasLineOfSightOfMob(g, u.location.X, u.location.Y, a.Box(), u.AttackRange())
	case a.kind == combat.KindMob:
		u.HasLOS = los.MobHasLineOfSightToMob(g, u.Box(), a.Box(), u.AttackRange())
	default:
		u.HasLOS = false
	}
}

// MovementStep runs the unit's movement phase for one tick.
func (u *Unit) MovementStep(w World) {
	if u.kind == combat.KindPlayer {
		u.playerMovementStep(w)
		return
	}
	u.mobMovementStep(w)
}

// AttackStep runs the unit's attack phase for one tick.
func (u *Unit) AttackStep(w World) {
	if u.kind == combat.KindPlayer {
		u.playerAttackStep(w)
		return
	}
	u.mobAttackStep(w)
}

// ProcessIncomingAttacks advances the unit's inbound projectiles and applies
// every hit that lands this tick.
//
// Postcondition: 0 <= Current.Hitpoint <= Stats.Hitpoint.
func (u *Unit) ProcessIncomingAttacks(w World) {
	u.Incoming.Step(func(p *projectile.Projectile) {
		from, _ := p.From.(*Unit)
		ev := Event{Type: EventLanded, TargetID: u.ID, Target: u.Name, Style: p.Style, Damage: p.Damage}
		if from != nil {
			ev.ActorID = from.ID
			ev.Actor = from.Name
		}
		if p.Damage < 0 {
			u.Heal(-p.Damage)
		} else {
			u.Current.Hitpoint -= p.Damage
		}
		w.Record(ev)
		if u.shouldChangeAggro(from) {
			u.Aggro = from
			if flinch := u.FlinchDelay() + 1; u.AttackDelay < flinch {
				u.AttackDelay = flinch
			}
		}
	})
	u.Current.Hitpoint = max(0, u.Current.Hitpoint)
}

// DetectDeath advances the death state machine and reports whether the unit
// should be removed. A unit whose hitpoints reach zero starts dying and is
// removed DeathAnimationLength ticks later.
func (u *Unit) DetectDeath(w World) bool {
	if u.Dying == -1 {
		if u.Current.Hitpoint > 0 {
			return false
		}
		u.Dying = DeathAnimationLength
		u.Aggro = nil
		u.Destination = nil
		if u.Prayers != nil {
			u.Prayers.DeactivateAll()
		}
		w.Logger().Info("unit died", zap.String("unit", u.Name), zap.String("id", u.ID.String()))
		w.Record(Event{Type: EventDied, ActorID: u.ID, Actor: u.Name})
		return false
	}
	if u.Dying > 0 {
		u.Dying--
	}
	return u.Dying == 0
}
